package signature

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"
)

// gzipMagic are the first two bytes of any gzip stream
var gzipMagic = []byte{0x1f, 0x8b}

// Load reads the signatures held in a JSON stream, which can either be a list of signatures or a single signature
func Load(r io.Reader) ([]*Signature, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptySignatureFile
	}
	var sigs []*Signature
	if data[0] == '[' {
		if err := json.Unmarshal(data, &sigs); err != nil {
			return nil, err
		}
	} else {
		sig := new(Signature)
		if err := json.Unmarshal(data, sig); err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	if len(sigs) == 0 {
		return nil, ErrEmptySignatureFile
	}
	for i, sig := range sigs {
		if sig == nil {
			return nil, fmt.Errorf("%w: signature %d is null", ErrMalformedSignature, i)
		}
	}
	return sigs, nil
}

// LoadFile reads the signatures from a file, decompressing it first if it is gzipped
func LoadFile(path string) ([]*Signature, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	br := bufio.NewReader(fh)
	var r io.Reader = br
	if magic, err := br.Peek(2); err == nil && bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	sigs, err := Load(r)
	if err != nil {
		return nil, fmt.Errorf("could not load signatures from %v: %w", path, err)
	}
	return sigs, nil
}

// Save writes the signatures to w as a JSON list
func Save(w io.Writer, sigs []*Signature) error {
	return json.NewEncoder(w).Encode(sigs)
}

// SaveFile writes the signatures to a file, gzipping them if the file name ends in .gz
func SaveFile(path string, sigs []*Signature) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(fh)
	var w io.Writer = bw
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(bw)
		w = gz
	}
	if err := Save(w, sigs); err != nil {
		fh.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			fh.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
