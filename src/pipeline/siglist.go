package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// maxLineLength caps the length of a single path in a siglist
const maxLineLength = 1024 * 1024

// ReadSiglist returns every line of the siglist as a target path. Lines are not trimmed or skipped.
func ReadSiglist(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	var paths []string
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	for scanner.Scan() {
		paths = append(paths, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read siglist %v: %w", path, err)
	}
	return paths, nil
}

// checkOutputNames makes sure that no two targets would be written to the same output file
func checkOutputNames(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		base := filepath.Base(path)
		if prev, ok := seen[base]; ok {
			return fmt.Errorf("targets %q and %q would both be written to %q", prev, path, base)
		}
		seen[base] = path
	}
	return nil
}
