package pipeline

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/google/uuid"
	"github.com/will-rowe/sigsub/src/minhash"
	"gopkg.in/vmihailenco/msgpack.v2"
)

// InfoFile is the name of the run record written alongside the subtracted signatures
const InfoFile = "sigsub.info"

// Info stores the runtime information for a subtract run
type Info struct {
	Version    string `msgpack:"version"`
	RunID      string `msgpack:"run_id"`
	NumProc    int    `msgpack:"num_proc"`
	Ksize      uint32 `msgpack:"ksize"`
	Scaled     uint64 `msgpack:"scaled"`
	Molecule   string `msgpack:"molecule"`
	Seed       uint64 `msgpack:"seed"`
	MaxHash    uint64 `msgpack:"max_hash"`
	Query      string `msgpack:"query"`
	QueryName  string `msgpack:"query_name"`
	QueryMD5   string `msgpack:"query_md5"`
	QuerySize  int    `msgpack:"query_size"`
	Siglist    string `msgpack:"siglist"`
	OutDir     string `msgpack:"out_dir"`
	NumTargets int    `msgpack:"num_targets"`
	NumWritten int    `msgpack:"num_written"`
	Removed    int    `msgpack:"removed"`
	Started    int64  `msgpack:"started"`  // unix seconds
	Duration   int64  `msgpack:"duration"` // milliseconds
}

// NewInfo creates the runtime info for a run using the given template, with a fresh run ID
func NewInfo(version string, numProc int, t minhash.Template) *Info {
	return &Info{
		Version:  version,
		RunID:    uuid.New().String(),
		NumProc:  numProc,
		Ksize:    t.Ksize,
		Scaled:   t.Scaled,
		Molecule: t.HashFunction.String(),
		Seed:     t.Seed,
		MaxHash:  t.MaxHash,
		Started:  time.Now().Unix(),
	}
}

// AddQuery records the query that was extracted for the run
func (Info *Info) AddQuery(q *Query) {
	Info.Query = q.Path
	Info.QueryName = q.Name
	Info.QueryMD5 = q.Sketch.MD5Sum()
	Info.QuerySize = q.Sketch.Size()
}

// AddResults tallies the batch results
func (Info *Info) AddResults(results []*UnitResult) {
	Info.NumWritten = len(results)
	Info.Removed = 0
	for _, r := range results {
		Info.Removed += r.Removed()
	}
}

// Dump is a method to dump the runtime info to file
func (Info *Info) Dump(path string) error {
	data, err := msgpack.Marshal(Info)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// Load is a method to load Info from file
func (Info *Info) Load(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	return Info.LoadFromBytes(data)
}

// LoadFromBytes is a method to load Info from bytes
func (Info *Info) LoadFromBytes(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("sigsub run info appears empty")
	}
	return msgpack.Unmarshal(data, Info)
}
