package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/will-rowe/sigsub/src/pipeline"
)

var (
	queryFile = "../src/pipeline/test-data/query.sig"
	sampleB   = "../src/pipeline/test-data/sample-b.sig"
	sampleC   = "../src/pipeline/test-data/sample-c.sig"
)

// execute is a helper function to run the root command with some arguments
func execute(t *testing.T, args ...string) (string, error) {
	out := new(bytes.Buffer)
	RootCmd.SetOut(out)
	RootCmd.SetArgs(args)
	err := RootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// siglist is a helper function to write a siglist into a temporary directory
func siglist(t *testing.T, paths ...string) string {
	file := filepath.Join(t.TempDir(), "siglist.txt")
	if err := os.WriteFile(file, []byte(strings.Join(paths, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestSubtractCmd(t *testing.T) {
	out := t.TempDir()
	db := filepath.Join(out, "manifest.sqlite")
	tsv := filepath.Join(out, "removed.tsv")
	_, err := execute(t, "subtract", queryFile, siglist(t, queryFile, sampleB),
		"-k", "57", "-s", "100", "-e", "protein", "-o", out, "-p", "2",
		"--manifest", db, "--tsv", tsv, "--archive")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range []string{
		filepath.Join(out, "57", "query.sig"),
		filepath.Join(out, "57", "sample-b.sig"),
		filepath.Join(out, "57", pipeline.InfoFile),
		filepath.Join(out, "57.tar.gz"),
		db,
		tsv,
	} {
		if _, err := os.Stat(file); err != nil {
			t.Fatalf("subtract did not write %v: %v", file, err)
		}
	}
	table, err := os.ReadFile(tsv)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(table)), "\n"); len(lines) != 3 {
		t.Fatalf("expected a header and 2 rows, got %q", lines)
	}
}

func TestSubtractCmdIncompatible(t *testing.T) {
	_, err := execute(t, "subtract", queryFile, siglist(t, sampleC),
		"-k", "42", "-s", "10", "-e", "dayhoff", "-o", t.TempDir(), "-p", "1",
		"--manifest", "", "--tsv", "", "--archive=false")
	if err == nil || !strings.Contains(err.Error(), "unable to load a sketch from") {
		t.Fatalf("expected the incompatible target to be reported, got %v", err)
	}
	stderr := new(bytes.Buffer)
	if code := reportError(stderr, err); code != 1 {
		t.Fatalf("a failed run should exit with 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), `unable to load a sketch from "`+sampleC+`"`) {
		t.Fatalf("the failure should name the target: %q", stderr.String())
	}
	if code := reportError(stderr, nil); code != 0 {
		t.Fatalf("a successful run should exit with 0, got %d", code)
	}
}

func TestSubtractCmdParams(t *testing.T) {
	if _, err := execute(t, "subtract", queryFile, siglist(t, sampleB), "-e", "DNA", "-o", t.TempDir()); err == nil {
		t.Fatal("should reject the DNA encoding")
	}
	if _, err := execute(t, "subtract", queryFile, filepath.Join(t.TempDir(), "missing.txt"), "-e", "protein", "-o", t.TempDir()); err == nil {
		t.Fatal("should reject a missing siglist")
	}
}

func TestDescribeCmd(t *testing.T) {
	out, err := execute(t, "describe", queryFile)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected a header and one line per sketch, got %q", out)
	}
	if !strings.Contains(lines[1], "query-genome") || !strings.Contains(lines[1], "protein") || !strings.Contains(lines[2], "dayhoff") {
		t.Fatalf("sketches not described: %q", out)
	}
}
