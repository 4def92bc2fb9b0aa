package misc

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"
)

func TestEnvDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	procs := flags.Int("processors", 1, "")
	out := flags.String("output", "outputs", "")
	t.Setenv("TEST_PROCESSORS", "4")
	t.Setenv("TEST_OUTPUT", "elsewhere")
	if err := flags.Parse([]string{"--output", "given"}); err != nil {
		t.Fatal(err)
	}
	if err := EnvDefault(flags, "processors", "TEST_PROCESSORS"); err != nil || *procs != 4 {
		t.Fatalf("environment should set an unset flag: %v %d", err, *procs)
	}
	if err := EnvDefault(flags, "output", "TEST_OUTPUT"); err != nil || *out != "given" {
		t.Fatalf("environment should not override the command line: %v %v", err, *out)
	}
	t.Setenv("TEST_PROCESSORS", "lots")
	if err := EnvDefault(flags, "processors", "TEST_PROCESSORS"); err == nil {
		t.Fatal("should fault on a value the flag can't parse")
	}
	if err := EnvDefault(flags, "missing", "TEST_OUTPUT"); err == nil {
		t.Fatal("should fault on an unknown flag")
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	if err := CheckFile(dir); err == nil {
		t.Fatal("should fault on a directory")
	}
	if err := CheckFile(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("should fault on a missing file")
	}
	file := filepath.Join(dir, "siglist.txt")
	if err := os.WriteFile(file, []byte("a.sig\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := CheckFile(file); err != nil {
		t.Fatal(err)
	}
}

func TestNumProc(t *testing.T) {
	if NumProc(0) != runtime.NumCPU() || NumProc(-1) != runtime.NumCPU() || NumProc(runtime.NumCPU()+1) != runtime.NumCPU() {
		t.Fatal("out of range processor requests should use all CPUs")
	}
	if NumProc(1) != 1 {
		t.Fatal("a valid processor request should be kept")
	}
}
