// contains some misc helper functions etc. for sigsub
package misc

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/pflag"
)

// EnvDefault sets a flag from an environment variable, unless the flag was given on the command line
func EnvDefault(flags *pflag.FlagSet, name, env string) error {
	flag := flags.Lookup(name)
	if flag == nil {
		return fmt.Errorf("no flag named `%v`", name)
	}
	v, ok := os.LookupEnv(env)
	if !ok || v == "" || flag.Changed {
		return nil
	}
	if err := flag.Value.Set(v); err != nil {
		return fmt.Errorf("could not use %v=%q for `%v`: %w", env, v, name, err)
	}
	return nil
}

// CheckFile is a function to check that a file can be read
func CheckFile(file string) error {
	info, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %v", file)
		}
		return fmt.Errorf("can't access file (check permissions): %v", file)
	}
	if info.IsDir() {
		return fmt.Errorf("expected a file but found a directory: %v", file)
	}
	return nil
}

// NumProc clamps a requested number of processors to what the machine has, treating <= 0 as all of them
func NumProc(requested int) int {
	if requested <= 0 || requested > runtime.NumCPU() {
		return runtime.NumCPU()
	}
	return requested
}

// PrintMemUsage outputs the current, total and OS memory being used. As well as the number
// of garage collection cycles completed.
// lifted from: https://golangcode.com/print-the-current-memory-usage/
func PrintMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("[ Heap Allocations: %vMb, OS Memory: %vMb, Num. GC cycles: %v ]", bToMb(m.HeapAlloc), bToMb(m.Sys), m.NumGC)
}

// bToMb converts bytes to megabytes
func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
