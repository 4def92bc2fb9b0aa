// Copyright © 2020 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.


package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/will-rowe/sigsub/src/logger"
	"github.com/will-rowe/sigsub/src/misc"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// the command line arguments
var (
	proc      *int    // number of processors to use
	profiling *bool   // create profile for go pprof
	logFile   *string // also write the log to this file
	verbose   *bool   // log every unit as it is processed
)

// the environment variables read after the .env file is loaded
const (
	envProcessors = "SIGSUB_PROCESSORS"
	envOutput     = "SIGSUB_OUTPUT"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "sigsub",
	Short: "subtract the hashes of a query sketch from a batch of sourmash signatures",
	Long: `
#####################################################################################
		SIGSUB: batch subtraction of scaled MinHash sketches
#####################################################################################

 sigsub removes every hash in a query sketch from each signature listed in a siglist.

 The query sketch must match the requested k-mer size, molecule and scaled value exactly.
 Target sketches at a finer resolution are downsampled before subtraction, and each
 subtracted signature is written to <output>/<ksize>/<basename of the target>.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

/*
  A function to add all child commands to the root command and sets flags appropriately
*/
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if code := reportError(os.Stderr, err); code != 0 {
		os.Exit(code)
	}
}

// reportError prints a failed run's error to w and returns the exit code
func reportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(w, err)
	return 1
}

/*
  A function to initalise the command line arguments
*/
func init() {
	proc = RootCmd.PersistentFlags().IntP("processors", "p", 1, "number of processors to use (env: "+envProcessors+")")
	profiling = RootCmd.PersistentFlags().Bool("profiling", false, "create the files needed to profile sigsub using the go tool pprof")
	logFile = RootCmd.PersistentFlags().String("log", "", "filename for log file, in addition to stderr")
	verbose = RootCmd.PersistentFlags().Bool("verbose", false, "log debug messages")
}

// setup loads any .env file, applies the environment defaults and starts the logger
func setup(cmd *cobra.Command, args []string) error {
	envErr := godotenv.Load()
	if err := misc.EnvDefault(cmd.Flags(), "processors", envProcessors); err != nil {
		return err
	}
	level := zapcore.InfoLevel
	if *verbose {
		level = zapcore.DebugLevel
	}
	var paths []string
	if *logFile != "" {
		paths = append(paths, *logFile)
	}
	if err := logger.InitLogger(level, paths...); err != nil {
		return fmt.Errorf("could not start logging: %w", err)
	}
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("could not read .env file", zap.Error(envErr))
	}
	return nil
}
