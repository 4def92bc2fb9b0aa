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
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/will-rowe/sigsub/src/logger"
	"github.com/will-rowe/sigsub/src/manifest"
	"github.com/will-rowe/sigsub/src/minhash"
	"github.com/will-rowe/sigsub/src/misc"
	"github.com/will-rowe/sigsub/src/pipeline"
	"github.com/will-rowe/sigsub/src/reporting"
	"github.com/will-rowe/sigsub/src/version"
	"go.uber.org/zap"
)

// the command line arguments
var (
	kSize        *uint   // size of k-mer
	scaled       *uint64 // scaled value of the sketches to subtract
	encoding     *string // protein, hp or dayhoff
	outDir       *string // base directory for the subtracted signatures
	manifestFile *string // sqlite manifest of the outputs
	reportFile   *string // retained fraction plot
	tsvFile      *string // per-target table
	archive      *bool   // tarball the outputs once written
	progress     *uint64 // log every n targets
)

// the subtract command (used by cobra)
var subtractCmd = &cobra.Command{
	Use:   "subtract <query> <siglist>",
	Short: "Subtract the hashes of a query sketch from every signature in a siglist",
	Long: `Subtract the hashes of a query sketch from every signature in a siglist.

The query signature file must hold a sketch that exactly matches the requested k-mer size,
encoding and scaled value. Each target signature is downsampled to the requested scaled
value if needed, has the query hashes removed and is written to <output>/<ksize>/.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return subtractParamCheck(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubtract(cmd.Context(), args[0], args[1])
	},
}

// a function to initialise the command line arguments
func init() {
	kSize = subtractCmd.Flags().UintP("ksize", "k", 31, "k-mer size of the sketches to subtract")
	scaled = subtractCmd.Flags().Uint64P("scaled", "s", 10, "scaled value of the sketches to subtract")
	encoding = subtractCmd.Flags().StringP("encoding", "e", "protein", "molecule encoding of the sketches (protein/hp/dayhoff)")
	outDir = subtractCmd.Flags().StringP("output", "o", "outputs", "base directory for the subtracted signatures (env: "+envOutput+")")
	manifestFile = subtractCmd.Flags().String("manifest", "", "record the subtracted signatures in this sqlite manifest")
	reportFile = subtractCmd.Flags().String("report", "", "plot the fraction of hashes retained per target to this file (.png/.svg/.pdf)")
	tsvFile = subtractCmd.Flags().String("tsv", "", "write a table of hashes removed per target to this file")
	archive = subtractCmd.Flags().Bool("archive", false, "bundle the subtracted signatures into a .tar.gz once written")
	progress = subtractCmd.Flags().Uint64("progress", pipeline.DefaultProgressStride, "log progress every n targets")
	RootCmd.AddCommand(subtractCmd)
}

// subtractParamCheck is a function to check user supplied parameters
func subtractParamCheck(cmd *cobra.Command, args []string) error {
	if err := misc.EnvDefault(cmd.Flags(), "output", envOutput); err != nil {
		return err
	}
	for _, file := range args {
		if err := misc.CheckFile(file); err != nil {
			return err
		}
	}
	if *kSize == 0 || *kSize > math.MaxUint32 {
		return fmt.Errorf("k-mer size must be between 1 and %d", uint32(math.MaxUint32))
	}
	if _, err := minhash.ParseEncoding(*encoding); err != nil {
		return err
	}
	if *reportFile != "" {
		switch filepath.Ext(*reportFile) {
		case ".png", ".svg", ".pdf", ".jpg", ".jpeg", ".tif", ".tiff", ".eps":
		default:
			return fmt.Errorf("unsupported report format: %v", *reportFile)
		}
	}
	if *progress == 0 {
		return fmt.Errorf("progress interval must be at least 1")
	}
	*proc = misc.NumProc(*proc)
	return nil
}

/*
  The main function for the subtract command
*/
func runSubtract(ctx context.Context, queryFile, siglist string) error {
	// set up profiling
	if *profiling {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	startTime := time.Now()
	logger.Info(fmt.Sprintf("i am sigsub (version %s)", version.GetVersion()))
	logger.Info("starting the subtract subcommand")

	// the encoding has been checked already
	hf, _ := minhash.ParseEncoding(*encoding)
	tmpl := minhash.NewTemplate(uint32(*kSize), *scaled, hf)
	logger.Info("checking parameters...")
	logger.Info("\tprocessors", zap.Int("n", *proc))
	logger.Info("\tk-mer size", zap.Uint32("k", tmpl.Ksize))
	logger.Info("\tencoding", zap.Stringer("molecule", tmpl.HashFunction))
	logger.Info("\tscaled", zap.Uint64("scaled", tmpl.Scaled), zap.Uint64("max_hash", tmpl.MaxHash))

	///////////////////////////////////////////////////////////////////////////////////////
	logger.Info("loading query...")
	query, err := pipeline.ExtractQuery(queryFile, tmpl)
	if err != nil {
		return err
	}
	logger.Info("\tloaded query sketch", zap.String("name", query.Name), zap.Int("hashes", len(query.Hashes)))
	targets, err := pipeline.ReadSiglist(siglist)
	if err != nil {
		return err
	}
	logger.Info("\tloaded sig paths from siglist", zap.Int("count", len(targets)))
	kDir, err := pipeline.PrepareOutDir(*outDir, tmpl.Ksize)
	if err != nil {
		return err
	}
	logger.Info("\toutput directory", zap.String("path", kDir))

	///////////////////////////////////////////////////////////////////////////////////////
	logger.Info("subtracting query from targets...")
	info := pipeline.NewInfo(version.GetVersion(), *proc, tmpl)
	info.AddQuery(query)
	info.Siglist = siglist
	info.OutDir = kDir
	info.NumTargets = len(targets)
	cfg := pipeline.Config{
		Template:       tmpl,
		OutDir:         kDir,
		NumProc:        *proc,
		ProgressStride: *progress,
	}
	results, err := pipeline.Run(ctx, cfg, query.Hashes, targets)
	if err != nil {
		logger.Error("batch stopped early", zap.Int("written", len(results)), zap.Int("targets", len(targets)))
		return err
	}
	summary := reporting.Summarise(results)
	logger.Info("\tsubtracted signatures written", zap.Int("count", summary.Targets))
	logger.Info("\thashes removed", zap.Int("count", summary.Removed()), zap.Int("retained", summary.HashesAfter))
	logger.Info("\ttargets downsampled", zap.Int("count", summary.Downsampled))
	logger.Info("\ttargets emptied", zap.Int("count", summary.Emptied))

	///////////////////////////////////////////////////////////////////////////////////////
	logger.Info("recording run...")
	info.AddResults(results)
	info.Duration = time.Since(startTime).Milliseconds()
	infoFile := filepath.Join(kDir, pipeline.InfoFile)
	if err := info.Dump(infoFile); err != nil {
		return err
	}
	logger.Info("\tsaved runtime info", zap.String("path", infoFile), zap.String("run", info.RunID))
	if *manifestFile != "" {
		if err := writeManifest(ctx, info.RunID, tmpl, results); err != nil {
			return err
		}
		logger.Info("\tsaved manifest", zap.String("path", *manifestFile))
	}
	if *tsvFile != "" {
		fh, err := os.Create(*tsvFile)
		if err != nil {
			return err
		}
		if err := reporting.WriteTSV(fh, results); err != nil {
			fh.Close()
			return err
		}
		if err := fh.Close(); err != nil {
			return err
		}
		logger.Info("\tsaved table", zap.String("path", *tsvFile))
	}
	if *reportFile != "" {
		if len(results) == 0 {
			logger.Warn("\tno targets to plot")
		} else {
			if err := reporting.PlotRetained(results, *reportFile); err != nil {
				return err
			}
			logger.Info("\tsaved plot", zap.String("path", *reportFile))
		}
	}
	if *archive {
		tarball, err := pipeline.ArchiveOutputs(kDir)
		if err != nil {
			return err
		}
		logger.Info("\tsaved archive", zap.String("path", tarball))
	}
	logger.Debug(misc.PrintMemUsage())
	logger.Info("finished", zap.Duration("elapsed", time.Since(startTime)))
	return nil
}

// writeManifest records the results of a run in the manifest database
func writeManifest(ctx context.Context, runID string, tmpl minhash.Template, results []*pipeline.UnitResult) error {
	m, err := manifest.Open(ctx, *manifestFile)
	if err != nil {
		return err
	}
	if err := m.Insert(ctx, manifest.RowsFromResults(runID, tmpl, results)); err != nil {
		m.Close()
		return err
	}
	return m.Close()
}
