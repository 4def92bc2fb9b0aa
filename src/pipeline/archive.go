package pipeline

import (
	"path/filepath"

	"github.com/mholt/archiver"
)

// ArchiveOutputs bundles the output directory into a gzipped tarball next to it, replacing any earlier tarball
func ArchiveOutputs(outDir string) (string, error) {
	outDir = filepath.Clean(outDir)
	tarball := outDir + ".tar.gz"
	tgz := archiver.NewTarGz()
	tgz.OverwriteExisting = true
	if err := tgz.Archive([]string{outDir}, tarball); err != nil {
		return "", err
	}
	return tarball, nil
}
