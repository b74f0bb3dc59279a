// Package archive stores zstd-compressed diff snapshots, one per run.
package archive

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
)

const suffix = ".diff.zst"

// Archive compresses diff into archiveDir/{run-id}.diff.zst.
// Returns the archive path.
func Archive(diff, archiveDir, runID string) (string, error) {
	if runID == "" || strings.ContainsAny(runID, `/\`) {
		return "", errors.Newf("invalid run id %q", runID)
	}

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", errors.Wrap(err, "create archive dir")
	}

	destPath := ArchivePath(runID, archiveDir)
	tmp, err := os.CreateTemp(archiveDir, "."+runID+"-*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "create archive")
	}
	defer os.Remove(tmp.Name())

	encoder, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "create zstd encoder")
	}

	if _, err := io.Copy(encoder, strings.NewReader(diff)); err != nil {
		encoder.Close()
		tmp.Close()
		return "", errors.Wrap(err, "compress")
	}

	if err := encoder.Close(); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "finalize compression")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "close archive")
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return "", errors.Wrap(err, "move archive into place")
	}
	return destPath, nil
}

// Load decompresses the archive at archivePath and returns the diff text.
func Load(archivePath string) (string, error) {
	src, err := os.Open(archivePath)
	if err != nil {
		return "", errors.Wrap(err, "open archive")
	}
	defer src.Close()

	decoder, err := zstd.NewReader(src)
	if err != nil {
		return "", errors.Wrap(err, "create zstd decoder")
	}
	defer decoder.Close()

	var b strings.Builder
	if _, err := io.Copy(&b, decoder); err != nil {
		return "", errors.Wrapf(err, "decompress %s", filepath.Base(archivePath))
	}
	return b.String(), nil
}

// IsArchived returns true if an archive file exists for the given run ID.
func IsArchived(runID, archiveDir string) bool {
	_, err := os.Stat(ArchivePath(runID, archiveDir))
	return err == nil
}

// ArchivePath returns the deterministic archive path for a run ID.
func ArchivePath(runID, archiveDir string) string {
	return filepath.Join(archiveDir, runID+suffix)
}

// RunID recovers the run ID from an archive path, or "".
func RunID(archivePath string) string {
	base := filepath.Base(archivePath)
	if strings.HasSuffix(base, suffix) {
		return strings.TrimSuffix(base, suffix)
	}
	return ""
}
