// Package atomicio implements the Atomic Writer (spec §4.6): temp-file +
// rename with optional backup, leaving the original untouched on any error.
// WriteFile writes data as given: it does not convert line endings or adjust
// the final newline (FinalNewlinePolicy is a separate helper for the latter).
package atomicio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteOptions controls backup behavior for WriteFile.
type WriteOptions struct {
	// Backup, when true, copies the original file to "<name>.bak" before
	// the rename, overwriting any previous backup.
	Backup bool
}

// WriteFile atomically replaces path's contents with data: it writes to a
// sibling temp file in path's directory, fsyncs it, optionally snapshots
// the original to "<path>.bak", then renames the temp file over path. On
// any error the original is left untouched and the temp file is removed.
func WriteFile(path string, data []byte, perm os.FileMode, opts WriteOptions) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("atomicio: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("atomicio: write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("atomicio: fsync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("atomicio: close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("atomicio: chmod temp file: %w", err)
	}

	if opts.Backup {
		if err = backupFile(path); err != nil {
			return fmt.Errorf("atomicio: write backup: %w", err)
		}
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("atomicio: rename temp file over original: %w", err)
	}
	return nil
}

func backupFile(path string) error {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil // nothing to back up yet (new file)
	}
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Sync()
}

// FinalNewlinePolicy returns newData adjusted so that it ends with a newline
// exactly when the original did (spec §4.6).
func FinalNewlinePolicy(originalEndedWithNewline bool, newData []byte) []byte {
	endsWithNL := len(newData) > 0 && newData[len(newData)-1] == '\n'
	switch {
	case originalEndedWithNewline && !endsWithNL:
		return append(newData, '\n')
	case !originalEndedWithNewline && endsWithNL:
		n := len(newData)
		for n > 0 && newData[n-1] == '\n' {
			n--
		}
		return newData[:n]
	default:
		return newData
	}
}
