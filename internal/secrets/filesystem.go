package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

func tempPathFor(path string) string {
	return filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
}

// writeTemp writes data to a new, uniquely named file next to path and
// syncs it to disk.
func writeTemp(path string, data []byte, perm os.FileMode) (tmpPath string, err error) {
	tmpPath = tempPathFor(path)

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return tmpPath, nil
}

// replaceFile atomically replaces path with data. Readers see either the old
// file or the new one. On failure the temp file is removed and path is left
// as it was.
func replaceFile(ctx context.Context, path string, data []byte, perm os.FileMode, rename func(oldpath, newpath string) error) error {
	tmpPath, err := writeTemp(path, data, perm)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// createExclusive creates path with data unless it already exists. It
// reports false when another writer got there first.
//
// The contents go to a temp file that is hard-linked into place, so path
// appears complete or not at all. Where the filesystem refuses hard links
// it falls back to an O_EXCL create, and readers may briefly see a partial
// file.
func createExclusive(path string, data []byte, perm os.FileMode, link func(oldname, newname string) error) (bool, error) {
	tmpPath, err := writeTemp(path, data, perm)
	if err != nil {
		return false, err
	}
	defer os.Remove(tmpPath)

	err = link(tmpPath, path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}

	return writeExclusive(path, data, perm)
}

// writeExclusive creates path with O_EXCL and writes data to it. A failed
// write removes the file again.
func writeExclusive(path string, data []byte, perm os.FileMode) (created bool, err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return false, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return false, err
	}
	if err := f.Close(); err != nil {
		return false, err
	}
	return true, nil
}
