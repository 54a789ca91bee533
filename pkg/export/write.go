package export

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/lasercard/pkg/errors"
)

// WriteFile writes data to path atomically: the bytes go to a temporary file
// in the same directory, which is synced and then renamed over path. On
// failure path is left untouched and the temporary file is removed.
func WriteFile(path string, data []byte) (err error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create temp file in %s", dir)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "sync %s", path)
	}
	if err = tmp.Chmod(0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "chmod %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "rename into %s", path)
	}
	return nil
}
