// Package artifact writes generated templates to disk.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	wetwire "github.com/lex00/wetwire-vpc-go"
)

// FileName is the artifact name for an environment, e.g. "uat_vpc".
func FileName(env string) string {
	return env + "_vpc"
}

// Write stores data as <dir>/<env>_vpc and returns the path.
//
// The data goes to a temp file in dir that is synced, closed and renamed
// over the target, so a reader never sees a partial artifact. On failure the
// temp file is removed and the error is a *wetwire.WriteError.
func Write(dir, env string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(env))

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &wetwire.WriteError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+FileName(env)+"-*")
	if err != nil {
		return "", &wetwire.WriteError{Path: path, Err: fmt.Errorf("creating temp file: %w", err)}
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", &wetwire.WriteError{Path: path, Err: fmt.Errorf("%s: %w", step, err)}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail("writing temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", &wetwire.WriteError{Path: path, Err: fmt.Errorf("closing temp file: %w", err)}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return "", &wetwire.WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", &wetwire.WriteError{Path: path, Err: fmt.Errorf("renaming temp file: %w", err)}
	}

	return path, nil
}
