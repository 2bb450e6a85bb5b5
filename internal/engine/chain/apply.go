package chain

import (
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/logrotate/internal/model"
)

// Swappable filesystem calls so tests can force each failure mode.
var (
	removeFunc = os.Remove
	createFunc = os.Create
	openFunc   = os.Open
	lstatFunc  = os.Lstat
)

// Apply executes a planned action and returns it with Bytes filled in for
// copies. The copy is not atomic: an interrupted copy can leave a partially
// written destination.
func Apply(a model.Action) (model.Action, error) {
	switch a.Kind {
	case model.ActionDelete:
		if err := removeFunc(a.Source); err != nil {
			return a, model.NewError(model.KindDeletion, a.Source, err)
		}
		return a, nil

	case model.ActionCopy:
		n, err := copyFile(a.Source, a.Destination)
		a.Bytes = n
		if err != nil {
			return a, model.NewError(model.KindCopy, a.Source, err)
		}
		if a.Recreate {
			f, err := createFunc(a.Source)
			if err != nil {
				return a, model.NewError(model.KindRecreate, a.Source, err)
			}
			if err := f.Close(); err != nil {
				return a, model.NewError(model.KindRecreate, a.Source, err)
			}
		}
		return a, nil

	default:
		return a, fmt.Errorf("chain: unknown action %q for %s", a.Kind, a.Source)
	}
}

// copyFile copies src over dst, truncating dst and giving it src's mode bits.
func copyFile(src, dst string) (int64, error) {
	if fi, err := lstatFunc(dst); err == nil && !fi.Mode().IsRegular() {
		return 0, fmt.Errorf("destination %q is not a regular file (%s)", dst, fi.Mode().Type())
	}

	in, err := openFunc(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return n, err
	}
	return n, nil
}
