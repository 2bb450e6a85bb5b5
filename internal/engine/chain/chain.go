// Package chain implements the rotation state machine: for one file in a log
// family it decides the next stage from the file's extension and performs the
// matching filesystem transition.
package chain

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/crimson-sun/logrotate/internal/engine/resolver"
	"github.com/crimson-sun/logrotate/internal/model"
)

// DefaultDepth keeps backups .0 through .9.
const DefaultDepth = 10

// MaxDepth bounds the configurable number of backups.
const MaxDepth = 100

var errNoExtension = errors.New("file name has no extension")

// Chain is a rotation chain with Depth numbered backups (.0 .. .Depth-1).
type Chain struct {
	Depth int
}

// New creates a Chain. Depths outside [1, MaxDepth] fall back to DefaultDepth.
func New(depth int) *Chain {
	if depth < 1 || depth > MaxDepth {
		depth = DefaultDepth
	}
	return &Chain{Depth: depth}
}

// Terminal returns the oldest stage kept by the chain.
func (c *Chain) Terminal() model.Stage {
	return model.NumberedStage(c.Depth - 1)
}

// Stage determines the current stage of the file at path.
func (c *Chain) Stage(path string) (model.Stage, error) {
	ext, ok := resolver.Ext(filepath.Base(path))
	if !ok {
		return model.Stage{}, model.NewError(model.KindMissingExtension, path, errNoExtension)
	}
	st, ok := model.ParseStage(ext)
	if !ok {
		return model.Stage{}, model.NewError(model.KindUnknownExtension, path,
			fmt.Errorf("extension %q is not one of log, 0..%d", ext, c.Depth-1))
	}
	return st, nil
}

// Plan computes the transition for the file at path, a member of the family
// base in dir. Files at or past the terminal stage are deleted; every other
// file is copied one stage forward, and the active log is recreated empty.
func (c *Chain) Plan(path, dir, base string) (model.Action, error) {
	st, err := c.Stage(path)
	if err != nil {
		return model.Action{}, err
	}

	if !st.Head && st.Index >= c.Depth-1 {
		return model.Action{Kind: model.ActionDelete, Source: path, Stage: st.Ext()}, nil
	}

	next := st.Next()
	return model.Action{
		Kind:        model.ActionCopy,
		Source:      path,
		Destination: filepath.Join(dir, base+"."+next.Ext()),
		Stage:       st.Ext(),
		Recreate:    st.Head,
	}, nil
}
