// Package resolver splits a monitored log path into the parts the rotation
// engine needs: parent directory, file name, and family base name.
package resolver

import (
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/logrotate/internal/model"
)

// Resolved is a monitored path broken into its components.
type Resolved struct {
	Path string // cleaned input path
	Dir  string // parent directory
	Name string // file name, e.g. "app.log"
	Base string // file name without its final extension, e.g. "app"
}

var (
	errEmpty    = errors.New("empty path")
	errNoName   = errors.New("path has no file name component")
	errNoParent = errors.New("path has no parent directory")
	errNoBase   = errors.New("file name has no base before its extension")
)

// Resolve derives the parent directory, file name and base name of path.
// Names are returned in NFC form.
func Resolve(path string) (Resolved, error) {
	if strings.TrimSpace(path) == "" {
		return Resolved{}, model.NewError(model.KindMalformedPath, path, errEmpty)
	}
	if strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/") {
		return Resolved{}, model.NewError(model.KindMalformedPath, path, errNoName)
	}

	clean := filepath.Clean(path)
	name := filepath.Base(clean)
	switch name {
	case ".", "..", string(filepath.Separator):
		return Resolved{}, model.NewError(model.KindMalformedPath, path, errNoName)
	}

	dir := filepath.Dir(clean)
	if dir == "" {
		return Resolved{}, model.NewError(model.KindMalformedPath, path, errNoParent)
	}

	name = Normalize(name)
	base := Stem(name)
	if base == "" {
		return Resolved{}, model.NewError(model.KindMalformedPath, path, errNoBase)
	}

	return Resolved{Path: clean, Dir: dir, Name: name, Base: base}, nil
}

// Stem returns name without its final extension. A name with no dot is its
// own stem.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Ext returns the extension of name without the leading dot, and whether a
// dot was present at all.
func Ext(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	return name[i+1:], true
}

// Normalize returns s in Unicode NFC. File systems that store decomposed
// names (HFS+) would otherwise split one family into two.
func Normalize(s string) string {
	return norm.NFC.String(s)
}
