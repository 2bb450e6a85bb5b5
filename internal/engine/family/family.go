// Package family finds the files that make up one log family: the active
// log and its numbered backups, all sharing a base name in one directory.
//
// Membership is decided in two steps. A loose glob, *{base}*, selects every
// name containing the base token. Only names whose stem equals the base are
// then kept, so usep-webapp.log never joins the usep family.
package family

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/crimson-sun/logrotate/internal/engine/resolver"
	"github.com/crimson-sun/logrotate/internal/model"
)

// readDirFunc is swapped in tests to simulate unreadable directories.
var readDirFunc = os.ReadDir

// Pattern returns the glob used to select names containing base.
func Pattern(base string) string {
	return "*" + escape(base) + "*"
}

// Discover returns the members of the family named base in dir, ordered so
// that every file is processed before the file that will overwrite it:
// highest stage first, the active log last. Names whose extension is not a
// known stage sort first so a bad family fails before anything is mutated.
func Discover(dir, base string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := readDirFunc(dir)
	if err != nil {
		return nil, model.NewError(model.KindPattern, dir, err)
	}

	pattern := Pattern(resolver.Normalize(base))
	logger.Debug("scanning directory", "dir", dir, "pattern", pattern)

	members := make([]member, 0, 12)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := resolver.Normalize(e.Name())
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, model.NewError(model.KindPattern, filepath.Join(dir, pattern), err)
		}
		if !ok {
			continue
		}
		if resolver.Stem(name) != base {
			logger.Debug("skipping name from another family", "name", e.Name(), "base", base)
			continue
		}
		members = append(members, member{path: filepath.Join(dir, e.Name()), rank: rank(name)})
	}

	sort.Slice(members, func(i, j int) bool {
		if members[i].rank != members[j].rank {
			return members[i].rank > members[j].rank
		}
		return members[i].path > members[j].path
	})

	paths := make([]string, len(members))
	for i, m := range members {
		paths[i] = m.path
	}
	logger.Debug("family discovered", "base", base, "files", len(paths))
	return paths, nil
}

type member struct {
	path string
	rank int
}

// rank orders names by stage age. Unknown or missing extensions get the
// highest rank.
func rank(name string) int {
	ext, ok := resolver.Ext(name)
	if !ok {
		return math.MaxInt
	}
	st, ok := model.ParseStage(ext)
	if !ok {
		return math.MaxInt
	}
	return st.Rank()
}

// escape quotes glob metacharacters so base is matched literally.
func escape(base string) string {
	var b strings.Builder
	for _, r := range base {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// String renders a discovered family for diagnostics.
func String(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return fmt.Sprintf("[%s]", strings.Join(names, " "))
}
