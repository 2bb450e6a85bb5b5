package pipeline

import (
	"log/slog"
	"path/filepath"

	"github.com/crimson-sun/logrotate/internal/model"
)

// entryKey is the identity of an entry: its cleaned absolute path.
func entryKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// dedupe drops entries naming a file already listed, keeping the first
// occurrence so the configured order is preserved. Rotating the same family
// twice in one run would shift it two stages.
func dedupe(entries []model.LogPathEntry, logger *slog.Logger) []model.LogPathEntry {
	if len(entries) == 0 {
		return nil
	}

	seen := make(map[string]int, len(entries))
	out := make([]model.LogPathEntry, 0, len(entries))
	for i, e := range entries {
		key := entryKey(e.Path)
		if first, ok := seen[key]; ok {
			logger.Warn("duplicate log path ignored", "path", e.Path, "index", i, "first_index", first)
			continue
		}
		seen[key] = i
		out = append(out, e)
	}
	return out
}
