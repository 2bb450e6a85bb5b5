// Package source defines where the list of monitored log paths comes from.
package source

import (
	"context"

	"github.com/crimson-sun/logrotate/internal/model"
)

// Source loads the ordered list of log paths to rotate.
type Source interface {
	Load(ctx context.Context, cfg Config) ([]model.LogPathEntry, error)
}

// Config holds loader-specific settings.
type Config struct {
	Provider string   // registered source name
	Path     string   // input list file (jsonfile)
	Args     []string // paths given on the command line (args)
}
