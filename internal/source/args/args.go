// Package args turns paths given on the command line into log path entries.
package args

import (
	"context"
	"errors"
	"strings"

	"github.com/crimson-sun/logrotate/internal/model"
	"github.com/crimson-sun/logrotate/internal/source"
)

// Name is the registry name of this source.
const Name = "args"

func init() {
	source.Register(Name, func() source.Source { return Source{} })
}

// Source returns cfg.Args in order.
type Source struct{}

func (Source) Load(_ context.Context, cfg source.Config) ([]model.LogPathEntry, error) {
	entries := make([]model.LogPathEntry, 0, len(cfg.Args))
	for _, a := range cfg.Args {
		if strings.TrimSpace(a) == "" {
			return nil, model.NewError(model.KindSource, a, errors.New("empty path argument"))
		}
		entries = append(entries, model.LogPathEntry{Path: a, Source: Name})
	}
	return entries, nil
}
