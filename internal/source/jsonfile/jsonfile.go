// Package jsonfile loads monitored log paths from a JSON list:
//
//	[
//	  {"path": "/var/log/app/app.log"},
//	  // comments are accepted
//	  {"path": "/var/log/usep/usep.log"}
//	]
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/muhammadmuzzammil1998/jsonc"

	"github.com/crimson-sun/logrotate/internal/model"
	"github.com/crimson-sun/logrotate/internal/source"
)

// Name is the registry name of this source.
const Name = "jsonfile"

func init() {
	source.Register(Name, func() source.Source { return New() })
}

// Source reads a JSON (or JSONC) array of {"path": ...} records.
type Source struct{}

// New creates a jsonfile Source.
func New() *Source { return &Source{} }

// Load reads and validates the list at cfg.Path. A non-array document, a
// record that is not an object, or a missing or non-string path is an error
// naming the record index.
func (s *Source) Load(_ context.Context, cfg source.Config) ([]model.LogPathEntry, error) {
	if cfg.Path == "" {
		return nil, model.NewError(model.KindSource, cfg.Path, errors.New("no input list file configured"))
	}
	b, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, model.NewError(model.KindSource, cfg.Path, err)
	}
	entries, err := Parse(b)
	if err != nil {
		return nil, model.NewError(model.KindSource, cfg.Path, err)
	}
	return entries, nil
}

// Parse decodes an input list document.
func Parse(data []byte) ([]model.LogPathEntry, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &records); err != nil {
		return nil, fmt.Errorf("input list must be a JSON array: %w", err)
	}
	if records == nil {
		return nil, errors.New("input list must be a JSON array, got null")
	}

	entries := make([]model.LogPathEntry, 0, len(records))
	for i, raw := range records {
		var rec map[string]json.RawMessage
		if err := json.Unmarshal(raw, &rec); err != nil || rec == nil {
			return nil, fmt.Errorf("record %d: not an object", i)
		}
		rawPath, ok := rec["path"]
		if !ok {
			return nil, fmt.Errorf("record %d: missing \"path\"", i)
		}
		var path string
		if err := json.Unmarshal(rawPath, &path); err != nil {
			return nil, fmt.Errorf("record %d: \"path\" must be a string", i)
		}
		if path == "" {
			return nil, fmt.Errorf("record %d: \"path\" is empty", i)
		}
		entries = append(entries, model.LogPathEntry{Path: path, Source: Name})
	}
	return entries, nil
}
