package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crimson-sun/logrotate/internal/model"
)

// Constructor builds the loader for one input-list provider.
type Constructor func() Source

var providers = map[string]Constructor{}

// Register makes a provider available under name. It panics on an empty name
// or a second registration, both of which are wiring bugs in an init func.
func Register(name string, ctor Constructor) {
	if name == "" || ctor == nil {
		panic("source: Register needs a name and a constructor")
	}
	if _, dup := providers[name]; dup {
		panic("source: provider " + name + " registered twice")
	}
	providers[name] = ctor
}

// Open resolves cfg.Provider and returns a loader for it. An unknown provider
// is a KindConfig error naming the providers that do exist.
func Open(cfg Config) (Source, error) {
	ctor, ok := providers[cfg.Provider]
	if !ok {
		return nil, model.NewError(model.KindConfig, "provider",
			fmt.Errorf("unknown input list provider %q (available: %s)",
				cfg.Provider, strings.Join(Providers(), ", ")))
	}
	return ctor(), nil
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
