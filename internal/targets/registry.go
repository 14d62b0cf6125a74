// Package targets holds the static catalog of scrape sources.
package targets

import (
	"errors"
	"sort"

	"merchfinder/internal/domain"
)

// ErrNotFound is returned by FindByID for unknown target IDs.
var ErrNotFound = errors.New("target not found")

// Registry provides read-only access to the configured targets.
type Registry struct {
	targets []domain.Target
}

// NewRegistry builds a registry over the static catalog.
func NewRegistry() *Registry {
	return newRegistry(catalog)
}

func newRegistry(ts []domain.Target) *Registry {
	owned := make([]domain.Target, len(ts))
	copy(owned, ts)
	return &Registry{targets: owned}
}

// ListEnabled returns the enabled targets sorted by priority, highest first.
func (r *Registry) ListEnabled() []domain.Target {
	out := make([]domain.Target, 0, len(r.targets))
	for _, t := range r.targets {
		if t.Enabled {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// All returns every configured target, enabled or not.
func (r *Registry) All() []domain.Target {
	out := make([]domain.Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// FindByID looks up a target by its identifier.
func (r *Registry) FindByID(id string) (domain.Target, error) {
	for _, t := range r.targets {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Target{}, ErrNotFound
}
