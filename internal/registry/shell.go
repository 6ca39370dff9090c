package registry

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/vkshell/vkshell/internal/store"
)

// Store keys of the shell state
const (
	KeyRecents   = "shell:recents"
	KeyFavorites = "shell:favorites"
	KeyDark      = "shell:dark"
)

// RecentLimit is the number of recently opened apps kept
const RecentLimit = 10

// Shell opens apps from a registry and remembers recents and favorites
type Shell struct {
	reg    *Registry
	store  store.Store
	logger *zap.Logger
}

// NewShell returns a shell persisting its state in st
func NewShell(reg *Registry, st store.Store, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{reg: reg, store: st, logger: logger}
}

// Registry returns the app table
func (s *Shell) Registry() *Registry { return s.reg }

// Launch opens the app, records it as most recent and runs it
func (s *Shell) Launch(ctx context.Context, id string) error {
	t, err := s.reg.Open(id)
	if err != nil {
		return err
	}
	if err := s.touchRecent(id); err != nil {
		s.logger.Warn("Failed to update recents", zap.String("id", id), zap.Error(err))
	}
	s.logger.Debug("Launching app", zap.String("id", id))
	return t.Run(ctx)
}

// Recents returns app ids, most recent first. Unreadable state is treated
// as empty.
func (s *Shell) Recents() []string {
	var ids []string
	if _, err := store.GetJSON(s.store, KeyRecents, &ids); err != nil {
		s.logger.Warn("Ignoring stored recents", zap.Error(err))
		return nil
	}
	return ids
}

func (s *Shell) touchRecent(id string) error {
	next := []string{id}
	for _, r := range s.Recents() {
		if r != id {
			next = append(next, r)
		}
	}
	if len(next) > RecentLimit {
		next = next[:RecentLimit]
	}
	return store.SetJSON(s.store, KeyRecents, next)
}

func (s *Shell) favorites() map[string]bool {
	fav := map[string]bool{}
	if _, err := store.GetJSON(s.store, KeyFavorites, &fav); err != nil {
		s.logger.Warn("Ignoring stored favorites", zap.Error(err))
		return map[string]bool{}
	}
	return fav
}

// Favorites returns the favorite app ids sorted
func (s *Shell) Favorites() []string {
	var ids []string
	for id, on := range s.favorites() {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// IsFavorite reports whether the app is a favorite
func (s *Shell) IsFavorite(id string) bool {
	return s.favorites()[id]
}

// ToggleFavorite flips the favorite mark and returns the new state
func (s *Shell) ToggleFavorite(id string) (bool, error) {
	fav := s.favorites()
	if fav[id] {
		delete(fav, id)
	} else {
		fav[id] = true
	}
	if err := store.SetJSON(s.store, KeyFavorites, fav); err != nil {
		return false, err
	}
	return fav[id], nil
}

// Dark reports the stored theme preference
func (s *Shell) Dark() bool {
	var dark bool
	if _, err := store.GetJSON(s.store, KeyDark, &dark); err != nil {
		return false
	}
	return dark
}

// SetDark stores the theme preference
func (s *Shell) SetDark(dark bool) error {
	return store.SetJSON(s.store, KeyDark, dark)
}
