package settings

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/storage"
)

// Key is the storage key of the persisted settings bundle.
const Key = "settings"

type Listener func(old, next model.Settings)

// Store owns the current settings. Timer code reads snapshots and subscribes
// to changes; only the settings form and palette mutate it.
type Store struct {
	mu        sync.RWMutex
	current   model.Settings
	kv        storage.KVStore
	listeners map[int]Listener
	nextID    int
	logger    *slog.Logger
}

// Load reads the persisted bundle. Missing or malformed values fall back to
// defaults, and invalid fields are replaced one by one.
func Load(ctx context.Context, kv storage.KVStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		current:   model.DefaultSettings(),
		kv:        kv,
		listeners: make(map[int]Listener),
		logger:    logger,
	}
	if kv == nil {
		return s
	}

	loaded := model.DefaultSettings()
	err := storage.LoadJSON(ctx, kv, Key, &loaded)
	switch {
	case err == nil:
		normalized, fixed := loaded.Normalize()
		if len(fixed) > 0 {
			logger.Warn("stored settings had invalid fields, using defaults for them", "fields", fixed)
		}
		s.current = normalized
	case errors.Is(err, storage.ErrNotFound):
		logger.Debug("no stored settings, using defaults")
	default:
		logger.Warn("failed to load settings, using defaults", "error", err)
	}
	return s
}

func (s *Store) Snapshot() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn for every accepted change and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Update applies mutate to a copy of the current settings. Invalid results
// are rejected with model.ErrInvalidSetting and leave the store unchanged.
func (s *Store) Update(ctx context.Context, mutate func(*model.Settings)) (model.Settings, error) {
	s.mu.RLock()
	next := s.current
	s.mu.RUnlock()
	mutate(&next)
	return s.Replace(ctx, next)
}

func (s *Store) Replace(ctx context.Context, next model.Settings) (model.Settings, error) {
	if err := next.Validate(); err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	old := s.current
	s.current = next
	listeners := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	if s.kv != nil {
		if err := storage.SaveJSON(ctx, s.kv, Key, next); err != nil {
			s.logger.Warn("failed to persist settings", "error", err)
		}
	}
	if old != next {
		for _, fn := range listeners {
			fn(old, next)
		}
	}
	return next, nil
}

func (s *Store) RestoreDefaults(ctx context.Context) (model.Settings, error) {
	return s.Replace(ctx, model.DefaultSettings())
}
