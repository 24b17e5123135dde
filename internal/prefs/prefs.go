// Package prefs holds process-wide UI preferences as explicit state: an
// init step reads the persisted value, every mutation writes it back.
package prefs

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Theme is the display theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Store persists the theme preference between sessions.
type Store interface {
	Load(ctx context.Context) (Theme, bool, error)
	Save(ctx context.Context, t Theme) error
}

// Preferences is the live preference state.
type Preferences struct {
	mu    sync.RWMutex
	theme Theme
	store Store
}

// Init creates the preference state, reading the persisted theme. A missing
// persisted value defaults to light.
func Init(ctx context.Context, store Store) (*Preferences, error) {
	if store == nil {
		return nil, fmt.Errorf("preference store is required")
	}

	theme, found, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	if !found || (theme != ThemeLight && theme != ThemeDark) {
		theme = ThemeLight
	}

	return &Preferences{theme: theme, store: store}, nil
}

// Theme returns the current theme.
func (p *Preferences) Theme() Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

// SetTheme updates the theme and writes it through to the store.
func (p *Preferences) SetTheme(ctx context.Context, t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return fmt.Errorf("unknown theme: %s", t)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.Save(ctx, t); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	p.theme = t
	return nil
}

// Toggle flips between light and dark and returns the new theme.
func (p *Preferences) Toggle(ctx context.Context) (Theme, error) {
	next := ThemeDark
	if p.Theme() == ThemeDark {
		next = ThemeLight
	}
	if err := p.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// MemoryStore is an in-memory Store for tests and single-run sessions.
type MemoryStore struct {
	mu    sync.Mutex
	theme Theme
	set   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (Theme, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme, s.set, nil
}

func (s *MemoryStore) Save(_ context.Context, t Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = t
	s.set = true
	return nil
}

// RedisStore persists the theme in Redis, the analog of the original
// browser-local storage.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if key == "" {
		key = "prefs:theme"
	}
	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Load(ctx context.Context) (Theme, bool, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load theme: %w", err)
	}
	return Theme(val), true, nil
}

func (s *RedisStore) Save(ctx context.Context, t Theme) error {
	if err := s.client.Set(ctx, s.key, string(t), 0).Err(); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
