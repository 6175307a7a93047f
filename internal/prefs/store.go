package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jask/tradesnipper/internal/trade"
)

// Stored preference keys.
const (
	KeyEntity      = "my_entity"
	KeyName        = "my_name"
	KeyProvider    = "ai_provider"
	KeyPairs       = "person_company_pairs"
	KeyDefaultView = "default_view"
)

// KV is the key/value persistence the store sits on.
type KV interface {
	All(ctx context.Context) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string) error
}

// Store loads and saves Preferences.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load reads every key, falling back to defaults for missing or unreadable
// values. Unreadable values are logged, not fatal.
func (s *Store) Load(ctx context.Context) (Preferences, error) {
	raw, err := s.kv.All(ctx)
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	p := Defaults()
	p.Entity = raw[KeyEntity]
	p.Name = raw[KeyName]
	if v, ok := raw[KeyProvider]; ok {
		if prov, err := ParseProvider(v); err == nil {
			p.Provider = prov
		} else {
			slog.Warn("ignoring stored ai provider", "value", v, "err", err)
		}
	}
	if v, ok := raw[KeyDefaultView]; ok && v != "" {
		if k, err := trade.ParseKind(v); err == nil {
			p.DefaultView = k
		} else {
			slog.Warn("ignoring stored default view", "value", v)
		}
	}
	if v := raw[KeyPairs]; v != "" {
		var pairs []Pair
		if err := json.Unmarshal([]byte(v), &pairs); err != nil {
			slog.Warn("ignoring stored pairs", "err", err)
		} else {
			p.Pairs = pairs
		}
	}
	return p, nil
}

// Save validates p and writes all keys together. Nothing is written when
// validation fails.
func (s *Store) Save(ctx context.Context, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	pairs := p.Pairs
	if pairs == nil {
		pairs = []Pair{}
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("encode pairs: %w", err)
	}
	view := p.DefaultView
	if view == "" {
		view = trade.KindFX
	}
	provider := p.Provider
	if provider == "" {
		provider = Anthropic
	}
	err = s.kv.SetMany(ctx, map[string]string{
		KeyEntity:      p.Entity,
		KeyName:        p.Name,
		KeyProvider:    string(provider),
		KeyPairs:       string(data),
		KeyDefaultView: string(view),
	})
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// ImportPairs reads a CSV and merges it into the stored pairs. Blank pairs
// already stored do not block an import; imported rows with one blank cell
// are kept for the user to complete.
func (s *Store) ImportPairs(ctx context.Context, r io.Reader, mode ImportMode) (Preferences, ImportResult, error) {
	res, err := ParsePairs(r)
	if err != nil {
		return Preferences{}, ImportResult{}, err
	}
	p, err := s.Load(ctx)
	if err != nil {
		return Preferences{}, res, err
	}
	if len(res.Pairs) == 0 {
		return p, res, nil
	}
	p.Pairs = Merge(p.Pairs, res.Pairs, mode)
	data, err := json.Marshal(p.Pairs)
	if err != nil {
		return Preferences{}, res, fmt.Errorf("encode pairs: %w", err)
	}
	if err := s.kv.SetMany(ctx, map[string]string{KeyPairs: string(data)}); err != nil {
		return Preferences{}, res, fmt.Errorf("save pairs: %w", err)
	}
	return p, res, nil
}
