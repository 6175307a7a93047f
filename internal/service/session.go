package service

import "github.com/jask/tradesnipper/internal/paste"

// Session holds the trade on screen and the content it came from. There is
// at most one of each; they are replaced or cleared together.
type Session[T any] struct {
	trade   T
	content paste.Content
	loaded  bool
}

// Replace swaps in a new trade and its source content.
func (s *Session[T]) Replace(t T, c paste.Content) {
	s.trade, s.content, s.loaded = t, c, true
}

// Apply records the outcome of an extraction. On error the current trade
// and content are kept and err is returned.
func (s *Session[T]) Apply(t T, c paste.Content, err error) error {
	if err != nil {
		return err
	}
	s.Replace(t, c)
	return nil
}

// Update replaces the trade with fn's result, keeping the content. It does
// nothing on an empty session.
func (s *Session[T]) Update(fn func(T) T) bool {
	if !s.loaded {
		return false
	}
	s.trade = fn(s.trade)
	return true
}

func (s *Session[T]) Clear() {
	var zero T
	s.trade, s.content, s.loaded = zero, paste.Content{}, false
}

func (s *Session[T]) Trade() (T, bool) { return s.trade, s.loaded }

func (s *Session[T]) Content() paste.Content { return s.content }

func (s *Session[T]) Loaded() bool { return s.loaded }
