package service

import (
	"context"

	"github.com/jask/tradesnipper/internal/paste"
	"github.com/jask/tradesnipper/internal/prefs"
	"github.com/jask/tradesnipper/internal/trade"
)

// Extractor is the remote extraction backend.
type Extractor interface {
	FX(ctx context.Context, c paste.Content, p prefs.Preferences) (trade.FXTrade, error)
	Swap(ctx context.Context, c paste.Content, p prefs.Preferences) (trade.SwapTrade, error)
}

// ExtractionService turns pasted content into trades using the current
// preferences.
type ExtractionService struct {
	Client Extractor
}

func (s *ExtractionService) ExtractFX(ctx context.Context, c paste.Content, p prefs.Preferences) (trade.FXTrade, error) {
	return s.Client.FX(ctx, c, p.Clone())
}

func (s *ExtractionService) ExtractSwap(ctx context.Context, c paste.Content, p prefs.Preferences) (trade.SwapTrade, error) {
	return s.Client.Swap(ctx, c, p.Clone())
}

// Extract runs the extraction for kind and returns the trade as an any-typed
// value, for callers that only print it.
func (s *ExtractionService) Extract(ctx context.Context, kind trade.Kind, c paste.Content, p prefs.Preferences) (any, error) {
	if kind == trade.KindSwap {
		return s.ExtractSwap(ctx, c, p)
	}
	return s.ExtractFX(ctx, c, p)
}
