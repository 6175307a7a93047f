// Package trade models the trades returned by the extraction service and
// derives how they read from the user's own entity.
package trade

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

// Kind selects the trade family and the extraction endpoint.
type Kind string

const (
	KindFX   Kind = "fx"
	KindSwap Kind = "swap"
)

// ParseKind accepts "fx" or "swap" in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFX:
		return KindFX, nil
	case KindSwap:
		return KindSwap, nil
	}
	return "", errors.New("trade: kind must be fx or swap")
}

func (k Kind) Label() string {
	if k == KindSwap {
		return "Swap"
	}
	return "FX"
}

var (
	ErrNoEntity       = errors.New("trade: entity not configured")
	ErrNoEntityMatch  = errors.New("trade: entity matches neither side")
	ErrMissingSummary = errors.New("trade: response has no trade summary")
)

// Party is one named counterparty of a trade.
type Party struct {
	Name    string `json:"Name"`
	Company string `json:"Company"`
}

// sameEntity reports whether a configured entity names the given company.
// Names compare under full Unicode case folding, so "Straße" matches
// "STRASSE".
func sameEntity(entity, company string) bool {
	entity, company = strings.TrimSpace(entity), strings.TrimSpace(company)
	if entity == "" {
		return false
	}
	fold := cases.Fold()
	return fold.String(entity) == fold.String(company)
}

func mentioned(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != NotMentioned
}
