// Package prefs holds the user's preferences: who they are, which AI model
// the backend should use and the person/company pairs that help it resolve
// counterparties.
package prefs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jask/tradesnipper/internal/trade"
)

// Provider names the AI model family the extraction backend should use.
type Provider string

const (
	Anthropic Provider = "Anthropic"
	Google    Provider = "Google"
	OpenAI    Provider = "OpenAI"
)

// Providers lists the choices in the order the settings view cycles them.
var Providers = []Provider{Anthropic, Google, OpenAI}

// ParseProvider matches a provider name case-insensitively. Blank means the
// default, Anthropic.
func ParseProvider(s string) (Provider, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Anthropic, nil
	}
	for _, p := range Providers {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown ai provider %q", s)
}

// Next returns the provider after p, wrapping around.
func (p Provider) Next() Provider {
	for i, q := range Providers {
		if q == p {
			return Providers[(i+1)%len(Providers)]
		}
	}
	return Anthropic
}

// Pair maps a person the user trades with to their company.
type Pair struct {
	Person  string `json:"person"`
	Company string `json:"company"`
}

// Blank reports whether either side is empty after trimming.
func (p Pair) Blank() bool {
	return strings.TrimSpace(p.Person) == "" || strings.TrimSpace(p.Company) == ""
}

// ValidationMessage is shown inline when a save is rejected.
const ValidationMessage = "Please fill in all Person and Company fields before saving."

var ErrBlankPair = errors.New(ValidationMessage)

// Preferences is the explicit settings value handed to every operation that
// needs it. Copies are independent; use Clone before editing Pairs.
type Preferences struct {
	Entity      string
	Name        string
	Provider    Provider
	DefaultView trade.Kind
	Pairs       []Pair
}

// Defaults is what a fresh install starts from.
func Defaults() Preferences {
	return Preferences{Provider: Anthropic, DefaultView: trade.KindFX}
}

func (p Preferences) Clone() Preferences {
	p.Pairs = append([]Pair(nil), p.Pairs...)
	return p
}

// Validate rejects any pair with a blank person or company.
func (p Preferences) Validate() error {
	for i, pair := range p.Pairs {
		if pair.Blank() {
			return fmt.Errorf("pair %d: %w", i+1, ErrBlankPair)
		}
	}
	return nil
}

// HasEntity reports whether the user has told us which company they are.
func (p Preferences) HasEntity() bool {
	return strings.TrimSpace(p.Entity) != ""
}
