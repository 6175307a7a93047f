package extract

import (
	"fmt"

	"github.com/jask/tradesnipper/internal/paste"
	"github.com/jask/tradesnipper/internal/prefs"
)

// Request is the body POSTed to both extraction endpoints.
type Request struct {
	InputType  string       `json:"input_type"`
	InputText  string       `json:"input_text,omitempty"`
	InputImage string       `json:"input_image,omitempty"`
	AIProvider string       `json:"ai_provider"`
	UserName   string       `json:"user_name"`
	UserEntity string       `json:"user_entity"`
	Pairs      []prefs.Pair `json:"person_company_pairs"`
}

// NewRequest builds the body for content under the given preferences.
func NewRequest(c paste.Content, p prefs.Preferences) (Request, error) {
	if c.IsZero() {
		return Request{}, paste.ErrEmpty
	}
	provider := p.Provider
	if provider == "" {
		provider = prefs.Anthropic
	}
	pairs := append([]prefs.Pair{}, p.Pairs...)
	req := Request{
		InputType:  string(c.Kind),
		AIProvider: string(provider),
		UserName:   p.Name,
		UserEntity: p.Entity,
		Pairs:      pairs,
	}
	switch c.Kind {
	case paste.KindText:
		req.InputText = c.Text
	case paste.KindImage:
		req.InputImage = c.Base64()
	default:
		return Request{}, fmt.Errorf("unknown content kind %q", c.Kind)
	}
	return req, nil
}
