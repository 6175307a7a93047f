package trade

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// NotMentioned is what the extractor writes for a field it could not find.
const NotMentioned = "Not Mentioned"

// Amount is a numeric trade field. The extractor reports numbers as JSON
// numbers, numeric strings or free text ("Not Mentioned", "ICP-CLP"), so the
// original text is kept alongside the parsed value.
type Amount struct {
	value decimal.Decimal
	known bool
	text  string
	// quoted marks an amount read from a string, so "" survives a re-encode.
	quoted bool
}

// groupedNumber is a number whose commas are thousands separators. Any other
// comma ("950,5") is a decimal comma and is not guessed at.
var groupedNumber = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?%?$`)

// NewAmount returns a known amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{value: d, known: true}
}

// AmountFromFloat is a convenience for tests and literals.
func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

// ParseAmount interprets extractor text. Well-formed thousands separators
// and a trailing percent sign are ignored; anything else that does not parse
// stays as text.
func ParseAmount(s string) Amount {
	t := strings.TrimSpace(s)
	clean := t
	if strings.Contains(clean, ",") {
		if !groupedNumber.MatchString(clean) {
			return Amount{text: t, quoted: true}
		}
		clean = strings.ReplaceAll(clean, ",", "")
	}
	clean = strings.TrimSuffix(clean, "%")
	d, err := decimal.NewFromString(strings.TrimSpace(clean))
	if err != nil {
		return Amount{text: t, quoted: true}
	}
	return Amount{value: d, known: true, text: t, quoted: true}
}

// Decimal returns the parsed value and whether there was one.
func (a Amount) Decimal() (decimal.Decimal, bool) {
	return a.value, a.known
}

func (a Amount) Known() bool { return a.known }

// Text is the raw text the amount was read from, if it came from a string.
func (a Amount) Text() string { return a.text }

// Mul multiplies two amounts. The result is unknown when either side is.
func (a Amount) Mul(b Amount) Amount {
	if !a.known || !b.known {
		return Amount{}
	}
	return NewAmount(a.value.Mul(b.value))
}

func (a Amount) Equal(b Amount) bool {
	if a.known != b.known {
		return false
	}
	if !a.known {
		return a.text == b.text
	}
	return a.value.Equal(b.value)
}

func (a Amount) String() string {
	if a.known {
		return a.value.String()
	}
	return a.text
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.quoted || a.text != "":
		return json.Marshal(a.text)
	case a.known:
		return []byte(a.value.String()), nil
	default:
		return []byte("null"), nil
	}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		*a = ParseAmount(s)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("amount %s: %w", data, err)
	}
	*a = NewAmount(d)
	return nil
}
