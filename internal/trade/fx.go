package trade

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction is the side quoted in the FX summary, from the price maker's view.
type Direction string

const (
	Buy  Direction = "Buy"
	Sell Direction = "Sell"
)

func (d Direction) IsSell() bool {
	return strings.EqualFold(strings.TrimSpace(string(d)), string(Sell))
}

// Flipped returns the opposite direction. Anything that is not a sell reads
// as a buy and flips to Sell.
func (d Direction) Flipped() Direction {
	if d.IsSell() {
		return Buy
	}
	return Sell
}

// FXPrices holds the quoted prices.
type FXPrices struct {
	Spot    Amount `json:"Spot Price"`
	Forward Amount `json:"Forward Price"`
}

// IsForward reports whether a forward price was mentioned.
func (p FXPrices) IsForward() bool { return p.Forward.Known() }

// Rate is the forward price when one was mentioned, otherwise the spot price.
func (p FXPrices) Rate() Amount {
	if p.IsForward() {
		return p.Forward
	}
	return p.Spot
}

// FXSummary mirrors the "TradeSummary" block of /api/process-fx.
type FXSummary struct {
	TradeDate  string    `json:"Trade Date"`
	Currency1  string    `json:"Currency 1"`
	Currency2  string    `json:"Currency 2"`
	Direction  Direction `json:"Direction"`
	Notional   Amount    `json:"Notional Amount"`
	Maturity   string    `json:"Maturity"`
	PriceMaker Party     `json:"Price Maker"`
	PriceTaker Party     `json:"Price Taker"`
	Prices     FXPrices  `json:"Prices"`
}

// FXTrade is an extracted FX trade. It is a value: the With methods return
// changed copies and never touch the receiver.
type FXTrade struct {
	Summary FXSummary `json:"TradeSummary"`
}

// CurrencySlot addresses currency 1 or currency 2 of an FX trade.
type CurrencySlot int

const (
	Currency1 CurrencySlot = 1
	Currency2 CurrencySlot = 2
)

// DecodeFX parses a /api/process-fx response body.
func DecodeFX(data []byte) (FXTrade, error) {
	var raw struct {
		Summary *FXSummary `json:"TradeSummary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return FXTrade{}, fmt.Errorf("decode fx trade: %w", err)
	}
	if raw.Summary == nil {
		return FXTrade{}, ErrMissingSummary
	}
	return FXTrade{Summary: *raw.Summary}, nil
}

// WithDirectionFlipped returns the trade with the opposite direction.
func (t FXTrade) WithDirectionFlipped() FXTrade {
	t.Summary.Direction = t.Summary.Direction.Flipped()
	return t
}

// WithCurrency returns the trade with one currency leg replaced.
func (t FXTrade) WithCurrency(slot CurrencySlot, code string) (FXTrade, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return t, fmt.Errorf("currency code required")
	}
	switch slot {
	case Currency1:
		t.Summary.Currency1 = code
	case Currency2:
		t.Summary.Currency2 = code
	default:
		return t, fmt.Errorf("unknown currency slot %d", slot)
	}
	return t, nil
}

// Currency returns the code in the given slot.
func (t FXTrade) Currency(slot CurrencySlot) string {
	if slot == Currency2 {
		return t.Summary.Currency2
	}
	return t.Summary.Currency1
}

func (t FXTrade) Title() string {
	if t.Summary.Prices.IsForward() {
		return "Detected FX Forward Trade"
	}
	return "Detected FX Spot Trade"
}

// CounterAmount is the currency 2 amount: notional times the trade rate.
func (t FXTrade) CounterAmount() Amount {
	return t.Summary.Notional.Mul(t.Summary.Prices.Rate())
}
