package trade

import (
	"encoding/json"
	"fmt"
)

// SwapInfo mirrors the flattened "tradeInfo" block of /api/process-swap.
type SwapInfo struct {
	TradeDate     string `json:"tradeDate"`
	Maturity      string `json:"maturity"`
	PriceMaker    Party  `json:"priceMaker"`
	PriceTaker    Party  `json:"priceTaker"`
	AcceptedPrice Amount `json:"acceptedPrice"`
	AcceptedSide  string `json:"acceptedSide"`

	Leg1Type                  string `json:"leg1Type"`
	Leg1Rate                  Amount `json:"leg1Rate"`
	Leg1Payer                 string `json:"leg1Payer"`
	Leg1Currency              string `json:"leg1Currency"`
	Leg1Notional              Amount `json:"leg1NotionalAmount"`
	Leg1DayCountConvention    string `json:"leg1DayCountConvention"`
	Leg1BusinessDayConvention string `json:"leg1BusinessDayConvention"`

	Leg2Type                  string `json:"leg2Type"`
	Leg2Rate                  Amount `json:"leg2Rate"`
	Leg2Payer                 string `json:"leg2Payer"`
	Leg2Currency              string `json:"leg2Currency"`
	Leg2Notional              Amount `json:"leg2NotionalAmount"`
	Leg2DayCountConvention    string `json:"leg2DayCountConvention"`
	Leg2BusinessDayConvention string `json:"leg2BusinessDayConvention"`
}

// LegTerms are the summary terms of one leg.
type LegTerms struct {
	Number                int
	Type                  string
	Rate                  Amount
	Payer                 string
	Currency              string
	Notional              Amount
	DayCountConvention    string
	BusinessDayConvention string
}

// Leg returns the summary terms of leg 1 or leg 2.
func (i SwapInfo) Leg(n int) LegTerms {
	if n == 2 {
		return LegTerms{
			Number: 2, Type: i.Leg2Type, Rate: i.Leg2Rate, Payer: i.Leg2Payer,
			Currency: i.Leg2Currency, Notional: i.Leg2Notional,
			DayCountConvention: i.Leg2DayCountConvention, BusinessDayConvention: i.Leg2BusinessDayConvention,
		}
	}
	return LegTerms{
		Number: 1, Type: i.Leg1Type, Rate: i.Leg1Rate, Payer: i.Leg1Payer,
		Currency: i.Leg1Currency, Notional: i.Leg1Notional,
		DayCountConvention: i.Leg1DayCountConvention, BusinessDayConvention: i.Leg1BusinessDayConvention,
	}
}

// Cashflow is one dated row of a leg's schedule.
type Cashflow struct {
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	Rate             Amount `json:"rate"`
	Spread           Amount `json:"spread"`
	RemainingCapital Amount `json:"remainingCapital"`
	Amortization     Amount `json:"amortization"`
	Interest         Amount `json:"interest"`
}

// SwapLeg is a leg with its generated cashflow schedule.
type SwapLeg struct {
	Number             int        `json:"legNumber"`
	Payer              string     `json:"payer"`
	DayCountConvention string     `json:"dayCountConvention"`
	Currency           string     `json:"currency"`
	LegType            string     `json:"legType"`
	Cashflows          []Cashflow `json:"cashflows"`
}

// SwapTrade is an extracted interest-rate swap.
type SwapTrade struct {
	Info SwapInfo  `json:"tradeInfo"`
	Legs []SwapLeg `json:"legs"`
}

// DecodeSwap parses a /api/process-swap response body.
func DecodeSwap(data []byte) (SwapTrade, error) {
	var raw struct {
		Info *SwapInfo `json:"tradeInfo"`
		Legs []SwapLeg `json:"legs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return SwapTrade{}, fmt.Errorf("decode swap trade: %w", err)
	}
	if raw.Info == nil {
		return SwapTrade{}, ErrMissingSummary
	}
	return SwapTrade{Info: *raw.Info, Legs: raw.Legs}, nil
}

// Clone returns a copy that shares no slices with t.
func (t SwapTrade) Clone() SwapTrade {
	out := SwapTrade{Info: t.Info}
	if t.Legs == nil {
		return out
	}
	out.Legs = make([]SwapLeg, len(t.Legs))
	for i, leg := range t.Legs {
		leg.Cashflows = append([]Cashflow(nil), leg.Cashflows...)
		out.Legs[i] = leg
	}
	return out
}

func (t SwapTrade) Title() string { return "Detected Trade" }

// AllCashflows flattens the schedule of every leg, tagged with its leg number.
func (t SwapTrade) AllCashflows() []NumberedCashflow {
	var out []NumberedCashflow
	for _, leg := range t.Legs {
		for _, cf := range leg.Cashflows {
			out = append(out, NumberedCashflow{Leg: leg.Number, Cashflow: cf})
		}
	}
	return out
}

// NumberedCashflow is a cashflow row with the leg it belongs to.
type NumberedCashflow struct {
	Leg int
	Cashflow
}
