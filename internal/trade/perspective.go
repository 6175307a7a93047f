package trade

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the side of an FX trade the user's entity sits on.
type Role int

const (
	RoleMaker Role = iota + 1
	RoleTaker
)

func (r Role) String() string {
	switch r {
	case RoleMaker:
		return "price maker"
	case RoleTaker:
		return "price taker"
	}
	return "unknown"
}

type Verb string

const (
	Buys  Verb = "buys"
	Sells Verb = "sells"
)

func (v Verb) Opposite() Verb {
	if v == Buys {
		return Sells
	}
	return Buys
}

// Fallback prose when the entity cannot be placed on the trade.
const (
	FXNoMatchText   = "Entity does not match either side of the trade."
	SwapNoMatchText = "Entity does not match either payer in the trade."
	NoEntityText    = "Set your entity in settings to read trades from your side."
	fxMaturityMaker = " on "
	fxMaturityTaker = " settling on "
)

// FXSide is one currency leg of an FX trade as seen by the entity.
type FXSide struct {
	Verb     Verb
	Currency string
	Amount   Amount
}

// FXView is an FX trade read from the entity's side.
type FXView struct {
	Entity       string
	Role         Role
	Counterparty string
	Currency1    FXSide
	Currency2    FXSide
	Rate         Amount
	Maturity     string
}

// Bought is the side the entity buys.
func (v FXView) Bought() FXSide {
	if v.Currency1.Verb == Buys {
		return v.Currency1
	}
	return v.Currency2
}

// Sold is the side the entity sells.
func (v FXView) Sold() FXSide {
	if v.Currency1.Verb == Sells {
		return v.Currency1
	}
	return v.Currency2
}

// MaturityPhrase is " on X" for the maker, " settling on X" for the taker,
// or empty when no maturity was mentioned.
func (v FXView) MaturityPhrase() string {
	if !mentioned(v.Maturity) {
		return ""
	}
	if v.Role == RoleTaker {
		return fxMaturityTaker + v.Maturity
	}
	return fxMaturityMaker + v.Maturity
}

// FXPerspective places entity on the trade. The maker wins if both sides
// name the same company.
func FXPerspective(t FXTrade, entity string) (FXView, error) {
	if strings.TrimSpace(entity) == "" {
		return FXView{}, ErrNoEntity
	}
	s := t.Summary
	v := FXView{
		Rate:     s.Prices.Rate(),
		Maturity: s.Maturity,
	}
	switch {
	case sameEntity(entity, s.PriceMaker.Company):
		v.Role = RoleMaker
		v.Entity = strings.TrimSpace(s.PriceMaker.Company)
		v.Counterparty = s.PriceTaker.Company
	case sameEntity(entity, s.PriceTaker.Company):
		v.Role = RoleTaker
		v.Entity = strings.TrimSpace(s.PriceTaker.Company)
		v.Counterparty = s.PriceMaker.Company
	default:
		return FXView{}, fmt.Errorf("fx %q: %w", entity, ErrNoEntityMatch)
	}

	// Direction is quoted from the maker's side.
	first := Buys
	if s.Direction.IsSell() {
		first = Sells
	}
	if v.Role == RoleTaker {
		first = first.Opposite()
	}
	v.Currency1 = FXSide{Verb: first, Currency: s.Currency1, Amount: s.Notional}
	v.Currency2 = FXSide{Verb: first.Opposite(), Currency: s.Currency2, Amount: t.CounterAmount()}
	return v, nil
}

// FXProse renders the one-line reading of an FX trade, or the fallback text.
func FXProse(t FXTrade, entity string) string {
	v, err := FXPerspective(t, entity)
	switch {
	case errors.Is(err, ErrNoEntity):
		return NoEntityText
	case err != nil:
		return FXNoMatchText
	}
	return fmt.Sprintf("%s %s %s %s and %s %s %s at %s with %s%s.",
		v.Entity,
		v.Currency1.Verb, v.Currency1.Currency, FormatAmount(v.Currency1.Amount),
		v.Currency2.Verb, v.Currency2.Currency, FormatAmount(v.Currency2.Amount),
		FormatPrice(v.Rate), v.Counterparty, v.MaturityPhrase())
}

// Field is one labelled line of a details block.
type Field struct {
	Label string
	Value string
}

// FXDetails is the trade-details block shown under the prose.
func FXDetails(t FXTrade, entity string) ([]Field, error) {
	v, err := FXPerspective(t, entity)
	if err != nil {
		return nil, err
	}
	s := t.Summary
	bought, sold := v.Bought(), v.Sold()
	return []Field{
		{"Counterparty", v.Counterparty},
		{"Trade Date", orNotMentioned(s.TradeDate)},
		{"Maturity", orNotMentioned(s.Maturity)},
		{"We Buy", bought.Currency + " " + FormatAmount(bought.Amount)},
		{"We Sell", sold.Currency + " " + FormatAmount(sold.Amount)},
		{"Spot Price", FormatPrice(s.Prices.Spot)},
		{"Forward Price", FormatPrice(s.Prices.Forward)},
	}, nil
}

// SwapView is a swap read from the entity's side.
type SwapView struct {
	Entity   string
	Pays     LegTerms
	Receives LegTerms
}

// Counterparty is the payer of the leg the entity receives.
func (v SwapView) Counterparty() string { return v.Receives.Payer }

// SwapPerspective finds the leg the entity pays. Leg 1 wins if the entity
// pays both.
func SwapPerspective(t SwapTrade, entity string) (SwapView, error) {
	if strings.TrimSpace(entity) == "" {
		return SwapView{}, ErrNoEntity
	}
	leg1, leg2 := t.Info.Leg(1), t.Info.Leg(2)
	var v SwapView
	switch {
	case sameEntity(entity, leg1.Payer):
		v.Pays, v.Receives = leg1, leg2
	case sameEntity(entity, leg2.Payer):
		v.Pays, v.Receives = leg2, leg1
	default:
		return SwapView{}, fmt.Errorf("swap %q: %w", entity, ErrNoEntityMatch)
	}
	// The trade's spelling of the name, not the settings value.
	v.Entity = strings.TrimSpace(v.Pays.Payer)
	return v, nil
}

// SwapProse renders the one-line reading of a swap, or the fallback text.
func SwapProse(t SwapTrade, entity string) string {
	v, err := SwapPerspective(t, entity)
	switch {
	case errors.Is(err, ErrNoEntity):
		return NoEntityText
	case err != nil:
		return SwapNoMatchText
	}
	return fmt.Sprintf("%s pays %s on %s %s and receives %s on %s %s from %s.",
		v.Entity,
		FormatRate(v.Pays.Rate), v.Pays.Currency, FormatAmount(v.Pays.Notional),
		FormatRate(v.Receives.Rate), v.Receives.Currency, FormatAmount(v.Receives.Notional),
		v.Counterparty())
}

// CashflowTable is the schedule of one leg under a pay/receive label.
type CashflowTable struct {
	Label                 string
	Leg                   SwapLeg
	DayCountConvention    string
	BusinessDayConvention string
}

// SwapCashflowTables returns the leg the entity pays followed by the leg it
// receives. Conventions come from the leg shown.
func SwapCashflowTables(t SwapTrade, entity string) (pays, receives CashflowTable, err error) {
	if strings.TrimSpace(entity) == "" {
		return pays, receives, ErrNoEntity
	}
	if len(t.Legs) < 2 {
		return pays, receives, fmt.Errorf("swap has %d legs", len(t.Legs))
	}
	payIdx := -1
	for i, leg := range t.Legs {
		if sameEntity(entity, leg.Payer) {
			payIdx = i
			break
		}
	}
	if payIdx < 0 {
		return pays, receives, fmt.Errorf("swap cashflows %q: %w", entity, ErrNoEntityMatch)
	}
	recvIdx := 0
	if payIdx == 0 {
		recvIdx = 1
	}
	name := strings.TrimSpace(t.Legs[payIdx].Payer)
	pays = cashflowTable(t, t.Legs[payIdx], name+" pays:")
	receives = cashflowTable(t, t.Legs[recvIdx], name+" receives:")
	return pays, receives, nil
}

func cashflowTable(t SwapTrade, leg SwapLeg, label string) CashflowTable {
	terms := t.Info.Leg(leg.Number)
	dc := leg.DayCountConvention
	if dc == "" {
		dc = terms.DayCountConvention
	}
	return CashflowTable{
		Label:                 label,
		Leg:                   leg,
		DayCountConvention:    orNotMentioned(dc),
		BusinessDayConvention: orNotMentioned(terms.BusinessDayConvention),
	}
}
