package trade

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const fxSellJSON = `{"TradeSummary": {
	"Trade Date": "2025-03-10",
	"Currency 1": "USD",
	"Currency 2": "CLP",
	"Direction": "Sell",
	"Notional Amount": 1000000,
	"Maturity": "2025-03-15",
	"Price Maker": {"Name": "Ana Rojas", "Company": "Banco Andes"},
	"Price Taker": {"Name": "Tom Hale", "Company": "Acme Capital"},
	"Prices": {"Spot Price": 950.5, "Forward Price": "Not Mentioned"}
}}`

const swapJSON = `{
	"tradeInfo": {
		"tradeDate": "2025-01-02",
		"maturity": "2030-01-02",
		"priceMaker": {"Name": "Ana Rojas", "Company": "Banco Andes"},
		"priceTaker": {"Name": "Tom Hale", "Company": "Acme Capital"},
		"acceptedPrice": "5.25",
		"acceptedSide": "Pay",
		"leg1Type": "Fixed",
		"leg1Rate": 5.25,
		"leg1Payer": "Banco Andes",
		"leg1Currency": "CLP",
		"leg1NotionalAmount": 1000000000,
		"leg1DayCountConvention": "ACT/360",
		"leg1BusinessDayConvention": "Modified Following",
		"leg2Type": "Floating",
		"leg2Rate": "ICP-CLP",
		"leg2Payer": "Acme Capital",
		"leg2Currency": "CLF",
		"leg2NotionalAmount": "25,000",
		"leg2DayCountConvention": "ACT/365",
		"leg2BusinessDayConvention": "Following"
	},
	"legs": [
		{"legNumber": 1, "payer": "Banco Andes", "dayCountConvention": "ACT/360", "currency": "CLP", "legType": "Fixed",
		 "cashflows": [{"startDate": "2025-01-02", "endDate": "2025-07-02", "rate": 5.25, "spread": 0,
		   "remainingCapital": 1000000000, "amortization": 0, "interest": 26395833.33}]},
		{"legNumber": 2, "payer": "Acme Capital", "dayCountConvention": "ACT/365", "currency": "CLF", "legType": "Floating",
		 "cashflows": [{"startDate": "2025-01-02", "endDate": "2025-07-02", "rate": "ICP-CLP", "spread": 0.1,
		   "remainingCapital": 25000, "amortization": 0, "interest": "Not Mentioned"}]}
	]
}`

func mustFX(t *testing.T) FXTrade {
	t.Helper()
	fx, err := DecodeFX([]byte(fxSellJSON))
	require.NoError(t, err)
	return fx
}

func mustSwap(t *testing.T) SwapTrade {
	t.Helper()
	sw, err := DecodeSwap([]byte(swapJSON))
	require.NoError(t, err)
	return sw
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	a := ParseAmount(" 1,000.50 ")
	d, ok := a.Decimal()
	require.True(t, ok)
	require.True(t, d.Equal(decimal.RequireFromString("1000.5")))

	pct := ParseAmount("5.25%")
	require.True(t, pct.Known())
	require.Equal(t, "5.25", pct.String())

	ref := ParseAmount("ICP-CLP")
	require.False(t, ref.Known())
	require.Equal(t, "ICP-CLP", ref.String())

	grouped := ParseAmount("-1,000,000.5")
	require.True(t, grouped.Known())
	require.Equal(t, "-1000000.5", grouped.String())

	for _, s := range []string{"1,5", "950,5", "1,00", "12,34,567", "1,000,5"} {
		a := ParseAmount(s)
		require.False(t, a.Known(), s)
		require.Equal(t, s, a.Text())
	}
}

func TestAmountJSONKeepsText(t *testing.T) {
	t.Parallel()

	var got struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
	}
	in := `{"a": 12.5, "b": "Not Mentioned", "c": null, "d": ""}`
	require.NoError(t, json.Unmarshal([]byte(in), &got))
	require.True(t, got.A.Known())
	require.False(t, got.B.Known())
	require.Equal(t, NotMentioned, got.B.Text())
	require.False(t, got.C.Known())
	require.False(t, got.D.Known())
	require.Equal(t, NotMentioned, FormatAmount(got.D))

	out, err := json.Marshal(got)
	require.NoError(t, err)
	require.JSONEq(t, in, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"a": true}`), &got))
}

func TestAmountMulUnknown(t *testing.T) {
	t.Parallel()

	require.False(t, AmountFromFloat(2).Mul(ParseAmount(NotMentioned)).Known())
	require.True(t, AmountFromFloat(2).Mul(AmountFromFloat(3)).Equal(AmountFromFloat(6)))
}

func TestDecodeFXRequiresSummary(t *testing.T) {
	t.Parallel()

	_, err := DecodeFX([]byte(`{"error": "model timeout"}`))
	require.ErrorIs(t, err, ErrMissingSummary)

	_, err = DecodeFX([]byte(`not json`))
	require.Error(t, err)

	_, err = DecodeSwap([]byte(`{"legs": []}`))
	require.ErrorIs(t, err, ErrMissingSummary)
}

func TestSameEntityFoldsCase(t *testing.T) {
	t.Parallel()

	require.True(t, sameEntity(" acme capital", "Acme Capital "))
	require.True(t, sameEntity("STRASSE AG", "Straße AG"))
	require.False(t, sameEntity("", ""))
	require.False(t, sameEntity("Acme", "Acme Capital"))
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := ParseKind(" SWAP ")
	require.NoError(t, err)
	require.Equal(t, KindSwap, k)
	require.Equal(t, "Swap", k.Label())

	_, err = ParseKind("bond")
	require.Error(t, err)
}

func TestFXTitle(t *testing.T) {
	t.Parallel()

	fx := mustFX(t)
	require.Equal(t, "Detected FX Spot Trade", fx.Title())

	fx.Summary.Prices.Forward = AmountFromFloat(955.1)
	require.Equal(t, "Detected FX Forward Trade", fx.Title())
}

func TestFlipDirectionReturnsCopy(t *testing.T) {
	t.Parallel()

	orig := mustFX(t)
	flipped := orig.WithDirectionFlipped()
	require.Equal(t, Sell, orig.Summary.Direction)
	require.Equal(t, Buy, flipped.Summary.Direction)
	require.Equal(t, Sell, flipped.WithDirectionFlipped().Summary.Direction)

	require.Equal(t, Sell, Direction("buy").Flipped())
	require.Equal(t, Buy, Direction("SELL").Flipped())
	require.Equal(t, Sell, Direction("").Flipped())
}

func TestWithCurrency(t *testing.T) {
	t.Parallel()

	orig := mustFX(t)
	next, err := orig.WithCurrency(Currency2, "eur")
	require.NoError(t, err)
	require.Equal(t, "EUR", next.Currency(Currency2))
	require.Equal(t, "CLP", orig.Currency(Currency2))

	_, err = orig.WithCurrency(CurrencySlot(3), "EUR")
	require.Error(t, err)
	_, err = orig.WithCurrency(Currency1, " ")
	require.Error(t, err)
}

func TestSwapClone(t *testing.T) {
	t.Parallel()

	orig := mustSwap(t)
	cp := orig.Clone()
	cp.Legs[0].Cashflows[0].StartDate = "changed"
	cp.Legs[1].Payer = "changed"
	require.Equal(t, "2025-01-02", orig.Legs[0].Cashflows[0].StartDate)
	require.Equal(t, "Acme Capital", orig.Legs[1].Payer)
	require.Len(t, orig.AllCashflows(), 2)
}
