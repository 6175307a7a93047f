package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/tradesnipper/internal/config"
	"github.com/jask/tradesnipper/internal/database/repository"
	"github.com/jask/tradesnipper/internal/extract"
	"github.com/jask/tradesnipper/internal/paste"
	"github.com/jask/tradesnipper/internal/prefs"
	"github.com/jask/tradesnipper/internal/service"
	"github.com/jask/tradesnipper/internal/trade"
)

const fxJSON = `{"TradeSummary": {
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
		"tradeDate": "2025-01-02", "maturity": "2030-01-02",
		"leg1Type": "Fixed", "leg1Rate": 5.25, "leg1Payer": "Banco Andes", "leg1Currency": "CLP",
		"leg1NotionalAmount": 1000000000,
		"leg2Type": "Floating", "leg2Rate": "ICP-CLP", "leg2Payer": "Acme Capital", "leg2Currency": "CLF",
		"leg2NotionalAmount": 25000
	},
	"legs": [
		{"legNumber": 1, "payer": "Banco Andes", "currency": "CLP", "legType": "Fixed",
		 "cashflows": [{"startDate": "2025-01-02", "endDate": "2025-07-02", "rate": 5.25, "spread": 0,
		   "remainingCapital": 1000000000, "amortization": 0, "interest": 26395833.33}]},
		{"legNumber": 2, "payer": "Acme Capital", "currency": "CLF", "legType": "Floating",
		 "cashflows": [{"startDate": "2025-01-02", "endDate": "2025-07-02", "rate": "ICP-CLP", "spread": 0.1,
		   "remainingCapital": 25000, "amortization": 0, "interest": "Not Mentioned"}]}
	]
}`

type fakeExtractor struct {
	fx    trade.FXTrade
	swap  trade.SwapTrade
	err   error
	calls int
	last  paste.Content
}

func (f *fakeExtractor) FX(_ context.Context, c paste.Content, _ prefs.Preferences) (trade.FXTrade, error) {
	f.calls++
	f.last = c
	return f.fx, f.err
}

func (f *fakeExtractor) Swap(_ context.Context, c paste.Content, _ prefs.Preferences) (trade.SwapTrade, error) {
	f.calls++
	f.last = c
	return f.swap, f.err
}

type fakeBookings struct {
	booked []repository.Booking
}

func (f *fakeBookings) Insert(_ context.Context, b repository.Booking) error {
	f.booked = append(f.booked, b)
	return nil
}

func (f *fakeBookings) List(context.Context, int) ([]repository.Booking, error) {
	return f.booked, nil
}

type memKV struct {
	data   map[string]string
	writes int
}

func (m *memKV) All(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

func (m *memKV) SetMany(_ context.Context, values map[string]string) error {
	m.writes++
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

type harness struct {
	app       *App
	extractor *fakeExtractor
	bookings  *fakeBookings
	kv        *memKV
	exportDir string
}

func newHarness(t *testing.T, stored map[string]string, opts Options) *harness {
	t.Helper()
	fx, err := trade.DecodeFX([]byte(fxJSON))
	require.NoError(t, err)
	sw, err := trade.DecodeSwap([]byte(swapJSON))
	require.NoError(t, err)

	if stored == nil {
		stored = map[string]string{prefs.KeyEntity: "Banco Andes"}
	}
	h := &harness{
		extractor: &fakeExtractor{fx: fx, swap: sw},
		bookings:  &fakeBookings{},
		kv:        &memKV{data: stored},
		exportDir: t.TempDir(),
	}
	cfg := config.Config{UI: config.UIConfig{Currencies: []string{"CLP", "CLF", "USD", "EUR", "CHF"}}}
	h.app = New(context.Background(), cfg, Services{
		Extraction: &service.ExtractionService{Client: h.extractor},
		Bookings:   &service.BookingService{Repo: h.bookings, Target: "Murex"},
		Export:     &service.ExportService{Dir: h.exportDir, Filename: "detected_trade.json"},
		Prefs:      prefs.NewStore(h.kv),
	}, opts)
	h.run(h.app.Init())
	return h
}

// run executes cmd and feeds its messages back, skipping spinner ticks.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	default:
		_, next := h.app.Update(msg)
		h.run(next)
	}
}

// press sends a key and runs what it returns.
func (h *harness) press(keys ...string) {
	for _, k := range keys {
		_, cmd := h.app.Update(keyMsg(k))
		h.run(cmd)
	}
}

func (h *harness) typeText(s string) {
	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	h.run(cmd)
}

func (h *harness) paste(s string) tea.Cmd {
	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Paste: true})
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestPasteExtractsFXTrade(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})

	h.run(h.paste("Ana: I sell 1mm USD/CLP at 950.5 to Tom"))
	require.Equal(t, 1, h.extractor.calls)
	require.Equal(t, paste.KindText, h.extractor.last.Kind)
	require.True(t, h.app.fx.Loaded())

	view := h.app.View()
	require.Contains(t, view, "Detected FX Spot Trade")
	require.Contains(t, view, "Banco Andes sells USD 1,000,000")
	require.Contains(t, view, "Ana: I sell 1mm USD/CLP")
}

func TestPasteIgnoredWhileLoading(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})

	first := h.paste("first trade")
	require.NotNil(t, first)
	require.Equal(t, trade.KindFX, h.app.loading)

	require.Nil(t, h.paste("second trade"))
	h.run(first)
	require.Equal(t, 1, h.extractor.calls)
	require.Equal(t, "first trade", h.extractor.last.Text)
	require.Empty(t, h.app.loading)
}

func TestExtractionFailureKeepsPreviousTrade(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})
	h.run(h.paste("good trade"))
	require.True(t, h.app.fx.Loaded())

	h.extractor.err = errors.New("backend down")
	h.run(h.paste("bad trade"))
	require.True(t, h.app.fx.Loaded())
	require.Equal(t, "good trade", h.app.fx.Content().Text)
	require.Equal(t, extract.FailureMessage, h.app.status)
	require.True(t, h.app.isErr)
}

func TestFlipAndCurrencyMenu(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})
	h.run(h.paste("trade"))

	h.press("b")
	fx, _ := h.app.fx.Trade()
	require.Equal(t, trade.Buy, fx.Summary.Direction)
	require.Contains(t, h.app.View(), "Banco Andes buys USD 1,000,000")

	h.press("1")
	require.Equal(t, modalCurrencyMenu, h.app.modal)
	require.Equal(t, 2, h.app.currencyCursor)
	h.press("down", "enter")
	fx, _ = h.app.fx.Trade()
	require.Equal(t, "EUR", fx.Currency(trade.Currency1))
	require.Equal(t, modalNone, h.app.modal)
}

func TestSendBooksAndClears(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})
	h.run(h.paste("trade"))

	h.press("s")
	require.Equal(t, modalConfirm, h.app.modal)
	require.Contains(t, h.app.View(), "Are you sure you want to send this trade to Murex?")

	h.press("y")
	require.Len(t, h.bookings.booked, 1)
	require.Equal(t, "fx", h.bookings.booked[0].Kind)
	require.Contains(t, h.bookings.booked[0].Summary, "Banco Andes sells USD")
	require.False(t, h.app.fx.Loaded())
	require.False(t, h.app.sending)
	require.Equal(t, "Trade successfully sent to Murex", h.app.status)
}

func TestSendCancelledKeepsTrade(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})
	h.run(h.paste("trade"))

	h.press("s", "n")
	require.Empty(t, h.bookings.booked)
	require.True(t, h.app.fx.Loaded())
	require.Equal(t, modalNone, h.app.modal)
}

func TestDeleteClearsTrade(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})
	h.run(h.paste("trade"))

	h.press("x", "y")
	require.False(t, h.app.fx.Loaded())
	require.True(t, h.app.fx.Content().IsZero())
}

func TestExportWritesJSON(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})
	h.press("e")
	require.NoFileExists(t, filepath.Join(h.exportDir, "detected_trade.json"))

	h.run(h.paste("trade"))
	h.press("e", "e")
	data, err := os.ReadFile(filepath.Join(h.exportDir, "detected_trade.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"TradeSummary"`)
	require.FileExists(t, filepath.Join(h.exportDir, "detected_trade (1).json"))
}

func TestSwapViewTables(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})
	h.press("tab")
	require.Equal(t, viewSwap, h.app.state)

	h.run(h.paste("5y CLP swap"))
	require.True(t, h.app.swap.Loaded())
	require.False(t, h.app.fx.Loaded())
	view := h.app.View()
	require.Contains(t, view, "Banco Andes pays:")
	require.Contains(t, view, "Banco Andes receives:")

	h.press("1")
	view = h.app.View()
	require.NotContains(t, view, "Banco Andes pays:")
	require.Contains(t, view, "Banco Andes receives:")
}

func TestDefaultViewFromPreferences(t *testing.T) {
	t.Parallel()
	stored := map[string]string{prefs.KeyDefaultView: "swap"}

	h := newHarness(t, stored, Options{})
	require.Equal(t, viewSwap, h.app.state)

	pinned := newHarness(t, map[string]string{prefs.KeyDefaultView: "swap"}, Options{View: trade.KindFX})
	require.Equal(t, viewFX, pinned.app.state)
}

func TestSettingsSaveRequiresCompletePairs(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})
	writes := h.kv.writes

	h.press(",")
	require.Equal(t, viewSettings, h.app.state)
	h.press("a")
	require.Equal(t, modalPairEditor, h.app.modal)
	h.typeText("Ana Rojas")
	h.press("enter", "ctrl+s")
	require.Equal(t, prefs.ValidationMessage, h.app.settings.err)
	require.Equal(t, writes, h.kv.writes)
	require.Equal(t, viewSettings, h.app.state)

	h.press("enter")
	require.Equal(t, modalPairEditor, h.app.modal)
	h.press("tab")
	h.typeText("Banco Andes")
	h.press("enter", "ctrl+s")
	require.Equal(t, viewFX, h.app.state)
	require.Contains(t, h.kv.data[prefs.KeyPairs], "Banco Andes")
	require.Len(t, h.app.prefs.Pairs, 1)
}

func TestSettingsEditNameAndDiscard(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})

	h.press(",", "enter")
	require.Equal(t, modalFieldInput, h.app.modal)
	h.typeText("Tom Hale")
	h.press("enter", "esc")
	require.Equal(t, viewFX, h.app.state)
	require.Empty(t, h.app.prefs.Name)

	h.press(",", "enter")
	h.typeText("Tom Hale")
	h.press("enter", "down", "down", "enter", "ctrl+s")
	require.Equal(t, "Tom Hale", h.kv.data[prefs.KeyName])
	require.Equal(t, "Google", h.kv.data[prefs.KeyProvider])
	require.Equal(t, prefs.Google, h.app.prefs.Provider)
}

func TestSettingsImportAndSearch(t *testing.T) {
	t.Parallel()
	h := newHarness(t, map[string]string{
		prefs.KeyEntity: "Banco Andes",
		prefs.KeyPairs:  `[{"person":"Lucia Vega","company":"Banco Sur"}]`,
	}, Options{})
	path := filepath.Join(t.TempDir(), "pairs.csv")
	require.NoError(t, os.WriteFile(path, []byte("Tom Hale,Acme Capital\n\nsolo\nAna Rojas,Banco Andes\n"), 0o600))

	h.press(",", "i")
	require.Equal(t, modalImportPath, h.app.modal)
	h.typeText(path)
	h.press("enter")
	require.Equal(t, modalImportMode, h.app.modal)
	require.Len(t, h.app.settings.pending.Pairs, 2)

	h.press("a")
	require.Equal(t, modalNone, h.app.modal)
	require.Len(t, h.app.settings.draft.Pairs, 3)
	require.Len(t, h.app.prefs.Pairs, 1)

	h.press("/")
	h.typeText("acme")
	require.Equal(t, []int{1}, h.app.visiblePairs())
	h.press("enter")
	require.Equal(t, rowPairs, h.app.settings.cursor)
	require.Equal(t, 1, h.app.selectedPair())

	h.press("d")
	require.Len(t, h.app.settings.draft.Pairs, 2)
	h.press("/", "esc")
	require.Empty(t, h.app.settings.term)

	h.press("ctrl+s")
	require.Len(t, h.app.prefs.Pairs, 2)
	require.NotContains(t, h.kv.data[prefs.KeyPairs], "Acme Capital")
}

func TestSettingsImportOverwriteAndCancel(t *testing.T) {
	t.Parallel()
	h := newHarness(t, map[string]string{
		prefs.KeyPairs: `[{"person":"Lucia Vega","company":"Banco Sur"}]`,
	}, Options{})
	path := filepath.Join(t.TempDir(), "pairs.csv")
	require.NoError(t, os.WriteFile(path, []byte("Tom Hale,Acme Capital\n"), 0o600))

	h.press(",", "i")
	h.typeText(path)
	h.press("enter", "c")
	require.Len(t, h.app.settings.draft.Pairs, 1)

	h.press("i")
	h.typeText(path)
	h.press("enter", "o")
	require.Equal(t, []prefs.Pair{{Person: "Tom Hale", Company: "Acme Capital"}}, h.app.settings.draft.Pairs)

	h.press("i")
	h.typeText(filepath.Join(t.TempDir(), "missing.csv"))
	h.press("enter")
	require.True(t, h.app.isErr)
	require.True(t, strings.HasPrefix(h.app.status, "Import failed"))
}

func TestFooterFollowsScope(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, Options{})
	require.Contains(t, h.app.View(), "flip direction")

	h.press(",")
	view := h.app.View()
	require.Contains(t, view, "import csv")
	require.NotContains(t, view, "flip direction")
}
