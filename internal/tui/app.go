package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/tradesnipper/internal/config"
	"github.com/jask/tradesnipper/internal/database/repository"
	"github.com/jask/tradesnipper/internal/extract"
	"github.com/jask/tradesnipper/internal/paste"
	"github.com/jask/tradesnipper/internal/prefs"
	"github.com/jask/tradesnipper/internal/service"
	"github.com/jask/tradesnipper/internal/trade"
)

// App is the root bubbletea model: the FX and swap views plus settings.
type App struct {
	ctx      context.Context
	cfg      config.Config
	services Services
	keys     *KeyRegistry

	prefs      prefs.Preferences
	state      appState
	prevState  appState
	viewPinned bool
	modal      modalState

	fx   service.Session[trade.FXTrade]
	swap service.Session[trade.SwapTrade]

	loading trade.Kind
	sending bool
	spinner spinner.Model

	width  int
	height int
	status string
	isErr  bool

	// fx currency menu
	currencySlot   trade.CurrencySlot
	currencyCursor int

	// swap cashflow tables
	showPays     bool
	showReceives bool

	confirm confirmAction

	settings settingsState
}

// Services are the collaborators the UI drives. Prefs and Clipboard may be
// nil; the UI then runs on default preferences with no clipboard key.
type Services struct {
	Extraction *service.ExtractionService
	Bookings   *service.BookingService
	Export     *service.ExportService
	Prefs      *prefs.Store
	Clipboard  paste.Clipboard
}

// Options tweak startup. View, when set, wins over the saved default view.
type Options struct {
	View trade.Kind
}

type appState string

const (
	viewFX       appState = "fx"
	viewSwap     appState = "swap"
	viewSettings appState = "settings"
)

type modalState string

const (
	modalNone         modalState = ""
	modalConfirm      modalState = "confirm"
	modalCurrencyMenu modalState = "currencyMenu"
	modalFieldInput   modalState = "fieldInput"
	modalPairEditor   modalState = "pairEditor"
	modalSearch       modalState = "search"
	modalImportPath   modalState = "importPath"
	modalImportMode   modalState = "importMode"
)

type confirmAction string

const (
	confirmSend   confirmAction = "send"
	confirmDelete confirmAction = "delete"
)

type (
	prefsLoadedMsg struct {
		prefs prefs.Preferences
		err   error
	}
	prefsSavedMsg struct {
		prefs prefs.Preferences
		err   error
	}
	pastedMsg struct {
		kind    trade.Kind
		content paste.Content
		err     error
	}
	fxExtractedMsg struct {
		trade   trade.FXTrade
		content paste.Content
		err     error
	}
	swapExtractedMsg struct {
		trade   trade.SwapTrade
		content paste.Content
		err     error
	}
	bookedMsg struct {
		kind    trade.Kind
		booking repository.Booking
		err     error
	}
	exportedMsg struct {
		path string
		err  error
	}
	pairsParsedMsg struct {
		path   string
		result prefs.ImportResult
		err    error
	}
	statusMsg string
	errMsg    struct{ error }
)

func New(ctx context.Context, cfg config.Config, services Services, opts Options) *App {
	a := &App{
		ctx:          ctx,
		cfg:          cfg,
		services:     services,
		keys:         NewKeyRegistry(),
		prefs:        prefs.Defaults(),
		state:        viewFX,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		showPays:     true,
		showReceives: true,
	}
	if opts.View != "" {
		a.state = kindView(opts.View)
		a.viewPinned = true
	}
	a.settings = newSettingsState()
	return a
}

func (a *App) Init() tea.Cmd {
	return a.loadPrefs()
}

func (a *App) loadPrefs() tea.Cmd {
	return func() tea.Msg {
		if a.services.Prefs == nil {
			return prefsLoadedMsg{prefs: prefs.Defaults()}
		}
		p, err := a.services.Prefs.Load(a.ctx)
		return prefsLoadedMsg{prefs: p, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case tea.KeyMsg:
		return a.handleKey(m)
	case prefsLoadedMsg:
		if m.err != nil {
			slog.Error("load preferences", "error", m.err)
			a.setError("Could not load settings: " + m.err.Error())
			return a, nil
		}
		a.prefs = m.prefs
		if !a.viewPinned && a.state != viewSettings {
			a.state = kindView(m.prefs.DefaultView)
		}
		return a, nil
	case pastedMsg:
		if m.err != nil {
			a.setError(m.err.Error())
			return a, nil
		}
		return a, a.startExtraction(m.kind, m.content)
	case fxExtractedMsg:
		a.loading = ""
		if err := a.fx.Apply(m.trade, m.content, m.err); err != nil {
			a.setError(extract.FailureMessage)
			return a, nil
		}
		a.clearStatus()
		return a, nil
	case swapExtractedMsg:
		a.loading = ""
		if err := a.swap.Apply(m.trade, m.content, m.err); err != nil {
			a.setError(extract.FailureMessage)
			return a, nil
		}
		a.showPays, a.showReceives = true, true
		a.clearStatus()
		return a, nil
	case bookedMsg:
		a.sending = false
		if m.err != nil {
			slog.Error("book trade", "kind", m.kind, "error", m.err)
			a.setError("Could not send trade: " + m.err.Error())
			return a, nil
		}
		a.clearTrade(m.kind)
		a.setStatus(a.services.Bookings.SuccessMessage())
		return a, nil
	case exportedMsg:
		if m.err != nil {
			a.setError("Export failed: " + m.err.Error())
			return a, nil
		}
		a.setStatus("Saved " + m.path)
		return a, nil
	case prefsSavedMsg:
		if m.err != nil {
			a.setError("Could not save settings: " + m.err.Error())
			return a, nil
		}
		a.prefs = m.prefs
		a.closeSettings()
		a.setStatus("Settings saved")
		return a, nil
	case pairsParsedMsg:
		return a.handlePairsParsed(m)
	case statusMsg:
		a.setStatus(string(m))
		return a, nil
	case errMsg:
		a.setError(m.Error())
		return a, nil
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Paste {
		return a.handlePaste(m)
	}
	switch a.modal {
	case modalConfirm:
		return a.handleConfirmKey(m)
	case modalCurrencyMenu:
		return a.handleCurrencyMenuKey(m)
	case modalFieldInput:
		return a.handleFieldInputKey(m)
	case modalPairEditor:
		return a.handlePairEditorKey(m)
	case modalSearch:
		return a.handleSearchKey(m)
	case modalImportPath:
		return a.handleImportPathKey(m)
	case modalImportMode:
		return a.handleImportModeKey(m)
	}
	switch a.state {
	case viewSettings:
		return a.handleSettingsKey(m)
	case viewSwap:
		return a.handleSwapKey(m)
	default:
		return a.handleFXKey(m)
	}
}

// handlePaste routes bracketed pastes: into the focused text input when one
// is open, otherwise to extraction for the current trade view.
func (a *App) handlePaste(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.focusedInput() != nil {
		return a.updateInput(m)
	}
	if a.modal != modalNone || a.state == viewSettings || a.busy() {
		return a, nil
	}
	c, err := paste.FromPaste(string(m.Runes))
	if err != nil {
		return a, nil
	}
	return a, a.startExtraction(a.currentKind(), c)
}

// handleTradeKey covers the keys the FX and swap views share.
func (a *App) handleTradeKey(action Action) (tea.Model, tea.Cmd, bool) {
	kind := a.currentKind()
	switch action {
	case actionQuit:
		return a, tea.Quit, true
	case actionNextTab:
		if kind == trade.KindFX {
			a.state = viewSwap
		} else {
			a.state = viewFX
		}
		a.viewPinned = true
		a.clearStatus()
		return a, nil, true
	case actionSettings:
		a.openSettings()
		return a, nil, true
	case actionClipboard:
		if a.busy() || a.services.Clipboard == nil {
			return a, nil, true
		}
		return a, a.clipboardCmd(kind), true
	case actionExport:
		if v, ok := a.currentTrade(); ok {
			return a, a.exportCmd(v), true
		}
		return a, nil, true
	case actionDelete:
		if a.loaded(kind) {
			a.confirm = confirmDelete
			a.modal = modalConfirm
		}
		return a, nil, true
	case actionSend:
		if a.loaded(kind) && !a.sending && a.services.Bookings != nil {
			a.confirm = confirmSend
			a.modal = modalConfirm
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.Lookup(m.String(), scopeConfirm) {
	case actionConfirm:
		a.modal = modalNone
		kind := a.currentKind()
		if a.confirm == confirmDelete {
			a.clearTrade(kind)
			a.setStatus("Trade deleted")
			return a, nil
		}
		v, ok := a.currentTrade()
		if !ok {
			return a, nil
		}
		a.sending = true
		a.clearStatus()
		return a, tea.Batch(a.bookCmd(kind, v, a.summary(kind)), a.spinner.Tick)
	case actionCancel:
		a.modal = modalNone
	case actionQuit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) startExtraction(kind trade.Kind, c paste.Content) tea.Cmd {
	if a.busy() || a.services.Extraction == nil {
		return nil
	}
	a.loading = kind
	a.clearStatus()
	return tea.Batch(a.extractCmd(kind, c), a.spinner.Tick)
}

// commands

func (a *App) extractCmd(kind trade.Kind, c paste.Content) tea.Cmd {
	p := a.prefs.Clone()
	if kind == trade.KindSwap {
		return func() tea.Msg {
			t, err := a.services.Extraction.ExtractSwap(a.ctx, c, p)
			return swapExtractedMsg{trade: t, content: c, err: err}
		}
	}
	return func() tea.Msg {
		t, err := a.services.Extraction.ExtractFX(a.ctx, c, p)
		return fxExtractedMsg{trade: t, content: c, err: err}
	}
}

func (a *App) clipboardCmd(kind trade.Kind) tea.Cmd {
	return func() tea.Msg {
		c, err := paste.FromClipboard(a.services.Clipboard)
		return pastedMsg{kind: kind, content: c, err: err}
	}
}

func (a *App) bookCmd(kind trade.Kind, v any, summary string) tea.Cmd {
	return func() tea.Msg {
		b, err := a.services.Bookings.Submit(a.ctx, kind, v, summary)
		return bookedMsg{kind: kind, booking: b, err: err}
	}
}

func (a *App) exportCmd(v any) tea.Cmd {
	return func() tea.Msg {
		if a.services.Export == nil {
			return errMsg{errNoExport}
		}
		path, err := a.services.Export.Export(v)
		return exportedMsg{path: path, err: err}
	}
}

func (a *App) savePrefsCmd(p prefs.Preferences) tea.Cmd {
	return func() tea.Msg {
		if a.services.Prefs != nil {
			if err := a.services.Prefs.Save(a.ctx, p); err != nil {
				return prefsSavedMsg{err: err}
			}
		}
		return prefsSavedMsg{prefs: p}
	}
}

// helpers

func (a *App) busy() bool { return a.loading != "" || a.sending }

func (a *App) currentKind() trade.Kind {
	if a.state == viewSwap {
		return trade.KindSwap
	}
	return trade.KindFX
}

func (a *App) loaded(kind trade.Kind) bool {
	if kind == trade.KindSwap {
		return a.swap.Loaded()
	}
	return a.fx.Loaded()
}

// currentTrade is the displayed trade, as shown, for export and booking.
func (a *App) currentTrade() (any, bool) {
	if a.currentKind() == trade.KindSwap {
		t, ok := a.swap.Trade()
		return t, ok
	}
	t, ok := a.fx.Trade()
	return t, ok
}

func (a *App) summary(kind trade.Kind) string {
	if kind == trade.KindSwap {
		t, _ := a.swap.Trade()
		return trade.SwapProse(t, a.prefs.Entity)
	}
	t, _ := a.fx.Trade()
	return trade.FXProse(t, a.prefs.Entity)
}

func (a *App) clearTrade(kind trade.Kind) {
	if kind == trade.KindSwap {
		a.swap.Clear()
		return
	}
	a.fx.Clear()
}

func (a *App) setStatus(s string) { a.status, a.isErr = s, false }
func (a *App) setError(s string)  { a.status, a.isErr = s, true }
func (a *App) clearStatus()       { a.status, a.isErr = "", false }

func kindView(k trade.Kind) appState {
	if k == trade.KindSwap {
		return viewSwap
	}
	return viewFX
}

// view

func (a *App) View() string {
	var body string
	switch a.state {
	case viewSettings:
		body = a.renderSettings()
	case viewSwap:
		body = a.renderSwap()
	default:
		body = a.renderFX()
	}
	if a.modal != modalNone {
		body += "\n\n" + modalStyle.Render(a.renderModal())
	}
	out := a.renderTabs() + "\n\n" + body
	return a.placeWithFooter(out, a.renderStatus(), a.renderFooter(a.keys.HelpBindings(a.scope())))
}

func (a *App) scope() string {
	switch a.modal {
	case modalConfirm:
		return scopeConfirm
	case modalCurrencyMenu:
		return scopeCurrencyMenu
	case modalFieldInput:
		return scopeSettingsInput
	case modalPairEditor:
		return scopePairEditor
	case modalSearch:
		return scopeSearch
	case modalImportPath:
		return scopeImportPath
	case modalImportMode:
		return scopeImportMode
	}
	switch a.state {
	case viewSettings:
		return scopeSettings
	case viewSwap:
		return scopeSwap
	}
	return scopeFX
}

func (a *App) renderTabs() string {
	tabs := []struct {
		label string
		state appState
	}{{"FX", viewFX}, {"Swap", viewSwap}, {"Settings", viewSettings}}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.state == a.state {
			parts = append(parts, activeTabStyle.Render(t.label))
		} else {
			parts = append(parts, tabStyle.Render(t.label))
		}
	}
	return titleStyle.Render("Trade Snipper") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirm:
		if a.confirm == confirmDelete {
			return titleStyle.Render("Delete trade?") + "\nThe detected trade will be cleared.\n[y] Yes  [n] No"
		}
		return titleStyle.Render("Send trade") + "\n" + a.services.Bookings.ConfirmPrompt() + "\n[y] Yes  [n] No"
	case modalCurrencyMenu:
		return a.renderCurrencyMenu()
	default:
		return a.renderSettingsModal()
	}
}

func (a *App) renderPasteBox(kind trade.Kind, c paste.Content) string {
	var line string
	switch {
	case a.loading == kind:
		line = a.spinner.View() + " Processing trade..."
	case c.IsZero():
		line = mutedStyle.Render("Paste a " + kind.Label() + " trade (text or an image path), or press p to read the clipboard")
	default:
		line = c.Preview()
	}
	w := paste.PreviewWidth + 6
	if a.width > 0 && a.width-4 > w {
		w = a.width - 4
	}
	return pasteBoxStyle.Width(w).Render(line)
}

func (a *App) renderStatus() string {
	text := a.status
	switch {
	case a.sending:
		text = a.spinner.View() + " Sending trade to " + a.bookingTarget() + "..."
	case text == "":
	case a.isErr:
		text = errorStyle.Background(colorSurface0).Render(text)
	default:
		text = successStyle.Background(colorSurface0).Render(text)
	}
	flat := strings.ReplaceAll(text, "\n", " ")
	if a.width == 0 {
		return statusBarStyle.Render(flat)
	}
	return statusBarStyle.Width(a.width).Render(flat)
}

func (a *App) bookingTarget() string {
	if a.services.Bookings != nil && a.services.Bookings.Target != "" {
		return a.services.Bookings.Target
	}
	return "Murex"
}
