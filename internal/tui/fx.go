package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tradesnipper/internal/trade"
)

func (a *App) handleFXKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := a.keys.Lookup(m.String(), scopeFX)
	if model, cmd, ok := a.handleTradeKey(action); ok {
		return model, cmd
	}
	switch action {
	case actionFlip:
		if a.fx.Update(trade.FXTrade.WithDirectionFlipped) {
			a.clearStatus()
		}
	case actionCurrency1:
		a.openCurrencyMenu(trade.Currency1)
	case actionCurrency2:
		a.openCurrencyMenu(trade.Currency2)
	}
	return a, nil
}

func (a *App) openCurrencyMenu(slot trade.CurrencySlot) {
	t, ok := a.fx.Trade()
	if !ok || len(a.cfg.UI.Currencies) == 0 {
		return
	}
	a.currencySlot = slot
	a.currencyCursor = 0
	current := t.Currency(slot)
	for i, code := range a.cfg.UI.Currencies {
		if strings.EqualFold(code, current) {
			a.currencyCursor = i
		}
	}
	a.modal = modalCurrencyMenu
}

func (a *App) handleCurrencyMenuKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	codes := a.cfg.UI.Currencies
	switch a.keys.Lookup(m.String(), scopeCurrencyMenu) {
	case actionUp:
		if a.currencyCursor > 0 {
			a.currencyCursor--
		}
	case actionDown:
		if a.currencyCursor < len(codes)-1 {
			a.currencyCursor++
		}
	case actionSelect:
		a.modal = modalNone
		if a.currencyCursor >= len(codes) {
			return a, nil
		}
		code := codes[a.currencyCursor]
		var setErr error
		a.fx.Update(func(t trade.FXTrade) trade.FXTrade {
			next, err := t.WithCurrency(a.currencySlot, code)
			if err != nil {
				setErr = err
				return t
			}
			return next
		})
		if setErr != nil {
			a.setError(setErr.Error())
		}
	case actionCancel:
		a.modal = modalNone
	case actionQuit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) renderCurrencyMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Currency %d", a.currencySlot)))
	b.WriteString("\n")
	for i, code := range a.cfg.UI.Currencies {
		b.WriteString(cursorMarker(i == a.currencyCursor) + code + "\n")
	}
	b.WriteString("[enter] Select  [esc] Cancel")
	return b.String()
}

func (a *App) renderFX() string {
	var b strings.Builder
	b.WriteString(a.renderPasteBox(trade.KindFX, a.fx.Content()))
	t, ok := a.fx.Trade()
	if !ok {
		return b.String()
	}
	b.WriteString("\n\n")
	b.WriteString(sectionStyle.Render(t.Title()))
	b.WriteString("\n\n")
	b.WriteString(proseStyle.Width(a.textWidth()).Render(trade.FXProse(t, a.prefs.Entity)))
	b.WriteString("\n\n")

	fields := []trade.Field{
		{Label: "Currency 1", Value: t.Currency(trade.Currency1)},
		{Label: "Currency 2", Value: t.Currency(trade.Currency2)},
		{Label: "Direction", Value: string(t.Summary.Direction)},
		{Label: "Notional", Value: trade.FormatAmount(t.Summary.Notional)},
	}
	if details, err := trade.FXDetails(t, a.prefs.Entity); err == nil {
		fields = append(fields, details...)
	} else if !a.prefs.HasEntity() {
		b.WriteString(warningStyle.Render(trade.NoEntityText) + "\n\n")
	}
	b.WriteString(renderFields(fields))
	return b.String()
}

func renderFields(fields []trade.Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%-*s", width+1, f.Label+":"))+" "+strongStyle.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}

func (a *App) textWidth() int {
	if a.width <= 4 {
		return 80
	}
	return a.width - 4
}
