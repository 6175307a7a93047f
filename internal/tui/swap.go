package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tradesnipper/internal/trade"
)

func (a *App) handleSwapKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := a.keys.Lookup(m.String(), scopeSwap)
	if model, cmd, ok := a.handleTradeKey(action); ok {
		return model, cmd
	}
	switch action {
	case actionToggleTable1:
		a.showPays = !a.showPays
	case actionToggleTable2:
		a.showReceives = !a.showReceives
	}
	return a, nil
}

var cashflowColumns = []table.Column{
	{Title: "Start", Width: 11},
	{Title: "End", Width: 11},
	{Title: "Rate", Width: 10},
	{Title: "Spread", Width: 8},
	{Title: "Capital", Width: 16},
	{Title: "Amortization", Width: 14},
	{Title: "Interest", Width: 16},
}

func (a *App) renderSwap() string {
	var b strings.Builder
	b.WriteString(a.renderPasteBox(trade.KindSwap, a.swap.Content()))
	t, ok := a.swap.Trade()
	if !ok {
		return b.String()
	}
	b.WriteString("\n\n")
	b.WriteString(sectionStyle.Render(t.Title()))
	b.WriteString("\n\n")
	b.WriteString(proseStyle.Width(a.textWidth()).Render(trade.SwapProse(t, a.prefs.Entity)))
	b.WriteString("\n\n")
	b.WriteString(renderFields([]trade.Field{
		{Label: "Trade Date", Value: orDash(t.Info.TradeDate)},
		{Label: "Maturity", Value: orDash(t.Info.Maturity)},
		{Label: "Accepted Price", Value: trade.FormatPrice(t.Info.AcceptedPrice)},
		{Label: "Accepted Side", Value: orDash(t.Info.AcceptedSide)},
	}))

	pays, receives, err := trade.SwapCashflowTables(t, a.prefs.Entity)
	if err != nil {
		if !a.prefs.HasEntity() {
			b.WriteString("\n\n" + warningStyle.Render(trade.NoEntityText))
		}
		return b.String()
	}
	if a.showPays {
		b.WriteString("\n\n" + renderCashflowTable(pays))
	}
	if a.showReceives {
		b.WriteString("\n\n" + renderCashflowTable(receives))
	}
	return b.String()
}

func renderCashflowTable(ct trade.CashflowTable) string {
	rows := make([]table.Row, 0, len(ct.Leg.Cashflows))
	for _, cf := range ct.Leg.Cashflows {
		rows = append(rows, table.Row{
			cf.StartDate,
			cf.EndDate,
			trade.FormatRate(cf.Rate),
			trade.FormatRate(cf.Spread),
			trade.FormatAmount(cf.RemainingCapital),
			trade.FormatAmount(cf.Amortization),
			trade.FormatAmount(cf.Interest),
		})
	}
	styles := table.DefaultStyles()
	styles.Header = tableHeaderStyle
	styles.Cell = tableCellStyle
	styles.Selected = tableSelectedStyle
	tbl := table.New(
		table.WithColumns(cashflowColumns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithFocused(false),
		table.WithStyles(styles),
	)
	head := labelStyle.Render(ct.Label) + "  " + mutedStyle.Render(
		ct.Leg.Currency+" "+ct.Leg.LegType+" | "+ct.DayCountConvention+" | "+ct.BusinessDayConvention)
	return head + "\n" + tbl.View()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return trade.NotMentioned
	}
	return s
}
