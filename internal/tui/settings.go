package tui

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tradesnipper/internal/prefs"
	"github.com/jask/tradesnipper/internal/trade"
)

// Settings rows before the pair list.
const (
	rowName = iota
	rowEntity
	rowProvider
	rowView
	rowPairs
)

// settingsState is the settings draft. Nothing reaches the store until the
// draft is saved; closing the view discards it.
type settingsState struct {
	draft  prefs.Preferences
	cursor int
	err    string

	field int
	input textinput.Model

	editing   int
	pairFocus int
	person    textinput.Model
	company   textinput.Model

	search textinput.Model
	term   string

	importPath textinput.Model
	pending    prefs.ImportResult
}

func newSettingsState() settingsState {
	mk := func(placeholder string) textinput.Model {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		in.CharLimit = 256
		in.TextStyle = editStyle
		in.Cursor.SetMode(cursor.CursorStatic)
		return in
	}
	return settingsState{
		input:      mk(""),
		person:     mk("Person"),
		company:    mk("Company"),
		search:     mk("search pairs"),
		importPath: mk("path/to/pairs.csv"),
	}
}

func (a *App) openSettings() {
	if a.state != viewSettings {
		a.prevState = a.state
	}
	a.state = viewSettings
	s := &a.settings
	s.draft = a.prefs.Clone()
	s.cursor, s.err, s.term = 0, "", ""
	s.search.SetValue("")
	a.clearStatus()
}

func (a *App) closeSettings() {
	a.state = a.prevState
	if a.state == "" || a.state == viewSettings {
		a.state = viewFX
	}
	a.modal = modalNone
	a.settings.draft = prefs.Preferences{}
}

// visiblePairs maps list rows to pair indexes, honouring the search filter.
func (a *App) visiblePairs() []int {
	s := &a.settings
	if strings.TrimSpace(s.term) == "" {
		out := make([]int, len(s.draft.Pairs))
		for i := range out {
			out[i] = i
		}
		return out
	}
	matches := prefs.Search(s.draft.Pairs, s.term)
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Index)
	}
	return out
}

func (a *App) clampSettingsCursor() {
	last := rowPairs + len(a.visiblePairs()) - 1
	a.settings.cursor = max(0, min(a.settings.cursor, last))
}

// selectedPair is the pair index under the cursor, or -1.
func (a *App) selectedPair() int {
	row := a.settings.cursor - rowPairs
	visible := a.visiblePairs()
	if row < 0 || row >= len(visible) {
		return -1
	}
	return visible[row]
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.settings
	switch a.keys.Lookup(m.String(), scopeSettings) {
	case actionQuit:
		return a, tea.Quit
	case actionNavigate:
		switch m.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		default:
			s.cursor++
			a.clampSettingsCursor()
		}
	case actionSelect:
		return a, a.editSettingsRow()
	case actionAdd:
		return a, a.openPairEditor(-1)
	case actionDeletePair:
		if idx := a.selectedPair(); idx >= 0 {
			s.draft.Pairs = slices.Delete(slices.Clone(s.draft.Pairs), idx, idx+1)
			a.clampSettingsCursor()
		}
	case actionSearch:
		a.modal = modalSearch
		s.search.SetValue(s.term)
		s.search.CursorEnd()
		return a, s.search.Focus()
	case actionImport:
		a.modal = modalImportPath
		s.importPath.SetValue("")
		return a, s.importPath.Focus()
	case actionSave:
		if err := s.draft.Validate(); err != nil {
			s.err = prefs.ValidationMessage
			return a, nil
		}
		s.err = ""
		return a, a.savePrefsCmd(s.draft.Clone())
	case actionBack:
		a.closeSettings()
	}
	return a, nil
}

func (a *App) editSettingsRow() tea.Cmd {
	s := &a.settings
	switch s.cursor {
	case rowName, rowEntity:
		s.field = s.cursor
		if s.cursor == rowName {
			s.input.SetValue(s.draft.Name)
		} else {
			s.input.SetValue(s.draft.Entity)
		}
		s.input.CursorEnd()
		a.modal = modalFieldInput
		return s.input.Focus()
	case rowProvider:
		s.draft.Provider = s.draft.Provider.Next()
	case rowView:
		if s.draft.DefaultView == trade.KindSwap {
			s.draft.DefaultView = trade.KindFX
		} else {
			s.draft.DefaultView = trade.KindSwap
		}
	default:
		if idx := a.selectedPair(); idx >= 0 {
			return a.openPairEditor(idx)
		}
	}
	return nil
}

func (a *App) openPairEditor(idx int) tea.Cmd {
	s := &a.settings
	s.editing, s.pairFocus = idx, 0
	p := prefs.Pair{}
	if idx >= 0 && idx < len(s.draft.Pairs) {
		p = s.draft.Pairs[idx]
	}
	s.person.SetValue(p.Person)
	s.company.SetValue(p.Company)
	s.company.Blur()
	a.modal = modalPairEditor
	return s.person.Focus()
}

// focusedInput is the text input receiving keys, if any.
func (a *App) focusedInput() *textinput.Model {
	s := &a.settings
	switch a.modal {
	case modalFieldInput:
		return &s.input
	case modalPairEditor:
		if s.pairFocus == 1 {
			return &s.company
		}
		return &s.person
	case modalSearch:
		return &s.search
	case modalImportPath:
		return &s.importPath
	}
	return nil
}

func (a *App) afterInputChange() {
	if a.modal == modalSearch {
		a.settings.term = a.settings.search.Value()
		a.clampSettingsCursor()
	}
}

// updateInput feeds a key to the focused input.
func (a *App) updateInput(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := a.focusedInput()
	if in == nil {
		return a, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(m)
	a.afterInputChange()
	return a, cmd
}

func (a *App) handleFieldInputKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.settings
	switch a.keys.Lookup(m.String(), scopeSettingsInput) {
	case actionSubmitInput:
		v := strings.TrimSpace(s.input.Value())
		if s.field == rowName {
			s.draft.Name = v
		} else {
			s.draft.Entity = v
		}
		s.input.Blur()
		a.modal = modalNone
		return a, nil
	case actionCancelInput:
		s.input.Blur()
		a.modal = modalNone
		return a, nil
	case actionQuit:
		return a, tea.Quit
	}
	return a.updateInput(m)
}

func (a *App) handlePairEditorKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.settings
	switch a.keys.Lookup(m.String(), scopePairEditor) {
	case actionNextField:
		s.pairFocus = 1 - s.pairFocus
		if s.pairFocus == 1 {
			s.person.Blur()
			return a, s.company.Focus()
		}
		s.company.Blur()
		return a, s.person.Focus()
	case actionSubmitInput:
		p := prefs.Pair{
			Person:  strings.TrimSpace(s.person.Value()),
			Company: strings.TrimSpace(s.company.Value()),
		}
		pairs := slices.Clone(s.draft.Pairs)
		if s.editing >= 0 && s.editing < len(pairs) {
			pairs[s.editing] = p
		} else {
			pairs = append(pairs, p)
			if s.term == "" {
				s.cursor = rowPairs + len(pairs) - 1
			}
		}
		s.draft.Pairs = pairs
		s.person.Blur()
		s.company.Blur()
		a.modal = modalNone
		a.clampSettingsCursor()
		return a, nil
	case actionCancelInput:
		s.person.Blur()
		s.company.Blur()
		a.modal = modalNone
		return a, nil
	case actionQuit:
		return a, tea.Quit
	}
	return a.updateInput(m)
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.settings
	switch a.keys.Lookup(m.String(), scopeSearch) {
	case actionSubmitInput:
		s.search.Blur()
		a.modal = modalNone
		if len(a.visiblePairs()) > 0 {
			s.cursor = rowPairs
		}
		return a, nil
	case actionClearSearch:
		s.search.Blur()
		s.search.SetValue("")
		s.term = ""
		a.modal = modalNone
		a.clampSettingsCursor()
		return a, nil
	case actionQuit:
		return a, tea.Quit
	}
	return a.updateInput(m)
}

func (a *App) handleImportPathKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.settings
	switch a.keys.Lookup(m.String(), scopeImportPath) {
	case actionSubmitInput:
		path := strings.Trim(strings.TrimSpace(s.importPath.Value()), `'"`)
		s.importPath.Blur()
		a.modal = modalNone
		if path == "" {
			return a, nil
		}
		return a, parsePairsCmd(path)
	case actionCancelInput:
		s.importPath.Blur()
		a.modal = modalNone
		return a, nil
	case actionQuit:
		return a, tea.Quit
	}
	return a.updateInput(m)
}

func parsePairsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return pairsParsedMsg{path: path, err: err}
		}
		defer f.Close()
		res, err := prefs.ParsePairs(f)
		return pairsParsedMsg{path: path, result: res, err: err}
	}
}

func (a *App) handlePairsParsed(m pairsParsedMsg) (tea.Model, tea.Cmd) {
	if a.state != viewSettings {
		return a, nil
	}
	if m.err != nil {
		a.setError("Import failed: " + m.err.Error())
		return a, nil
	}
	if len(m.result.Pairs) == 0 {
		a.setError("No person/company pairs found in " + m.path)
		return a, nil
	}
	a.settings.pending = m.result
	a.modal = modalImportMode
	return a, nil
}

func (a *App) handleImportModeKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &a.settings
	var mode prefs.ImportMode
	switch a.keys.Lookup(m.String(), scopeImportMode) {
	case actionAppend:
		mode = prefs.Append
	case actionOverwrite:
		mode = prefs.Overwrite
	case actionCancel:
		s.pending = prefs.ImportResult{}
		a.modal = modalNone
		return a, nil
	case actionQuit:
		return a, tea.Quit
	default:
		return a, nil
	}
	s.draft.Pairs = prefs.Merge(s.draft.Pairs, s.pending.Pairs, mode)
	msg := fmt.Sprintf("Imported %d pairs (%s)", len(s.pending.Pairs), mode)
	if s.pending.Skipped > 0 {
		msg += fmt.Sprintf(", skipped %d rows", s.pending.Skipped)
	}
	s.pending = prefs.ImportResult{}
	a.modal = modalNone
	a.clampSettingsCursor()
	a.setStatus(msg + ". Save to keep them.")
	return a, nil
}

func (a *App) renderSettings() string {
	s := &a.settings
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Settings"))
	b.WriteString("\n\n")

	row := func(i int, label, value string) {
		if value == "" {
			value = mutedStyle.Render("(not set)")
		}
		b.WriteString(cursorMarker(s.cursor == i) + labelStyle.Render(fmt.Sprintf("%-14s", label)) + " " + value + "\n")
	}
	row(rowName, "Name", s.draft.Name)
	row(rowEntity, "Entity", s.draft.Entity)
	row(rowProvider, "AI Provider", string(s.draft.Provider))
	row(rowView, "Default View", s.draft.DefaultView.Label())

	b.WriteString("\n" + labelStyle.Render("Person / Company pairs"))
	if s.term != "" {
		b.WriteString("  " + mutedStyle.Render("filter: "+s.term))
	}
	b.WriteString("\n")
	visible := a.visiblePairs()
	if len(visible) == 0 {
		if s.term != "" {
			b.WriteString(mutedStyle.Render("  no matching pairs") + "\n")
		} else {
			b.WriteString(mutedStyle.Render("  no pairs yet, press a to add one or i to import a CSV") + "\n")
		}
	}
	for r, idx := range visible {
		p := s.draft.Pairs[idx]
		person, company := p.Person, p.Company
		if strings.TrimSpace(person) == "" {
			person = warningStyle.Render("(person)")
		}
		if strings.TrimSpace(company) == "" {
			company = warningStyle.Render("(company)")
		}
		b.WriteString(cursorMarker(s.cursor == rowPairs+r) + fmt.Sprintf("%3d. %s → %s\n", idx+1, person, company))
	}
	if s.err != "" {
		b.WriteString("\n" + errorStyle.Render(s.err))
	}
	return b.String()
}

func (a *App) renderSettingsModal() string {
	s := &a.settings
	switch a.modal {
	case modalFieldInput:
		label := "Name"
		if s.field == rowEntity {
			label = "Entity"
		}
		return titleStyle.Render(label) + "\n" + s.input.View() + "\n[enter] Done  [esc] Cancel"
	case modalPairEditor:
		title := "Edit pair"
		if s.editing < 0 {
			title = "New pair"
		}
		return titleStyle.Render(title) + "\n" +
			labelStyle.Render("Person:  ") + s.person.View() + "\n" +
			labelStyle.Render("Company: ") + s.company.View() + "\n[tab] Switch  [enter] Apply  [esc] Cancel"
	case modalSearch:
		return titleStyle.Render("Search pairs") + "\n/" + s.search.View()
	case modalImportPath:
		return titleStyle.Render("Import pairs from CSV") + "\n" + s.importPath.View() + "\n[enter] Read  [esc] Cancel"
	case modalImportMode:
		msg := fmt.Sprintf("%d pairs found", len(s.pending.Pairs))
		if s.pending.Skipped > 0 {
			msg += fmt.Sprintf(" (%d rows skipped)", s.pending.Skipped)
		}
		return titleStyle.Render("Import pairs") + "\n" + msg +
			". Append to or overwrite the current list?\n[a] Append  [o] Overwrite  [c] Cancel"
	}
	return ""
}
