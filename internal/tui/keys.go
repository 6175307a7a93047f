package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
}

// KeyRegistry maps keys to actions per scope. The same table drives key
// dispatch and the footer help, so the two cannot drift apart.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal        = "global"
	scopeFX            = "fx"
	scopeSwap          = "swap"
	scopeSettings      = "settings"
	scopeSettingsInput = "settings_input"
	scopeSearch        = "search"
	scopePairEditor    = "pair_editor"
	scopeImportPath    = "import_path"
	scopeImportMode    = "import_mode"
	scopeConfirm       = "confirm"
	scopeCurrencyMenu  = "currency_menu"
)

const (
	actionQuit         Action = "quit"
	actionNextTab      Action = "next_tab"
	actionSettings     Action = "settings"
	actionClipboard    Action = "clipboard"
	actionFlip         Action = "flip"
	actionCurrency1    Action = "currency_1"
	actionCurrency2    Action = "currency_2"
	actionToggleTable1 Action = "toggle_table_1"
	actionToggleTable2 Action = "toggle_table_2"
	actionExport       Action = "export"
	actionDelete       Action = "delete"
	actionSend         Action = "send"
	actionNavigate     Action = "navigate"
	actionUp           Action = "up"
	actionDown         Action = "down"
	actionSelect       Action = "select"
	actionCancel       Action = "cancel"
	actionBack         Action = "back"
	actionSave         Action = "save"
	actionAdd          Action = "add"
	actionSearch       Action = "search"
	actionImport       Action = "import"
	actionConfirm      Action = "confirm"
	actionNextField    Action = "next_field"
	actionAppend       Action = "append"
	actionOverwrite    Action = "overwrite"
	actionDeletePair   Action = "delete_pair"
	actionClearSearch  Action = "clear_search"
	actionSubmitInput  Action = "submit_input"
	actionCancelInput  Action = "cancel_input"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}
	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(scope, Binding{Action: action, Keys: keys, Help: help})
	}

	reg(scopeGlobal, actionQuit, []string{"ctrl+c"}, "quit")

	for _, scope := range []string{scopeFX, scopeSwap} {
		reg(scope, actionClipboard, []string{"p", "ctrl+v"}, "paste clipboard")
		reg(scope, actionNextTab, []string{"tab", "shift+tab"}, "fx/swap")
		reg(scope, actionSettings, []string{","}, "settings")
	}
	reg(scopeFX, actionFlip, []string{"b"}, "flip direction")
	reg(scopeFX, actionCurrency1, []string{"1"}, "currency 1")
	reg(scopeFX, actionCurrency2, []string{"2"}, "currency 2")
	reg(scopeSwap, actionToggleTable1, []string{"1"}, "pays table")
	reg(scopeSwap, actionToggleTable2, []string{"2"}, "receives table")
	for _, scope := range []string{scopeFX, scopeSwap} {
		reg(scope, actionExport, []string{"e"}, "export json")
		reg(scope, actionDelete, []string{"x"}, "delete")
		reg(scope, actionSend, []string{"s"}, "send")
		reg(scope, actionQuit, []string{"q"}, "quit")
	}

	reg(scopeSettings, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeSettings, actionSelect, []string{"enter", "space"}, "edit")
	reg(scopeSettings, actionAdd, []string{"a"}, "add pair")
	reg(scopeSettings, actionDeletePair, []string{"d", "delete"}, "delete pair")
	reg(scopeSettings, actionSearch, []string{"/"}, "search")
	reg(scopeSettings, actionImport, []string{"i"}, "import csv")
	reg(scopeSettings, actionSave, []string{"ctrl+s"}, "save")
	reg(scopeSettings, actionBack, []string{"esc"}, "close")

	reg(scopeSettingsInput, actionSubmitInput, []string{"enter"}, "done")
	reg(scopeSettingsInput, actionCancelInput, []string{"esc"}, "cancel")

	reg(scopeSearch, actionSubmitInput, []string{"enter"}, "keep filter")
	reg(scopeSearch, actionClearSearch, []string{"esc"}, "clear")

	reg(scopePairEditor, actionNextField, []string{"tab", "shift+tab"}, "person/company")
	reg(scopePairEditor, actionSubmitInput, []string{"enter"}, "apply")
	reg(scopePairEditor, actionCancelInput, []string{"esc"}, "cancel")

	reg(scopeImportPath, actionSubmitInput, []string{"enter"}, "read file")
	reg(scopeImportPath, actionCancelInput, []string{"esc"}, "cancel")

	reg(scopeImportMode, actionAppend, []string{"a"}, "append")
	reg(scopeImportMode, actionOverwrite, []string{"o"}, "overwrite")
	reg(scopeImportMode, actionCancel, []string{"c", "esc"}, "cancel")

	reg(scopeConfirm, actionConfirm, []string{"y"}, "yes")
	reg(scopeConfirm, actionCancel, []string{"n", "esc"}, "no")

	reg(scopeCurrencyMenu, actionUp, []string{"up", "k"}, "up")
	reg(scopeCurrencyMenu, actionDown, []string{"down", "j"}, "down")
	reg(scopeCurrencyMenu, actionSelect, []string{"enter"}, "choose")
	reg(scopeCurrencyMenu, actionCancel, []string{"esc"}, "cancel")
	return r
}

// Register adds b to scope. Keys already bound in the scope are skipped.
func (r *KeyRegistry) Register(scope string, b Binding) {
	keys := normalizeKeyList(b.Keys)
	if len(keys) == 0 {
		return
	}
	if _, ok := r.indexByScope[scope]; !ok {
		r.indexByScope[scope] = make(map[string]*Binding)
	}
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, taken := lookup[k]; taken {
			return
		}
	}
	cp := b
	cp.Keys = keys
	r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &cp)
	for _, k := range keys {
		lookup[k] = &cp
	}
}

// Lookup finds the action for a key in scope, falling back to global.
func (r *KeyRegistry) Lookup(keyName, scope string) Action {
	keyName = normalizeKeyName(keyName)
	if keyName == "" {
		return ""
	}
	if b, ok := r.indexByScope[scope][keyName]; ok {
		return b.Action
	}
	if b, ok := r.indexByScope[scopeGlobal][keyName]; ok {
		return b.Action
	}
	return ""
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.bindingsByScope[scope]
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if len(trimmed) == 1 {
		return trimmed
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	return s
}
