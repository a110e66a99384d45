package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys replays keys into m before the first frame, as if the user
// had typed them. Tokens use Vim-like notation ("<CR>", "<C-t>", "<A-Up>",
// "<S-Tab>", "<F5>"); other text is typed literally. A leading backslash
// forces the whole token to be literal. It returns the updated model.
func ApplyStartupKeys(m tea.Model, keys []string) tea.Model {
	if m == nil {
		return nil
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, `\`) {
			m = typeLiteral(m, strings.TrimPrefix(token, `\`))
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isKey {
				m = typeLiteral(m, segment.text)
				continue
			}
			msg, ok := keyMsgFromToken(segment.text)
			if !ok {
				m = typeLiteral(m, segment.text)
				continue
			}
			m, _ = m.Update(msg)
		}
	}
	return m
}

func typeLiteral(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return m
}

type tokenSegment struct {
	text  string
	isKey bool
}

// parseTokenSegments splits "<F1>abc" into a key segment and a literal one.
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token

	for len(remaining) > 0 {
		start := strings.Index(remaining, "<")
		if start == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.Index(remaining[start:], ">")
		if end == -1 {
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

var namedKeys = map[string]rune{
	"esc":       tea.KeyEscape,
	"escape":    tea.KeyEscape,
	"cr":        tea.KeyEnter,
	"enter":     tea.KeyEnter,
	"return":    tea.KeyEnter,
	"tab":       tea.KeyTab,
	"space":     tea.KeySpace,
	"bs":        tea.KeyBackspace,
	"backspace": tea.KeyBackspace,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pageup":    tea.KeyPgUp,
	"pagedown":  tea.KeyPgDown,
	"f1":        tea.KeyF1,
	"f2":        tea.KeyF2,
	"f3":        tea.KeyF3,
	"f4":        tea.KeyF4,
	"f5":        tea.KeyF5,
	"f6":        tea.KeyF6,
	"f7":        tea.KeyF7,
	"f8":        tea.KeyF8,
	"f9":        tea.KeyF9,
	"f10":       tea.KeyF10,
	"f11":       tea.KeyF11,
	"f12":       tea.KeyF12,
}

// keyMsgFromToken parses one "<...>" token. Modifier prefixes C-, A-/M- and
// S- may be combined, e.g. "<C-S-Tab>".
func keyMsgFromToken(token string) (tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return tea.KeyPressMsg{}, false
	}
	inner := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">"))
	if inner == "c-[" {
		return tea.KeyPressMsg{Code: tea.KeyEscape}, true
	}

	var mod tea.KeyMod
	for len(inner) > 2 && inner[1] == '-' {
		switch inner[0] {
		case 'c':
			mod |= tea.ModCtrl
		case 'a', 'm':
			mod |= tea.ModAlt
		case 's':
			mod |= tea.ModShift
		default:
			return tea.KeyPressMsg{}, false
		}
		inner = inner[2:]
	}

	if code, ok := namedKeys[inner]; ok {
		msg := tea.KeyPressMsg{Code: code, Mod: mod}
		if code == tea.KeySpace && mod == 0 {
			msg.Text = " "
		}
		return msg, true
	}
	if r := []rune(inner); len(r) == 1 && mod != 0 {
		return tea.KeyPressMsg{Code: r[0], Mod: mod}, true
	}
	return tea.KeyPressMsg{}, false
}
