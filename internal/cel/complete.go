package cel

import (
	"sort"
	"strings"
)

// Variables returns the names bound for every item, sorted.
func Variables() []string {
	vars := []string{VarName, VarPath, VarLeaf, VarDepth, VarKind, VarSize}
	sort.Strings(vars)
	return vars
}

// Complete extends the identifier at the end of text to the longest prefix
// shared by the candidates it starts. Identifiers after a dot only complete
// against functions, since members are always method calls here. It reports
// whether text changed.
func Complete(text string, variables, functions []string) (string, bool) {
	start := len(text)
	for start > 0 {
		if !isIdentByte(text[start-1]) {
			break
		}
		start--
	}
	token := text[start:]
	if token == "" {
		return text, false
	}
	pool := functions
	if start == 0 || text[start-1] != '.' {
		pool = append(append([]string(nil), variables...), functions...)
	}

	var matches []string
	for _, c := range pool {
		if strings.HasPrefix(c, token) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return text, false
	}
	prefix := matches[0]
	for _, m := range matches[1:] {
		for !strings.HasPrefix(m, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if len(prefix) <= len(token) {
		return text, false
	}
	return text[:start] + prefix, true
}

func isIdentByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
