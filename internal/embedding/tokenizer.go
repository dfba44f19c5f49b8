package embedding

import (
	"regexp"
	"strings"
)

// DefaultIgnore lists the punctuation tokens dropped before embedding.
var DefaultIgnore = []string{"?", ".", ",", "!"}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)

// Tokenize lowercases text and splits it into word and punctuation tokens,
// dropping any token listed in ignore.
func Tokenize(text string, ignore []string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	skip := make(map[string]struct{}, len(ignore))
	for _, s := range ignore {
		skip[s] = struct{}{}
	}
	out := raw[:0]
	for _, t := range raw {
		if _, ok := skip[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}
