package pongo

import (
	"strings"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("lowerfirst") {
		_ = pongo2.RegisterFilter("lowerfirst", filterLowerFirst)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	text := in.String()
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if trimmed == "" {
		return pongo2.AsValue(text), nil
	}
	first, size := utf8.DecodeRuneInString(trimmed)
	prefix := text[:len(text)-len(trimmed)]
	return pongo2.AsValue(prefix + strings.ToLower(string(first)) + trimmed[size:]), nil
}
