package wlgen

import (
	"strings"
	"unicode"

	"github.com/serenize/snaker"
)

// goName strips the protocol prefix from an interface name and converts
// the rest to an exported identifier: wl_shm_pool becomes ShmPool.
func goName(name, prefix string) string {
	return snaker.SnakeToCamel(strings.TrimPrefix(name, prefix))
}

var reserved = map[string]string{
	"interface": "iface",
	"type":      "typ",
	"func":      "fn",
	"range":     "rng",
	"map":       "m",
	"default":   "def",
}

func paramName(name string) string {
	p := snaker.SnakeToCamelLower(name)
	if r, ok := reserved[p]; ok {
		return r
	}
	switch p {
	case "break", "case", "chan", "const", "continue", "defer", "else", "fallthrough",
		"for", "go", "goto", "if", "import", "package", "return", "select", "struct",
		"switch", "var", "p", "err", "h", "e":
		return p + "_"
	}
	return p
}

func receiverName(goName string) string {
	r := string(unicode.ToLower(rune(goName[0])))
	switch r {
	case "p", "h", "e":
		return strings.ToLower(goName[:2])
	}
	return r
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(unicode.ToLower(rune(s[0]))) + s[1:]
}
