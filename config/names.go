package config

import (
	"strings"
)

// unsafeNameChars cannot appear in output names on any supported platform.
const unsafeNameChars = `<>:"/\|?*`

// CleanFileName turns document identifier into a file name which is valid
// everywhere, so XML produced on one system can be copied to another.
// Leading dots are dropped to keep results visible.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if sym < ' ' || strings.ContainsRune(unsafeNameChars, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimRight(strings.TrimLeft(out, "."), " ")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}
