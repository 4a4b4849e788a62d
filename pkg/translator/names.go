package translator

import (
	"strings"
	"unicode"
)

var pythonKeywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {}, "def": {},
	"del": {}, "elif": {}, "else": {}, "except": {}, "finally": {}, "for": {},
	"from": {}, "global": {}, "if": {}, "import": {}, "in": {}, "is": {},
	"lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {}, "raise": {},
	"return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// pythonBuiltins are called by name from emitted class bodies and from the
// runtime. Declarations must not rebind them.
var pythonBuiltins = map[string]struct{}{
	"property": {}, "staticmethod": {}, "str": {}, "print": {},
}

// pyName maps a C# identifier onto a usable Python identifier. Verbatim
// identifiers lose their '@'; Python keywords and the builtins emitted code
// relies on get a trailing underscore.
func pyName(name string) string {
	name = strings.TrimPrefix(name, "@")
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			if i == 0 && unicode.IsDigit(r) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	out := b.String()
	if _, ok := pythonKeywords[out]; ok {
		return out + "_"
	}
	if _, ok := pythonBuiltins[out]; ok {
		return out + "_"
	}
	return out
}

func backingName(property string) string {
	return "_" + property + "_backing"
}

func getterName(property string) string {
	return "_get_" + property
}

func setterName(property string) string {
	return "_set_" + property
}

const initName = "__init__"

func splitDotted(name string) []string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = pyName(strings.TrimSpace(part))
	}
	return parts
}
