package config

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// localeFromEnv follows POSIX precedence for numeric formatting.
func localeFromEnv(lookup func(string) (string, bool)) string {
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
	}
	return ""
}

// SeparatorForLocale returns the decimal separator used by a POSIX locale
// name such as "de_DE.UTF-8". Unknown or neutral locales ("C", "POSIX")
// yield '.'.
func SeparatorForLocale(locale string) rune {
	name := locale
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	name = strings.ReplaceAll(name, "_", "-")
	if name == "" || name == "C" || name == "POSIX" {
		return '.'
	}

	tag, err := language.Parse(name)
	if err != nil {
		return '.'
	}

	p := message.NewPrinter(tag)
	formatted := p.Sprintf("%v", number.Decimal(1.5, number.MinFractionDigits(1)))
	for _, r := range formatted {
		if r == '.' || r == ',' {
			return r
		}
	}
	return '.'
}
