// Package i18n translates phraseup's own user-facing messages.
//
// Messages are gettext catalogues embedded from locales/ and looked up
// with gotext. Until Init is called, every function passes the source
// string through unchanged, which is what tests and library callers get.
//
//	i18n.Init("")
//	fmt.Fprintln(os.Stderr, i18n.Tf("Token for %s saved", host))
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// Layout: locales/{lang}/LC_MESSAGES/phraseup.po
//
//go:embed all:locales
var locales embed.FS

const domain = "phraseup"

var (
	po   *gotext.Locale
	lang string
)

// Init loads the catalogue for lang. An empty lang is detected from
// PHRASEUP_LANG, then LANGUAGE, LC_ALL, LC_MESSAGES and LANG.
func Init(l string) {
	if l == "" {
		l = detectLanguage()
	}
	lang = l

	po = gotext.NewLocaleFSWithPath(l, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// Lang returns the language passed to or detected by Init.
func Lang() string {
	if lang == "" {
		return "en"
	}
	return lang
}

// T translates msgid.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// Tf translates format and then formats it with args.
func Tf(format string, args ...any) string {
	return fmt.Sprintf(T(format), args...)
}

// N translates a message with plural forms. The source strings follow the
// English rule (singular when n == 1).
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage follows GNU gettext priority, with PHRASEUP_LANG in front.
func detectLanguage() string {
	for _, env := range []string{"PHRASEUP_LANG", "LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE is a colon-separated preference list.
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// ru_RU.UTF-8 -> ru_RU
		val, _, _ = strings.Cut(val, ".")
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}
		return val
	}
	return "en"
}
