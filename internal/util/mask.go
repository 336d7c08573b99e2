// Package util tiene helpers para no filtrar datos sensibles a los logs.
package util

import (
	"net/url"
	"strings"
)

// MaskEmail deja la primera letra del usuario y del dominio: "a…@g….com".
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		if len(s) <= 3 {
			if s == "" {
				return ""
			}
			return "***"
		}
		return s[:1] + "…" + s[len(s)-1:]
	}
	user, domain := s[:at], s[at+1:]
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	labels := strings.Split(domain, ".")
	if len(labels[0]) > 1 {
		labels[0] = labels[0][:1] + "…"
	}
	return user + "@" + strings.Join(labels, ".")
}

// MaskDSN oculta la password de un DSN URL. Los DSN que no son
// URL (formato key=value) se ocultan enteros salvo el host.
func MaskDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		for _, kv := range strings.Fields(dsn) {
			if strings.HasPrefix(kv, "host=") {
				return kv + " ***"
			}
		}
		return "***"
	}
	return u.Redacted()
}
