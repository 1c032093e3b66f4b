package util

import (
	"net/url"
	"strings"
)

// MaskSecret deja visibles solo los extremos de una key.
func MaskSecret(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:3] + "…" + s[len(s)-3:]
}

// MaskDSN oculta el password de un DSN URL (postgres://u:p@h/db).
// Los DSN en formato key=value se devuelven como host únicamente.
func MaskDSN(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		for _, kv := range strings.Fields(dsn) {
			if strings.HasPrefix(kv, "host=") {
				return kv
			}
		}
		return "***"
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
		}
	}
	u.RawQuery = ""
	return u.String()
}
