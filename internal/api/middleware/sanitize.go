package middleware

import (
	"net/url"
	"strings"
)

// SanitizeNext returns next when it is a safe same-origin path and "" otherwise.
func SanitizeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || len(next) > 2048 {
		return ""
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	if strings.Contains(next, "\\") {
		return ""
	}

	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || u.Scheme != "" {
		return ""
	}
	switch u.Path {
	case "/login", "/signup", "/employee-login", "/callback", "/logout":
		return ""
	}
	return next
}
