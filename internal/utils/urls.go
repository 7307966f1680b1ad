package utils

import (
	"net/url"
	"strings"
)

// LoginRedirectURL builds "<login>?next=<target>", escaping the target as a
// query value but keeping its slashes readable.
func LoginRedirectURL(loginPath, target string) string {
	next := strings.ReplaceAll(url.QueryEscape(target), "%2F", "/")
	return loginPath + "?next=" + next
}

// SafeNext returns next if it is a local absolute path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return fallback
	}
	// "//host" and "/\host" are protocol-relative in browsers.
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
