package main

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/myrjola/fitplan/internal/i18n"
)

const (
	languageCookie    = "language"
	languageCookieAge = 365 * 24 * time.Hour
)

// isRelativePath checks if a path is a relative path without scheme or host and doesn't allow ambiguous slashes.
func isRelativePath(path string) bool {
	if strings.Contains(path, "://") || strings.HasPrefix(path, "//") {
		return false
	}
	if strings.HasPrefix(path, "/") {
		if len(path) == 1 || (path[1] != '/' && path[1] != '\\') {
			return true
		}
	}
	return false
}

// setLanguagePOST stores the UI language in a cookie and sends the user back to the page they came from.
func (app *application) setLanguagePOST(w http.ResponseWriter, r *http.Request) {
	lang := r.PostFormValue("language")
	if !i18n.IsSupported(i18n.Language(lang)) {
		http.Error(w, "Invalid language", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     languageCookie,
		Value:    lang,
		Path:     "/",
		MaxAge:   int(languageCookieAge.Seconds()),
		HttpOnly: true,
		Secure:   app.sessionManager.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	// The Referer header is absolute so only its path is reused. Only same-host referrers are honoured.
	back := "/"
	if referer, err := url.Parse(r.Header.Get("Referer")); err == nil && referer.Host == r.Host &&
		isRelativePath(referer.RequestURI()) {
		back = referer.RequestURI()
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
