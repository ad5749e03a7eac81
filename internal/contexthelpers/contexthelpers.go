// Package contexthelpers stores the request-scoped values that templates and handlers read back.
package contexthelpers

import (
	"context"
	"net/http"

	"github.com/myrjola/fitplan/internal/i18n"
)

type contextKey string

const (
	currentPathKey = contextKey("currentPath")
	cspNonceKey    = contextKey("cspNonce")
	languageKey    = contextKey("language")
)

func with(r *http.Request, key contextKey, value any) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), key, value))
}

func valueOr[T any](ctx context.Context, key contextKey, fallback T) T {
	if v, ok := ctx.Value(key).(T); ok {
		return v
	}
	return fallback
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	return with(r, currentPathKey, currentPath)
}

// CurrentPath is the request path used to highlight the active navigation link.
func CurrentPath(ctx context.Context) string {
	return valueOr(ctx, currentPathKey, "")
}

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	return with(r, cspNonceKey, cspNonce)
}

func CSPNonce(ctx context.Context) string {
	return valueOr(ctx, cspNonceKey, "")
}

func SetLanguage(r *http.Request, language i18n.Language) *http.Request {
	return with(r, languageKey, language)
}

// Language returns the UI language of the request or [i18n.DefaultLanguage].
func Language(ctx context.Context) i18n.Language {
	return valueOr(ctx, languageKey, i18n.DefaultLanguage)
}
