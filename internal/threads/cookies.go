package threads

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/parlorlabs/parlor/internal/config"
)

// CurrentThread reads the current-thread cookie if present and valid.
func CurrentThread(r *http.Request, cfg *config.ChatConfig) *uuid.UUID {
	cookie, err := r.Cookie(cfg.CookieName)
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return nil
	}
	return &id
}

// SetCurrentThread writes the current-thread cookie.
func SetCurrentThread(w http.ResponseWriter, cfg *config.ChatConfig, id uuid.UUID) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    id.String(),
		Path:     "/",
		MaxAge:   cfg.CookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCurrentThread expires the current-thread cookie.
func ClearCurrentThread(w http.ResponseWriter, cfg *config.ChatConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
