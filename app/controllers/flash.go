package controllers

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

const flashCookie = "flash"

// flashSep separates queued messages inside the decoded cookie value.
const flashSep = "\x1f"

// setFlash queues a one-time message for the next rendered page.
func setFlash(w http.ResponseWriter, r *http.Request, message string) {
	messages := append(readFlashes(r), message)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(strings.Join(messages, flashSep))),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func readFlashes(r *http.Request) []string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil || len(raw) == 0 {
		return nil
	}
	return strings.Split(string(raw), flashSep)
}

// popFlashes returns the queued messages and clears the cookie.
func popFlashes(w http.ResponseWriter, r *http.Request) []string {
	messages := readFlashes(r)
	if messages != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
	return messages
}
