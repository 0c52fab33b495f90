package controllers

import (
	"errors"
	"net/http"

	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/services"
)

const (
	flashEmailTaken   = "You've already signed up with that email, log in instead!"
	flashInvalidLogin = "Invalid email or password, please try again."
)

// AuthController handles registration, login and logout
type AuthController struct {
	*Base
	auth *services.AuthService
}

func NewAuthController(base *Base, auth *services.AuthService) *AuthController {
	return &AuthController{Base: base, auth: auth}
}

// RegisterForm displays the sign-up form
func (ac *AuthController) RegisterForm(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, http.StatusOK, "register", "Register", nil, services.RegisterInput{})
}

// Register creates the account and logs the new user in
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	err := decodeForm(r, &in, func(get func(string) string) {
		in.Name = get("name")
		in.Email = get("email")
		in.Password = r.FormValue("password")
	})
	if err != nil {
		ac.sendError(w, r, "Invalid form", http.StatusBadRequest)
		return
	}

	user, session, err := ac.auth.Register(r.Context(), in)
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		in.Password = ""
		ac.invalid(w, r, verr, "register", "Register", in)
		return
	case errors.Is(err, services.ErrEmailTaken):
		if middleware.WantsJSON(r) {
			ac.sendJSON(w, http.StatusConflict, map[string]string{"error": flashEmailTaken})
			return
		}
		setFlash(w, r, flashEmailTaken)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case err != nil:
		ac.fail(w, r, err, "User")
		return
	}

	middleware.SetSessionCookie(w, session, ac.secureCookies)
	ac.redirect(w, r, "/", http.StatusCreated, user)
}

// LoginForm displays the login form
func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, http.StatusOK, "login", "Log In", nil, services.LoginInput{})
}

// Login establishes a session. Every credential failure gets the same message.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	err := decodeForm(r, &in, func(get func(string) string) {
		in.Email = get("email")
		in.Password = r.FormValue("password")
	})
	if err != nil {
		ac.sendError(w, r, "Invalid form", http.StatusBadRequest)
		return
	}

	user, session, err := ac.auth.Login(r.Context(), in)
	if errors.Is(err, services.ErrInvalidCredentials) {
		if middleware.WantsJSON(r) {
			ac.sendJSON(w, http.StatusUnauthorized, map[string]string{"error": flashInvalidLogin})
			return
		}
		setFlash(w, r, flashInvalidLogin)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		ac.fail(w, r, err, "User")
		return
	}

	middleware.SetSessionCookie(w, session, ac.secureCookies)
	ac.redirect(w, r, "/", http.StatusOK, user)
}

// Logout ends the session and expires the cookie
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := ac.auth.Logout(middleware.IdentityFrom(r.Context()).SessionID); err != nil {
		ac.fail(w, r, err, "Session")
		return
	}
	middleware.ClearSessionCookie(w)
	ac.redirect(w, r, "/", http.StatusOK, map[string]bool{"logged_out": true})
}
