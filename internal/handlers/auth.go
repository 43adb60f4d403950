package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell-blog/appserver/internal/services"
	"github.com/inkwell-blog/appserver/internal/store"
	"github.com/rs/zerolog"
)

// AuthHandler serves the register/login/logout pages.
type AuthHandler struct {
	auth       *services.AuthService
	sessionTTL time.Duration
	renderer
}

func NewAuthHandler(auth *services.AuthService, sessionTTL time.Duration, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		sessionTTL: sessionTTL,
		renderer:   renderer{logger: logger},
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Get("/register", handler.RegisterForm)
	r.Post("/register", handler.Register)
	r.Get("/login", handler.LoginForm)
	r.Post("/login", handler.Login)
	r.Get("/logout", handler.Logout)
}

type authForm struct {
	Email string
	Name  string
	Error string
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", authForm{})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	name := r.PostFormValue("name")

	_, token, err := h.auth.Register(r.Context(), email, password, name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			// Matches the long-standing UX: send existing accounts to login.
			redirectWithFlash(w, r, "/login",
				"There is an existing user with this email! Try to login with your credentials")
		case errors.Is(err, services.ErrValidation):
			h.render(w, r, http.StatusBadRequest, "register.html", authForm{
				Email: email,
				Name:  name,
				Error: err.Error(),
			})
		default:
			h.serverError(w, r, err)
		}
		return
	}

	setSessionCookie(w, token, h.sessionTTL)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", authForm{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	_, token, err := h.auth.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.render(w, r, http.StatusUnauthorized, "login.html", authForm{
				Email: email,
				Error: "Please try again! Wrong credentials",
			})
			return
		}
		h.serverError(w, r, err)
		return
	}

	setSessionCookie(w, token, h.sessionTTL)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			h.serverError(w, r, err)
			return
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
