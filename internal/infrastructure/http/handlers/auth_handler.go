package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Asjad-Ilahi/devops/internal/application/auth"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/http/middleware"
)

const (
	msgServerError     = "Server error"
	msgInvalidBody     = "Invalid request body"
	msgInvalidPassword = "Password is not valid"
)

// SessionCookies writes and clears the session cookie.
type SessionCookies interface {
	Store(w http.ResponseWriter, token string)
	Clear(w http.ResponseWriter)
}

type AuthHandler struct {
	signUp   *auth.SignUp
	login    *auth.Login
	cookies  SessionCookies
	auditor  *Auditor
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthHandler(signUp *auth.SignUp, login *auth.Login, cookies SessionCookies, auditor *Auditor, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		signUp:   signUp,
		login:    login,
		cookies:  cookies,
		auditor:  auditor,
		validate: validator.New(),
		log:      log,
	}
}

// Signup registers an account. It does not start a session.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		writeResult(w, http.StatusBadRequest, false, msgInvalidBody)
		return
	}
	body := signupBody{
		Name:     form.Get("name"),
		Username: form.Get("username"),
		Password: form.Get("password"),
	}
	if msg, ok := checkLimits(h.validate, &body); !ok {
		writeResult(w, http.StatusBadRequest, false, msg)
		return
	}
	res, err := h.signUp.Execute(r.Context(), auth.SignUpInput{
		Name:     body.Name,
		Username: body.Username,
		Password: body.Password,
	})
	if err != nil {
		h.auditor.Emit(r, EventSignup, "", "", false, err.Error())
		middleware.RecordAuthAttempt("signup", false)
		if ve, ok := domerrors.AsValidation(err); ok {
			writeResult(w, http.StatusBadRequest, false, ve.Message)
			return
		}
		switch {
		case errors.Is(err, domerrors.ErrUserExists):
			writeResult(w, http.StatusConflict, false, err.Error())
		case errors.Is(err, domerrors.ErrInvalidInput):
			writeResult(w, http.StatusBadRequest, false, msgInvalidPassword)
		default:
			h.log.Error().Err(err).Msg("signup failed")
			writeResult(w, http.StatusInternalServerError, false, msgServerError)
		}
		return
	}
	h.auditor.Emit(r, EventSignup, res.User.ID.String(), "", true, "")
	middleware.RecordAuthAttempt("signup", true)
	writeResult(w, http.StatusCreated, true, "")
}

// Login verifies credentials and stores the session cookie. No cookie is written unless the token was issued.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		writeResult(w, http.StatusBadRequest, false, msgInvalidBody)
		return
	}
	body := loginBody{
		Username: form.Get("username"),
		Password: form.Get("password"),
	}
	if msg, ok := checkLimits(h.validate, &body); !ok {
		writeResult(w, http.StatusBadRequest, false, msg)
		return
	}
	res, err := h.login.Execute(r.Context(), auth.LoginInput{
		Username: body.Username,
		Password: body.Password,
	})
	if err != nil {
		h.auditor.Emit(r, EventLogin, "", "", false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		if ve, ok := domerrors.AsValidation(err); ok {
			writeResult(w, http.StatusBadRequest, false, ve.Message)
			return
		}
		var locked *auth.LockedError
		switch {
		case errors.As(err, &locked):
			w.Header().Set("Retry-After", strconv.Itoa(locked.RetryAfterSeconds))
			writeResult(w, http.StatusTooManyRequests, false, locked.Error())
		case errors.Is(err, domerrors.ErrInvalidCredentials):
			writeResult(w, http.StatusUnauthorized, false, err.Error())
		default:
			h.log.Error().Err(err).Msg("login failed")
			writeResult(w, http.StatusInternalServerError, false, msgServerError)
		}
		return
	}
	h.cookies.Store(w, res.Token)
	h.auditor.Emit(r, EventLogin, res.User.ID.String(), "", true, "")
	middleware.RecordAuthAttempt("login", true)
	writeResult(w, http.StatusOK, true, "")
}

// Logout clears the session cookie and sends the browser home. Tokens are not revoked server side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	if identity := middleware.IdentityFromContext(r.Context()); identity != nil {
		h.auditor.Emit(r, EventLogout, identity.UserID.String(), "", true, "")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
