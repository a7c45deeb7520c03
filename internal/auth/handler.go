package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/istmoglobal/storefront/internal/i18n"
	"github.com/istmoglobal/storefront/internal/observability"
	"github.com/istmoglobal/storefront/internal/platform/httpx"
	"github.com/istmoglobal/storefront/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	metrics        *observability.Metrics
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance. metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
		metrics:        metrics,
		validator:      validator.New(),
	}
}

// MountSessionRoutes registers the session bootstrap routes.
func (h *Handler) MountSessionRoutes(r chi.Router) {
	r.Get("/", h.showSession)
	r.Put("/language", h.setLanguage)
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.showMe)
}

type sessionResponse struct {
	CSRFToken string    `json:"csrfToken"`
	Language  i18n.Lang `json:"language"`
	User      *Identity `json:"user"`
}

type loginForm struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type languageForm struct {
	Language string `json:"language" validate:"required,oneof=es en"`
}

type authResponse struct {
	User      Identity `json:"user"`
	CSRFToken string   `json:"csrfToken"`
}

func (h *Handler) showSession(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	token, err := h.csrfManager.EnsureToken(sess)
	if err != nil {
		h.logger.Error("csrf token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	resp := sessionResponse{CSRFToken: token, Language: i18n.FromRequest(r)}
	if id, ok := IdentityFromContext(r.Context()); ok {
		resp.User = &id
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) setLanguage(w http.ResponseWriter, r *http.Request) {
	var form languageForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, shared.ErrSessionMissing)
		return
	}
	sess.Set(i18n.SessionKey, form.Language)
	httpx.JSON(w, http.StatusOK, map[string]string{"language": form.Language})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}
	user, err := h.service.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		h.metrics.LoginAttempt("failure")
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", i18n.T(i18n.FromRequest(r), i18n.InvalidLogin))
		return
	}
	h.metrics.LoginAttempt("success")
	h.signIn(w, r, http.StatusOK, user)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form RegisterInput
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}
	user, err := h.service.Register(r.Context(), form)
	if err != nil {
		if !errors.Is(err, ErrEmailTaken) {
			h.logger.Error("register user", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user registered", slog.String("user", user.ID), slog.String("role", string(user.Role)))
	h.signIn(w, r, http.StatusCreated, user)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, status int, user User) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.RespondError(w, shared.ErrSessionMissing)
		return
	}
	if err := SignIn(sess, user); err != nil {
		h.logger.Error("store identity", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	sess.Delete(shared.CSRFSessionKey)
	token, err := h.csrfManager.EnsureToken(sess)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, status, authResponse{User: user.Identity(), CSRFToken: token})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	httpx.NoContent(w)
}

func (h *Handler) showMe(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, id)
}
