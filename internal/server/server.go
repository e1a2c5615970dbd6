// Package server exposes the HTTP API. It holds no state beyond wiring:
// requests are decoded, authenticated where required, and dispatched to the
// app core.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"reelrate/internal/app"
	"reelrate/internal/util"
	"reelrate/pkg/domain"
	"reelrate/pkg/store"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App           *app.App
	CookieName    string
	CookieSecure  bool
	SessionTTL    time.Duration
	AllowedOrigin string
	FeaturedCount int
}

// Server exposes HTTP endpoints for the rating service.
type Server struct {
	app           *app.App
	mux           *http.ServeMux
	cookieName    string
	cookieSecure  bool
	sessionTTL    time.Duration
	allowedOrigin string
	featuredCount int
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "http://localhost:3000"
	}
	if cfg.FeaturedCount <= 0 {
		cfg.FeaturedCount = 4
	}
	s := &Server{
		app:           cfg.App,
		mux:           http.NewServeMux(),
		cookieName:    cfg.CookieName,
		cookieSecure:  cfg.CookieSecure,
		sessionTTL:    cfg.SessionTTL,
		allowedOrigin: cfg.AllowedOrigin,
		featuredCount: cfg.FeaturedCount,
	}
	s.routes()
	return s
}

// Router returns the configured handler with middleware applied.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(
		util.WithCORS(s.allowedOrigin,
			util.WithRequestID(
				util.WithRequestLog(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("GET /api/check-auth", s.handleCheckAuth)
	s.mux.HandleFunc("POST /api/signup", s.handleSignup)
	s.mux.HandleFunc("POST /api/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/logout", s.handleLogout)

	// catalog & votes
	for _, category := range []domain.Category{domain.CategoryMovies, domain.CategorySeries} {
		prefix := "/api/" + string(category)
		s.mux.HandleFunc("GET "+prefix, s.handleList(category))
		s.mux.HandleFunc("GET "+prefix+"/{id}", s.handleGet(category))
		s.mux.Handle("POST "+prefix+"/{id}/vote", s.authenticated(s.handleVote(category)))
	}
	s.mux.HandleFunc("GET /api/featured", s.handleFeatured)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authHandler receives the verified identity alongside the request.
type authHandler func(http.ResponseWriter, *http.Request, domain.Identity)

// authenticated verifies the session cookie. A missing cookie yields 401,
// a failed verification 403. Tokens are stateless, so this check is the
// only gate.
func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cookieName)
		if err != nil || cookie.Value == "" {
			s.audit(r, "auth.verify", "fail", "reason", "missing_token")
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		identity, err := s.app.VerifyToken(cookie.Value)
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, store.ErrTokenExpired) {
				reason = "expired_token"
			}
			s.audit(r, "auth.verify", "fail", "reason", reason)
			writeError(w, http.StatusForbidden, "Invalid token")
			return
		}
		next(w, r, identity)
	})
}

func (s *Server) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	s.authenticated(func(w http.ResponseWriter, _ *http.Request, _ domain.Identity) {
		writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
	}).ServeHTTP(w, r)
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	user, token, err := s.app.SignUp(req.Email, req.Password)
	if err != nil {
		s.audit(r, "auth.signup", "fail", "reason", err.Error())
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			writeError(w, http.StatusBadRequest, "User already exists")
		case errors.Is(err, app.ErrEmailAndPasswordRequired):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}
	s.audit(r, "auth.signup", "success", "user_id", user.ID)
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"message": "User created successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	user, token, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		s.audit(r, "auth.login", "fail", "reason", err.Error())
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	s.audit(r, "auth.login", "success", "user_id", user.ID)
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged in successfully"})
}

// handleLogout only instructs the client to discard the cookie. Issued
// tokens stay valid until expiry; there is no server-side revocation.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.audit(r, "auth.logout", "success")
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) handleList(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.app.ListItems(category)
		if err != nil {
			slog.Error("list items", "category", category, "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to list titles")
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (s *Server) handleGet(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Title not found")
			return
		}
		item, err := s.app.GetItem(category, id)
		if err != nil {
			if errors.Is(err, domain.ErrItemNotFound) {
				writeError(w, http.StatusNotFound, "Title not found")
				return
			}
			slog.Error("get item", "category", category, "id", id, "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to load title")
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

type voteRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleVote(category domain.Category) authHandler {
	return func(w http.ResponseWriter, r *http.Request, identity domain.Identity) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Title not found")
			return
		}
		var req voteRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		kind, ok := domain.ParseVoteKind(req.Type)
		if !ok {
			writeError(w, http.StatusBadRequest, `Vote type must be "like" or "dislike"`)
			return
		}
		counts, err := s.app.CastVote(category, id, identity.UserID, kind)
		if err != nil {
			s.audit(r, "vote.cast", "fail", "user_id", identity.UserID, "reason", err.Error())
			switch {
			case errors.Is(err, domain.ErrItemNotFound):
				writeError(w, http.StatusNotFound, "Title not found")
			case errors.Is(err, domain.ErrDuplicateVote):
				writeError(w, http.StatusBadRequest, "You've already voted this way")
			default:
				slog.Error("cast vote", "category", category, "id", id, "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to record vote")
			}
			return
		}
		s.audit(r, "vote.cast", "success", "user_id", identity.UserID, "item_id", id, "vote", string(kind))
		writeJSON(w, http.StatusOK, counts)
	}
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	items, err := s.app.Featured(s.featuredCount)
	if err != nil {
		slog.Error("featured items", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to list titles")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// setSessionCookie binds the credential to the client. The cookie is
// HttpOnly, and Secure outside development.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// audit logs through the request-scoped logger, which already carries the
// request id.
func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", util.ClientIP(r),
	}
	logAttrs = append(logAttrs, attrs...)
	logger := util.LoggerFromContext(r.Context())
	if outcome == "success" {
		logger.Info("security_event", logAttrs...)
		return
	}
	logger.Warn("security_event", logAttrs...)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
