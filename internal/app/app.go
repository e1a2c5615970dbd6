// Package app wires storage and session management behind the operations the
// HTTP layer exposes. Handlers receive an *App explicitly; there is no
// process-wide singleton, which keeps locking scope and tests honest.
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelrate/pkg/auth"
	"reelrate/pkg/domain"
	"reelrate/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	JWTSecret     string
	SessionTTL    time.Duration
	BcryptCost    int
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	Movies        []domain.ContentItem
	Series        []domain.ContentItem
	Store         store.Store
	Sessions      store.SessionStore
}

// App is the core application service.
type App struct {
	store      store.Store
	sessions   store.SessionStore
	bcryptCost int
}

// New constructs the application, selects a storage backend and seeds the
// catalog. Backend precedence: explicit Store, then Postgres (databaseURL),
// then Redis (redisAddr), then in-memory.
func New(cfg Config) (*App, error) {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	dataStore := cfg.Store
	if dataStore == nil {
		switch {
		case cfg.DatabaseURL != "":
			gs, err := store.NewGormStore(cfg.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("init postgres store: %w", err)
			}
			dataStore = gs
		case cfg.RedisAddr != "":
			rs, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
			if err != nil {
				return nil, fmt.Errorf("init redis store: %w", err)
			}
			dataStore = rs
		default:
			dataStore = store.NewMemoryStore()
		}
	}

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		js, err := store.NewJWTSessionStore(cfg.JWTSecret, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("init session store: %w", err)
		}
		sessionStore = js
	}

	if err := dataStore.SeedItems(domain.CategoryMovies, cfg.Movies); err != nil {
		return nil, fmt.Errorf("seed movies: %w", err)
	}
	if err := dataStore.SeedItems(domain.CategorySeries, cfg.Series); err != nil {
		return nil, fmt.Errorf("seed series: %w", err)
	}

	return &App{
		store:      dataStore,
		sessions:   sessionStore,
		bcryptCost: cfg.BcryptCost,
	}, nil
}

// SignUp registers a new user and issues a session credential.
func (a *App) SignUp(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.User{}, "", ErrEmailAndPasswordRequired
	}
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, "", domain.ErrEmailAlreadyExists
	}
	passwordHash, err := auth.HashPassword(password, a.bcryptCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.sessions.NewSession(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// Login validates credentials and issues a session credential. Unknown email
// and wrong password collapse into the same error.
func (a *App) Login(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// VerifyToken resolves a session credential to a verified identity.
func (a *App) VerifyToken(token string) (domain.Identity, error) {
	return a.sessions.VerifyToken(token)
}

// ListItems returns a category's items with current vote counts.
func (a *App) ListItems(category domain.Category) ([]domain.ContentItem, error) {
	return a.store.ListItems(category)
}

// GetItem returns one item or domain.ErrItemNotFound.
func (a *App) GetItem(category domain.Category, id int) (domain.ContentItem, error) {
	item, ok, err := a.store.GetItem(category, id)
	if err != nil {
		return domain.ContentItem{}, fmt.Errorf("get item: %w", err)
	}
	if !ok {
		return domain.ContentItem{}, domain.ErrItemNotFound
	}
	return item, nil
}

// Featured returns the first n movies for the landing page.
func (a *App) Featured(n int) ([]domain.ContentItem, error) {
	items, err := a.store.ListItems(domain.CategoryMovies)
	if err != nil {
		return nil, err
	}
	if n >= 0 && n < len(items) {
		items = items[:n]
	}
	return items, nil
}

// CastVote records or switches a user's vote and returns the post-mutation
// aggregate.
func (a *App) CastVote(category domain.Category, itemID int, userID string, kind domain.VoteKind) (domain.VoteCounts, error) {
	return a.store.CastVote(category, itemID, userID, kind)
}
