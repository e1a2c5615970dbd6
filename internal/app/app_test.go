package app

import (
	"errors"
	"testing"
	"time"

	"reelrate/pkg/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(Config{
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
		BcryptCost: 4, // minimum cost keeps tests fast
		Movies:     []domain.ContentItem{{ID: 1, Title: "First"}},
		Series:     []domain.ContentItem{{ID: 1, Title: "Pilot"}},
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func TestNewRequiresSigningSecret(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected startup error without jwt secret")
	}
}

func TestSignUpAndLogin(t *testing.T) {
	a := newTestApp(t)

	user, token, err := a.SignUp("Alice@X.com ", "pw123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Email != "alice@x.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "pw123" || user.PasswordHash == "" {
		t.Fatalf("plaintext stored as hash")
	}
	if token == "" {
		t.Fatalf("expected session token")
	}

	if _, _, err := a.SignUp("alice@x.com", "other"); !errors.Is(err, domain.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got: %v", err)
	}
	if _, _, err := a.SignUp("", "pw"); !errors.Is(err, ErrEmailAndPasswordRequired) {
		t.Fatalf("expected ErrEmailAndPasswordRequired, got: %v", err)
	}

	if _, _, err := a.Login("alice@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got: %v", err)
	}
	if _, _, err := a.Login("nobody@x.com", "pw123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got: %v", err)
	}

	_, loginToken, err := a.Login("alice@x.com", "pw123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	identity, err := a.VerifyToken(loginToken)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if identity.UserID != user.ID || identity.Email != "alice@x.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestCatalogReads(t *testing.T) {
	a := newTestApp(t)

	items, err := a.ListItems(domain.CategoryMovies)
	if err != nil || len(items) != 1 {
		t.Fatalf("list movies: %v %v", items, err)
	}
	if _, err := a.GetItem(domain.CategorySeries, 1); err != nil {
		t.Fatalf("get series: %v", err)
	}
	if _, err := a.GetItem(domain.CategoryMovies, 42); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got: %v", err)
	}
}

func TestFeaturedTruncates(t *testing.T) {
	a, err := New(Config{
		JWTSecret: "test-secret",
		Movies: []domain.ContentItem{
			{ID: 1, Title: "A"}, {ID: 2, Title: "B"}, {ID: 3, Title: "C"},
		},
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	featured, err := a.Featured(2)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != 2 || featured[0].ID != 1 {
		t.Fatalf("unexpected featured: %+v", featured)
	}
	all, err := a.Featured(10)
	if err != nil || len(all) != 3 {
		t.Fatalf("featured beyond catalog: %v %v", all, err)
	}
}

func TestCastVoteScenario(t *testing.T) {
	a := newTestApp(t)
	_, token, err := a.SignUp("alice@x.com", "pw123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	identity, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	counts, err := a.CastVote(domain.CategoryMovies, 1, identity.UserID, domain.VoteLike)
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if counts.Likes != 1 || counts.Dislikes != 0 {
		t.Fatalf("counts = %+v, want {1 0}", counts)
	}
	if _, err := a.CastVote(domain.CategoryMovies, 1, identity.UserID, domain.VoteLike); !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got: %v", err)
	}
	counts, err = a.CastVote(domain.CategoryMovies, 1, identity.UserID, domain.VoteDislike)
	if err != nil {
		t.Fatalf("switch vote: %v", err)
	}
	if counts.Likes != 0 || counts.Dislikes != 1 {
		t.Fatalf("counts = %+v, want {0 1}", counts)
	}
}
