package domain

import "time"

// Category identifies a catalog section. The catalog is fixed at startup,
// so categories are a closed set.
type Category string

const (
	CategoryMovies Category = "movies"
	CategorySeries Category = "series"
)

// VoteKind is the vote a user attributes to a content item.
type VoteKind string

const (
	VoteLike    VoteKind = "like"
	VoteDislike VoteKind = "dislike"
)

// ParseVoteKind validates a client-supplied vote type.
func ParseVoteKind(s string) (VoteKind, bool) {
	switch VoteKind(s) {
	case VoteLike:
		return VoteLike, true
	case VoteDislike:
		return VoteDislike, true
	default:
		return "", false
	}
}

// User is an account record. Immutable after signup except for the
// password hash, which this service never updates.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the verified subject extracted from a session credential.
type Identity struct {
	UserID string
	Email  string
}

// ContentItem is a rateable title plus its vote aggregate. The descriptive
// metadata is seeded once and never mutated; only Likes and Dislikes change.
type ContentItem struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Rating      float64  `json:"rating"`
	Year        int      `json:"year"`
	Genres      []string `json:"genre"`
	Likes       int      `json:"likes"`
	Dislikes    int      `json:"dislikes"`
}

// VoteCounts is the post-mutation aggregate returned by a successful vote.
type VoteCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}
