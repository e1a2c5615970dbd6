package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"reelrate/pkg/domain"
)

const castVoteMaxRetries = 16

// RedisStore externalizes users, catalog and votes to Redis. CastVote runs as
// an optimistic WATCH transaction retried on conflict, so concurrent votes on
// one item cannot lose updates.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects a store to the given Redis instance.
func NewRedisStore(addr, password string) (*RedisStore, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis addr required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisStore{client: client, prefix: "reelrate:"}, nil
}

func (s *RedisStore) userKey(id string) string       { return s.prefix + "user:" + id }
func (s *RedisStore) emailKey(email string) string   { return s.prefix + "user_email:" + email }
func (s *RedisStore) listKey(c domain.Category) string { return s.prefix + "items:" + string(c) }

func (s *RedisStore) itemKey(c domain.Category, id int) string {
	return s.prefix + "item:" + string(c) + ":" + strconv.Itoa(id)
}

func (s *RedisStore) votesKey(c domain.Category, id int) string {
	return s.prefix + "votes:" + string(c) + ":" + strconv.Itoa(id)
}

// SaveUser stores a user hash and indexes the email.
func (s *RedisStore) SaveUser(u domain.User) error {
	ctx := context.Background()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.userKey(u.ID), map[string]any{
			"id":            u.ID,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"created_at":    u.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		pipe.Set(ctx, s.emailKey(u.Email), u.ID, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// HasUserEmail checks the email index.
func (s *RedisStore) HasUserEmail(email string) (bool, error) {
	n, err := s.client.Exists(context.Background(), s.emailKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

// GetUserByEmail resolves the email index, then the user hash.
func (s *RedisStore) GetUserByEmail(email string) (domain.User, bool, error) {
	ctx := context.Background()
	id, err := s.client.Get(ctx, s.emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("resolve email: %w", err)
	}
	return s.GetUserByID(id)
}

// GetUserByID loads a user hash.
func (s *RedisStore) GetUserByID(id string) (domain.User, bool, error) {
	fields, err := s.client.HGetAll(context.Background(), s.userKey(id)).Result()
	if err != nil {
		return domain.User{}, false, fmt.Errorf("load user: %w", err)
	}
	if len(fields) == 0 {
		return domain.User{}, false, nil
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	return domain.User{
		ID:           fields["id"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		CreatedAt:    createdAt,
	}, true, nil
}

// SeedItems writes catalog metadata for items not present yet. Existing items
// keep their counters and voter sets.
func (s *RedisStore) SeedItems(category domain.Category, items []domain.ContentItem) error {
	ctx := context.Background()
	for _, item := range items {
		exists, err := s.client.Exists(ctx, s.itemKey(category, item.ID)).Result()
		if err != nil {
			return fmt.Errorf("check item: %w", err)
		}
		if exists > 0 {
			continue
		}
		meta := item
		meta.Likes = 0
		meta.Dislikes = 0
		raw, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
		_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.itemKey(category, item.ID), map[string]any{
				"meta":     string(raw),
				"likes":    item.Likes,
				"dislikes": item.Dislikes,
			})
			pipe.RPush(ctx, s.listKey(category), item.ID)
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed item: %w", err)
		}
	}
	return nil
}

// ListItems returns items in seed order with current counters.
func (s *RedisStore) ListItems(category domain.Category) ([]domain.ContentItem, error) {
	ctx := context.Background()
	ids, err := s.client.LRange(ctx, s.listKey(category), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	res := make([]domain.ContentItem, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		item, ok, err := s.GetItem(category, id)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, item)
		}
	}
	return res, nil
}

// GetItem loads one item hash.
func (s *RedisStore) GetItem(category domain.Category, id int) (domain.ContentItem, bool, error) {
	fields, err := s.client.HGetAll(context.Background(), s.itemKey(category, id)).Result()
	if err != nil {
		return domain.ContentItem{}, false, fmt.Errorf("load item: %w", err)
	}
	if len(fields) == 0 {
		return domain.ContentItem{}, false, nil
	}
	item, err := decodeItem(fields)
	if err != nil {
		return domain.ContentItem{}, false, err
	}
	return item, true, nil
}

// CastVote runs the vote state machine inside a WATCH transaction over the
// item's voter hash and counters, retrying on write conflicts.
func (s *RedisStore) CastVote(category domain.Category, id int, userID string, kind domain.VoteKind) (domain.VoteCounts, error) {
	ctx := context.Background()
	itemKey := s.itemKey(category, id)
	votesKey := s.votesKey(category, id)

	var counts domain.VoteCounts
	apply := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, itemKey).Result()
		if err != nil {
			return fmt.Errorf("check item: %w", err)
		}
		if exists == 0 {
			return domain.ErrItemNotFound
		}

		current, err := tx.HGet(ctx, votesKey, userID).Result()
		voted := err == nil
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("read vote: %w", err)
		}
		if voted && domain.VoteKind(current) == kind {
			return domain.ErrDuplicateVote
		}

		var likeDelta, dislikeDelta int64
		if kind == domain.VoteLike {
			likeDelta = 1
		} else {
			dislikeDelta = 1
		}
		if voted {
			if domain.VoteKind(current) == domain.VoteLike {
				likeDelta--
			} else {
				dislikeDelta--
			}
		}

		var likesCmd, dislikesCmd *redis.IntCmd
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, votesKey, userID, string(kind))
			likesCmd = pipe.HIncrBy(ctx, itemKey, "likes", likeDelta)
			dislikesCmd = pipe.HIncrBy(ctx, itemKey, "dislikes", dislikeDelta)
			return nil
		})
		if err != nil {
			return err
		}
		counts = domain.VoteCounts{
			Likes:    int(likesCmd.Val()),
			Dislikes: int(dislikesCmd.Val()),
		}
		return nil
	}

	for i := 0; i < castVoteMaxRetries; i++ {
		err := s.client.Watch(ctx, apply, itemKey, votesKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.VoteCounts{}, err
		}
		return counts, nil
	}
	return domain.VoteCounts{}, errors.New("cast vote: too many conflicts")
}

func decodeItem(fields map[string]string) (domain.ContentItem, error) {
	var item domain.ContentItem
	if err := json.Unmarshal([]byte(fields["meta"]), &item); err != nil {
		return domain.ContentItem{}, fmt.Errorf("decode item: %w", err)
	}
	item.Likes, _ = strconv.Atoi(fields["likes"])
	item.Dislikes, _ = strconv.Atoi(fields["dislikes"])
	return item, nil
}
