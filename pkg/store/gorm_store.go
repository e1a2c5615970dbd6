package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"reelrate/pkg/domain"
)

// GormStore implements Store on GORM + Postgres. Votes and counters are
// adjusted inside one transaction holding a row lock on the item, so the
// aggregate can never drift from the vote rows.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &ItemModel{}, &VoteModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveUser inserts a user row.
func (s *GormStore) SaveUser(u domain.User) error {
	row := UserModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// HasUserEmail checks if an email is registered.
func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var row UserModel
	err := s.db.Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("load user: %w", err)
	}
	return toDomainUser(row), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var row UserModel
	err := s.db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("load user: %w", err)
	}
	return toDomainUser(row), true, nil
}

// SeedItems inserts catalog rows that do not exist yet, preserving counters
// on rows that survived a restart.
func (s *GormStore) SeedItems(category domain.Category, items []domain.ContentItem) error {
	for pos, item := range items {
		genres, err := json.Marshal(item.Genres)
		if err != nil {
			return fmt.Errorf("encode genres: %w", err)
		}
		row := ItemModel{
			Category:    string(category),
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			Rating:      item.Rating,
			Year:        item.Year,
			Genres:      datatypes.JSON(genres),
			Likes:       item.Likes,
			Dislikes:    item.Dislikes,
			Position:    pos,
		}
		err = s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("seed item: %w", err)
		}
	}
	return nil
}

// ListItems returns a category's items in seed order.
func (s *GormStore) ListItems(category domain.Category) ([]domain.ContentItem, error) {
	var rows []ItemModel
	err := s.db.Where("category = ?", string(category)).Order("position").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	res := make([]domain.ContentItem, 0, len(rows))
	for _, row := range rows {
		res = append(res, toDomainItem(row))
	}
	return res, nil
}

// GetItem retrieves one item.
func (s *GormStore) GetItem(category domain.Category, id int) (domain.ContentItem, bool, error) {
	var row ItemModel
	err := s.db.Where("category = ? AND id = ?", string(category), id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ContentItem{}, false, nil
	}
	if err != nil {
		return domain.ContentItem{}, false, fmt.Errorf("load item: %w", err)
	}
	return toDomainItem(row), true, nil
}

// CastVote locks the item row for update, applies the state machine against
// the user's vote row and writes both counter adjustments in the same
// transaction.
func (s *GormStore) CastVote(category domain.Category, id int, userID string, kind domain.VoteKind) (domain.VoteCounts, error) {
	var counts domain.VoteCounts
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item ItemModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("category = ? AND id = ?", string(category), id).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("lock item: %w", err)
		}

		var vote VoteModel
		err = tx.Where("category = ? AND item_id = ? AND user_id = ?", string(category), id, userID).
			First(&vote).Error
		voted := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load vote: %w", err)
		}
		if voted && domain.VoteKind(vote.Kind) == kind {
			return domain.ErrDuplicateVote
		}

		if voted {
			if domain.VoteKind(vote.Kind) == domain.VoteLike {
				item.Likes--
			} else {
				item.Dislikes--
			}
			vote.Kind = string(kind)
			if err := tx.Save(&vote).Error; err != nil {
				return fmt.Errorf("update vote: %w", err)
			}
		} else {
			vote = VoteModel{
				Category: string(category),
				ItemID:   id,
				UserID:   userID,
				Kind:     string(kind),
			}
			if err := tx.Create(&vote).Error; err != nil {
				return fmt.Errorf("create vote: %w", err)
			}
		}
		if kind == domain.VoteLike {
			item.Likes++
		} else {
			item.Dislikes++
		}
		err = tx.Model(&ItemModel{}).
			Where("category = ? AND id = ?", string(category), id).
			Updates(map[string]any{"likes": item.Likes, "dislikes": item.Dislikes}).Error
		if err != nil {
			return fmt.Errorf("update counters: %w", err)
		}
		counts = domain.VoteCounts{Likes: item.Likes, Dislikes: item.Dislikes}
		return nil
	})
	if err != nil {
		return domain.VoteCounts{}, err
	}
	return counts, nil
}

func toDomainUser(row UserModel) domain.User {
	return domain.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}
}

func toDomainItem(row ItemModel) domain.ContentItem {
	var genres []string
	if len(row.Genres) > 0 {
		_ = json.Unmarshal(row.Genres, &genres)
	}
	return domain.ContentItem{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		ImageURL:    row.ImageURL,
		Rating:      row.Rating,
		Year:        row.Year,
		Genres:      genres,
		Likes:       row.Likes,
		Dislikes:    row.Dislikes,
	}
}
