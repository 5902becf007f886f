package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewSQL opens (and migrates) a SQLite database at dsn. Use ":memory:" for a
// throwaway database.
func NewSQL(dsn string) (Persistence, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	return NewSQLFromDB(db)
}

// NewSQLFromDB wraps an existing gorm connection.
func NewSQLFromDB(db *gorm.DB) (Persistence, error) {
	if err := db.AutoMigrate(&Comment{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &sqlPersistence{db: db}, nil
}

type sqlPersistence struct {
	db *gorm.DB
}

func (p *sqlPersistence) List(ctx context.Context, postID string) ([]*Comment, error) {
	var comments []*Comment
	err := p.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("store: list comments: %w", err)
	}
	sortComments(comments)
	return comments, nil
}

func (p *sqlPersistence) Get(ctx context.Context, postID, id string) (*Comment, error) {
	var c Comment
	err := p.db.WithContext(ctx).Where("post_id = ? AND id = ?", postID, id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get comment: %w", err)
	}
	return &c, nil
}

func (p *sqlPersistence) Store(ctx context.Context, c *Comment) error {
	if c == nil {
		return errors.New("store: nil comment")
	}
	if c.PostID == "" || c.ID == "" {
		return errors.New("store: post id and comment id required")
	}
	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(c).Error
	if err != nil {
		return fmt.Errorf("store: save comment: %w", err)
	}
	return nil
}

func (p *sqlPersistence) Delete(ctx context.Context, postID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	err := p.db.WithContext(ctx).
		Where("post_id = ? AND id IN ?", postID, ids).
		Delete(&Comment{}).Error
	if err != nil {
		return fmt.Errorf("store: delete comments: %w", err)
	}
	return nil
}

func (p *sqlPersistence) Posts(ctx context.Context) ([]string, error) {
	var posts []string
	err := p.db.WithContext(ctx).
		Model(&Comment{}).
		Distinct("post_id").
		Order("post_id").
		Pluck("post_id", &posts).Error
	if err != nil {
		return nil, fmt.Errorf("store: list posts: %w", err)
	}
	return posts, nil
}
