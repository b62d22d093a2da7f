// Package ioweb provides the read-only JSON HTTP application of flasky:
// the router, request logging and a gracefully stopping dev server.
// This is an impure I/O package.
package ioweb

import (
	"context"
	"errors"

	"github.com/gnames/flasky/pkg/schema"
	"gorm.io/gorm"
)

// ErrNotFound is returned by a Store when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the data access the HTTP handlers need.
type Store interface {
	// LatestPosts returns up to limit posts, newest first.
	LatestPosts(ctx context.Context, limit int) ([]schema.Post, error)

	// User returns a user with the role preloaded.
	User(ctx context.Context, id uint) (*schema.User, error)

	// Followers returns users that follow the user, self-follows
	// excluded.
	Followers(ctx context.Context, id uint) ([]schema.User, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Store backed by GORM.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) LatestPosts(
	ctx context.Context,
	limit int,
) ([]schema.Post, error) {
	var res []schema.Post
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (s *gormStore) User(ctx context.Context, id uint) (*schema.User, error) {
	var res schema.User
	err := s.db.WithContext(ctx).Preload("Role").First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *gormStore) Followers(
	ctx context.Context,
	id uint,
) ([]schema.User, error) {
	if _, err := s.User(ctx, id); err != nil {
		return nil, err
	}

	var res []schema.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ? AND follows.follower_id <> ?", id, id).
		Order("follows.timestamp DESC").
		Find(&res).Error
	return res, err
}
