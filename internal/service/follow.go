package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// FollowService handles author subscriptions. Self-follows are rejected
// up front; duplicate pairs are caught by the composite unique index on
// insert.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Subscribe creates a follow from subscriber to author and returns the
// author.
func (s *FollowService) Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID) (*models.User, error) {
	if subscriberID == authorID {
		return nil, ErrSelfFollow
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	follow := models.Follow{SubscriberID: subscriberID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	return &author, nil
}

// Unsubscribe removes a follow.
func (s *FollowService) Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// Subscriptions returns one page of authors the user follows, most
// recently subscribed first, plus the total count.
func (s *FollowService) Subscriptions(ctx context.Context, subscriberID uuid.UUID, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("subscriber_id = ?", subscriberID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []models.Follow
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("subscriber_id = ?", subscriberID).
		Order("date_subscribed DESC").
		Offset(offset).Limit(limit).
		Find(&follows).Error
	if err != nil {
		return nil, 0, err
	}

	authors := make([]models.User, len(follows))
	for i, f := range follows {
		authors[i] = f.Author
	}
	return authors, total, nil
}

// SubscribedSet reports which of the given authors the user follows. A
// nil user yields an empty set.
func (s *FollowService) SubscribedSet(ctx context.Context, subscriberID *uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(authorIDs))
	if subscriberID == nil || len(authorIDs) == 0 {
		return set, nil
	}
	var followed []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("subscriber_id = ? AND author_id IN ?", *subscriberID, authorIDs).
		Pluck("author_id", &followed).Error
	if err != nil {
		return nil, err
	}
	for _, id := range followed {
		set[id] = true
	}
	return set, nil
}
