package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/travel-journal-backend/errs"
	"github.com/rpupo63/travel-journal-backend/models"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *PostRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns the posts matching the filter, newest first. The ordering
// is a fixed contract, not configurable.
func (r *PostRepo) FindAll(filter models.Filter) ([]*models.Post, error) {
	var posts []*models.Post
	query := r.db.Order("created_at DESC")
	if condition, args := searchCondition(filter); condition != "" {
		query = query.Where(condition, args...)
	}
	err := query.Find(&posts).Error
	return posts, err
}

// FindByID returns the post with the given id, or nil when no post matches.
func (r *PostRepo) FindByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Add inserts a new post. Timestamps are touched immediately before the
// insert, so createdAt and updatedAt are equal on a fresh record.
func (r *PostRepo) Add(post *models.Post) error {
	post.Touch(time.Now())
	return r.db.Create(post).Error
}

// Update persists a full-field replacement of an existing post.
func (r *PostRepo) Update(post *models.Post) error {
	post.Touch(time.Now())
	return r.db.Save(post).Error
}

// Delete removes the post with the given id.
func (r *PostRepo) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("post")
	}
	return nil
}

// DistinctTags returns every distinct tag value across all posts, flattened
// from the per-post lists and sorted alphabetically.
func (r *PostRepo) DistinctTags() ([]string, error) {
	tags := []string{}
	err := r.db.
		Raw("SELECT DISTINCT t.tag FROM posts, jsonb_array_elements_text(posts.tags) AS t(tag) ORDER BY t.tag ASC").
		Scan(&tags).Error
	return tags, err
}
