package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Post represents a single travel journal entry
type Post struct {
	ID        uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title     string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Content   string                      `json:"content" db:"content" gorm:"type:text;not null"`
	ImageURL  *string                     `json:"imageUrl,omitempty" db:"image_url" gorm:"type:text"`
	Location  *string                     `json:"location,omitempty" db:"location" gorm:"type:text"`
	Tags      datatypes.JSONSlice[string] `json:"tags" db:"tags" gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time                   `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;autoCreateTime:false"`
	UpdatedAt time.Time                   `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;autoUpdateTime:false"`
}

// Touch refreshes UpdatedAt and backfills CreatedAt on first save. The
// repository calls it immediately before every persistence operation, so the
// timestamp side effect is visible at the call site rather than hidden in a
// lifecycle callback. Automatic gorm timestamping is disabled on the struct
// tags for the same reason.
func (p *Post) Touch(now time.Time) {
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
}

// NormalizeTags converts raw form values into the tag list stored on a post.
// A single value becomes a one-element list, absent values become an empty
// list, and order and duplicates are preserved verbatim.
func NormalizeTags(values []string) datatypes.JSONSlice[string] {
	tags := make(datatypes.JSONSlice[string], 0, len(values))
	return append(tags, values...)
}
