package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Target is one candidate destination of a Link.
type Target struct {
	// ID is the opaque primary key, assigned on insert
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// LinkID references the owning Link
	// - index: targets are always loaded per link
	LinkID string `gorm:"size:36;index;not null" json:"link_id"`

	// Link establishes the foreign key constraint; it is never loaded
	Link Link `gorm:"foreignKey:LinkID" json:"-"`

	// DestinationURL is stored as given, reachability is not checked
	DestinationURL string `gorm:"type:text;not null" json:"destination_url"`

	// VisitCount grows by one each time this target is drawn
	VisitCount int64 `gorm:"not null;default:0" json:"visit_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate assigns the opaque identifier.
func (t *Target) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
