package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RedirectMode selects the HTTP semantics of a redirect.
type RedirectMode int

const (
	RedirectTemporary RedirectMode = iota
	RedirectPermanent
)

func (m RedirectMode) String() string {
	if m == RedirectPermanent {
		return "permanent"
	}
	return "temporary"
}

// Link représente un code court et son mode de redirection.
// Code and ID never change after insert; only VisitCount moves.
type Link struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	Code              string    `gorm:"uniqueIndex;size:32;not null" json:"code"`
	PermanentRedirect bool      `gorm:"not null;default:false" json:"permanent_redirect"`
	VisitCount        int64     `gorm:"not null;default:0" json:"visit_count"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate assigns the opaque identifier.
func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Mode returns the redirect mode stored on the link.
func (l *Link) Mode() RedirectMode {
	if l.PermanentRedirect {
		return RedirectPermanent
	}
	return RedirectTemporary
}
