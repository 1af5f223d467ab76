package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customerrors "github.com/axellelanca/linkpool/internal/errors"
	"github.com/axellelanca/linkpool/internal/models"
)

// LinkRepository est une interface qui définit les méthodes d'accès aux liens
type LinkRepository interface {
	CreateLinkWithTargets(ctx context.Context, link *models.Link, destinations []string) ([]models.Target, error)
	GetLinkByCode(ctx context.Context, code string) (*models.Link, error)
	IncrementLinkVisits(ctx context.Context, linkID string) error
}

// GormLinkRepository est l'implémentation de LinkRepository utilisant GORM.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository crée et retourne une nouvelle instance de GormLinkRepository.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// CreateLinkWithTargets inserts the link and one target per destination in a
// single transaction. Nothing is written if any insert fails.
func (r *GormLinkRepository) CreateLinkWithTargets(ctx context.Context, link *models.Link, destinations []string) ([]models.Target, error) {
	if len(destinations) == 0 {
		return nil, customerrors.ErrEmptyTargetList
	}

	targets := make([]models.Target, len(destinations))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(link).Error; err != nil {
			return err
		}
		for i, dest := range destinations {
			targets[i] = models.Target{LinkID: link.ID, DestinationURL: dest}
		}
		return tx.Omit(clause.Associations).Create(&targets).Error
	})
	if err != nil {
		// The hook-assigned IDs belong to rows that were rolled back.
		link.ID = ""
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("code %q: %w", link.Code, customerrors.ErrDuplicateCode)
		}
		return nil, fmt.Errorf("failed to create link: %w: %w", customerrors.ErrStoreUnavailable, err)
	}
	return targets, nil
}

// GetLinkByCode récupère un lien en utilisant son code court.
func (r *GormLinkRepository) GetLinkByCode(ctx context.Context, code string) (*models.Link, error) {
	var link models.Link
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to find link %q: %w: %w", code, customerrors.ErrStoreUnavailable, err)
	}
	return &link, nil
}

// IncrementLinkVisits adds one to the link's counter in a single UPDATE.
func (r *GormLinkRepository) IncrementLinkVisits(ctx context.Context, linkID string) error {
	return incrementVisits(r.db.WithContext(ctx).Model(&models.Link{}), linkID)
}

// incrementVisits runs "visit_count = visit_count + 1" server side so
// concurrent callers never overwrite each other.
func incrementVisits(q *gorm.DB, id string) error {
	res := q.Where("id = ?", id).UpdateColumn("visit_count", gorm.Expr("visit_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment visits for %s: %w: %w", id, customerrors.ErrStoreUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("increment visits for %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// isDuplicateKey recognises unique violations. TranslateError covers the
// drivers that implement it; the message check covers the rest.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
