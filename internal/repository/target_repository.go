package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	customerrors "github.com/axellelanca/linkpool/internal/errors"
	"github.com/axellelanca/linkpool/internal/models"
)

// TargetRepository est une interface qui définit les méthodes d'accès aux destinations
type TargetRepository interface {
	ListTargets(ctx context.Context, linkID string, limit int) ([]models.Target, error)
	GetAllTargets(ctx context.Context) ([]models.Target, error)
	IncrementTargetVisits(ctx context.Context, targetID string) error
}

// GormTargetRepository est l'implémentation de TargetRepository utilisant GORM.
type GormTargetRepository struct {
	db *gorm.DB
}

// NewTargetRepository crée et retourne une nouvelle instance de GormTargetRepository.
func NewTargetRepository(db *gorm.DB) *GormTargetRepository {
	return &GormTargetRepository{db: db}
}

// ListTargets returns at most limit targets of a link in a stable order.
func (r *GormTargetRepository) ListTargets(ctx context.Context, linkID string, limit int) ([]models.Target, error) {
	var targets []models.Target
	err := r.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("created_at, id").
		Limit(limit).
		Find(&targets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list targets for link %s: %w: %w", linkID, customerrors.ErrStoreUnavailable, err)
	}
	return targets, nil
}

// GetAllTargets récupère toutes les destinations, pour le moniteur.
func (r *GormTargetRepository) GetAllTargets(ctx context.Context) ([]models.Target, error) {
	var targets []models.Target
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&targets).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve all targets: %w: %w", customerrors.ErrStoreUnavailable, err)
	}
	return targets, nil
}

// IncrementTargetVisits adds one to the target's counter in a single UPDATE.
func (r *GormTargetRepository) IncrementTargetVisits(ctx context.Context, targetID string) error {
	return incrementVisits(r.db.WithContext(ctx).Model(&models.Target{}), targetID)
}
