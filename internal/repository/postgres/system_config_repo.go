package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// SystemConfigRepo implements repository.SystemConfigRepository.
type SystemConfigRepo struct {
	db *gorm.DB
}

// NewSystemConfigRepo creates a new system-config repository.
func NewSystemConfigRepo(db *gorm.DB) *SystemConfigRepo {
	return &SystemConfigRepo{db: db}
}

// Get returns the single config row.
func (r *SystemConfigRepo) Get() (*entity.SystemConfig, error) {
	var cfg entity.SystemConfig
	err := r.db.First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// Save creates the row on first write and updates it afterwards.
func (r *SystemConfigRepo) Save(cfg *entity.SystemConfig) error {
	var existing entity.SystemConfig
	err := r.db.First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(cfg).Error
		}
		return err
	}
	cfg.ID = existing.ID
	return r.db.Save(cfg).Error
}
