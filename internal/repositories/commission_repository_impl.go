package repositories

import (
	"context"
	"errors"
	"fmt"

	"paynet/internal/models"

	"gorm.io/gorm"
)

type commissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{
		db: db,
	}
}

func activeSlabs(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("slab_min ASC")
}

func (r *commissionRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Slabs", activeSlabs).Preload("Operator")
}

func (r *commissionRepository) Create(ctx context.Context, c *models.Commission) error {
	if err := r.db.WithContext(ctx).Omit("Scheme", "Operator").Create(c).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateActiveCommission
		}
		return fmt.Errorf("failed to create commission: %w", err)
	}
	return nil
}

func (r *commissionRepository) GetByID(ctx context.Context, id uint) (*models.Commission, error) {
	var c models.Commission
	if err := r.withRelations(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionNotFound
		}
		return nil, fmt.Errorf("failed to get commission: %w", err)
	}
	return &c, nil
}

func (r *commissionRepository) FindActive(ctx context.Context, schemeID, operatorID uint, serviceType string) (*models.Commission, error) {
	var c models.Commission
	err := r.withRelations(ctx).
		Where("scheme_id = ? AND operator_id = ? AND service_type = ? AND is_active = ?",
			schemeID, operatorID, serviceType, true).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionNotFound
		}
		return nil, fmt.Errorf("failed to find commission: %w", err)
	}
	return &c, nil
}

func (r *commissionRepository) ListByScheme(ctx context.Context, schemeID uint, serviceType string) ([]models.Commission, error) {
	q := r.withRelations(ctx).Where("scheme_id = ? AND is_active = ?", schemeID, true)
	if serviceType != "" {
		q = q.Where("service_type = ?", serviceType)
	}
	var out []models.Commission
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	return out, nil
}

func (r *commissionRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Commission{ID: id}).Updates(fields)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return ErrDuplicateActiveCommission
		}
		return fmt.Errorf("failed to update commission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommissionNotFound
	}
	return nil
}

func (r *commissionRepository) Deactivate(ctx context.Context, id uint) error {
	return r.Update(ctx, id, map[string]interface{}{"is_active": false})
}

func (r *commissionRepository) CreateSlab(ctx context.Context, slab *models.CommissionSlab) error {
	if err := r.db.WithContext(ctx).Create(slab).Error; err != nil {
		return fmt.Errorf("failed to create slab: %w", err)
	}
	return nil
}

func (r *commissionRepository) GetSlab(ctx context.Context, id uint) (*models.CommissionSlab, error) {
	var slab models.CommissionSlab
	if err := r.db.WithContext(ctx).First(&slab, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlabNotFound
		}
		return nil, fmt.Errorf("failed to get slab: %w", err)
	}
	return &slab, nil
}

func (r *commissionRepository) ListSlabs(ctx context.Context, commissionID uint) ([]models.CommissionSlab, error) {
	var slabs []models.CommissionSlab
	err := activeSlabs(r.db.WithContext(ctx)).
		Where("commission_id = ?", commissionID).
		Find(&slabs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list slabs: %w", err)
	}
	return slabs, nil
}

func (r *commissionRepository) UpdateSlab(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.CommissionSlab{ID: id}).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update slab: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSlabNotFound
	}
	return nil
}

func (r *commissionRepository) DeactivateSlab(ctx context.Context, id uint) error {
	return r.UpdateSlab(ctx, id, map[string]interface{}{"is_active": false})
}

func (r *commissionRepository) ExecuteInTransaction(ctx context.Context, fn func(CommissionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&commissionRepository{db: tx})
	})
}
