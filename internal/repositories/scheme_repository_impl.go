package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"paynet/internal/models"

	"gorm.io/gorm"
)

type schemeRepository struct {
	db *gorm.DB
}

func NewSchemeRepository(db *gorm.DB) SchemeRepository {
	return &schemeRepository{
		db: db,
	}
}

func (r *schemeRepository) Create(ctx context.Context, scheme *models.Scheme) error {
	if err := r.db.WithContext(ctx).Create(scheme).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateSchemeName
		}
		return fmt.Errorf("failed to create scheme: %w", err)
	}
	return nil
}

func (r *schemeRepository) GetByID(ctx context.Context, id uint) (*models.Scheme, error) {
	var scheme models.Scheme
	if err := r.db.WithContext(ctx).First(&scheme, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchemeNotFound
		}
		return nil, fmt.Errorf("failed to get scheme: %w", err)
	}
	return &scheme, nil
}

func (r *schemeRepository) GetByName(ctx context.Context, name string) (*models.Scheme, error) {
	var scheme models.Scheme
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&scheme).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchemeNotFound
		}
		return nil, fmt.Errorf("failed to get scheme: %w", err)
	}
	return &scheme, nil
}

func (r *schemeRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Scheme{ID: id}).Updates(fields)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return ErrDuplicateSchemeName
		}
		return fmt.Errorf("failed to update scheme: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSchemeNotFound
	}
	return nil
}

func (r *schemeRepository) List(ctx context.Context, f SchemeFilter) ([]models.Scheme, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Scheme{})

	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.FromDate != nil {
		q = q.Where("created_at >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("created_at <= ?", *f.ToDate)
	}
	if v := f.Visibility; v != nil {
		if len(v.Roles) > 0 {
			q = q.Where("owner_id = ? OR created_by = ? OR created_by_role IN ?", v.UserID, v.UserID, v.Roles)
		} else {
			q = q.Where("owner_id = ? OR created_by = ?", v.UserID, v.UserID)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count schemes: %w", err)
	}

	var schemes []models.Scheme
	q = q.Order("created_at DESC").Order("id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&schemes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list schemes: %w", err)
	}
	return schemes, total, nil
}

func (r *schemeRepository) Stats(ctx context.Context, id uint) (int64, int64, error) {
	var commissions, services int64
	active := r.db.WithContext(ctx).Model(&models.Commission{}).
		Where("scheme_id = ? AND is_active = ?", id, true)

	if err := active.Session(&gorm.Session{}).Count(&commissions).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count commissions: %w", err)
	}
	if err := active.Session(&gorm.Session{}).Distinct("service_type").Count(&services).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count services: %w", err)
	}
	return commissions, services, nil
}
