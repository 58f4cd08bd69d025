package repositories

import (
	"context"
	"errors"
	"fmt"

	"paynet/internal/models"

	"gorm.io/gorm"
)

type operatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) OperatorRepository {
	return &operatorRepository{
		db: db,
	}
}

func (r *operatorRepository) Create(ctx context.Context, op *models.ServiceOperator) error {
	if err := r.db.WithContext(ctx).Create(op).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateOperator
		}
		return fmt.Errorf("failed to create operator: %w", err)
	}
	return nil
}

func (r *operatorRepository) GetByID(ctx context.Context, id uint) (*models.ServiceOperator, error) {
	var op models.ServiceOperator
	if err := r.db.WithContext(ctx).First(&op, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	return &op, nil
}

func (r *operatorRepository) GetByName(ctx context.Context, name, serviceType string) (*models.ServiceOperator, error) {
	var op models.ServiceOperator
	err := r.db.WithContext(ctx).
		Where("name = ? AND service_type = ?", name, serviceType).
		First(&op).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	return &op, nil
}

func (r *operatorRepository) List(ctx context.Context, serviceType string) ([]models.ServiceOperator, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if serviceType != "" {
		q = q.Where("service_type = ?", serviceType)
	}
	var ops []models.ServiceOperator
	if err := q.Order("name").Find(&ops).Error; err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	return ops, nil
}

func (r *operatorRepository) GetOrCreate(ctx context.Context, name, serviceType string) (*models.ServiceOperator, bool, error) {
	op, err := r.GetByName(ctx, name, serviceType)
	if err == nil {
		return op, false, nil
	}
	if !errors.Is(err, ErrOperatorNotFound) {
		return nil, false, err
	}

	op = &models.ServiceOperator{Name: name, ServiceType: serviceType, IsActive: true}
	if err := r.Create(ctx, op); err != nil {
		// lost a race with a concurrent create
		if errors.Is(err, ErrDuplicateOperator) {
			op, err = r.GetByName(ctx, name, serviceType)
			return op, false, err
		}
		return nil, false, err
	}
	return op, true, nil
}
