package repositories

import (
	"context"

	"paynet/internal/models"
)

type OperatorRepository interface {
	Create(ctx context.Context, op *models.ServiceOperator) error
	GetByID(ctx context.Context, id uint) (*models.ServiceOperator, error)
	GetByName(ctx context.Context, name, serviceType string) (*models.ServiceOperator, error)
	List(ctx context.Context, serviceType string) ([]models.ServiceOperator, error)
	// GetOrCreate returns the named operator of serviceType, creating an
	// active one when none exists.
	GetOrCreate(ctx context.Context, name, serviceType string) (*models.ServiceOperator, bool, error)
}
