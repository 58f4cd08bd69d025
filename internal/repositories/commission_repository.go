package repositories

import (
	"context"

	"paynet/internal/models"
)

// CommissionRepository stores commissions and their slabs. Reads return only
// active slabs, ordered by slab_min, and preload the operator.
type CommissionRepository interface {
	// Create inserts c and any slabs it carries.
	Create(ctx context.Context, c *models.Commission) error
	GetByID(ctx context.Context, id uint) (*models.Commission, error)
	FindActive(ctx context.Context, schemeID, operatorID uint, serviceType string) (*models.Commission, error)
	ListByScheme(ctx context.Context, schemeID uint, serviceType string) ([]models.Commission, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Deactivate(ctx context.Context, id uint) error

	CreateSlab(ctx context.Context, slab *models.CommissionSlab) error
	GetSlab(ctx context.Context, id uint) (*models.CommissionSlab, error)
	ListSlabs(ctx context.Context, commissionID uint) ([]models.CommissionSlab, error)
	UpdateSlab(ctx context.Context, id uint, fields map[string]interface{}) error
	DeactivateSlab(ctx context.Context, id uint) error

	// ExecuteInTransaction runs fn against a repository bound to a single
	// transaction. Any error returned by fn rolls it back.
	ExecuteInTransaction(ctx context.Context, fn func(CommissionRepository) error) error
}
