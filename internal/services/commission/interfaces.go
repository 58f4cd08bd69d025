package commission

import (
	"context"
	"io"
	"time"

	"paynet/internal/models"
)

type Service interface {
	CreateCommission(ctx context.Context, actor models.Actor, schemeID uint, in CreateCommissionInput) (*models.Commission, error)
	UpdateCommission(ctx context.Context, actor models.Actor, id uint, in UpdateCommissionInput) (*models.Commission, error)
	DeleteCommission(ctx context.Context, actor models.Actor, id uint) error
	GetCommission(ctx context.Context, actor models.Actor, id uint) (*models.Commission, error)
	ListCommissions(ctx context.Context, actor models.Actor, schemeID uint, serviceType string) ([]models.Commission, error)

	BulkCreateCommissions(ctx context.Context, actor models.Actor, schemeID uint, serviceType string, entries []BulkEntry) (*BulkResult, error)
	BulkUpdateCommissions(ctx context.Context, actor models.Actor, schemeID uint, serviceType string, entries []BulkUpdateEntry) (*BulkResult, error)

	CreateSlab(ctx context.Context, actor models.Actor, commissionID uint, in SlabInput) (*models.CommissionSlab, error)
	UpdateSlab(ctx context.Context, actor models.Actor, slabID uint, in UpdateSlabInput) (*models.CommissionSlab, error)
	DeleteSlab(ctx context.Context, actor models.Actor, slabID uint) error
	ListSlabs(ctx context.Context, actor models.Actor, commissionID uint) ([]models.CommissionSlab, error)

	Calculate(ctx context.Context, actor models.Actor, in CalculateInput) (*CalculateResult, error)
	ExportCSV(ctx context.Context, actor models.Actor, schemeID uint, serviceType string, w io.Writer) error
}

// SchemeAccess is the part of the scheme service the engine depends on.
type SchemeAccess interface {
	Authorize(ctx context.Context, actor models.Actor, id uint) (*models.Scheme, error)
	Lookup(ctx context.Context, id uint) (*models.Scheme, error)
}

// OperatorResolver is the part of the operator service the engine depends on.
type OperatorResolver interface {
	Lookup(ctx context.Context, id uint) (*models.ServiceOperator, error)
	FindByName(ctx context.Context, name, serviceType string) (*models.ServiceOperator, error)
	GetOrCreate(ctx context.Context, name, serviceType string) (*models.ServiceOperator, error)
}

// Cache stores resolved commissions for calculation lookups.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type MetricsCollector interface {
	RecordOperationDuration(operation string, d time.Duration)
	RecordOperationResult(operation, result string)
	RecordBulkEntry(operation, result string)
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
}
