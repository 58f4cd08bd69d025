package repositories

import (
	"context"
	"time"

	"paynet/internal/models"
)

// SchemeVisibility restricts a listing to schemes a non-admin user can see:
// those it owns or created, and those created by one of Roles.
type SchemeVisibility struct {
	UserID uint
	Roles  []string
}

type SchemeFilter struct {
	IsActive   *bool
	Search     string
	FromDate   *time.Time
	ToDate     *time.Time
	Visibility *SchemeVisibility // nil lists every scheme
	Offset     int
	Limit      int
}

type SchemeRepository interface {
	Create(ctx context.Context, scheme *models.Scheme) error
	GetByID(ctx context.Context, id uint) (*models.Scheme, error)
	GetByName(ctx context.Context, name string) (*models.Scheme, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context, filter SchemeFilter) ([]models.Scheme, int64, error)
	// Stats returns the number of active commissions and of distinct services
	// they cover.
	Stats(ctx context.Context, id uint) (commissions int64, services int64, err error)
}
