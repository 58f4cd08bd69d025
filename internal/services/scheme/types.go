package scheme

import (
	"time"

	"paynet/internal/models"
)

type CreateSchemeInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateSchemeInput is a partial update; nil fields are left unchanged.
type UpdateSchemeInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type ListFilter struct {
	// IsActive defaults to true when nil.
	IsActive *bool
	Search   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Size     int
}

// Detail is a scheme with counts over its active commissions.
type Detail struct {
	models.Scheme
	CommissionCount int64 `json:"commission_count"`
	ServicesCount   int64 `json:"services_count"`
}
