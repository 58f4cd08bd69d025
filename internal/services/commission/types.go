package commission

import (
	"paynet/internal/models"
	"paynet/internal/services/calculator"

	"github.com/shopspring/decimal"
)

// Config tunes the engine.
type Config struct {
	BulkMaxEntries int
}

// SlabInput describes one amount range and its rates.
type SlabInput struct {
	SlabMin decimal.Decimal `json:"slab_min"`
	SlabMax decimal.Decimal `json:"slab_max"`
	models.RateInput
}

type CreateCommissionInput struct {
	OperatorID     uint   `json:"operator_id" validate:"required"`
	ServiceType    string `json:"service_type" validate:"required,service_type"`
	CommissionType string `json:"commission_type" validate:"required,commission_type"`
	models.RateInput
	MinAmount *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount *decimal.Decimal `json:"max_amount,omitempty"`
	Slabs     []SlabInput      `json:"slabs,omitempty"`
}

// UpdateCommissionInput is a partial update. Nil fields are left unchanged.
// ClearMaxAmount removes the upper amount bound.
type UpdateCommissionInput struct {
	OperatorID     *uint   `json:"operator_id,omitempty"`
	ServiceType    *string `json:"service_type,omitempty" validate:"omitempty,service_type"`
	CommissionType *string `json:"commission_type,omitempty" validate:"omitempty,commission_type"`
	IsActive       *bool   `json:"is_active,omitempty"`
	models.RateInput
	MinAmount      *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount      *decimal.Decimal `json:"max_amount,omitempty"`
	ClearMaxAmount bool             `json:"clear_max_amount,omitempty"`
}

type UpdateSlabInput struct {
	SlabMin *decimal.Decimal `json:"slab_min,omitempty"`
	SlabMax *decimal.Decimal `json:"slab_max,omitempty"`
	models.RateInput
}

// BulkEntry is one commission of a bulk create. The operator is named either
// by id or by name; a name is created on demand.
type BulkEntry struct {
	OperatorID     uint   `json:"operator_id,omitempty"`
	OperatorName   string `json:"operator_name,omitempty"`
	CommissionType string `json:"commission_type"`
	models.RateInput
	MinAmount *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount *decimal.Decimal `json:"max_amount,omitempty"`
	Slabs     []SlabInput      `json:"slabs,omitempty"`
}

// BulkUpdateEntry patches the active commission of one operator.
type BulkUpdateEntry struct {
	OperatorID     uint    `json:"operator_id,omitempty"`
	OperatorName   string  `json:"operator_name,omitempty"`
	CommissionType *string `json:"commission_type,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
	models.RateInput
	MinAmount      *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount      *decimal.Decimal `json:"max_amount,omitempty"`
	ClearMaxAmount bool             `json:"clear_max_amount,omitempty"`
}

type BulkEntryError struct {
	Index    int    `json:"index"`
	Operator string `json:"operator"`
	Message  string `json:"message"`
}

// BulkResult reports the outcome of every entry of a bulk request.
type BulkResult struct {
	BatchID           string           `json:"batch_id"`
	TotalEntries      int              `json:"total_entries"`
	SuccessfulEntries int              `json:"successful_entries"`
	FailedEntries     int              `json:"failed_entries"`
	Created           []uint           `json:"created,omitempty"`
	Updated           []uint           `json:"updated,omitempty"`
	Skipped           []BulkEntryError `json:"skipped,omitempty"`
	Errors            []BulkEntryError `json:"errors"`
}

type CalculateInput struct {
	SchemeID         uint             `json:"scheme_id" validate:"required"`
	OperatorID       uint             `json:"operator_id" validate:"required"`
	ServiceType      string           `json:"service_type" validate:"required,service_type"`
	Amount           decimal.Decimal  `json:"amount" validate:"gt=0"`
	Role             string           `json:"role,omitempty"`
	ChargePercentage *decimal.Decimal `json:"charge_percentage,omitempty"`
	GSTPercentage    *decimal.Decimal `json:"gst_percentage,omitempty"`
	TDSPercentage    *decimal.Decimal `json:"tds_percentage,omitempty"`
}

type CalculateResult struct {
	CommissionID uint `json:"commission_id"`
	SchemeID     uint `json:"scheme_id"`
	OperatorID   uint `json:"operator_id"`
	calculator.Result
}

// commissionDraft is the common shape of single and bulk creates.
type commissionDraft struct {
	CommissionType string
	Rates          models.RateInput
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	Slabs          []SlabInput
}

// commissionPatch is the common shape of single and bulk updates.
type commissionPatch struct {
	OperatorID     *uint
	ServiceType    *string
	CommissionType *string
	IsActive       *bool
	Rates          models.RateInput
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	ClearMaxAmount bool
}

func (in CreateCommissionInput) draft() commissionDraft {
	return commissionDraft{
		CommissionType: in.CommissionType,
		Rates:          in.RateInput,
		MinAmount:      in.MinAmount,
		MaxAmount:      in.MaxAmount,
		Slabs:          in.Slabs,
	}
}

func (e BulkEntry) draft() commissionDraft {
	return commissionDraft{
		CommissionType: e.CommissionType,
		Rates:          e.RateInput,
		MinAmount:      e.MinAmount,
		MaxAmount:      e.MaxAmount,
		Slabs:          e.Slabs,
	}
}

func (in UpdateCommissionInput) patch() commissionPatch {
	return commissionPatch{
		OperatorID:     in.OperatorID,
		ServiceType:    in.ServiceType,
		CommissionType: in.CommissionType,
		IsActive:       in.IsActive,
		Rates:          in.RateInput,
		MinAmount:      in.MinAmount,
		MaxAmount:      in.MaxAmount,
		ClearMaxAmount: in.ClearMaxAmount,
	}
}

func (e BulkUpdateEntry) patch() commissionPatch {
	return commissionPatch{
		CommissionType: e.CommissionType,
		IsActive:       e.IsActive,
		Rates:          e.RateInput,
		MinAmount:      e.MinAmount,
		MaxAmount:      e.MaxAmount,
		ClearMaxAmount: e.ClearMaxAmount,
	}
}
