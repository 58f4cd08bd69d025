package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Commission types.
const (
	CommissionTypePercentage = "percentage"
	CommissionTypeFixed      = "fixed"
	CommissionTypeSlab       = "slab"
)

func ValidCommissionType(t string) bool {
	switch t {
	case CommissionTypePercentage, CommissionTypeFixed, CommissionTypeSlab:
		return true
	}
	return false
}

// Commission is the rate definition for one operator and service within a
// scheme. At most one active commission exists per scheme, operator and
// service; the partial index uq_commissions_active enforces it.
type Commission struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	SchemeID       uint             `gorm:"not null;index" json:"scheme_id"`
	Scheme         *Scheme          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	OperatorID     uint             `gorm:"not null;index" json:"operator_id"`
	Operator       *ServiceOperator `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"operator,omitempty"`
	ServiceType    string           `gorm:"size:50;not null;index" json:"service_type"`
	CommissionType string           `gorm:"size:20;not null" json:"commission_type"`
	RoleRates
	MinAmount decimal.Decimal     `gorm:"type:numeric(14,4);not null;default:0" json:"min_amount"`
	MaxAmount decimal.NullDecimal `gorm:"type:numeric(14,4)" json:"max_amount"`
	IsActive  bool                `gorm:"not null;index" json:"is_active"`
	Slabs     []CommissionSlab    `gorm:"foreignKey:CommissionID" json:"slabs,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CommissionSlab is an amount range of a slab commission carrying its own
// rates. Ranges are closed on both ends.
type CommissionSlab struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	CommissionID uint            `gorm:"not null;index" json:"commission_id"`
	SlabMin      decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"slab_min"`
	SlabMax      decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"slab_max"`
	RoleRates
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Covers reports whether amount falls inside the slab's closed range.
func (s CommissionSlab) Covers(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(s.SlabMin) && amount.LessThanOrEqual(s.SlabMax)
}

// Overlaps reports whether two closed ranges share any amount.
func (s CommissionSlab) Overlaps(o CommissionSlab) bool {
	return s.SlabMin.LessThanOrEqual(o.SlabMax) && o.SlabMin.LessThanOrEqual(s.SlabMax)
}
