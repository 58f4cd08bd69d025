package models

import "time"

// Scheme is a named container of commission definitions owned by one
// network participant. Schemes are deactivated, never deleted.
type Scheme struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	OwnerID       uint      `gorm:"not null;index" json:"owner_id"`
	CreatedBy     uint      `gorm:"not null;index" json:"created_by"`
	CreatedByRole string    `gorm:"size:50;not null" json:"created_by_role"`
	IsActive      bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
