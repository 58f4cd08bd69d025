package models

import "time"

// Service types offered through the network.
const (
	ServiceMobileRecharge = "mobile_recharge"
	ServiceDTHRecharge    = "dth_recharge"
	ServiceBillPayments   = "bill_payments"
	ServiceAEPS           = "aeps"
	ServiceDMT            = "dmt"
	ServiceMicroATM       = "micro_atm"
)

var ServiceTypes = []string{
	ServiceMobileRecharge,
	ServiceDTHRecharge,
	ServiceBillPayments,
	ServiceAEPS,
	ServiceDMT,
	ServiceMicroATM,
}

func ValidServiceType(s string) bool {
	for _, t := range ServiceTypes {
		if t == s {
			return true
		}
	}
	return false
}

// ServiceOperator is a provider (e.g. a telecom) of one service type.
type ServiceOperator struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex:uq_operator_name_service" json:"name"`
	ServiceType string    `gorm:"size:50;not null;uniqueIndex:uq_operator_name_service;index" json:"service_type"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
