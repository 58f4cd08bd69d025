package models

import "github.com/shopspring/decimal"

// Reseller network roles, senior first.
const (
	RoleSuperadmin        = "superadmin"
	RoleAdmin             = "admin"
	RoleWhitelabel        = "whitelabel"
	RoleMasterdistributor = "masterdistributor"
	RoleDistributor       = "distributor"
	RoleRetailer          = "retailer"
	RoleCustomer          = "customer"
)

// RateRoles lists the roles that carry a commission rate, senior first.
// Superadmin never carries a rate.
var RateRoles = []string{
	RoleAdmin,
	RoleWhitelabel,
	RoleMasterdistributor,
	RoleDistributor,
	RoleRetailer,
	RoleCustomer,
}

// RoleRates holds one rate column per rate-carrying role. A zero rate
// means the role has no rate set.
type RoleRates struct {
	Admin             decimal.Decimal `gorm:"type:numeric(12,4);not null;default:0" json:"admin"`
	Whitelabel        decimal.Decimal `gorm:"type:numeric(12,4);not null;default:0" json:"whitelabel"`
	Masterdistributor decimal.Decimal `gorm:"type:numeric(12,4);not null;default:0" json:"masterdistributor"`
	Distributor       decimal.Decimal `gorm:"type:numeric(12,4);not null;default:0" json:"distributor"`
	Retailer          decimal.Decimal `gorm:"type:numeric(12,4);not null;default:0" json:"retailer"`
	Customer          decimal.Decimal `gorm:"type:numeric(12,4);not null;default:0" json:"customer"`
}

func (r *RoleRates) field(role string) *decimal.Decimal {
	switch role {
	case RoleAdmin:
		return &r.Admin
	case RoleWhitelabel:
		return &r.Whitelabel
	case RoleMasterdistributor:
		return &r.Masterdistributor
	case RoleDistributor:
		return &r.Distributor
	case RoleRetailer:
		return &r.Retailer
	case RoleCustomer:
		return &r.Customer
	}
	return nil
}

// Get returns the rate for role, or zero for roles without a rate column.
func (r RoleRates) Get(role string) decimal.Decimal {
	if f := r.field(role); f != nil {
		return *f
	}
	return decimal.Zero
}

// Set stores the rate for role and reports whether role has a column.
func (r *RoleRates) Set(role string, rate decimal.Decimal) bool {
	f := r.field(role)
	if f == nil {
		return false
	}
	*f = rate
	return true
}

// Map returns every rate column keyed by role.
func (r RoleRates) Map() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(RateRoles))
	for _, role := range RateRoles {
		out[role] = r.Get(role)
	}
	return out
}

// Apply copies the given rates onto r, ignoring unknown roles.
func (r *RoleRates) Apply(rates map[string]decimal.Decimal) {
	for role, rate := range rates {
		r.Set(role, rate)
	}
}

// RateInput carries the rates a request body actually supplied.
type RateInput struct {
	Admin             *decimal.Decimal `json:"admin,omitempty"`
	Whitelabel        *decimal.Decimal `json:"whitelabel,omitempty"`
	Masterdistributor *decimal.Decimal `json:"masterdistributor,omitempty"`
	Distributor       *decimal.Decimal `json:"distributor,omitempty"`
	Retailer          *decimal.Decimal `json:"retailer,omitempty"`
	Customer          *decimal.Decimal `json:"customer,omitempty"`
}

// Present returns only the rates that were supplied.
func (in RateInput) Present() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for role, v := range map[string]*decimal.Decimal{
		RoleAdmin:             in.Admin,
		RoleWhitelabel:        in.Whitelabel,
		RoleMasterdistributor: in.Masterdistributor,
		RoleDistributor:       in.Distributor,
		RoleRetailer:          in.Retailer,
		RoleCustomer:          in.Customer,
	} {
		if v != nil {
			out[role] = *v
		}
	}
	return out
}

// RatesFrom builds a RateInput from a role→rate map. Used by tests and seeders.
func RatesFrom(rates map[string]float64) RateInput {
	var in RateInput
	for role, f := range rates {
		d := decimal.NewFromFloat(f)
		switch role {
		case RoleAdmin:
			in.Admin = &d
		case RoleWhitelabel:
			in.Whitelabel = &d
		case RoleMasterdistributor:
			in.Masterdistributor = &d
		case RoleDistributor:
			in.Distributor = &d
		case RoleRetailer:
			in.Retailer = &d
		case RoleCustomer:
			in.Customer = &d
		}
	}
	return in
}
