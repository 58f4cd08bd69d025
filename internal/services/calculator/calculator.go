package calculator

import (
	domainErrors "paynet/internal/errors"
	"paynet/internal/models"

	"github.com/shopspring/decimal"
)

// Places is the rounding precision of every computed amount.
const Places = 4

var hundred = decimal.NewFromInt(100)

// Modifiers are percentages applied after the commission is computed.
// Charges are a percentage of the transaction amount; GST is added to and
// TDS withheld from the commission amount.
type Modifiers struct {
	ChargePercentage decimal.Decimal `json:"charge_percentage"`
	GSTPercentage    decimal.Decimal `json:"gst_percentage"`
	TDSPercentage    decimal.Decimal `json:"tds_percentage"`
}

// Result is the outcome of a calculation.
type Result struct {
	Amount           decimal.Decimal `json:"amount"`
	Role             string          `json:"role"`
	CommissionType   string          `json:"commission_type"`
	Rate             decimal.Decimal `json:"rate"`
	SlabID           *uint           `json:"slab_id,omitempty"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Charges          decimal.Decimal `json:"charges"`
	GST              decimal.Decimal `json:"gst"`
	TDS              decimal.Decimal `json:"tds"`
	NetCommission    decimal.Decimal `json:"net_commission"`
}

// Calculator computes commissions with a set of default modifiers.
type Calculator struct {
	defaults Modifiers
}

func New(defaults Modifiers) *Calculator {
	return &Calculator{defaults: defaults}
}

// Defaults returns the modifiers used when a request supplies none.
func (c *Calculator) Defaults() Modifiers {
	return c.defaults
}

// Calculate computes the commission earned by role on amount. A nil mods
// uses the calculator's defaults.
func (c *Calculator) Calculate(commission *models.Commission, amount decimal.Decimal, role string, mods *Modifiers) (*Result, error) {
	m := c.defaults
	if mods != nil {
		m = *mods
	}
	if err := checkModifiers(m); err != nil {
		return nil, err
	}

	if !amount.IsPositive() {
		return nil, domainErrors.Validation(domainErrors.CodeAmountOutOfRange, "amount must be greater than 0")
	}
	if amount.LessThan(commission.MinAmount) {
		return nil, domainErrors.Validation(domainErrors.CodeAmountOutOfRange,
			"amount %s is below the minimum of %s", amount.String(), commission.MinAmount.String())
	}
	if commission.MaxAmount.Valid && amount.GreaterThan(commission.MaxAmount.Decimal) {
		return nil, domainErrors.Validation(domainErrors.CodeAmountOutOfRange,
			"amount %s exceeds the maximum of %s", amount.String(), commission.MaxAmount.Decimal.String())
	}
	if !isRateRole(role) {
		return nil, domainErrors.Validation(domainErrors.CodeInvalidEnum, "role %q does not carry a commission rate", role)
	}

	res := &Result{Amount: amount, Role: role, CommissionType: commission.CommissionType}

	switch commission.CommissionType {
	case models.CommissionTypePercentage:
		res.Rate = commission.Get(role)
		res.CommissionAmount = percentOf(amount, res.Rate)
	case models.CommissionTypeFixed:
		res.Rate = commission.Get(role)
		res.CommissionAmount = res.Rate
	case models.CommissionTypeSlab:
		slab, err := ResolveSlab(commission.Slabs, amount)
		if err != nil {
			return nil, err
		}
		id := slab.ID
		res.SlabID = &id
		res.Rate = slab.Get(role)
		res.CommissionAmount = percentOf(amount, res.Rate)
	default:
		return nil, domainErrors.Validation(domainErrors.CodeInvalidEnum,
			"unknown commission type %q", commission.CommissionType)
	}

	res.Charges = percentOf(amount, m.ChargePercentage)
	res.GST = percentOf(res.CommissionAmount, m.GSTPercentage)
	res.TDS = percentOf(res.CommissionAmount, m.TDSPercentage)
	net := res.CommissionAmount.Add(res.GST).Sub(res.TDS).Sub(res.Charges)
	if net.IsNegative() {
		return nil, domainErrors.Validation(domainErrors.CodeNegativeNet,
			"net commission %s is negative", net.String())
	}

	res.CommissionAmount = res.CommissionAmount.Round(Places)
	res.Charges = res.Charges.Round(Places)
	res.GST = res.GST.Round(Places)
	res.TDS = res.TDS.Round(Places)
	res.NetCommission = net.Round(Places)
	return res, nil
}

func checkModifiers(m Modifiers) error {
	fields := map[string]string{}
	if m.ChargePercentage.IsNegative() {
		fields["charge_percentage"] = "must be >= 0"
	}
	if m.GSTPercentage.IsNegative() {
		fields["gst_percentage"] = "must be >= 0"
	}
	if m.TDSPercentage.IsNegative() {
		fields["tds_percentage"] = "must be >= 0"
	}
	if len(fields) > 0 {
		return domainErrors.ValidationFields("invalid modifiers", fields)
	}
	return nil
}

func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

func isRateRole(role string) bool {
	for _, r := range models.RateRoles {
		if r == role {
			return true
		}
	}
	return false
}
