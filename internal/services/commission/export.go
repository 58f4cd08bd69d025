package commission

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"paynet/internal/models"

	"github.com/shopspring/decimal"
)

// ExportCSV writes the scheme's active commissions as CSV: one row per
// commission followed by one row per active slab of it.
func (s *service) ExportCSV(ctx context.Context, actor models.Actor, schemeID uint, serviceType string, w io.Writer) (err error) {
	start := time.Now()
	defer func() { s.observe(OpExport, start, err) }()

	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, models.ActionExport); err != nil {
		return err
	}
	if _, err := s.schemes.Authorize(ctx, actor, schemeID); err != nil {
		return err
	}
	if serviceType != "" {
		if err := checkServiceType(serviceType); err != nil {
			return err
		}
	}
	commissions, err := s.repo.ListByScheme(ctx, schemeID, serviceType)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, c := range commissions {
		if err := cw.Write(commissionRow(c)); err != nil {
			return fmt.Errorf("failed to write commission %d: %w", c.ID, err)
		}
		for _, slab := range c.Slabs {
			if !slab.IsActive {
				continue
			}
			if err := cw.Write(slabRow(c, slab)); err != nil {
				return fmt.Errorf("failed to write slab %d: %w", slab.ID, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func operatorName(c models.Commission) string {
	if c.Operator != nil {
		return c.Operator.Name
	}
	return fmt.Sprintf("#%d", c.OperatorID)
}

func rateColumns(r models.RoleRates) []string {
	out := make([]string, 0, len(models.RateRoles))
	for _, role := range models.RateRoles {
		out = append(out, r.Get(role).String())
	}
	return out
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func commissionRow(c models.Commission) []string {
	row := []string{operatorName(c), c.ServiceType, c.CommissionType}
	row = append(row, rateColumns(c.RoleRates)...)
	return append(row, c.MinAmount.String(), nullString(c.MaxAmount), "", "")
}

func slabRow(c models.Commission, slab models.CommissionSlab) []string {
	row := []string{operatorName(c), c.ServiceType, c.CommissionType}
	row = append(row, rateColumns(slab.RoleRates)...)
	return append(row, "", "", slab.SlabMin.String(), slab.SlabMax.String())
}
