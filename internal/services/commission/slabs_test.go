package commission

import (
	"context"
	"testing"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slabCommission(t *testing.T, f *fixture, op *models.ServiceOperator) *models.Commission {
	t.Helper()
	c, err := f.svc.CreateCommission(context.Background(), whitelabel, f.schemeID, CreateCommissionInput{
		OperatorID:     op.ID,
		ServiceType:    op.ServiceType,
		CommissionType: models.CommissionTypeSlab,
		Slabs: []SlabInput{
			{SlabMin: dec("0"), SlabMax: dec("1000"), RateInput: rates(map[string]float64{models.RoleRetailer: 1})},
		},
	})
	require.NoError(t, err)
	return c
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	de, ok := domainErrors.As(err)
	require.True(t, ok, err.Error())
	return de.Code
}

func TestCreateSlab(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := slabCommission(t, f, f.airtel)
	pct, err := f.svc.CreateCommission(ctx, whitelabel, f.schemeID, percentageInput(f.jio))
	require.NoError(t, err)

	tests := []struct {
		name         string
		commissionID uint
		input        SlabInput
		code         string
	}{
		{
			name:         "adjacent slab",
			commissionID: c.ID,
			input:        SlabInput{SlabMin: dec("1000.01"), SlabMax: dec("5000"), RateInput: rates(map[string]float64{models.RoleRetailer: 1.5})},
		},
		{
			name:         "shared endpoint overlaps",
			commissionID: c.ID,
			input:        SlabInput{SlabMin: dec("5000"), SlabMax: dec("9000")},
			code:         domainErrors.CodeSlabOverlap,
		},
		{
			name:         "inverted bounds",
			commissionID: c.ID,
			input:        SlabInput{SlabMin: dec("9000"), SlabMax: dec("8000")},
			code:         domainErrors.CodeInvalidSlab,
		},
		{
			name:         "rate the actor cannot edit",
			commissionID: c.ID,
			input:        SlabInput{SlabMin: dec("10000"), SlabMax: dec("20000"), RateInput: rates(map[string]float64{models.RoleWhitelabel: 1})},
			code:         domainErrors.CodeFieldNotEditable,
		},
		{
			name:         "hierarchy violation",
			commissionID: c.ID,
			input:        SlabInput{SlabMin: dec("10000"), SlabMax: dec("20000"), RateInput: rates(map[string]float64{models.RoleDistributor: 1, models.RoleRetailer: 2})},
			code:         domainErrors.CodeHierarchyViolation,
		},
		{
			name:         "percentage commission",
			commissionID: pct.ID,
			input:        SlabInput{SlabMin: dec("0"), SlabMax: dec("10")},
			code:         domainErrors.CodeInvalidSlab,
		},
		{
			name:         "unknown commission",
			commissionID: 999,
			input:        SlabInput{SlabMin: dec("0"), SlabMax: dec("10")},
			code:         domainErrors.CodeCommissionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slab, err := f.svc.CreateSlab(ctx, whitelabel, tt.commissionID, tt.input)
			if tt.code != "" {
				assert.Equal(t, tt.code, codeOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, slab.ID)
			assert.True(t, slab.IsActive)
		})
	}

	slabs, err := f.svc.ListSlabs(ctx, whitelabel, c.ID)
	require.NoError(t, err)
	assert.Len(t, slabs, 2)
}

func TestUpdateAndDeleteSlab(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := slabCommission(t, f, f.airtel)
	second, err := f.svc.CreateSlab(ctx, whitelabel, c.ID, SlabInput{SlabMin: dec("2000"), SlabMax: dec("3000")})
	require.NoError(t, err)

	_, err = f.svc.UpdateSlab(ctx, whitelabel, second.ID, UpdateSlabInput{SlabMin: decPtr("999")})
	assert.Equal(t, domainErrors.CodeSlabOverlap, codeOf(t, err))

	updated, err := f.svc.UpdateSlab(ctx, whitelabel, second.ID, UpdateSlabInput{
		SlabMax:   decPtr("4000"),
		RateInput: rates(map[string]float64{models.RoleRetailer: 1.2, models.RoleAdmin: 3}),
	})
	require.NoError(t, err, "a slab never overlaps itself")
	assert.True(t, dec("4000").Equal(updated.SlabMax))
	assert.True(t, dec("1.2").Equal(updated.Retailer))
	assert.True(t, updated.Admin.IsZero(), "fields the actor cannot edit are dropped")

	require.NoError(t, f.svc.DeleteSlab(ctx, whitelabel, second.ID))
	slabs, err := f.svc.ListSlabs(ctx, whitelabel, c.ID)
	require.NoError(t, err)
	assert.Len(t, slabs, 1)

	_, err = f.svc.UpdateSlab(ctx, whitelabel, second.ID, UpdateSlabInput{SlabMax: decPtr("5000")})
	assert.ErrorIs(t, err, domainErrors.ErrSlabNotFound)

	err = f.svc.DeleteSlab(ctx, distributor, slabs[0].ID)
	assert.Equal(t, domainErrors.CodeActionForbidden, codeOf(t, err))
}
