package hierarchy

import (
	"testing"

	"paynet/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func rates(in map[string]float64) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = decimal.NewFromFloat(v)
	}
	return out
}

func TestHierarchy_Level(t *testing.T) {
	h := Default()

	assert.Equal(t, Level(0), h.Level(models.RoleSuperadmin))
	assert.Equal(t, Level(1), h.Level(models.RoleAdmin))
	assert.Equal(t, Level(6), h.Level(models.RoleCustomer))
	assert.Equal(t, Level(UnknownLevel), h.Level("intern"))
	assert.False(t, h.Known("intern"))
}

func TestHierarchy_CanManage(t *testing.T) {
	h := Default()

	tests := []struct {
		actor, target string
		want          bool
	}{
		{models.RoleAdmin, models.RoleWhitelabel, true},
		{models.RoleAdmin, models.RoleAdmin, false},
		{models.RoleRetailer, models.RoleDistributor, false},
		{models.RoleSuperadmin, models.RoleAdmin, true},
		{"intern", models.RoleCustomer, false},
		{models.RoleCustomer, "intern", true},
	}

	for _, tt := range tests {
		t.Run(tt.actor+"->"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, h.CanManage(tt.actor, tt.target))
		})
	}
}

func TestHierarchy_EditableCommissionFields(t *testing.T) {
	h := Default()

	assert.Equal(t, []string{
		models.RoleWhitelabel,
		models.RoleMasterdistributor,
		models.RoleDistributor,
		models.RoleRetailer,
		models.RoleCustomer,
	}, h.EditableCommissionFields(models.RoleAdmin))

	assert.Equal(t, models.RateRoles, h.EditableCommissionFields(models.RoleSuperadmin))
	assert.Empty(t, h.EditableCommissionFields(models.RoleCustomer))
	assert.Empty(t, h.EditableCommissionFields("intern"))
}

func TestHierarchy_ValidatePermissions(t *testing.T) {
	h := Default()

	t.Run("admin sets junior fields", func(t *testing.T) {
		denied := h.ValidatePermissions(models.RoleAdmin, rates(map[string]float64{
			models.RoleWhitelabel:        2,
			models.RoleMasterdistributor: 1.5,
			models.RoleDistributor:       1,
			models.RoleRetailer:          0.5,
			models.RoleCustomer:          0.1,
		}))
		assert.Empty(t, denied)
	})

	t.Run("admin sets own field", func(t *testing.T) {
		denied := h.ValidatePermissions(models.RoleAdmin, rates(map[string]float64{
			models.RoleAdmin:      3,
			models.RoleWhitelabel: 2,
		}))
		assert.Equal(t, []string{models.RoleAdmin}, denied)
	})

	t.Run("distributor sets senior fields", func(t *testing.T) {
		denied := h.ValidatePermissions(models.RoleDistributor, rates(map[string]float64{
			models.RoleRetailer:          0.5,
			models.RoleWhitelabel:        2,
			models.RoleMasterdistributor: 1,
			models.RoleDistributor:       1,
		}))
		assert.Equal(t, []string{
			models.RoleWhitelabel,
			models.RoleMasterdistributor,
			models.RoleDistributor,
		}, denied)
	})

	t.Run("superadmin is not a rate field", func(t *testing.T) {
		denied := h.ValidatePermissions(models.RoleSuperadmin, rates(map[string]float64{
			models.RoleSuperadmin: 5,
			models.RoleAdmin:      4,
		}))
		assert.Equal(t, []string{models.RoleSuperadmin}, denied)
	})
}

func TestHierarchy_ValidateHierarchy(t *testing.T) {
	h := Default()

	tests := []struct {
		name  string
		rates map[string]float64
		want  []string // "senior>junior"
	}{
		{
			name: "descending rates",
			rates: map[string]float64{
				models.RoleAdmin:      3,
				models.RoleWhitelabel: 2.5,
				models.RoleRetailer:   1,
			},
		},
		{
			name: "equal rates",
			rates: map[string]float64{
				models.RoleDistributor: 1,
				models.RoleRetailer:    1,
			},
		},
		{
			name: "zero senior is unset",
			rates: map[string]float64{
				models.RoleAdmin:    0,
				models.RoleRetailer: 2,
			},
		},
		{
			name:  "empty",
			rates: map[string]float64{},
		},
		{
			name: "junior above senior",
			rates: map[string]float64{
				models.RoleWhitelabel:  1,
				models.RoleDistributor: 2,
			},
			want: []string{"whitelabel>distributor"},
		},
		{
			name: "violation across a gap",
			rates: map[string]float64{
				models.RoleAdmin:       1,
				models.RoleWhitelabel:  0,
				models.RoleRetailer:    0.5,
				models.RoleCustomer:    1.5,
				models.RoleDistributor: 0.8,
			},
			want: []string{"admin>customer", "distributor>customer", "retailer>customer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.ValidateHierarchy(rates(tt.rates))
			var pairs []string
			for _, v := range got {
				pairs = append(pairs, v.Senior+">"+v.Junior)
			}
			assert.Equal(t, tt.want, pairs)
		})
	}
}

func TestViolation_String(t *testing.T) {
	v := Violation{
		Senior:     models.RoleWhitelabel,
		Junior:     models.RoleRetailer,
		SeniorRate: decimal.NewFromFloat(1),
		JuniorRate: decimal.NewFromFloat(1.5),
	}
	assert.Equal(t, "whitelabel rate (1) cannot be lower than retailer rate (1.5)", v.String())
}

func TestHierarchy_SubordinateRoles(t *testing.T) {
	h := Default()

	assert.Equal(t, []string{models.RoleRetailer, models.RoleCustomer}, h.SubordinateRoles(models.RoleDistributor))
	assert.Empty(t, h.SubordinateRoles(models.RoleCustomer))
}

func TestHierarchy_FilterEditable(t *testing.T) {
	h := Default()

	got := h.FilterEditable(models.RoleWhitelabel, rates(map[string]float64{
		models.RoleAdmin:             3,
		models.RoleWhitelabel:        2,
		models.RoleMasterdistributor: 1,
	}))
	assert.Len(t, got, 1)
	assert.True(t, got[models.RoleMasterdistributor].Equal(decimal.NewFromInt(1)))
}
