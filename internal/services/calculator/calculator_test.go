package calculator

import (
	"testing"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func slab(id uint, min, max, retailerRate string) models.CommissionSlab {
	s := models.CommissionSlab{ID: id, SlabMin: d(min), SlabMax: d(max), IsActive: true}
	s.Retailer = d(retailerRate)
	return s
}

func TestResolveSlab(t *testing.T) {
	slabs := []models.CommissionSlab{
		slab(2, "1000.01", "5000", "1.5"),
		slab(1, "0", "1000", "1.0"),
	}

	tests := []struct {
		amount  string
		wantID  uint
		wantErr bool
	}{
		{amount: "0", wantID: 1},
		{amount: "1000", wantID: 1},
		{amount: "1000.01", wantID: 2},
		{amount: "5000", wantID: 2},
		{amount: "1000.005", wantErr: true},
		{amount: "5000.01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := ResolveSlab(slabs, d(tt.amount))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domainErrors.IsValidation(err))
				assert.Contains(t, err.Error(), "no slab covers amount "+tt.amount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolveSlab_IgnoresInactive(t *testing.T) {
	inactive := slab(1, "0", "1000", "1")
	inactive.IsActive = false

	_, err := ResolveSlab([]models.CommissionSlab{inactive}, d("500"))
	assert.Error(t, err)
}

func TestCheckSlabs(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		problems := CheckSlabs([]models.CommissionSlab{
			slab(0, "1000.01", "5000", "1"),
			slab(0, "0", "1000", "1"),
		})
		assert.Empty(t, problems)
	})

	t.Run("bad bounds", func(t *testing.T) {
		problems := CheckSlabs([]models.CommissionSlab{
			slab(0, "100", "100", "1"),
			slab(0, "-1", "50", "1"),
		})
		assert.Equal(t, "slab_max must be greater than slab_min", problems["slabs[0]"])
		assert.Equal(t, "slab_min must be >= 0", problems["slabs[1]"])
	})

	t.Run("shared endpoint overlaps", func(t *testing.T) {
		problems := CheckSlabs([]models.CommissionSlab{
			slab(0, "0", "1000", "1"),
			slab(0, "1000", "2000", "1"),
		})
		assert.Equal(t, "range [1000, 2000] overlaps [0, 1000]", problems["slabs[1]"])
	})
}

func TestFindOverlap(t *testing.T) {
	existing := []models.CommissionSlab{slab(1, "0", "1000", "1"), slab(2, "2000", "3000", "1")}

	assert.Nil(t, FindOverlap(existing, slab(0, "1000.5", "1999", "1")))
	assert.Equal(t, uint(2), FindOverlap(existing, slab(0, "1500", "2500", "1")).ID)
	// updating slab 1 in place does not collide with itself
	assert.Nil(t, FindOverlap(existing, slab(1, "0", "1500", "1")))
}

func percentageCommission(rate string) *models.Commission {
	c := &models.Commission{CommissionType: models.CommissionTypePercentage, IsActive: true}
	c.Retailer = d(rate)
	return c
}

func TestCalculator_Calculate(t *testing.T) {
	calc := New(Modifiers{})

	t.Run("percentage with charges", func(t *testing.T) {
		res, err := calc.Calculate(percentageCommission("2.5"), d("1000"), models.RoleRetailer,
			&Modifiers{ChargePercentage: d("0.5")})
		require.NoError(t, err)
		assert.True(t, res.CommissionAmount.Equal(d("25")), res.CommissionAmount.String())
		assert.True(t, res.Charges.Equal(d("5")), res.Charges.String())
		assert.True(t, res.NetCommission.Equal(d("20")), res.NetCommission.String())
	})

	t.Run("fixed rate is an absolute amount", func(t *testing.T) {
		c := &models.Commission{CommissionType: models.CommissionTypeFixed}
		c.Distributor = d("7.5")
		res, err := calc.Calculate(c, d("10000"), models.RoleDistributor, nil)
		require.NoError(t, err)
		assert.True(t, res.CommissionAmount.Equal(d("7.5")))
		assert.True(t, res.NetCommission.Equal(d("7.5")))
	})

	t.Run("slab uses resolved slab rate", func(t *testing.T) {
		c := &models.Commission{
			CommissionType: models.CommissionTypeSlab,
			Slabs: []models.CommissionSlab{
				slab(1, "0", "1000", "1.0"),
				slab(2, "1000.01", "5000", "1.5"),
			},
		}
		res, err := calc.Calculate(c, d("2000"), models.RoleRetailer, nil)
		require.NoError(t, err)
		require.NotNil(t, res.SlabID)
		assert.Equal(t, uint(2), *res.SlabID)
		assert.True(t, res.CommissionAmount.Equal(d("30")))

		_, err = calc.Calculate(c, d("5000.01"), models.RoleRetailer, nil)
		assert.True(t, domainErrors.IsValidation(err))
	})

	t.Run("gst added and tds withheld", func(t *testing.T) {
		res, err := calc.Calculate(percentageCommission("2"), d("500"), models.RoleRetailer,
			&Modifiers{GSTPercentage: d("18"), TDSPercentage: d("5")})
		require.NoError(t, err)
		assert.True(t, res.CommissionAmount.Equal(d("10")))
		assert.True(t, res.GST.Equal(d("1.8")))
		assert.True(t, res.TDS.Equal(d("0.5")))
		assert.True(t, res.NetCommission.Equal(d("11.3")))
	})

	t.Run("uses defaults when no modifiers given", func(t *testing.T) {
		withDefaults := New(Modifiers{ChargePercentage: d("1")})
		res, err := withDefaults.Calculate(percentageCommission("2"), d("100"), models.RoleRetailer, nil)
		require.NoError(t, err)
		assert.True(t, res.NetCommission.Equal(d("1")))
	})

	t.Run("negative net is rejected", func(t *testing.T) {
		_, err := calc.Calculate(percentageCommission("0.5"), d("1000"), models.RoleRetailer,
			&Modifiers{ChargePercentage: d("1")})
		require.Error(t, err)
		de, ok := domainErrors.As(err)
		require.True(t, ok)
		assert.Equal(t, domainErrors.CodeNegativeNet, de.Code)
	})

	t.Run("net negative before rounding is rejected", func(t *testing.T) {
		// commission 0.000005, charges 0.00005: net -0.000045 rounds to zero
		_, err := calc.Calculate(percentageCommission("0.001"), d("0.5"), models.RoleRetailer,
			&Modifiers{ChargePercentage: d("0.01")})
		require.Error(t, err)
		de, ok := domainErrors.As(err)
		require.True(t, ok)
		assert.Equal(t, domainErrors.CodeNegativeNet, de.Code)
	})
}

func TestCalculator_AmountBounds(t *testing.T) {
	calc := New(Modifiers{})
	c := percentageCommission("1")
	c.MinAmount = d("100")
	c.MaxAmount = decimal.NewNullDecimal(d("1000"))

	tests := []struct {
		amount  string
		wantErr string
	}{
		{"99.99", "below the minimum"},
		{"100", ""},
		{"1000", ""},
		{"1000.01", "exceeds the maximum"},
		{"0", "greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			_, err := calc.Calculate(c, d(tt.amount), models.RoleRetailer, nil)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, domainErrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCalculator_RejectsUnknownRole(t *testing.T) {
	calc := New(Modifiers{})

	for _, role := range []string{models.RoleSuperadmin, "intern"} {
		_, err := calc.Calculate(percentageCommission("1"), d("100"), role, nil)
		assert.True(t, domainErrors.IsValidation(err), role)
	}
}

func TestCalculator_RejectsNegativeModifiers(t *testing.T) {
	calc := New(Modifiers{})

	_, err := calc.Calculate(percentageCommission("1"), d("100"), models.RoleRetailer,
		&Modifiers{GSTPercentage: d("-1")})
	require.Error(t, err)
	de, _ := domainErrors.As(err)
	assert.Contains(t, de.Fields, "gst_percentage")
}
