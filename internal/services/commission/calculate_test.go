package commission

import (
	"context"
	"testing"
	"time"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordOperationDuration(operation string, d time.Duration) {
	m.Called(operation, d)
}

func (m *MockMetrics) RecordOperationResult(operation, result string) {
	m.Called(operation, result)
}

func (m *MockMetrics) RecordBulkEntry(operation, result string) {
	m.Called(operation, result)
}

func (m *MockMetrics) RecordCacheHit(cache string) {
	m.Called(cache)
}

func (m *MockMetrics) RecordCacheMiss(cache string) {
	m.Called(cache)
}

func TestCalculate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CreateCommission(ctx, whitelabel, f.schemeID, percentageInput(f.airtel))
	require.NoError(t, err)
	fixed := percentageInput(f.jio)
	fixed.CommissionType = models.CommissionTypeFixed
	_, err = f.svc.CreateCommission(ctx, whitelabel, f.schemeID, fixed)
	require.NoError(t, err)

	base := CalculateInput{
		SchemeID:    f.schemeID,
		OperatorID:  f.airtel.ID,
		ServiceType: models.ServiceMobileRecharge,
		Amount:      dec("1000"),
	}

	tests := []struct {
		name       string
		actor      models.Actor
		input      func() CalculateInput
		commission string
		charges    string
		net        string
		code       string
	}{
		{
			name:       "retailer defaults to its own role",
			actor:      retailer,
			input:      func() CalculateInput { return base },
			commission: "20",
			charges:    "0",
			net:        "20",
		},
		{
			name:  "manager calculates for a junior role with charges",
			actor: whitelabel,
			input: func() CalculateInput {
				in := base
				in.Role = models.RoleDistributor
				in.ChargePercentage = decPtr("0.5")
				return in
			},
			commission: "25",
			charges:    "5",
			net:        "20",
		},
		{
			name:  "gst added and tds withheld",
			actor: retailer,
			input: func() CalculateInput {
				in := base
				in.GSTPercentage = decPtr("18")
				in.TDSPercentage = decPtr("5")
				return in
			},
			commission: "20",
			charges:    "0",
			net:        "22.6",
		},
		{
			name:  "fixed commission",
			actor: retailer,
			input: func() CalculateInput {
				in := base
				in.OperatorID = f.jio.ID
				return in
			},
			commission: "2",
			charges:    "0",
			net:        "2",
		},
		{
			name:  "negative net is rejected",
			actor: retailer,
			input: func() CalculateInput {
				in := base
				in.ChargePercentage = decPtr("5")
				return in
			},
			code: domainErrors.CodeNegativeNet,
		},
		{
			name:  "retailer cannot calculate for a senior role",
			actor: retailer,
			input: func() CalculateInput {
				in := base
				in.Role = models.RoleDistributor
				return in
			},
			code: domainErrors.CodeActionForbidden,
		},
		{
			name:  "no active commission",
			actor: retailer,
			input: func() CalculateInput {
				in := base
				in.OperatorID = f.tataPlay.ID
				in.ServiceType = models.ServiceDTHRecharge
				return in
			},
			code: domainErrors.CodeCommissionNotFound,
		},
		{
			name:  "non-positive amount",
			actor: retailer,
			input: func() CalculateInput {
				in := base
				in.Amount = dec("0")
				return in
			},
			code: domainErrors.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.Calculate(ctx, tt.actor, tt.input())
			if tt.code != "" {
				assert.Equal(t, tt.code, codeOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.True(t, dec(tt.commission).Equal(res.CommissionAmount), res.CommissionAmount.String())
			assert.True(t, dec(tt.charges).Equal(res.Charges), res.Charges.String())
			assert.True(t, dec(tt.net).Equal(res.NetCommission), res.NetCommission.String())
		})
	}
}

func TestCalculate_SlabGap(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	slabCommission(t, f, f.airtel)
	_, err := f.svc.CreateSlab(ctx, whitelabel, slabCommissionID(t, f), SlabInput{
		SlabMin:   dec("2000"),
		SlabMax:   dec("3000"),
		RateInput: rates(map[string]float64{models.RoleRetailer: 2}),
	})
	require.NoError(t, err)

	in := CalculateInput{SchemeID: f.schemeID, OperatorID: f.airtel.ID, ServiceType: models.ServiceMobileRecharge}

	in.Amount = dec("500")
	res, err := f.svc.Calculate(ctx, retailer, in)
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(res.CommissionAmount))
	require.NotNil(t, res.SlabID)

	in.Amount = dec("2500")
	res, err = f.svc.Calculate(ctx, retailer, in)
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(res.CommissionAmount))

	in.Amount = dec("1500")
	_, err = f.svc.Calculate(ctx, retailer, in)
	assert.Equal(t, domainErrors.CodeNoSlab, codeOf(t, err))
}

func slabCommissionID(t *testing.T, f *fixture) uint {
	t.Helper()
	list, err := f.svc.ListCommissions(context.Background(), whitelabel, f.schemeID, models.ServiceMobileRecharge)
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0].ID
}

func TestCalculate_CacheInvalidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	c, err := f.svc.CreateCommission(ctx, whitelabel, f.schemeID, percentageInput(f.airtel))
	require.NoError(t, err)
	key := lookupKey(f.schemeID, f.airtel.ID, models.ServiceMobileRecharge)
	in := CalculateInput{SchemeID: f.schemeID, OperatorID: f.airtel.ID, ServiceType: models.ServiceMobileRecharge, Amount: dec("100")}

	res, err := f.svc.Calculate(ctx, retailer, in)
	require.NoError(t, err)
	assert.True(t, dec("2").Equal(res.CommissionAmount))
	assert.True(t, f.cache.has(key))

	_, err = f.svc.UpdateCommission(ctx, whitelabel, c.ID, UpdateCommissionInput{RateInput: rates(map[string]float64{models.RoleRetailer: 1})})
	require.NoError(t, err)
	assert.False(t, f.cache.has(key), "updates invalidate the lookup")

	res, err = f.svc.Calculate(ctx, retailer, in)
	require.NoError(t, err)
	assert.True(t, dec("1").Equal(res.CommissionAmount))

	require.NoError(t, f.svc.DeleteCommission(ctx, admin, c.ID))
	_, err = f.svc.Calculate(ctx, retailer, in)
	assert.ErrorIs(t, err, domainErrors.ErrCommissionNotFound)
}

func TestCalculate_CacheHit(t *testing.T) {
	cache := new(MockCache)
	metrics := new(MockMetrics)
	f := setup(t, func(d *Dependencies) {
		d.Cache = cache
		d.Metrics = metrics
	})
	ctx := context.Background()

	key := lookupKey(f.schemeID, f.airtel.ID, models.ServiceMobileRecharge)
	cached := models.Commission{ID: 42, SchemeID: f.schemeID, OperatorID: f.airtel.ID, CommissionType: models.CommissionTypePercentage, IsActive: true}
	cached.Retailer = dec("10")

	cache.On("Get", mock.Anything, key, mock.AnythingOfType("*models.Commission")).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*models.Commission) = cached
		}).
		Return(true, nil).
		Once()
	metrics.On("RecordCacheHit", LookupCacheName).Once()
	metrics.On("RecordOperationDuration", OpCalculate, mock.Anything).Once()
	metrics.On("RecordOperationResult", OpCalculate, "success").Once()

	res, err := f.svc.Calculate(ctx, retailer, CalculateInput{
		SchemeID:    f.schemeID,
		OperatorID:  f.airtel.ID,
		ServiceType: models.ServiceMobileRecharge,
		Amount:      dec("1000"),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), res.CommissionID)
	assert.True(t, dec("100").Equal(res.CommissionAmount))

	cache.AssertExpectations(t)
	metrics.AssertExpectations(t)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}
