package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"paynet/internal/config"
	"paynet/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DBConfig{
		Driver: "sqlite",
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func seedScheme(t *testing.T, db *gorm.DB, s models.Scheme) *models.Scheme {
	t.Helper()
	require.NoError(t, NewSchemeRepository(db).Create(context.Background(), &s))
	return &s
}

func seedOperator(t *testing.T, db *gorm.DB, name, service string) *models.ServiceOperator {
	t.Helper()
	op, _, err := NewOperatorRepository(db).GetOrCreate(context.Background(), name, service)
	require.NoError(t, err)
	return op
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("wrap: %w", gorm.ErrDuplicatedKey), true},
		{"postgres", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite", errors.New("UNIQUE constraint failed: commissions.scheme_id"), true},
		{"other", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestCommissionRepository_ActiveUniqueness(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewCommissionRepository(db)
	scheme := seedScheme(t, db, models.Scheme{Name: "Gold", OwnerID: 1, CreatedBy: 1, CreatedByRole: "admin", IsActive: true})
	op := seedOperator(t, db, "Airtel", models.ServiceMobileRecharge)

	newCommission := func() *models.Commission {
		return &models.Commission{
			SchemeID:       scheme.ID,
			OperatorID:     op.ID,
			ServiceType:    models.ServiceMobileRecharge,
			CommissionType: models.CommissionTypePercentage,
			IsActive:       true,
		}
	}

	first := newCommission()
	require.NoError(t, repo.Create(ctx, first))

	// the storage layer rejects a second active row even without a pre-check
	err := repo.Create(ctx, newCommission())
	assert.ErrorIs(t, err, ErrDuplicateActiveCommission)

	// an inactive row frees the slot
	require.NoError(t, repo.Deactivate(ctx, first.ID))
	second := newCommission()
	require.NoError(t, repo.Create(ctx, second))

	// reactivating the old row now collides
	err = repo.Update(ctx, first.ID, map[string]interface{}{"is_active": true})
	assert.ErrorIs(t, err, ErrDuplicateActiveCommission)
}

func TestCommissionRepository_SlabsAndRelations(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewCommissionRepository(db)
	scheme := seedScheme(t, db, models.Scheme{Name: "Slabbed", OwnerID: 1, CreatedBy: 1, CreatedByRole: "admin", IsActive: true})
	op := seedOperator(t, db, "Jio", models.ServiceMobileRecharge)

	c := &models.Commission{
		SchemeID:       scheme.ID,
		OperatorID:     op.ID,
		ServiceType:    models.ServiceMobileRecharge,
		CommissionType: models.CommissionTypeSlab,
		IsActive:       true,
		Slabs: []models.CommissionSlab{
			{SlabMin: decimal.RequireFromString("1000.01"), SlabMax: decimal.NewFromInt(5000), IsActive: true},
			{SlabMin: decimal.Zero, SlabMax: decimal.NewFromInt(1000), IsActive: true},
		},
	}
	c.Slabs[0].Retailer = decimal.RequireFromString("1.5")
	require.NoError(t, repo.ExecuteInTransaction(ctx, func(tx CommissionRepository) error {
		return tx.Create(ctx, c)
	}))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Operator)
	assert.Equal(t, "Jio", got.Operator.Name)
	require.Len(t, got.Slabs, 2)
	assert.True(t, got.Slabs[0].SlabMin.IsZero(), "slabs ordered by slab_min")
	assert.True(t, got.Slabs[1].Retailer.Equal(decimal.RequireFromString("1.5")))

	require.NoError(t, repo.DeactivateSlab(ctx, got.Slabs[0].ID))
	slabs, err := repo.ListSlabs(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, slabs, 1)

	_, err = repo.GetSlab(ctx, 9999)
	assert.ErrorIs(t, err, ErrSlabNotFound)
	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrCommissionNotFound)
}

func TestCommissionRepository_TransactionRollback(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewCommissionRepository(db)
	scheme := seedScheme(t, db, models.Scheme{Name: "Rollback", OwnerID: 1, CreatedBy: 1, CreatedByRole: "admin", IsActive: true})
	op := seedOperator(t, db, "Vi", models.ServiceMobileRecharge)

	boom := errors.New("boom")
	err := repo.ExecuteInTransaction(ctx, func(tx CommissionRepository) error {
		if err := tx.Create(ctx, &models.Commission{
			SchemeID: scheme.ID, OperatorID: op.ID, ServiceType: models.ServiceMobileRecharge,
			CommissionType: models.CommissionTypeFixed, IsActive: true,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := repo.ListByScheme(ctx, scheme.ID, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSchemeRepository_List(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSchemeRepository(db)

	seedScheme(t, db, models.Scheme{Name: "Retail Gold", Description: "for retailers", OwnerID: 10, CreatedBy: 10, CreatedByRole: "distributor", IsActive: true})
	seedScheme(t, db, models.Scheme{Name: "Silver", Description: "Basic DMT plan", OwnerID: 20, CreatedBy: 20, CreatedByRole: "retailer", IsActive: true})
	seedScheme(t, db, models.Scheme{Name: "Legacy", OwnerID: 30, CreatedBy: 30, CreatedByRole: "whitelabel", IsActive: false})

	active := true
	inactive := false

	tests := []struct {
		name   string
		filter SchemeFilter
		want   []string
	}{
		{"all", SchemeFilter{}, []string{"Legacy", "Silver", "Retail Gold"}},
		{"active", SchemeFilter{IsActive: &active}, []string{"Silver", "Retail Gold"}},
		{"inactive", SchemeFilter{IsActive: &inactive}, []string{"Legacy"}},
		{"search name case-insensitive", SchemeFilter{Search: "gold"}, []string{"Retail Gold"}},
		{"search description", SchemeFilter{Search: "dmt"}, []string{"Silver"}},
		{
			"visibility by owner or junior creator",
			SchemeFilter{Visibility: &SchemeVisibility{UserID: 10, Roles: []string{"retailer", "customer"}}},
			[]string{"Silver", "Retail Gold"},
		},
		{
			"visibility without subordinates",
			SchemeFilter{Visibility: &SchemeVisibility{UserID: 30}},
			[]string{"Legacy"},
		},
		{"page", SchemeFilter{Limit: 1, Offset: 1}, []string{"Silver"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schemes, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			var names []string
			for _, s := range schemes {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.want, names)
			if tt.filter.Limit == 0 {
				assert.Equal(t, int64(len(tt.want)), total)
			}
		})
	}

	future := time.Now().Add(time.Hour)
	schemes, _, err := repo.List(ctx, SchemeFilter{FromDate: &future})
	require.NoError(t, err)
	assert.Empty(t, schemes)
}

func TestSchemeRepository_DuplicateNameAndStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSchemeRepository(db)
	scheme := seedScheme(t, db, models.Scheme{Name: "Gold", OwnerID: 1, CreatedBy: 1, CreatedByRole: "admin", IsActive: true})

	err := repo.Create(ctx, &models.Scheme{Name: "Gold", OwnerID: 2, CreatedBy: 2, CreatedByRole: "admin"})
	assert.ErrorIs(t, err, ErrDuplicateSchemeName)

	commissions := NewCommissionRepository(db)
	for _, svc := range []struct{ op, service string }{
		{"Airtel", models.ServiceMobileRecharge},
		{"Jio", models.ServiceMobileRecharge},
		{"Tata Play", models.ServiceDTHRecharge},
	} {
		op := seedOperator(t, db, svc.op, svc.service)
		require.NoError(t, commissions.Create(ctx, &models.Commission{
			SchemeID: scheme.ID, OperatorID: op.ID, ServiceType: svc.service,
			CommissionType: models.CommissionTypePercentage, IsActive: true,
		}))
	}

	count, services, err := repo.Stats(ctx, scheme.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, int64(2), services)

	_, err = repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrSchemeNotFound)
}

func TestOperatorRepository_GetOrCreate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOperatorRepository(db)

	op, created, err := repo.GetOrCreate(ctx, "Airtel", models.ServiceMobileRecharge)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.GetOrCreate(ctx, "Airtel", models.ServiceMobileRecharge)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, op.ID, again.ID)

	// same name under another service is a different operator
	dth, created, err := repo.GetOrCreate(ctx, "Airtel", models.ServiceDTHRecharge)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, op.ID, dth.ID)

	err = repo.Create(ctx, &models.ServiceOperator{Name: "Airtel", ServiceType: models.ServiceMobileRecharge, IsActive: true})
	assert.ErrorIs(t, err, ErrDuplicateOperator)

	list, err := repo.List(ctx, models.ServiceDTHRecharge)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
