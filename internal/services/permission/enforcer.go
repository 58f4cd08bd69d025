// Package permission gates coarse actions (create a scheme, delete a
// commission, ...) by role. Per-field rate editing is decided by the
// hierarchy package, not here.
package permission

import (
	_ "embed"
	"fmt"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"
	"paynet/internal/services/hierarchy"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

// defaultPolicies are granted to the lowest role that holds them; every more
// senior role inherits them.
var defaultPolicies = [][]string{
	{models.RoleCustomer, models.ObjectOperator, models.ActionRead},

	{models.RoleRetailer, models.ObjectScheme, models.ActionRead},
	{models.RoleRetailer, models.ObjectCommission, models.ActionRead},
	{models.RoleRetailer, models.ObjectCommission, models.ActionCalculate},

	{models.RoleWhitelabel, models.ObjectScheme, models.ActionCreate},
	{models.RoleWhitelabel, models.ObjectScheme, models.ActionUpdate},
	{models.RoleWhitelabel, models.ObjectCommission, models.ActionCreate},
	{models.RoleWhitelabel, models.ObjectCommission, models.ActionUpdate},
	{models.RoleWhitelabel, models.ObjectCommission, models.ActionExport},

	{models.RoleAdmin, models.ObjectScheme, models.ActionDelete},
	{models.RoleAdmin, models.ObjectCommission, models.ActionDelete},
	{models.RoleAdmin, models.ObjectOperator, models.ActionCreate},
}

// Policy answers whether a role may perform an action on an object.
type Policy interface {
	Authorize(role, object, action string) error
}

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	log      *zap.Logger
}

// NewEnforcer builds the policy enforcer. With a non-nil db, policies are
// persisted through the casbin gorm adapter so operators can extend them at
// runtime; otherwise they live in memory. The defaults are seeded either way.
func NewEnforcer(db *gorm.DB, h *hierarchy.Hierarchy, log *zap.Logger) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to load permission model: %w", err)
	}

	var e *casbin.SyncedEnforcer
	if db != nil {
		adapter, err := gormadapter.NewAdapterByDB(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create policy adapter: %w", err)
		}
		e, err = casbin.NewSyncedEnforcer(m, adapter)
		if err != nil {
			return nil, err
		}
		e.EnableAutoSave(true)
		if err := e.LoadPolicy(); err != nil {
			return nil, fmt.Errorf("failed to load policies: %w", err)
		}
	} else {
		e, err = casbin.NewSyncedEnforcer(m)
		if err != nil {
			return nil, err
		}
	}

	if err := seed(e, h); err != nil {
		return nil, err
	}

	return &Enforcer{enforcer: e, log: log.Named("permission.enforcer")}, nil
}

func seed(e *casbin.SyncedEnforcer, h *hierarchy.Hierarchy) error {
	for _, p := range defaultPolicies {
		if _, err := e.AddPolicy(p); err != nil {
			return fmt.Errorf("failed to seed policy %v: %w", p, err)
		}
	}
	// each role inherits the grants of the role directly below it
	roles := h.Roles()
	for i := 0; i+1 < len(roles); i++ {
		if _, err := e.AddGroupingPolicy(roles[i], roles[i+1]); err != nil {
			return fmt.Errorf("failed to seed role link %s->%s: %w", roles[i], roles[i+1], err)
		}
	}
	return e.BuildRoleLinks()
}

// Authorize returns a permission error unless role may perform action on object.
func (e *Enforcer) Authorize(role, object, action string) error {
	allowed, err := e.enforcer.Enforce(role, object, action)
	if err != nil {
		return fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if !allowed {
		e.log.Debug("action denied",
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action))
		return domainErrors.Permission(domainErrors.CodeActionForbidden,
			"role %q is not allowed to %s:%s", role, object, action)
	}
	return nil
}
