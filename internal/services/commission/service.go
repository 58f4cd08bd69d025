package commission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"
	"paynet/internal/repositories"
	"paynet/internal/repositories/cache"
	"paynet/internal/services/calculator"
	"paynet/internal/services/hierarchy"
	"paynet/internal/services/permission"
	"paynet/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Dependencies groups what the engine is built from. Cache and Metrics are
// optional.
type Dependencies struct {
	Repo       repositories.CommissionRepository
	Schemes    SchemeAccess
	Operators  OperatorResolver
	Hierarchy  *hierarchy.Hierarchy
	Policy     permission.Policy
	Calculator *calculator.Calculator
	Cache      Cache
	Metrics    MetricsCollector
	Logger     *zap.Logger
	Config     Config
}

type service struct {
	repo      repositories.CommissionRepository
	schemes   SchemeAccess
	operators OperatorResolver
	h         *hierarchy.Hierarchy
	policy    permission.Policy
	calc      *calculator.Calculator
	cache     Cache
	metrics   MetricsCollector
	log       *zap.Logger
	config    Config
}

// NewService creates the commission engine
func NewService(deps Dependencies) Service {
	if deps.Repo == nil {
		panic("repo is required")
	}
	if deps.Schemes == nil {
		panic("scheme access is required")
	}
	if deps.Operators == nil {
		panic("operator resolver is required")
	}
	if deps.Hierarchy == nil {
		panic("hierarchy is required")
	}
	if deps.Policy == nil {
		panic("policy is required")
	}
	if deps.Calculator == nil {
		panic("calculator is required")
	}
	if deps.Metrics == nil {
		deps.Metrics = NoopMetricsCollector{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config.BulkMaxEntries <= 0 {
		deps.Config.BulkMaxEntries = DefaultBulkMaxEntries
	}

	return &service{
		repo:      deps.Repo,
		schemes:   deps.Schemes,
		operators: deps.Operators,
		h:         deps.Hierarchy,
		policy:    deps.Policy,
		calc:      deps.Calculator,
		cache:     deps.Cache,
		metrics:   deps.Metrics,
		log:       deps.Logger.Named("commission.service"),
		config:    deps.Config,
	}
}

func (s *service) observe(operation string, start time.Time, err error) {
	s.metrics.RecordOperationDuration(operation, time.Since(start))
	s.metrics.RecordOperationResult(operation, resultLabel(err))
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	if de, ok := domainErrors.As(err); ok {
		return string(de.Kind)
	}
	return "error"
}

func (s *service) load(ctx context.Context, id uint) (*models.Commission, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrCommissionNotFound) {
		return nil, domainErrors.ErrCommissionNotFound
	}
	return c, err
}

// loadAuthorized loads a commission and checks the actor may reach its
// scheme.
func (s *service) loadAuthorized(ctx context.Context, actor models.Actor, id uint) (*models.Commission, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.schemes.Authorize(ctx, actor, c.SchemeID); err != nil {
		return nil, err
	}
	return c, nil
}

// checkFieldPermissions rejects rate fields the actor may not write. Denied
// fields are reported with their path, slabs included.
func (s *service) checkFieldPermissions(actor models.Actor, rates models.RateInput, slabs []SlabInput) error {
	denied := map[string]string{}
	msg := fmt.Sprintf("not editable by %s", actor.Role)
	for _, field := range s.h.ValidatePermissions(actor.Role, rates.Present()) {
		denied[field] = msg
	}
	for i, slab := range slabs {
		for _, field := range s.h.ValidatePermissions(actor.Role, slab.Present()) {
			denied[fmt.Sprintf("slabs[%d].%s", i, field)] = msg
		}
	}
	if len(denied) == 0 {
		return nil
	}
	return &domainErrors.DomainError{
		Kind:    domainErrors.KindPermission,
		Code:    domainErrors.CodeFieldNotEditable,
		Message: "role " + actor.Role + " cannot set some commission fields",
		Fields:  denied,
	}
}

// checkHierarchy adds one error per violated pair, keyed by the junior rate.
func (s *service) checkHierarchy(v *validation.Validator, prefix string, rates map[string]decimal.Decimal) {
	for _, violation := range s.h.ValidateHierarchy(rates) {
		v.AddError(prefix+violation.Junior, violation.String())
	}
}

func checkRatesNonNegative(v *validation.Validator, prefix string, rates map[string]decimal.Decimal) {
	for role, rate := range rates {
		v.Check(!rate.IsNegative(), prefix+role, "must be >= 0")
	}
}

func checkAmounts(v *validation.Validator, min decimal.Decimal, max decimal.NullDecimal) {
	v.Check(!min.IsNegative(), "min_amount", "must be >= 0")
	if max.Valid {
		v.Check(max.Decimal.GreaterThanOrEqual(min), "max_amount", "must be greater than or equal to min_amount")
	}
}

func checkOperator(v *validation.Validator, op *models.ServiceOperator, serviceType string) {
	if op.ServiceType != serviceType {
		v.AddError("operator_id", fmt.Sprintf("operator %q serves %s, not %s", op.Name, op.ServiceType, serviceType))
	}
	v.Check(op.IsActive, "operator_id", "operator is inactive")
}

// build validates a draft for the given scheme, operator and service and
// returns the commission ready to insert. Permission problems come first,
// then hierarchy violations, then everything else.
func (s *service) build(actor models.Actor, schemeID uint, op *models.ServiceOperator, serviceType string, d commissionDraft) (*models.Commission, error) {
	if !models.ValidCommissionType(d.CommissionType) {
		return nil, domainErrors.Validation(domainErrors.CodeInvalidEnum,
			"unknown commission_type %q, expected one of: percentage, fixed, slab", d.CommissionType)
	}
	if err := s.checkFieldPermissions(actor, d.Rates, d.Slabs); err != nil {
		return nil, err
	}

	c := &models.Commission{
		SchemeID:       schemeID,
		OperatorID:     op.ID,
		ServiceType:    serviceType,
		CommissionType: d.CommissionType,
		IsActive:       true,
	}
	c.Apply(d.Rates.Present())
	if d.MinAmount != nil {
		c.MinAmount = *d.MinAmount
	}
	if d.MaxAmount != nil {
		c.MaxAmount = decimal.NewNullDecimal(*d.MaxAmount)
	}
	for _, in := range d.Slabs {
		slab := models.CommissionSlab{SlabMin: in.SlabMin, SlabMax: in.SlabMax, IsActive: true}
		slab.Apply(in.Present())
		c.Slabs = append(c.Slabs, slab)
	}

	hv := validation.New()
	s.checkHierarchy(hv, "", d.Rates.Present())
	for i, in := range d.Slabs {
		s.checkHierarchy(hv, fmt.Sprintf("slabs[%d].", i), in.Present())
	}
	if !hv.Valid() {
		return nil, domainErrors.Invalid(domainErrors.CodeHierarchyViolation,
			"commission rates break the role hierarchy", hv.Errors)
	}

	v := validation.New()
	checkOperator(v, op, serviceType)
	checkRatesNonNegative(v, "", d.Rates.Present())
	checkAmounts(v, c.MinAmount, c.MaxAmount)
	if c.CommissionType == models.CommissionTypeSlab {
		for i, in := range d.Slabs {
			checkRatesNonNegative(v, fmt.Sprintf("slabs[%d].", i), in.Present())
		}
		if problems := calculator.CheckSlabs(c.Slabs); len(problems) > 0 {
			return nil, domainErrors.Invalid(domainErrors.CodeInvalidSlab, "invalid commission slabs", problems)
		}
	} else if len(d.Slabs) > 0 {
		v.AddError("slabs", "only slab commissions may define slabs")
	}
	if err := v.Err("invalid commission"); err != nil {
		return nil, err
	}
	return c, nil
}

// insert persists c and its slabs in one transaction after checking no
// active commission already covers the same scheme, operator and service.
func (s *service) insert(ctx context.Context, c *models.Commission) error {
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.CommissionRepository) error {
		existing, err := tx.FindActive(ctx, c.SchemeID, c.OperatorID, c.ServiceType)
		if err == nil {
			return duplicateError(existing.ID)
		}
		if !errors.Is(err, repositories.ErrCommissionNotFound) {
			return err
		}
		return tx.Create(ctx, c)
	})
	if errors.Is(err, repositories.ErrDuplicateActiveCommission) {
		return domainErrors.ErrDuplicateCommission
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, c.SchemeID, c.OperatorID, c.ServiceType)
	return nil
}

func duplicateError(existingID uint) error {
	return domainErrors.ErrDuplicateCommission.WithField("existing_commission_id", fmt.Sprint(existingID))
}

// resolveOperator finds the operator an entry names, creating it by name
// when create is set.
func (s *service) resolveOperator(ctx context.Context, id uint, name, serviceType string, create bool) (*models.ServiceOperator, error) {
	switch {
	case id != 0:
		return s.operators.Lookup(ctx, id)
	case strings.TrimSpace(name) == "":
		return nil, domainErrors.ValidationFields("invalid entry",
			map[string]string{"operator_id": "operator_id or operator_name is required"})
	case create:
		return s.operators.GetOrCreate(ctx, name, serviceType)
	default:
		return s.operators.FindByName(ctx, name, serviceType)
	}
}

func checkServiceType(serviceType string) error {
	if models.ValidServiceType(serviceType) {
		return nil
	}
	return domainErrors.Validation(domainErrors.CodeInvalidEnum,
		"unknown service_type %q, expected one of: %s", serviceType, strings.Join(models.ServiceTypes, ", "))
}

func lookupKey(schemeID, operatorID uint, serviceType string) string {
	return cache.GenerateKey(LookupCacheEntity, LookupCacheType, fmt.Sprintf("%d:%d:%s", schemeID, operatorID, serviceType))
}

func (s *service) invalidate(ctx context.Context, schemeID, operatorID uint, serviceType string) {
	if s.cache == nil {
		return
	}
	key := lookupKey(schemeID, operatorID, serviceType)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("failed to invalidate commission cache", zap.String("key", key), zap.Error(err))
	}
}
