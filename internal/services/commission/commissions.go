package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"
	"paynet/internal/repositories"
	"paynet/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *service) CreateCommission(ctx context.Context, actor models.Actor, schemeID uint, in CreateCommissionInput) (c *models.Commission, err error) {
	start := time.Now()
	defer func() { s.observe(OpCreate, start, err) }()

	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, models.ActionCreate); err != nil {
		return nil, err
	}
	if _, err := s.schemes.Authorize(ctx, actor, schemeID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	op, err := s.operators.Lookup(ctx, in.OperatorID)
	if err != nil {
		return nil, err
	}

	c, err = s.build(actor, schemeID, op, in.ServiceType, in.draft())
	if err != nil {
		return nil, err
	}
	if err := s.insert(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("commission created",
		zap.Uint("commission_id", c.ID),
		zap.Uint("scheme_id", schemeID),
		zap.Uint("operator_id", op.ID),
		zap.String("service_type", c.ServiceType),
		zap.Uint("actor_id", actor.ID))
	return s.load(ctx, c.ID)
}

func (s *service) UpdateCommission(ctx context.Context, actor models.Actor, id uint, in UpdateCommissionInput) (c *models.Commission, err error) {
	start := time.Now()
	defer func() { s.observe(OpUpdate, start, err) }()

	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, models.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	existing, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, actor, existing, in.patch())
}

// update applies the editable part of p to existing. Rate fields the actor
// may not write are dropped; the merged rates must respect the hierarchy.
func (s *service) update(ctx context.Context, actor models.Actor, existing *models.Commission, p commissionPatch) (*models.Commission, error) {
	merged := *existing
	fields := map[string]interface{}{}

	if p.CommissionType != nil {
		if !models.ValidCommissionType(*p.CommissionType) {
			return nil, domainErrors.Validation(domainErrors.CodeInvalidEnum,
				"unknown commission_type %q, expected one of: percentage, fixed, slab", *p.CommissionType)
		}
		merged.CommissionType = *p.CommissionType
		fields["commission_type"] = merged.CommissionType
	}
	if p.ServiceType != nil {
		if err := checkServiceType(*p.ServiceType); err != nil {
			return nil, err
		}
		merged.ServiceType = *p.ServiceType
		fields["service_type"] = merged.ServiceType
	}
	if p.OperatorID != nil {
		merged.OperatorID = *p.OperatorID
		fields["operator_id"] = merged.OperatorID
	}
	if p.IsActive != nil {
		merged.IsActive = *p.IsActive
		fields["is_active"] = merged.IsActive
	}

	supplied := p.Rates.Present()
	allowed := s.h.FilterEditable(actor.Role, supplied)
	if dropped := len(supplied) - len(allowed); dropped > 0 {
		s.log.Debug("dropped rate fields the actor cannot edit",
			zap.Uint("commission_id", existing.ID),
			zap.String("role", actor.Role),
			zap.Int("dropped", dropped))
	}
	merged.Apply(allowed)
	for role, rate := range allowed {
		fields[role] = rate
	}

	if p.MinAmount != nil {
		merged.MinAmount = *p.MinAmount
		fields["min_amount"] = merged.MinAmount
	}
	if p.ClearMaxAmount && p.MaxAmount != nil {
		return nil, domainErrors.Invalid(domainErrors.CodeValidationFailed,
			"max_amount cannot be set and cleared together",
			map[string]string{"max_amount": "conflicts with clear_max_amount"})
	}
	if p.MaxAmount != nil {
		merged.MaxAmount = decimal.NewNullDecimal(*p.MaxAmount)
		fields["max_amount"] = merged.MaxAmount
	}
	if p.ClearMaxAmount {
		merged.MaxAmount = decimal.NullDecimal{}
		fields["max_amount"] = nil
	}

	hv := validation.New()
	s.checkHierarchy(hv, "", merged.Map())
	if !hv.Valid() {
		return nil, domainErrors.Invalid(domainErrors.CodeHierarchyViolation,
			"commission rates break the role hierarchy", hv.Errors)
	}

	v := validation.New()
	checkRatesNonNegative(v, "", allowed)
	checkAmounts(v, merged.MinAmount, merged.MaxAmount)
	keyChanged := merged.OperatorID != existing.OperatorID || merged.ServiceType != existing.ServiceType
	if keyChanged {
		op, err := s.operators.Lookup(ctx, merged.OperatorID)
		if err != nil {
			return nil, err
		}
		checkOperator(v, op, merged.ServiceType)
	}
	if err := v.Err("invalid commission"); err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return existing, nil
	}

	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.CommissionRepository) error {
		if merged.IsActive && (keyChanged || !existing.IsActive) {
			other, err := tx.FindActive(ctx, merged.SchemeID, merged.OperatorID, merged.ServiceType)
			if err == nil && other.ID != existing.ID {
				return duplicateError(other.ID)
			}
			if err != nil && !errors.Is(err, repositories.ErrCommissionNotFound) {
				return err
			}
		}
		return tx.Update(ctx, existing.ID, fields)
	})
	switch {
	case errors.Is(err, repositories.ErrDuplicateActiveCommission):
		return nil, domainErrors.ErrDuplicateCommission
	case errors.Is(err, repositories.ErrCommissionNotFound):
		return nil, domainErrors.ErrCommissionNotFound
	case err != nil:
		return nil, err
	}

	s.invalidate(ctx, existing.SchemeID, existing.OperatorID, existing.ServiceType)
	if keyChanged {
		s.invalidate(ctx, merged.SchemeID, merged.OperatorID, merged.ServiceType)
	}
	s.log.Info("commission updated",
		zap.Uint("commission_id", existing.ID),
		zap.Int("fields", len(fields)),
		zap.Uint("actor_id", actor.ID))
	return s.load(ctx, existing.ID)
}

func (s *service) DeleteCommission(ctx context.Context, actor models.Actor, id uint) (err error) {
	start := time.Now()
	defer func() { s.observe(OpDelete, start, err) }()

	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, models.ActionDelete); err != nil {
		return err
	}
	c, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete commission: %w", err)
	}
	s.invalidate(ctx, c.SchemeID, c.OperatorID, c.ServiceType)
	s.log.Info("commission deactivated", zap.Uint("commission_id", c.ID), zap.Uint("actor_id", actor.ID))
	return nil
}

func (s *service) GetCommission(ctx context.Context, actor models.Actor, id uint) (*models.Commission, error) {
	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, models.ActionRead); err != nil {
		return nil, err
	}
	c, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, domainErrors.ErrCommissionNotFound
	}
	return c, nil
}

func (s *service) ListCommissions(ctx context.Context, actor models.Actor, schemeID uint, serviceType string) ([]models.Commission, error) {
	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, models.ActionRead); err != nil {
		return nil, err
	}
	if _, err := s.schemes.Authorize(ctx, actor, schemeID); err != nil {
		return nil, err
	}
	if serviceType != "" {
		if err := checkServiceType(serviceType); err != nil {
			return nil, err
		}
	}
	return s.repo.ListByScheme(ctx, schemeID, serviceType)
}
