package commission

import (
	"context"
	"errors"
	"time"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"
	"paynet/internal/repositories"
	"paynet/internal/services/calculator"
	"paynet/internal/validation"

	"go.uber.org/zap"
)

// Calculate computes what a role earns on a transaction amount under the
// active commission of a scheme, operator and service. The role defaults to
// the actor's own; other roles must be ones the actor manages.
func (s *service) Calculate(ctx context.Context, actor models.Actor, in CalculateInput) (res *CalculateResult, err error) {
	start := time.Now()
	defer func() { s.observe(OpCalculate, start, err) }()

	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, models.ActionCalculate); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = actor.Role
	}
	if role != actor.Role && !s.h.CanManage(actor.Role, role) {
		return nil, domainErrors.Permission(domainErrors.CodeActionForbidden,
			"role %q cannot calculate commission for role %q", actor.Role, role)
	}

	scheme, err := s.schemes.Lookup(ctx, in.SchemeID)
	if err != nil {
		return nil, err
	}
	if !scheme.IsActive {
		return nil, domainErrors.Validation(domainErrors.CodeValidationFailed, "scheme %d is inactive", scheme.ID)
	}

	c, err := s.lookup(ctx, in.SchemeID, in.OperatorID, in.ServiceType)
	if err != nil {
		return nil, err
	}

	result, err := s.calc.Calculate(c, in.Amount, role, s.modifiers(in))
	if err != nil {
		return nil, err
	}
	return &CalculateResult{
		CommissionID: c.ID,
		SchemeID:     c.SchemeID,
		OperatorID:   c.OperatorID,
		Result:       *result,
	}, nil
}

// lookup returns the active commission for the key, reading through the
// cache when one is configured.
func (s *service) lookup(ctx context.Context, schemeID, operatorID uint, serviceType string) (*models.Commission, error) {
	key := lookupKey(schemeID, operatorID, serviceType)
	if s.cache != nil {
		var cached models.Commission
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("commission cache read failed", zap.String("key", key), zap.Error(err))
		}
		if found {
			s.metrics.RecordCacheHit(LookupCacheName)
			return &cached, nil
		}
		s.metrics.RecordCacheMiss(LookupCacheName)
	}

	c, err := s.repo.FindActive(ctx, schemeID, operatorID, serviceType)
	if errors.Is(err, repositories.ErrCommissionNotFound) {
		return nil, domainErrors.ErrCommissionNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, c); err != nil {
			s.log.Warn("commission cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return c, nil
}

// modifiers overlays any request overrides on the configured defaults.
func (s *service) modifiers(in CalculateInput) *calculator.Modifiers {
	m := s.calc.Defaults()
	if in.ChargePercentage != nil {
		m.ChargePercentage = *in.ChargePercentage
	}
	if in.GSTPercentage != nil {
		m.GSTPercentage = *in.GSTPercentage
	}
	if in.TDSPercentage != nil {
		m.TDSPercentage = *in.TDSPercentage
	}
	return &m
}
