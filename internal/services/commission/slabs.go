package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"
	"paynet/internal/repositories"
	"paynet/internal/services/calculator"
	"paynet/internal/validation"

	"go.uber.org/zap"
)

// slabCommission loads the commission a slab operation targets and checks
// that it is an active slab commission the actor may reach.
func (s *service) slabCommission(ctx context.Context, actor models.Actor, action string, commissionID uint) (*models.Commission, error) {
	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, action); err != nil {
		return nil, err
	}
	c, err := s.loadAuthorized(ctx, actor, commissionID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, domainErrors.ErrCommissionNotFound
	}
	if action != models.ActionRead && c.CommissionType != models.CommissionTypeSlab {
		return nil, domainErrors.Validation(domainErrors.CodeInvalidSlab,
			"commission %d is of type %s; only slab commissions carry slabs", c.ID, c.CommissionType)
	}
	return c, nil
}

func (s *service) loadSlab(ctx context.Context, id uint) (*models.CommissionSlab, error) {
	slab, err := s.repo.GetSlab(ctx, id)
	if errors.Is(err, repositories.ErrSlabNotFound) {
		return nil, domainErrors.ErrSlabNotFound
	}
	if err != nil {
		return nil, err
	}
	if !slab.IsActive {
		return nil, domainErrors.ErrSlabNotFound
	}
	return slab, nil
}

// checkSlab validates one slab's bounds, rates and hierarchy.
func (s *service) checkSlab(slab models.CommissionSlab) error {
	hv := validation.New()
	s.checkHierarchy(hv, "", slab.Map())
	if !hv.Valid() {
		return domainErrors.Invalid(domainErrors.CodeHierarchyViolation,
			"slab rates break the role hierarchy", hv.Errors)
	}
	v := validation.New()
	if msg := calculator.CheckBounds(slab); msg != "" {
		v.AddError("slab_max", msg)
	}
	checkRatesNonNegative(v, "", slab.Map())
	if !v.Valid() {
		return domainErrors.Invalid(domainErrors.CodeInvalidSlab, "invalid slab", v.Errors)
	}
	return nil
}

// saveSlab checks candidate against the commission's other active slabs and
// writes it with write inside the same transaction.
func (s *service) saveSlab(ctx context.Context, candidate models.CommissionSlab, write func(repositories.CommissionRepository) error) error {
	return s.repo.ExecuteInTransaction(ctx, func(tx repositories.CommissionRepository) error {
		existing, err := tx.ListSlabs(ctx, candidate.CommissionID)
		if err != nil {
			return err
		}
		if other := calculator.FindOverlap(existing, candidate); other != nil {
			return domainErrors.Validation(domainErrors.CodeSlabOverlap,
				"slab [%s, %s] overlaps slab %d [%s, %s]",
				candidate.SlabMin, candidate.SlabMax, other.ID, other.SlabMin, other.SlabMax)
		}
		return write(tx)
	})
}

func (s *service) CreateSlab(ctx context.Context, actor models.Actor, commissionID uint, in SlabInput) (slab *models.CommissionSlab, err error) {
	start := time.Now()
	defer func() { s.observe(OpSlab, start, err) }()

	c, err := s.slabCommission(ctx, actor, models.ActionUpdate, commissionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkFieldPermissions(actor, in.RateInput, nil); err != nil {
		return nil, err
	}

	slab = &models.CommissionSlab{CommissionID: c.ID, SlabMin: in.SlabMin, SlabMax: in.SlabMax, IsActive: true}
	slab.Apply(in.Present())
	if err := s.checkSlab(*slab); err != nil {
		return nil, err
	}
	err = s.saveSlab(ctx, *slab, func(tx repositories.CommissionRepository) error {
		return tx.CreateSlab(ctx, slab)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, c.SchemeID, c.OperatorID, c.ServiceType)
	s.log.Info("slab created", zap.Uint("slab_id", slab.ID), zap.Uint("commission_id", c.ID))
	return slab, nil
}

// UpdateSlab merges the editable part of in into the slab and re-validates
// it. Rate fields the actor may not write are dropped.
func (s *service) UpdateSlab(ctx context.Context, actor models.Actor, slabID uint, in UpdateSlabInput) (slab *models.CommissionSlab, err error) {
	start := time.Now()
	defer func() { s.observe(OpSlab, start, err) }()

	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, models.ActionUpdate); err != nil {
		return nil, err
	}
	slab, err = s.loadSlab(ctx, slabID)
	if err != nil {
		return nil, err
	}
	c, err := s.slabCommission(ctx, actor, models.ActionUpdate, slab.CommissionID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.SlabMin != nil {
		slab.SlabMin = *in.SlabMin
		fields["slab_min"] = slab.SlabMin
	}
	if in.SlabMax != nil {
		slab.SlabMax = *in.SlabMax
		fields["slab_max"] = slab.SlabMax
	}
	allowed := s.h.FilterEditable(actor.Role, in.Present())
	slab.Apply(allowed)
	for role, rate := range allowed {
		fields[role] = rate
	}
	if len(fields) == 0 {
		return slab, nil
	}
	if err := s.checkSlab(*slab); err != nil {
		return nil, err
	}

	err = s.saveSlab(ctx, *slab, func(tx repositories.CommissionRepository) error {
		return tx.UpdateSlab(ctx, slab.ID, fields)
	})
	if errors.Is(err, repositories.ErrSlabNotFound) {
		return nil, domainErrors.ErrSlabNotFound
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, c.SchemeID, c.OperatorID, c.ServiceType)
	s.log.Info("slab updated", zap.Uint("slab_id", slab.ID), zap.Int("fields", len(fields)))
	return s.loadSlab(ctx, slab.ID)
}

func (s *service) DeleteSlab(ctx context.Context, actor models.Actor, slabID uint) (err error) {
	start := time.Now()
	defer func() { s.observe(OpSlab, start, err) }()

	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, models.ActionUpdate); err != nil {
		return err
	}
	slab, err := s.loadSlab(ctx, slabID)
	if err != nil {
		return err
	}
	c, err := s.slabCommission(ctx, actor, models.ActionUpdate, slab.CommissionID)
	if err != nil {
		return err
	}
	if err := s.repo.DeactivateSlab(ctx, slab.ID); err != nil {
		return fmt.Errorf("failed to delete slab: %w", err)
	}
	s.invalidate(ctx, c.SchemeID, c.OperatorID, c.ServiceType)
	s.log.Info("slab deactivated", zap.Uint("slab_id", slab.ID), zap.Uint("commission_id", c.ID))
	return nil
}

func (s *service) ListSlabs(ctx context.Context, actor models.Actor, commissionID uint) ([]models.CommissionSlab, error) {
	c, err := s.slabCommission(ctx, actor, models.ActionRead, commissionID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSlabs(ctx, c.ID)
}
