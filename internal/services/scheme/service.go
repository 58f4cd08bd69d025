// Package scheme manages schemes: ownership-scoped listing, updates, status
// toggling and soft deletion.
package scheme

import (
	"context"
	"errors"
	"strings"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"
	"paynet/internal/repositories"
	"paynet/internal/services/hierarchy"
	"paynet/internal/services/permission"
	"paynet/internal/validation"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Service interface {
	CreateScheme(ctx context.Context, actor models.Actor, in CreateSchemeInput) (*models.Scheme, error)
	ListSchemes(ctx context.Context, actor models.Actor, filter ListFilter) ([]models.Scheme, int64, error)
	GetScheme(ctx context.Context, actor models.Actor, id uint) (*Detail, error)
	UpdateScheme(ctx context.Context, actor models.Actor, id uint, in UpdateSchemeInput) (*models.Scheme, error)
	ToggleStatus(ctx context.Context, actor models.Actor, id uint, isActive bool) (*models.Scheme, error)
	DeleteScheme(ctx context.Context, actor models.Actor, id uint) error
	TransferOwnership(ctx context.Context, actor models.Actor, id uint, newOwnerID uint) (*models.Scheme, error)
	// Authorize returns the scheme if actor may access it.
	Authorize(ctx context.Context, actor models.Actor, id uint) (*models.Scheme, error)
	// Lookup returns the scheme without an access check.
	Lookup(ctx context.Context, id uint) (*models.Scheme, error)
}

type service struct {
	repo      repositories.SchemeRepository
	hierarchy *hierarchy.Hierarchy
	policy    permission.Policy
	log       *zap.Logger
}

func NewService(
	repo repositories.SchemeRepository,
	h *hierarchy.Hierarchy,
	policy permission.Policy,
	log *zap.Logger,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if h == nil {
		panic("hierarchy is required")
	}
	if policy == nil {
		panic("policy is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		repo:      repo,
		hierarchy: h,
		policy:    policy,
		log:       log.Named("scheme.service"),
	}
}

// seesAll reports whether actor is network staff (admin or above).
func (s *service) seesAll(actor models.Actor) bool {
	return s.hierarchy.Level(actor.Role) <= s.hierarchy.Level(models.RoleAdmin)
}

func (s *service) canAccess(actor models.Actor, scheme *models.Scheme) bool {
	return s.seesAll(actor) ||
		scheme.OwnerID == actor.ID ||
		scheme.CreatedBy == actor.ID ||
		s.hierarchy.CanManage(actor.Role, scheme.CreatedByRole)
}

func (s *service) load(ctx context.Context, id uint) (*models.Scheme, error) {
	scheme, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSchemeNotFound) {
			return nil, domainErrors.ErrSchemeNotFound
		}
		return nil, err
	}
	return scheme, nil
}

func (s *service) Lookup(ctx context.Context, id uint) (*models.Scheme, error) {
	return s.load(ctx, id)
}

func (s *service) Authorize(ctx context.Context, actor models.Actor, id uint) (*models.Scheme, error) {
	scheme, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(actor, scheme) {
		return nil, domainErrors.ErrSchemeAccessDenied
	}
	return scheme, nil
}

func (s *service) authorizeAction(ctx context.Context, actor models.Actor, id uint, action string) (*models.Scheme, error) {
	if err := s.policy.Authorize(actor.Role, models.ObjectScheme, action); err != nil {
		return nil, err
	}
	return s.Authorize(ctx, actor, id)
}

func (s *service) CreateScheme(ctx context.Context, actor models.Actor, in CreateSchemeInput) (*models.Scheme, error) {
	if err := s.policy.Authorize(actor.Role, models.ObjectScheme, models.ActionCreate); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	scheme := &models.Scheme{
		Name:          in.Name,
		Description:   strings.TrimSpace(in.Description),
		OwnerID:       actor.ID,
		CreatedBy:     actor.ID,
		CreatedByRole: actor.Role,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, scheme); err != nil {
		if errors.Is(err, repositories.ErrDuplicateSchemeName) {
			return nil, duplicateName(in.Name)
		}
		return nil, err
	}

	s.log.Info("scheme created",
		zap.Uint("scheme_id", scheme.ID),
		zap.Uint("actor_id", actor.ID),
		zap.String("actor_role", actor.Role))
	return scheme, nil
}

func (s *service) ListSchemes(ctx context.Context, actor models.Actor, f ListFilter) ([]models.Scheme, int64, error) {
	if err := s.policy.Authorize(actor.Role, models.ObjectScheme, models.ActionRead); err != nil {
		return nil, 0, err
	}

	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}

	filter := repositories.SchemeFilter{
		IsActive: &active,
		Search:   f.Search,
		FromDate: f.FromDate,
		ToDate:   f.ToDate,
		Offset:   (f.Page - 1) * f.Size,
		Limit:    f.Size,
	}
	if !s.seesAll(actor) {
		filter.Visibility = &repositories.SchemeVisibility{
			UserID: actor.ID,
			Roles:  s.hierarchy.SubordinateRoles(actor.Role),
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *service) GetScheme(ctx context.Context, actor models.Actor, id uint) (*Detail, error) {
	scheme, err := s.authorizeAction(ctx, actor, id, models.ActionRead)
	if err != nil {
		return nil, err
	}
	commissions, services, err := s.repo.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Scheme: *scheme, CommissionCount: commissions, ServicesCount: services}, nil
}

func (s *service) UpdateScheme(ctx context.Context, actor models.Actor, id uint, in UpdateSchemeInput) (*models.Scheme, error) {
	if _, err := s.authorizeAction(ctx, actor, id, models.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domainErrors.ValidationFields("invalid request", map[string]string{"name": "is required"})
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if len(fields) == 0 {
		return s.load(ctx, id)
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrDuplicateSchemeName) {
			return nil, duplicateName(fields["name"].(string))
		}
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *service) ToggleStatus(ctx context.Context, actor models.Actor, id uint, isActive bool) (*models.Scheme, error) {
	if _, err := s.authorizeAction(ctx, actor, id, models.ActionUpdate); err != nil {
		return nil, err
	}
	return s.setActive(ctx, actor, id, isActive)
}

func (s *service) DeleteScheme(ctx context.Context, actor models.Actor, id uint) error {
	if _, err := s.authorizeAction(ctx, actor, id, models.ActionDelete); err != nil {
		return err
	}
	_, err := s.setActive(ctx, actor, id, false)
	return err
}

func (s *service) setActive(ctx context.Context, actor models.Actor, id uint, isActive bool) (*models.Scheme, error) {
	if err := s.repo.Update(ctx, id, map[string]interface{}{"is_active": isActive}); err != nil {
		return nil, err
	}
	s.log.Info("scheme status changed",
		zap.Uint("scheme_id", id),
		zap.Bool("is_active", isActive),
		zap.Uint("actor_id", actor.ID))
	return s.load(ctx, id)
}

func (s *service) TransferOwnership(ctx context.Context, actor models.Actor, id uint, newOwnerID uint) (*models.Scheme, error) {
	scheme, err := s.authorizeAction(ctx, actor, id, models.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if !s.seesAll(actor) && scheme.OwnerID != actor.ID {
		return nil, domainErrors.Permission(domainErrors.CodeSchemeAccessDenied,
			"only the owner or an admin can transfer a scheme")
	}
	if newOwnerID == 0 {
		return nil, domainErrors.ValidationFields("invalid request", map[string]string{"new_owner_id": "is required"})
	}

	if err := s.repo.Update(ctx, id, map[string]interface{}{"owner_id": newOwnerID}); err != nil {
		return nil, err
	}
	s.log.Info("scheme ownership transferred",
		zap.Uint("scheme_id", id),
		zap.Uint("from", scheme.OwnerID),
		zap.Uint("to", newOwnerID))
	return s.load(ctx, id)
}

func duplicateName(name string) error {
	return domainErrors.Conflict(domainErrors.CodeDuplicateSchemeName, "a scheme named %q already exists", name)
}
