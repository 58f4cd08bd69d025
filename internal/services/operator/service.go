// Package operator manages service operators, the reference data commissions
// are defined against.
package operator

import (
	"context"
	"errors"
	"strings"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"
	"paynet/internal/repositories"
	"paynet/internal/services/permission"
	"paynet/internal/validation"

	"go.uber.org/zap"
)

type CreateOperatorInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	ServiceType string `json:"service_type" validate:"required,service_type"`
}

type Service interface {
	CreateOperator(ctx context.Context, actor models.Actor, in CreateOperatorInput) (*models.ServiceOperator, error)
	GetOperator(ctx context.Context, actor models.Actor, id uint) (*models.ServiceOperator, error)
	ListOperators(ctx context.Context, actor models.Actor, serviceType string) ([]models.ServiceOperator, error)
	// Lookup, FindByName and GetOrCreate resolve operators for other
	// services; callers authorise the surrounding action.
	Lookup(ctx context.Context, id uint) (*models.ServiceOperator, error)
	FindByName(ctx context.Context, name, serviceType string) (*models.ServiceOperator, error)
	GetOrCreate(ctx context.Context, name, serviceType string) (*models.ServiceOperator, error)
}

type service struct {
	repo   repositories.OperatorRepository
	policy permission.Policy
	log    *zap.Logger
}

func NewService(repo repositories.OperatorRepository, policy permission.Policy, log *zap.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	if policy == nil {
		panic("policy is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{repo: repo, policy: policy, log: log.Named("operator.service")}
}

func (s *service) CreateOperator(ctx context.Context, actor models.Actor, in CreateOperatorInput) (*models.ServiceOperator, error) {
	if err := s.policy.Authorize(actor.Role, models.ObjectOperator, models.ActionCreate); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	op := &models.ServiceOperator{Name: in.Name, ServiceType: in.ServiceType, IsActive: true}
	if err := s.repo.Create(ctx, op); err != nil {
		if errors.Is(err, repositories.ErrDuplicateOperator) {
			return nil, domainErrors.Conflict(domainErrors.CodeDuplicateOperator,
				"operator %q already exists for %s", in.Name, in.ServiceType)
		}
		return nil, err
	}
	s.log.Info("operator created", zap.Uint("operator_id", op.ID), zap.String("service_type", op.ServiceType))
	return op, nil
}

func (s *service) GetOperator(ctx context.Context, actor models.Actor, id uint) (*models.ServiceOperator, error) {
	if err := s.policy.Authorize(actor.Role, models.ObjectOperator, models.ActionRead); err != nil {
		return nil, err
	}
	return s.Lookup(ctx, id)
}

func (s *service) Lookup(ctx context.Context, id uint) (*models.ServiceOperator, error) {
	op, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrOperatorNotFound) {
		return nil, domainErrors.ErrOperatorNotFound
	}
	return op, err
}

func (s *service) FindByName(ctx context.Context, name, serviceType string) (*models.ServiceOperator, error) {
	op, err := s.repo.GetByName(ctx, strings.TrimSpace(name), serviceType)
	if errors.Is(err, repositories.ErrOperatorNotFound) {
		return nil, domainErrors.ErrOperatorNotFound.WithField("operator_name", name)
	}
	return op, err
}

func (s *service) ListOperators(ctx context.Context, actor models.Actor, serviceType string) ([]models.ServiceOperator, error) {
	if err := s.policy.Authorize(actor.Role, models.ObjectOperator, models.ActionRead); err != nil {
		return nil, err
	}
	if serviceType != "" && !models.ValidServiceType(serviceType) {
		return nil, invalidServiceType(serviceType)
	}
	return s.repo.List(ctx, serviceType)
}

func (s *service) GetOrCreate(ctx context.Context, name, serviceType string) (*models.ServiceOperator, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainErrors.ValidationFields("invalid operator", map[string]string{"operator_name": "is required"})
	}
	if !models.ValidServiceType(serviceType) {
		return nil, invalidServiceType(serviceType)
	}
	op, created, err := s.repo.GetOrCreate(ctx, name, serviceType)
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Info("operator created on demand", zap.Uint("operator_id", op.ID), zap.String("name", name))
	}
	return op, nil
}

func invalidServiceType(serviceType string) error {
	return domainErrors.Validation(domainErrors.CodeInvalidEnum,
		"unknown service_type %q, expected one of: %s", serviceType, strings.Join(models.ServiceTypes, ", "))
}
