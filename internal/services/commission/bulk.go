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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BulkCreateCommissions creates one commission per entry. Entries are
// independent: each runs in its own transaction and a failure is recorded in
// the result without affecting the others. Only scheme-level problems fail
// the whole call.
func (s *service) BulkCreateCommissions(ctx context.Context, actor models.Actor, schemeID uint, serviceType string, entries []BulkEntry) (res *BulkResult, err error) {
	start := time.Now()
	defer func() { s.observe(OpBulkCreate, start, err) }()

	if err := s.checkBulk(ctx, actor, models.ActionCreate, schemeID, serviceType, len(entries)); err != nil {
		return nil, err
	}

	res = newBulkResult(len(entries))
	log := s.log.With(zap.String("batch_id", res.BatchID), zap.Uint("scheme_id", schemeID))
	log.Info("bulk create started", zap.Int("entries", len(entries)), zap.Uint("actor_id", actor.ID))

	for i, entry := range entries {
		c, err := s.createEntry(ctx, actor, schemeID, serviceType, entry)
		if err != nil {
			res.fail(i, entryLabel(entry.OperatorID, entry.OperatorName), s.entryMessage(log, i, err))
			s.metrics.RecordBulkEntry(OpBulkCreate, "failed")
			continue
		}
		res.SuccessfulEntries++
		res.Created = append(res.Created, c.ID)
		s.metrics.RecordBulkEntry(OpBulkCreate, "success")
	}

	log.Info("bulk create finished",
		zap.Int("successful", res.SuccessfulEntries),
		zap.Int("failed", res.FailedEntries),
		zap.Duration("duration", time.Since(start)))
	return res, nil
}

func (s *service) createEntry(ctx context.Context, actor models.Actor, schemeID uint, serviceType string, entry BulkEntry) (*models.Commission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	op, err := s.resolveOperator(ctx, entry.OperatorID, entry.OperatorName, serviceType, true)
	if err != nil {
		return nil, err
	}
	c, err := s.build(actor, schemeID, op, serviceType, entry.draft())
	if err != nil {
		return nil, err
	}
	if err := s.insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// BulkUpdateCommissions patches the active commission of each entry's
// operator. Entries without an active commission are skipped.
func (s *service) BulkUpdateCommissions(ctx context.Context, actor models.Actor, schemeID uint, serviceType string, entries []BulkUpdateEntry) (res *BulkResult, err error) {
	start := time.Now()
	defer func() { s.observe(OpBulkUpdate, start, err) }()

	if err := s.checkBulk(ctx, actor, models.ActionUpdate, schemeID, serviceType, len(entries)); err != nil {
		return nil, err
	}

	res = newBulkResult(len(entries))
	log := s.log.With(zap.String("batch_id", res.BatchID), zap.Uint("scheme_id", schemeID))
	log.Info("bulk update started", zap.Int("entries", len(entries)), zap.Uint("actor_id", actor.ID))

	for i, entry := range entries {
		label := entryLabel(entry.OperatorID, entry.OperatorName)
		c, err := s.updateEntry(ctx, actor, schemeID, serviceType, entry)
		switch {
		case errors.Is(err, domainErrors.ErrOperatorNotFound), errors.Is(err, domainErrors.ErrCommissionNotFound):
			res.Skipped = append(res.Skipped, BulkEntryError{Index: i, Operator: label, Message: err.Error()})
			s.metrics.RecordBulkEntry(OpBulkUpdate, "skipped")
		case err != nil:
			res.fail(i, label, s.entryMessage(log, i, err))
			s.metrics.RecordBulkEntry(OpBulkUpdate, "failed")
		default:
			res.SuccessfulEntries++
			res.Updated = append(res.Updated, c.ID)
			s.metrics.RecordBulkEntry(OpBulkUpdate, "success")
		}
	}

	log.Info("bulk update finished",
		zap.Int("successful", res.SuccessfulEntries),
		zap.Int("failed", res.FailedEntries),
		zap.Int("skipped", len(res.Skipped)),
		zap.Duration("duration", time.Since(start)))
	return res, nil
}

func (s *service) updateEntry(ctx context.Context, actor models.Actor, schemeID uint, serviceType string, entry BulkUpdateEntry) (*models.Commission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	op, err := s.resolveOperator(ctx, entry.OperatorID, entry.OperatorName, serviceType, false)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindActive(ctx, schemeID, op.ID, serviceType)
	if errors.Is(err, repositories.ErrCommissionNotFound) {
		return nil, domainErrors.ErrCommissionNotFound.WithField("operator", op.Name)
	}
	if err != nil {
		return nil, err
	}
	return s.update(ctx, actor, existing, entry.patch())
}

// checkBulk runs the checks that fail a bulk request as a whole.
func (s *service) checkBulk(ctx context.Context, actor models.Actor, action string, schemeID uint, serviceType string, n int) error {
	if err := s.policy.Authorize(actor.Role, models.ObjectCommission, action); err != nil {
		return err
	}
	if _, err := s.schemes.Authorize(ctx, actor, schemeID); err != nil {
		return err
	}
	if err := checkServiceType(serviceType); err != nil {
		return err
	}
	if n == 0 {
		return domainErrors.ValidationFields("invalid bulk request", map[string]string{"entries": "at least one entry is required"})
	}
	if n > s.config.BulkMaxEntries {
		return domainErrors.Validation(domainErrors.CodeBulkLimitExceeded,
			"a bulk request may carry at most %d entries, got %d", s.config.BulkMaxEntries, n)
	}
	return nil
}

// entryMessage returns the message reported for a failed entry. Unexpected
// failures are logged and reported generically.
func (s *service) entryMessage(log *zap.Logger, index int, err error) string {
	if _, ok := domainErrors.As(err); ok {
		return err.Error()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "request cancelled before the entry was processed"
	}
	log.Error("bulk entry failed", zap.Int("index", index), zap.Error(err))
	return "internal error while saving entry"
}

func newBulkResult(total int) *BulkResult {
	return &BulkResult{
		BatchID:      uuid.NewString(),
		TotalEntries: total,
		Errors:       []BulkEntryError{},
	}
}

func (r *BulkResult) fail(index int, operator, message string) {
	r.FailedEntries++
	r.Errors = append(r.Errors, BulkEntryError{Index: index, Operator: operator, Message: message})
}

func entryLabel(operatorID uint, operatorName string) string {
	if name := strings.TrimSpace(operatorName); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", operatorID)
}
