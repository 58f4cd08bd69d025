// Package calculator resolves slabs and computes commission, charges and net
// payable amounts for a transaction.
package calculator

import (
	"fmt"
	"sort"

	domainErrors "paynet/internal/errors"
	"paynet/internal/models"

	"github.com/shopspring/decimal"
)

// ResolveSlab returns the active slab whose closed range covers amount.
// Slabs are expected to be non-overlapping; a gap between slabs is not an
// error at definition time but no amount inside it resolves.
func ResolveSlab(slabs []models.CommissionSlab, amount decimal.Decimal) (*models.CommissionSlab, error) {
	active := make([]models.CommissionSlab, 0, len(slabs))
	for _, s := range slabs {
		if s.IsActive {
			active = append(active, s)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].SlabMin.LessThan(active[j].SlabMin)
	})

	i := sort.Search(len(active), func(i int) bool {
		return active[i].SlabMax.GreaterThanOrEqual(amount)
	})
	if i < len(active) && active[i].Covers(amount) {
		slab := active[i]
		return &slab, nil
	}
	return nil, domainErrors.Validation(domainErrors.CodeNoSlab, "no slab covers amount %s", amount.String())
}

// CheckSlabs validates a set of slabs on its own: bounds on every slab and no
// overlap between any two. Problems are keyed by the slab's position.
func CheckSlabs(slabs []models.CommissionSlab) map[string]string {
	problems := make(map[string]string)
	idx := make([]int, len(slabs))
	for i := range slabs {
		idx[i] = i
		if msg := CheckBounds(slabs[i]); msg != "" {
			problems[slabKey(i)] = msg
		}
	}
	sort.Slice(idx, func(a, b int) bool {
		return slabs[idx[a]].SlabMin.LessThan(slabs[idx[b]].SlabMin)
	})
	for k := 1; k < len(idx); k++ {
		prev, cur := slabs[idx[k-1]], slabs[idx[k]]
		if prev.Overlaps(cur) {
			problems[slabKey(idx[k])] = fmt.Sprintf("range %s overlaps %s", rangeString(cur), rangeString(prev))
		}
	}
	return problems
}

// CheckBounds returns a message when the slab's range is invalid.
func CheckBounds(s models.CommissionSlab) string {
	switch {
	case s.SlabMin.IsNegative():
		return "slab_min must be >= 0"
	case !s.SlabMax.GreaterThan(s.SlabMin):
		return "slab_max must be greater than slab_min"
	}
	return ""
}

// FindOverlap returns the first slab in existing overlapping candidate,
// skipping inactive slabs and the slab with the candidate's own id.
func FindOverlap(existing []models.CommissionSlab, candidate models.CommissionSlab) *models.CommissionSlab {
	for _, s := range existing {
		if !s.IsActive || (candidate.ID != 0 && s.ID == candidate.ID) {
			continue
		}
		if s.Overlaps(candidate) {
			slab := s
			return &slab
		}
	}
	return nil
}

func slabKey(i int) string {
	return fmt.Sprintf("slabs[%d]", i)
}

func rangeString(s models.CommissionSlab) string {
	return fmt.Sprintf("[%s, %s]", s.SlabMin, s.SlabMax)
}
