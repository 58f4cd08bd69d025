package hierarchy

import (
	"fmt"
	"sort"

	"paynet/internal/models"

	"github.com/shopspring/decimal"
)

// UnknownLevel is the level reported for roles missing from the table.
const UnknownLevel = 999

// Level is a role's position in the hierarchy. Lower is more senior.
type Level int

// SeniorTo reports whether l outranks o.
func (l Level) SeniorTo(o Level) bool { return l < o }

// Table maps role names to levels.
type Table map[string]Level

// DefaultTable is the standard reseller network ordering.
func DefaultTable() Table {
	return Table{
		models.RoleSuperadmin:        0,
		models.RoleAdmin:             1,
		models.RoleWhitelabel:        2,
		models.RoleMasterdistributor: 3,
		models.RoleDistributor:       4,
		models.RoleRetailer:          5,
		models.RoleCustomer:          6,
	}
}

// Hierarchy answers ordering and permission questions about roles.
type Hierarchy struct {
	levels    map[string]Level
	ordered   []string // all roles, senior first
	rateRoles []string // rate-carrying roles, senior first
}

// Violation names a senior/junior pair whose rates break the ordering.
type Violation struct {
	Senior     string
	Junior     string
	SeniorRate decimal.Decimal
	JuniorRate decimal.Decimal
}

func (v Violation) String() string {
	return fmt.Sprintf("%s rate (%s) cannot be lower than %s rate (%s)",
		v.Senior, v.SeniorRate.String(), v.Junior, v.JuniorRate.String())
}

// New copies table into an immutable Hierarchy. Rate-carrying roles are the
// members of models.RateRoles present in table.
func New(table Table) *Hierarchy {
	h := &Hierarchy{levels: make(map[string]Level, len(table))}
	for role, lvl := range table {
		h.levels[role] = lvl
		h.ordered = append(h.ordered, role)
	}
	sort.SliceStable(h.ordered, func(i, j int) bool {
		li, lj := h.levels[h.ordered[i]], h.levels[h.ordered[j]]
		if li != lj {
			return li < lj
		}
		return h.ordered[i] < h.ordered[j]
	})
	for _, role := range h.ordered {
		if isRateRole(role) {
			h.rateRoles = append(h.rateRoles, role)
		}
	}
	return h
}

// Default returns a Hierarchy over DefaultTable.
func Default() *Hierarchy {
	return New(DefaultTable())
}

func isRateRole(role string) bool {
	for _, r := range models.RateRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Level returns the role's level, or UnknownLevel.
func (h *Hierarchy) Level(role string) Level {
	if lvl, ok := h.levels[role]; ok {
		return lvl
	}
	return UnknownLevel
}

// Known reports whether role is in the table.
func (h *Hierarchy) Known(role string) bool {
	_, ok := h.levels[role]
	return ok
}

// Roles returns every role, senior first.
func (h *Hierarchy) Roles() []string {
	return append([]string(nil), h.ordered...)
}

// IsRateRole reports whether role carries a commission rate.
func (h *Hierarchy) IsRateRole(role string) bool {
	for _, r := range h.rateRoles {
		if r == role {
			return true
		}
	}
	return false
}

// CanManage reports whether actor is strictly senior to target.
func (h *Hierarchy) CanManage(actor, target string) bool {
	return h.Level(actor).SeniorTo(h.Level(target))
}

// SubordinateRoles returns the roles strictly junior to actor.
func (h *Hierarchy) SubordinateRoles(actor string) []string {
	var out []string
	for _, role := range h.ordered {
		if h.CanManage(actor, role) {
			out = append(out, role)
		}
	}
	return out
}

// EditableCommissionFields returns the rate fields actor may write.
func (h *Hierarchy) EditableCommissionFields(actor string) []string {
	var out []string
	for _, role := range h.rateRoles {
		if h.CanManage(actor, role) {
			out = append(out, role)
		}
	}
	return out
}

// CanEditField reports whether actor may write the rate for field.
func (h *Hierarchy) CanEditField(actor, field string) bool {
	return h.IsRateRole(field) && h.CanManage(actor, field)
}

// ValidatePermissions returns, senior first, the fields in rates that actor
// may not write. An empty result means every field is allowed.
func (h *Hierarchy) ValidatePermissions(actor string, rates map[string]decimal.Decimal) []string {
	var denied []string
	for _, field := range h.orderedKeys(rates) {
		if !h.CanEditField(actor, field) {
			denied = append(denied, field)
		}
	}
	return denied
}

// FilterEditable returns the subset of rates actor may write.
func (h *Hierarchy) FilterEditable(actor string, rates map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(rates))
	for field, rate := range rates {
		if h.CanEditField(actor, field) {
			out[field] = rate
		}
	}
	return out
}

// ValidateHierarchy checks that no set senior rate is lower than a set junior
// rate. Zero rates are unset and take no part in the comparison.
func (h *Hierarchy) ValidateHierarchy(rates map[string]decimal.Decimal) []Violation {
	type entry struct {
		role string
		rate decimal.Decimal
	}
	var set []entry
	for _, role := range h.rateRoles {
		if rate, ok := rates[role]; ok && !rate.IsZero() {
			set = append(set, entry{role, rate})
		}
	}

	var out []Violation
	for i := 0; i < len(set); i++ {
		for j := i + 1; j < len(set); j++ {
			if set[i].rate.LessThan(set[j].rate) {
				out = append(out, Violation{
					Senior:     set[i].role,
					Junior:     set[j].role,
					SeniorRate: set[i].rate,
					JuniorRate: set[j].rate,
				})
			}
		}
	}
	return out
}

// orderedKeys returns the keys of rates by seniority, unknown keys last
// in lexical order.
func (h *Hierarchy) orderedKeys(rates map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(rates))
	for k := range rates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := h.Level(keys[i]), h.Level(keys[j])
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})
	return keys
}
