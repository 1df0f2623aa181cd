// Package ledger holds the consortium participation rules: validation of a
// requested membership list and the set reconciliation that turns it into
// row-level changes.
package ledger

import (
	"fmt"
	"sort"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/shopspring/decimal"
)

// MinMembers is the smallest consortium.
const MinMembers = 2

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// Validate checks a requested membership list: at least MinMembers entries,
// distinct companies, and every percentage in (0, 100].
func Validate(members []models.MemberInput) error {
	verr := &e.ValidationError{}
	if len(members) < MinMembers {
		verr.Add("selected_companies", fmt.Sprintf("a consortium needs at least %d companies", MinMembers))
	}
	seen := make(map[uint]int, len(members))
	for i, m := range members {
		field := fmt.Sprintf("selected_companies.%d", i)
		if m.CompanyID == 0 {
			verr.Add(field+".company_id", "company is required")
			continue
		}
		if first, dup := seen[m.CompanyID]; dup {
			verr.Add(field+".company_id", fmt.Sprintf("company %d is duplicated (also at position %d)", m.CompanyID, first))
		} else {
			seen[m.CompanyID] = i
		}
		if !m.Percentage.GreaterThan(zero) || m.Percentage.GreaterThan(hundred) {
			verr.Add(field+".percentage", "percentage must be greater than 0 and at most 100")
		}
	}
	return verr.OrNil()
}

// Update changes the percentage of an existing membership row.
type Update struct {
	MembershipID uint
	CompanyID    uint
	Percentage   decimal.Decimal
}

// Insert adds a company that is not yet a member.
type Insert struct {
	CompanyID  uint
	Percentage decimal.Decimal
}

// Plan is the outcome of reconciling current memberships with a target set.
type Plan struct {
	Delete []uint // membership ids
	Update []Update
	Insert []Insert
}

// Empty reports whether applying the plan is a no-op.
func (p Plan) Empty() bool {
	return len(p.Delete) == 0 && len(p.Update) == 0 && len(p.Insert) == 0
}

// Reconcile diffs current rows against target: rows whose company is absent
// from target are deleted, rows whose percentage differs are updated, and
// companies only in target are inserted. Companies present in both with the
// same percentage produce no change, which makes repeated calls idempotent.
// When target names a company twice the last entry wins; callers validate
// first.
func Reconcile(current []models.Membership, target []models.MemberInput) Plan {
	want := make(map[uint]decimal.Decimal, len(target))
	order := make([]uint, 0, len(target))
	for _, m := range target {
		if _, ok := want[m.CompanyID]; !ok {
			order = append(order, m.CompanyID)
		}
		want[m.CompanyID] = m.Percentage
	}

	var plan Plan
	have := make(map[uint]bool, len(current))
	for _, row := range current {
		have[row.CompanyID] = true
		pct, keep := want[row.CompanyID]
		switch {
		case !keep:
			plan.Delete = append(plan.Delete, row.ID)
		case !pct.Equal(row.ParticipationPercentage):
			plan.Update = append(plan.Update, Update{
				MembershipID: row.ID,
				CompanyID:    row.CompanyID,
				Percentage:   pct,
			})
		}
	}
	for _, companyID := range order {
		if !have[companyID] {
			plan.Insert = append(plan.Insert, Insert{CompanyID: companyID, Percentage: want[companyID]})
		}
	}
	sort.Slice(plan.Delete, func(i, j int) bool { return plan.Delete[i] < plan.Delete[j] })
	return plan
}

// Total sums the participation percentages of a membership set.
func Total(members []models.Membership) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range members {
		sum = sum.Add(m.ParticipationPercentage)
	}
	return sum
}

// Balanced reports whether the percentages add up to exactly 100. The
// service does not require it; the read model surfaces it as a warning.
func Balanced(members []models.Membership) bool {
	return Total(members).Equal(hundred)
}

// Share returns the part of amount that corresponds to a participation
// percentage, rounded to cents.
func Share(percentage, amount decimal.Decimal) decimal.Decimal {
	return percentage.Div(hundred).Mul(amount).Round(2)
}
