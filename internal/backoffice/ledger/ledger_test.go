package ledger

import (
	"testing"

	e "github.com/gartstein/backoffice/internal/backoffice/errors"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func member(companyID uint, p string) models.MemberInput {
	return models.MemberInput{CompanyID: companyID, Percentage: pct(p)}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		members   []models.MemberInput
		wantField string
	}{
		{
			name:    "valid pair",
			members: []models.MemberInput{member(1, "60"), member(2, "40")},
		},
		{
			name:      "single member",
			members:   []models.MemberInput{member(1, "100")},
			wantField: "selected_companies",
		},
		{
			name:      "empty list",
			wantField: "selected_companies",
		},
		{
			name:      "duplicate company",
			members:   []models.MemberInput{member(1, "50"), member(1, "50")},
			wantField: "selected_companies.1.company_id",
		},
		{
			name:      "zero percentage",
			members:   []models.MemberInput{member(1, "0"), member(2, "100")},
			wantField: "selected_companies.0.percentage",
		},
		{
			name:      "above hundred",
			members:   []models.MemberInput{member(1, "100.01"), member(2, "10")},
			wantField: "selected_companies.0.percentage",
		},
		{
			name:    "exactly hundred is allowed",
			members: []models.MemberInput{member(1, "100"), member(2, "0.01")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.members)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, e.ErrInvalidInput)
			verr, ok := e.AsValidation(err)
			require.True(t, ok)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestValidate_DuplicateMessageNamesCompany(t *testing.T) {
	err := Validate([]models.MemberInput{member(7, "50"), member(8, "25"), member(7, "25")})
	verr, ok := e.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields["selected_companies.2.company_id"], "company 7")
}

func TestReconcile(t *testing.T) {
	current := []models.Membership{
		{ID: 10, CompanyID: 1, ParticipationPercentage: pct("60")},
		{ID: 11, CompanyID: 2, ParticipationPercentage: pct("40")},
	}

	plan := Reconcile(current, []models.MemberInput{member(2, "50"), member(3, "50")})

	assert.Equal(t, []uint{10}, plan.Delete)
	require.Len(t, plan.Update, 1)
	assert.Equal(t, uint(11), plan.Update[0].MembershipID)
	assert.True(t, plan.Update[0].Percentage.Equal(pct("50")))
	require.Len(t, plan.Insert, 1)
	assert.Equal(t, uint(3), plan.Insert[0].CompanyID)
}

func TestReconcile_Idempotent(t *testing.T) {
	current := []models.Membership{
		{ID: 1, CompanyID: 1, ParticipationPercentage: pct("60.00")},
		{ID: 2, CompanyID: 2, ParticipationPercentage: pct("40.00")},
	}
	plan := Reconcile(current, []models.MemberInput{member(1, "60"), member(2, "40")})
	assert.True(t, plan.Empty())
}

func TestReconcile_FromEmpty(t *testing.T) {
	plan := Reconcile(nil, []models.MemberInput{member(4, "30"), member(5, "70")})
	assert.Empty(t, plan.Delete)
	assert.Empty(t, plan.Update)
	assert.Equal(t, []Insert{{CompanyID: 4, Percentage: pct("30")}, {CompanyID: 5, Percentage: pct("70")}}, plan.Insert)
}

func TestTotalsAndShare(t *testing.T) {
	rows := []models.Membership{
		{CompanyID: 1, ParticipationPercentage: pct("60")},
		{CompanyID: 2, ParticipationPercentage: pct("30")},
	}
	assert.True(t, Total(rows).Equal(pct("90")))
	assert.False(t, Balanced(rows))

	rows = append(rows, models.Membership{CompanyID: 3, ParticipationPercentage: pct("10")})
	assert.True(t, Balanced(rows))

	assert.True(t, Share(pct("33.33"), pct("1000")).Equal(pct("333.30")))
}
