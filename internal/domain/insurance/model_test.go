package insurance

import (
	"testing"

	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *Plan {
	return &Plan{
		ID: "plan_1",
		ProductPolicies: []Policy{
			{ID: "pol_1", ProductID: lo.ToPtr("consult"), Kind: types.DiscountKindPercentage, Value: decimal.NewFromInt(100)},
		},
		CategoryPolicies: []Policy{
			{ID: "pol_2", CategoryID: lo.ToPtr("lab"), Kind: types.DiscountKindFixed, Value: decimal.NewFromInt(500)},
			{ID: "pol_3", CategoryID: lo.ToPtr("acts"), Kind: types.DiscountKindPercentage, Value: decimal.NewFromInt(50)},
		},
	}
}

func TestInsurance_DiscountPolicy(t *testing.T) {
	card := &Insurance{ID: "ins_1", Coverage: decimal.NewFromInt(80)}
	plan := testPlan()

	tests := []struct {
		name     string
		plan     *Plan
		product  ProductRef
		wantKind types.DiscountKind
		want     string
	}{
		{
			name:     "product policy before category policy",
			plan:     plan,
			product:  ProductRef{ID: "consult", CategoryID: lo.ToPtr("acts")},
			wantKind: types.DiscountKindPercentage,
			want:     "100",
		},
		{
			name:     "category policy",
			plan:     plan,
			product:  ProductRef{ID: "cbc", CategoryID: lo.ToPtr("lab")},
			wantKind: types.DiscountKindFixed,
			want:     "500",
		},
		{
			name:     "card coverage when the plan has no policy",
			plan:     plan,
			product:  ProductRef{ID: "xray"},
			wantKind: types.DiscountKindPercentage,
			want:     "80",
		},
		{
			name:     "card coverage without plan",
			product:  ProductRef{ID: "consult"},
			wantKind: types.DiscountKindPercentage,
			want:     "80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := card.DiscountPolicy(tt.plan, tt.product)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got.Value))
		})
	}
}

func TestInsurance_DiscountPolicyNotCovered(t *testing.T) {
	card := &Insurance{ID: "ins_1"}
	assert.Nil(t, card.DiscountPolicy(testPlan(), ProductRef{ID: "xray"}))
	assert.False(t, card.HasCeiling())

	card.Ceiling = lo.ToPtr(decimal.Zero)
	assert.True(t, card.HasCeiling())
}

func TestInsurance_IsFullCoverage(t *testing.T) {
	card := &Insurance{ID: "ins_1", Coverage: decimal.NewFromInt(100)}
	assert.True(t, card.IsFullCoverage())

	card.Ceiling = lo.ToPtr(decimal.NewFromInt(5000))
	assert.False(t, card.IsFullCoverage())

	partial := &Insurance{ID: "ins_2", Coverage: decimal.NewFromInt(80)}
	assert.False(t, partial.IsFullCoverage())
}

func TestInsurance_Validate(t *testing.T) {
	assert.NoError(t, (&Insurance{Coverage: decimal.NewFromInt(100)}).Validate())
	assert.True(t, ierr.IsValidation((&Insurance{Coverage: decimal.NewFromInt(120)}).Validate()))
	assert.True(t, ierr.IsValidation((&Insurance{Ceiling: lo.ToPtr(decimal.NewFromInt(-1))}).Validate()))
}

func TestPlan_Validate(t *testing.T) {
	assert.NoError(t, testPlan().Validate())

	noProduct := testPlan()
	noProduct.ProductPolicies[0].ProductID = nil
	assert.True(t, ierr.IsValidation(noProduct.Validate()))

	noCategory := testPlan()
	noCategory.CategoryPolicies[1].CategoryID = nil
	assert.True(t, ierr.IsValidation(noCategory.Validate()))

	badPercent := testPlan()
	badPercent.CategoryPolicies[1].Value = decimal.NewFromInt(150)
	assert.True(t, ierr.IsValidation(badPercent.Validate()))

	negativeFixed := testPlan()
	negativeFixed.CategoryPolicies[0].Value = decimal.NewFromInt(-5)
	assert.True(t, ierr.IsValidation(negativeFixed.Validate()))
}
