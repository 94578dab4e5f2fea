package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelworks/production-runner/internal/model"
)

func cents(v int64) *int64 { return &v }
func ref(v uint64) *uint64 { return &v }

func TestItemTotal(t *testing.T) {
	tests := []struct {
		name string
		item model.BudgetLineItem
		want int64
	}{
		{"computed", model.BudgetLineItem{Quantity: 2, Days: 5, UnitCostCents: 10000}, 100000},
		{"override wins", model.BudgetLineItem{Quantity: 2, Days: 5, UnitCostCents: 10000, TotalBudgetCents: cents(42)}, 42},
		{"ignore total", model.BudgetLineItem{Quantity: 2, Days: 5, UnitCostCents: 10000, TotalBudgetCents: cents(50000), IgnoreTotal: true}, 0},
		{"zero fields", model.BudgetLineItem{}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ItemTotal(tt.item), tt.name)
	}
}

// A parent with children reports its children's sum, never its own fields.
func TestGroupTotalUsesChildren(t *testing.T) {
	parent := model.BudgetLineItem{ID: 1, ChildIDs: "2,3", Quantity: 3, Days: 3, UnitCostCents: 111_00} // 999.00 if computed directly
	items := []model.BudgetLineItem{
		parent,
		{ID: 2, ParentID: ref(1), TotalBudgetCents: cents(100)},
		{ID: 3, ParentID: ref(1), Quantity: 1, Days: 1, UnitCostCents: 250},
	}
	assert.Equal(t, int64(350), GroupTotal(parent, items))
}

func TestGroupTotalMissingChildrenContributeZero(t *testing.T) {
	parent := model.BudgetLineItem{ID: 1, ChildIDs: "2,99"}
	items := []model.BudgetLineItem{
		parent,
		{ID: 2, ParentID: ref(1), TotalBudgetCents: cents(100)},
	}
	assert.Equal(t, int64(100), GroupTotal(parent, items))
}

// Items flagged ignoreTotal contribute nothing to any subtotal, even with
// an explicit override set.
func TestIgnoreTotalExcludedFromSubtotals(t *testing.T) {
	items := []model.BudgetLineItem{
		{ID: 1, Category: "Camera", TotalBudgetCents: cents(500), IgnoreTotal: true},
		{ID: 2, Category: "Camera", Quantity: 1, Days: 1, UnitCostCents: 200},
	}
	assert.Equal(t, int64(200), CategorySubtotal(items, "Camera"))

	sum := Summarize(items)
	assert.Equal(t, int64(200), sum.GrandTotalCents)
	require.Len(t, sum.Categories, 1)
	assert.Equal(t, int64(200), sum.Categories[0].TotalCents)
	assert.Equal(t, 1, sum.Categories[0].ItemCount)
}

func TestUncategorizedBucket(t *testing.T) {
	items := []model.BudgetLineItem{
		{ID: 1, Category: "", Quantity: 1, Days: 1, UnitCostCents: 100},
		{ID: 2, Category: "  ", Quantity: 1, Days: 1, UnitCostCents: 50},
		{ID: 3, Category: "Grip", Quantity: 1, Days: 1, UnitCostCents: 25},
	}
	assert.Equal(t, int64(150), CategorySubtotal(items, ""))
	assert.Equal(t, int64(150), CategorySubtotal(items, Uncategorized))

	sum := Summarize(items)
	require.Len(t, sum.Categories, 2)
	// Buckets come back name-sorted.
	assert.Equal(t, "Grip", sum.Categories[0].Name)
	assert.Equal(t, Uncategorized, sum.Categories[1].Name)
}

func TestSectionSubtotal(t *testing.T) {
	items := []model.BudgetLineItem{
		{ID: 1, Section: "Above the Line", Quantity: 1, Days: 1, UnitCostCents: 100},
		{ID: 2, Section: "Below the Line", Quantity: 1, Days: 1, UnitCostCents: 60},
		{ID: 3, Section: "Above the Line", Quantity: 2, Days: 1, UnitCostCents: 20},
	}
	assert.Equal(t, int64(140), SectionSubtotal(items, "Above the Line"))
	assert.Equal(t, int64(60), SectionSubtotal(items, "Below the Line"))
}

// Child items never count directly toward subtotals; their parent's group
// total represents them.
func TestChildrenNotDoubleCounted(t *testing.T) {
	items := []model.BudgetLineItem{
		{ID: 1, Category: "Cast", ChildIDs: "2,3"},
		{ID: 2, Category: "Cast", ParentID: ref(1), Quantity: 1, Days: 5, UnitCostCents: 100},
		{ID: 3, Category: "Cast", ParentID: ref(1), Quantity: 1, Days: 2, UnitCostCents: 100},
	}
	assert.Equal(t, int64(700), CategorySubtotal(items, "Cast"))
	assert.Equal(t, int64(700), Summarize(items).GrandTotalCents)
}

func TestVariance(t *testing.T) {
	parent := model.BudgetLineItem{ID: 1, Name: "Supporting Cast", ChildIDs: "2,3", TotalBudgetCents: cents(400)}
	items := []model.BudgetLineItem{
		parent,
		{ID: 2, ParentID: ref(1), Quantity: 1, Days: 1, UnitCostCents: 100},
		{ID: 3, ParentID: ref(1), Quantity: 1, Days: 1, UnitCostCents: 250},
	}
	// Budgeted 400 against an actual of 350: 50 left.
	assert.Equal(t, int64(50), VarianceCents(parent, items))

	sum := Summarize(items)
	require.Len(t, sum.Variances, 1)
	v := sum.Variances[0]
	assert.Equal(t, uint64(1), v.ItemID)
	assert.Equal(t, int64(400), v.BudgetedCents)
	assert.Equal(t, int64(350), v.ActualCents)
	assert.Equal(t, int64(50), v.VarianceCents)
}

func TestVarianceOverBudgetIsNegative(t *testing.T) {
	it := model.BudgetLineItem{ID: 1, Quantity: 2, Days: 10, UnitCostCents: 100, TotalBudgetCents: cents(1500)}
	assert.Equal(t, int64(-500), VarianceCents(it, []model.BudgetLineItem{it}))
}

func TestParseAndJoinChildIDs(t *testing.T) {
	assert.Nil(t, ParseChildIDs(""))
	assert.Nil(t, ParseChildIDs("   "))
	assert.Equal(t, []uint64{1, 2, 3}, ParseChildIDs("1,2,3"))
	assert.Equal(t, []uint64{4, 9}, ParseChildIDs(" 4 , x, 9 ,"))
	assert.Equal(t, "1,2,3", JoinChildIDs([]uint64{1, 2, 3}))
	assert.Equal(t, "", JoinChildIDs(nil))
}
