// Package budget computes aggregate totals over a production's budget line
// items: per-item and personnel-group totals, category/section subtotals
// and budget-vs-actual variance.  All functions are pure and recompute from
// scratch on every call; at the expected data sizes (tens to low hundreds
// of items) memoization is not worth carrying.
package budget

import (
	"sort"
	"strconv"
	"strings"

	"github.com/reelworks/production-runner/internal/model"
)

// Uncategorized is the bucket used for items whose category name is empty
// or does not resolve.  Malformed category references never raise an
// error, they degrade here.
const Uncategorized = "Uncategorized"

// ItemTotal returns the computed total of a single line item in cents:
// zero when the item is excluded from totals, the explicit total-budget
// override when one is set, otherwise quantity × days × unit cost.
func ItemTotal(it model.BudgetLineItem) int64 {
	if it.IgnoreTotal {
		return 0
	}
	if it.TotalBudgetCents != nil {
		return *it.TotalBudgetCents
	}
	return it.Quantity * it.Days * it.UnitCostCents
}

// GroupTotal returns the effective total of an item within the given
// collection.  An item with children reports the sum of its children's
// item totals; its own quantity/days/unit-cost fields are ignored once
// children exist.  Children missing from the collection contribute zero.
func GroupTotal(it model.BudgetLineItem, items []model.BudgetLineItem) int64 {
	childIDs := ParseChildIDs(it.ChildIDs)
	if len(childIDs) == 0 {
		return ItemTotal(it)
	}
	if it.IgnoreTotal {
		return 0
	}
	byID := make(map[uint64]model.BudgetLineItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	var total int64
	for _, id := range childIDs {
		if child, ok := byID[id]; ok {
			total += ItemTotal(child)
		}
	}
	return total
}

// ActualTotal is the "actual" side of a variance: the children's sum for a
// group, or quantity × days × unit cost for a plain item.  The explicit
// total-budget override is deliberately not consulted here — it is the
// "budgeted" side.
func ActualTotal(it model.BudgetLineItem, items []model.BudgetLineItem) int64 {
	if len(ParseChildIDs(it.ChildIDs)) > 0 {
		return GroupTotal(it, items)
	}
	return it.Quantity * it.Days * it.UnitCostCents
}

// VarianceCents returns budgeted minus actual for an item.  A negative
// variance signals over-budget.  Items without an explicit total budget
// have a budgeted side of zero.
func VarianceCents(it model.BudgetLineItem, items []model.BudgetLineItem) int64 {
	var budgeted int64
	if it.TotalBudgetCents != nil {
		budgeted = *it.TotalBudgetCents
	}
	return budgeted - ActualTotal(it, items)
}

// Subtotal is one category or section bucket of a summary.
type Subtotal struct {
	Name       string `json:"name"`
	TotalCents int64  `json:"total_cents"`
	ItemCount  int    `json:"item_count"`
}

// ItemVariance pairs an item with its budget-vs-actual delta.  Only items
// carrying an explicit total budget appear in a summary's variance list.
type ItemVariance struct {
	ItemID        uint64 `json:"item_id"`
	Name          string `json:"name"`
	BudgetedCents int64  `json:"budgeted_cents"`
	ActualCents   int64  `json:"actual_cents"`
	VarianceCents int64  `json:"variance_cents"`
}

// Summary is the aggregate view of a production budget.
type Summary struct {
	Categories      []Subtotal     `json:"categories"`
	Sections        []Subtotal     `json:"sections"`
	GrandTotalCents int64          `json:"grand_total_cents"`
	Variances       []ItemVariance `json:"variances"`
}

// Summarize computes category and section subtotals, the grand total and
// per-item variances for a flat item collection.  Child items are folded
// into their parent's group total and never counted directly, so grouped
// personnel are not double-counted.  Items flagged ignoreTotal contribute
// nothing anywhere.
func Summarize(items []model.BudgetLineItem) Summary {
	categories := map[string]*Subtotal{}
	sections := map[string]*Subtotal{}
	var grand int64
	var variances []ItemVariance

	for _, it := range items {
		if it.ParentID != nil {
			continue // represented by its parent's group total
		}
		total := GroupTotal(it, items)
		if !it.IgnoreTotal {
			grand += total

			cat := strings.TrimSpace(it.Category)
			if cat == "" {
				cat = Uncategorized
			}
			bucket, ok := categories[cat]
			if !ok {
				bucket = &Subtotal{Name: cat}
				categories[cat] = bucket
			}
			bucket.TotalCents += total
			bucket.ItemCount++

			if sec := strings.TrimSpace(it.Section); sec != "" {
				sb, ok := sections[sec]
				if !ok {
					sb = &Subtotal{Name: sec}
					sections[sec] = sb
				}
				sb.TotalCents += total
				sb.ItemCount++
			}
		}
		if it.TotalBudgetCents != nil {
			actual := ActualTotal(it, items)
			variances = append(variances, ItemVariance{
				ItemID:        it.ID,
				Name:          it.Name,
				BudgetedCents: *it.TotalBudgetCents,
				ActualCents:   actual,
				VarianceCents: *it.TotalBudgetCents - actual,
			})
		}
	}

	return Summary{
		Categories:      sortSubtotals(categories),
		Sections:        sortSubtotals(sections),
		GrandTotalCents: grand,
		Variances:       variances,
	}
}

// CategorySubtotal returns the summed total of all non-child items in the
// named category.  An empty or unknown name resolves to Uncategorized.
func CategorySubtotal(items []model.BudgetLineItem, category string) int64 {
	category = strings.TrimSpace(category)
	if category == "" {
		category = Uncategorized
	}
	var total int64
	for _, it := range items {
		if it.ParentID != nil || it.IgnoreTotal {
			continue
		}
		cat := strings.TrimSpace(it.Category)
		if cat == "" {
			cat = Uncategorized
		}
		if cat == category {
			total += GroupTotal(it, items)
		}
	}
	return total
}

// SectionSubtotal returns the summed total of all non-child items in the
// named section.
func SectionSubtotal(items []model.BudgetLineItem, section string) int64 {
	var total int64
	for _, it := range items {
		if it.ParentID != nil || it.IgnoreTotal {
			continue
		}
		if strings.TrimSpace(it.Section) == section {
			total += GroupTotal(it, items)
		}
	}
	return total
}

// ParseChildIDs splits a comma-joined child-id list into numeric IDs,
// skipping blanks and malformed entries.
func ParseChildIDs(s string) []uint64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if id, err := strconv.ParseUint(p, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// JoinChildIDs renders child IDs back to their comma-joined column form.
func JoinChildIDs(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ",")
}

func sortSubtotals(m map[string]*Subtotal) []Subtotal {
	out := make([]Subtotal, 0, len(m))
	for _, s := range m {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
