package draft

import "github.com/shopspring/decimal"

// ItemUpdate carries the persisted row id and the new scalar values for a
// line item whose quantity or price changed.
type ItemUpdate struct {
	PersistedID string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Changeset is the minimal set of row operations that moves persisted state
// to match a draft's current items.
type Changeset struct {
	Insert    []LineItem
	Update    []ItemUpdate
	DeleteIDs []string
}

// Empty reports whether the changeset contains no operations.
func (c Changeset) Empty() bool {
	return len(c.Insert) == 0 && len(c.Update) == 0 && len(c.DeleteIDs) == 0
}

type diffKey struct {
	kind  Kind
	refID string
}

type diffGroup struct {
	item     LineItem // representative row; quantity aggregated across rows
	extraIDs []string // persisted ids of surplus duplicate rows
}

// Diff compares the current item list against the persisted baseline and
// classifies each (kind, reference id) group as inserted, updated, or
// deleted. Reordering is not a change. Duplicate product rows are aggregated
// per group before comparison; when a group changed, the first persisted row
// carries the update and surplus persisted rows are deleted. An unchanged
// group produces no operations at all, so Diff(x, x) is always empty.
func Diff(original, current []LineItem) Changeset {
	orig := groupItems(original)
	curr := groupItems(current)

	var cs Changeset

	// Preserve insertion order for inserts and updates by walking the
	// current list rather than the group map.
	seen := make(map[diffKey]bool, len(curr))
	for _, li := range current {
		key := diffKey{kind: li.Kind, refID: li.RefID}
		if seen[key] {
			continue
		}
		seen[key] = true

		cg := curr[key]
		og, exists := orig[key]
		if !exists {
			cs.Insert = append(cs.Insert, cg.item)
			continue
		}

		if cg.item.Quantity != og.item.Quantity || !cg.item.UnitPrice.Equal(og.item.UnitPrice) {
			cs.Update = append(cs.Update, ItemUpdate{
				PersistedID: og.item.PersistedID,
				Quantity:    cg.item.Quantity,
				UnitPrice:   cg.item.UnitPrice,
			})
			// Surplus baseline rows collapse into the primary row, which now
			// carries the aggregated quantity. An unchanged group must stay a
			// full no-op: deleting surplus rows without the update would drop
			// their quantities from the persisted total.
			cs.DeleteIDs = append(cs.DeleteIDs, og.extraIDs...)
		}
	}

	for _, li := range original {
		key := diffKey{kind: li.Kind, refID: li.RefID}
		if seen[key] {
			continue
		}
		seen[key] = true

		og := orig[key]
		if og.item.PersistedID != "" {
			cs.DeleteIDs = append(cs.DeleteIDs, og.item.PersistedID)
		}
		cs.DeleteIDs = append(cs.DeleteIDs, og.extraIDs...)
	}

	return cs
}

// groupItems aggregates rows by (kind, refID): quantities sum, the first row
// is the representative, and persisted ids of later rows are kept for
// deletion.
func groupItems(items []LineItem) map[diffKey]*diffGroup {
	groups := make(map[diffKey]*diffGroup, len(items))
	for _, li := range items {
		key := diffKey{kind: li.Kind, refID: li.RefID}
		g, ok := groups[key]
		if !ok {
			item := li
			groups[key] = &diffGroup{item: item}
			continue
		}
		g.item.Quantity += li.Quantity
		if li.PersistedID != "" {
			g.extraIDs = append(g.extraIDs, li.PersistedID)
		}
	}
	return groups
}
