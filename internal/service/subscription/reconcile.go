package subscription

import (
	"strings"

	"github.com/ignite/audience-subscribe/internal/domain"
)

// ReconcileInterests merges a requested selection into a member's current
// interests. For each exclusive (radio or dropdown) category that the request
// touches, every interest in the category is first reset to false. Requested
// values are applied last and always win. Other categories are never reset.
func ReconcileInterests(current map[string]bool, categories []domain.InterestCategory, requested domain.InterestSelection) map[string]bool {
	out := make(map[string]bool, len(current)+len(requested))
	for id, on := range current {
		out[id] = on
	}

	for _, cat := range categories {
		if !cat.IsExclusive() || !touches(cat, requested) {
			continue
		}
		for _, interest := range cat.Interests {
			out[interest.ID] = false
		}
	}

	for id, on := range requested {
		out[id] = on
	}
	return out
}

func touches(cat domain.InterestCategory, requested domain.InterestSelection) bool {
	for id := range requested {
		if cat.Contains(id) {
			return true
		}
	}
	return false
}

// ReconcileMarketingPermissions disables every permission the member already
// has, then enables each requested id. Member permissions come first in
// their original order, followed by newly requested ids.
func ReconcileMarketingPermissions(member []domain.MemberMarketingPermission, requested []string) []domain.MarketingPermissionUpdate {
	out := make([]domain.MarketingPermissionUpdate, 0, len(member)+len(requested))
	index := make(map[string]int, len(member)+len(requested))

	for _, p := range member {
		if _, seen := index[p.ID]; seen || p.ID == "" {
			continue
		}
		index[p.ID] = len(out)
		out = append(out, domain.MarketingPermissionUpdate{ID: p.ID, Enabled: false})
	}
	for _, id := range requested {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if i, ok := index[id]; ok {
			out[i].Enabled = true
			continue
		}
		index[id] = len(out)
		out = append(out, domain.MarketingPermissionUpdate{ID: id, Enabled: true})
	}
	return out
}

// ReconcileTags marks every current tag inactive and every requested tag
// active, so the pushed diff replaces the member's tag set. Current tags come
// first in their original order, followed by new names in request order.
func ReconcileTags(current []domain.MemberTag, requested []string) []domain.Tag {
	out := make([]domain.Tag, 0, len(current)+len(requested))
	index := make(map[string]int, len(current)+len(requested))

	for _, t := range current {
		if _, seen := index[t.Name]; seen || t.Name == "" {
			continue
		}
		index[t.Name] = len(out)
		out = append(out, domain.Tag{Name: t.Name, Status: domain.TagInactive})
	}
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if i, ok := index[name]; ok {
			out[i].Status = domain.TagActive
			continue
		}
		index[name] = len(out)
		out = append(out, domain.Tag{Name: name, Status: domain.TagActive})
	}
	return out
}
