package records

import (
	"context"
	"fmt"

	"github.com/xavierca1/membersync/internal/infra/recordstore"
)

// memberLinkTables lists every table carrying a foreign key to Members. A
// member merge re-points all of them from the source to the target.
var memberLinkTables = []struct {
	Table string
	Field string
}{
	{TableAttendance, "Member"},
	{TableVisits, "Member"},
	{TableAssignments, "Member"},
	{TableInteractions, "Member"},
	{TableIntakeRecords, "Member"},
}

type LinkRepository struct {
	store Store
}

func NewLinkRepository(store Store) *LinkRepository {
	return &LinkRepository{store: store}
}

// RepointMember rewrites every reference to fromID into toID across the
// linked tables, in store-sized batches. Returns how many records changed.
func (r *LinkRepository) RepointMember(ctx context.Context, fromID, toID string) (int, error) {
	total := 0
	for _, link := range memberLinkTables {
		recs, err := r.store.List(ctx, link.Table, recordstore.ListOptions{
			Filter: recordstore.InList(link.Field, fromID),
		})
		if err != nil {
			return total, fmt.Errorf("list %s records linked to %s: %w", link.Table, fromID, err)
		}
		if len(recs) == 0 {
			continue
		}

		patches := make([]recordstore.RecordPatch, 0, len(recs))
		for i := range recs {
			refs := getStringSlice(recs[i].Fields, link.Field)
			patches = append(patches, recordstore.RecordPatch{
				ID:     recs[i].ID,
				Fields: map[string]any{link.Field: replaceRef(refs, fromID, toID)},
			})
		}
		if _, err := r.store.BatchUpdate(ctx, link.Table, patches); err != nil {
			return total, fmt.Errorf("repoint %s records: %w", link.Table, err)
		}
		total += len(patches)
	}
	return total, nil
}

func replaceRef(refs []string, from, to string) []string {
	out := make([]string, 0, len(refs))
	seen := map[string]bool{}
	for _, ref := range refs {
		if ref == from {
			ref = to
		}
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}
	return out
}
