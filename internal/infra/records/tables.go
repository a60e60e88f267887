// Package records holds the typed views over the store's raw field maps.
// Conversion between field bags and entities happens here and nowhere else;
// the use-case layer only ever sees entity structs.
package records

import (
	"context"
	"time"

	"github.com/xavierca1/membersync/internal/infra/recordstore"
)

const (
	TableMembers       = "Members"
	TableVolunteers    = "Volunteers"
	TableAttendance    = "Attendance"
	TableAssignments   = "Assignments"
	TableVisits        = "Visits"
	TableInteractions  = "Interactions"
	TableIntakeRecords = "Intake Records"
)

const dateLayout = "2006-01-02"

// Store is the slice of the Record Client the repositories use.
type Store interface {
	Get(ctx context.Context, table, id string) (*recordstore.Record, error)
	Create(ctx context.Context, table string, fields map[string]any) (*recordstore.Record, error)
	Update(ctx context.Context, table, id string, fields map[string]any) (*recordstore.Record, error)
	List(ctx context.Context, table string, opts recordstore.ListOptions) ([]recordstore.Record, error)
	FindFirst(ctx context.Context, table string, filter recordstore.Expr) (*recordstore.Record, error)
	BatchUpdate(ctx context.Context, table string, patches []recordstore.RecordPatch) ([]recordstore.Record, error)
}

func getString(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func getBool(fields map[string]any, key string) bool {
	if v, ok := fields[key].(bool); ok {
		return v
	}
	return false
}

func getInt(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case float64: // JSON numbers decode as float64
		return int(v)
	case int:
		return v
	}
	return 0
}

func getDate(fields map[string]any, key string) time.Time {
	s := getString(fields, key)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func getStringSlice(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
