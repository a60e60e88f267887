package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/xavierca1/membersync/internal/infra/cache"
)

const (
	kpiCachePrefix = "kpis:"
	kpiMembersKey  = kpiCachePrefix + "members"

	DefaultReportTTL = 1 * time.Hour
)

type KPISnapshot struct {
	TotalMembers int            `json:"total_members"`
	ByStatus     map[string]int `json:"by_status"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

type MemberStatsInterface interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// ReportUseCase serves the KPI aggregate through the staleness-aware cache:
// the aggregate walks the whole Members table, which is exactly the read
// amplification the cache exists to absorb.
type ReportUseCase struct {
	Cache *cache.Cache
	Stats MemberStatsInterface
	TTL   time.Duration
}

func NewReportUseCase(c *cache.Cache, stats MemberStatsInterface, ttl time.Duration) *ReportUseCase {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &ReportUseCase{Cache: c, Stats: stats, TTL: ttl}
}

func (uc *ReportUseCase) GetKPIs(ctx context.Context) (*cache.Result, error) {
	return uc.Cache.GetOrFetch(ctx, kpiMembersKey, uc.TTL, uc.fetchKPIs)
}

// RefreshKPIs is the user-triggered force refresh: it always bypasses the
// cached value.
func (uc *ReportUseCase) RefreshKPIs(ctx context.Context) (*cache.Result, error) {
	return uc.Cache.Refresh(ctx, kpiMembersKey, uc.TTL, uc.fetchKPIs)
}

func (uc *ReportUseCase) InvalidateReports(ctx context.Context) (int, error) {
	return uc.Cache.InvalidatePattern(ctx, kpiCachePrefix)
}

func (uc *ReportUseCase) LastUpdated(ctx context.Context) (time.Time, bool, error) {
	return uc.Cache.GetLastUpdated(ctx, kpiMembersKey)
}

func (uc *ReportUseCase) fetchKPIs(ctx context.Context) ([]byte, error) {
	byStatus, err := uc.Stats.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byStatus {
		total += n
	}
	return json.Marshal(KPISnapshot{
		TotalMembers: total,
		ByStatus:     byStatus,
		GeneratedAt:  time.Now(),
	})
}
