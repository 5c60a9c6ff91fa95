// Package analyticssvc - analytics service and cache wiring.
// Aggregates are recomputed on demand from a single point-in-time read and
// cached for a short TTL. When a recompute fails and an expired entry is
// still readable, the stale copy is served with an explicit flag instead of
// failing the request.
package analyticssvc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	analyticsdto "church_connect/internal/api/analytics/dto"
	basesvc "church_connect/internal/api/base/service"
	teammodels "church_connect/internal/api/team/models"
	visitormodels "church_connect/internal/api/visitor/models"
	"church_connect/internal/common"
	"church_connect/internal/global"
	"church_connect/internal/logger"
	"church_connect/internal/utility"
)

// cacheStore is the subset of the TTL cache used here; narrowed so tests can
// swap in a clock-driven instance.
type cacheStore interface {
	Set(key string, value interface{})
	Get(key string) (value interface{}, age time.Duration, fresh bool)
}

var (
	aggregateCache     cacheStore
	aggregateCacheOnce sync.Once
)

// AnalyticsService computes team and church aggregates from the visitor and
// team collections.
type AnalyticsService struct {
	visitorService *basesvc.BaseServiceMongoImpl[visitormodels.Visitor]
	teamService    *basesvc.BaseServiceMongoImpl[teammodels.ProtocolTeam]
	cache          cacheStore
	thresholds     Thresholds
}

// NewAnalyticsService creates an AnalyticsService bound to the registered
// collections. All instances share one TTL cache.
func NewAnalyticsService() (*AnalyticsService, error) {
	visitorColl, exist := global.RegistryCollections.Get(global.MongoColNames.Visitors)
	if !exist {
		return nil, fmt.Errorf("collection %s not registered: %w", global.MongoColNames.Visitors, common.ErrNotFound)
	}
	teamColl, exist := global.RegistryCollections.Get(global.MongoColNames.ProtocolTeams)
	if !exist {
		return nil, fmt.Errorf("collection %s not registered: %w", global.MongoColNames.ProtocolTeams, common.ErrNotFound)
	}

	aggregateCacheOnce.Do(func() {
		ttl := time.Duration(global.ServerConfig.AnalyticsCacheTTLSeconds) * time.Second
		aggregateCache = utility.NewCache(ttl, ttl)
	})

	return &AnalyticsService{
		visitorService: basesvc.NewBaseServiceMongo[visitormodels.Visitor](visitorColl),
		teamService:    basesvc.NewBaseServiceMongo[teammodels.ProtocolTeam](teamColl),
		cache:          aggregateCache,
		thresholds:     ThresholdsFromConfig(global.ServerConfig),
	}, nil
}

// GetTeamAnalytics returns the analytics view of one team, computing it on a
// cache miss. months <= 0 falls back to the configured growth window.
func (s *AnalyticsService) GetTeamAnalytics(ctx context.Context, teamID primitive.ObjectID, months int, now time.Time) (*analyticsdto.TeamAnalytics, error) {
	if months <= 0 {
		months = s.thresholds.GrowthMonthsWindow
	}
	key := fmt.Sprintf("team:%s:%d", teamID.Hex(), months)

	if cached, _, fresh := s.cache.Get(key); fresh {
		if view, ok := cached.(*analyticsdto.TeamAnalytics); ok {
			return view, nil
		}
	}

	view, err := s.computeTeamAnalytics(ctx, teamID, months, now)
	if err != nil {
		if stale, ok := s.staleEntry(key, err).(*analyticsdto.TeamAnalytics); ok {
			copied := *stale
			copied.Stale = true
			return &copied, nil
		}
		return nil, err
	}

	s.cache.Set(key, view)
	return view, nil
}

// GetChurchAnalytics returns the church-wide view over all active teams.
func (s *AnalyticsService) GetChurchAnalytics(ctx context.Context, months int, now time.Time) (*analyticsdto.ChurchAnalytics, error) {
	if months <= 0 {
		months = s.thresholds.GrowthMonthsWindow
	}
	key := fmt.Sprintf("church:%d", months)

	if cached, _, fresh := s.cache.Get(key); fresh {
		if view, ok := cached.(*analyticsdto.ChurchAnalytics); ok {
			return view, nil
		}
	}

	teams, err := s.computeAllTeamAnalytics(ctx, months, now)
	if err != nil {
		if stale, ok := s.staleEntry(key, err).(*analyticsdto.ChurchAnalytics); ok {
			copied := *stale
			copied.Stale = true
			return &copied, nil
		}
		return nil, err
	}

	view := ComputeChurchAnalytics(teams, now, s.thresholds)
	s.cache.Set(key, view)
	return view, nil
}

// GetSupportActions builds the rule-based action report. A non-zero teamID
// restricts the evaluation to that team; recognition still ranks over the
// evaluated set only.
func (s *AnalyticsService) GetSupportActions(ctx context.Context, teamID primitive.ObjectID, now time.Time) (*analyticsdto.SupportActionsReport, error) {
	var teams []*analyticsdto.TeamAnalytics
	var err error

	if teamID.IsZero() {
		teams, err = s.computeAllTeamAnalytics(ctx, s.thresholds.GrowthMonthsWindow, now)
	} else {
		var one *analyticsdto.TeamAnalytics
		one, err = s.computeTeamAnalytics(ctx, teamID, s.thresholds.GrowthMonthsWindow, now)
		teams = []*analyticsdto.TeamAnalytics{one}
	}
	if err != nil {
		return nil, err
	}

	return GenerateSupportActions(teams, now, s.thresholds), nil
}

// computeTeamAnalytics loads one team plus its active visitors and runs the
// pure aggregator.
func (s *AnalyticsService) computeTeamAnalytics(ctx context.Context, teamID primitive.ObjectID, months int, now time.Time) (*analyticsdto.TeamAnalytics, error) {
	team, err := s.teamService.FindOneById(ctx, teamID)
	if err != nil {
		return nil, err
	}

	visitors, err := s.visitorService.Find(ctx, bson.M{"teamId": teamID, "isActive": true}, nil)
	if err != nil {
		return nil, err
	}

	return ComputeTeamAnalytics(&team, visitors, months, now, s.thresholds), nil
}

// computeAllTeamAnalytics reads all active teams and visitors once, groups
// visitors by team and aggregates each group against the same clock. A
// cancelled context aborts the whole computation; partial results are never
// returned.
func (s *AnalyticsService) computeAllTeamAnalytics(ctx context.Context, months int, now time.Time) ([]*analyticsdto.TeamAnalytics, error) {
	teams, err := s.teamService.Find(ctx, bson.M{"isActive": true}, nil)
	if err != nil {
		return nil, err
	}

	visitors, err := s.visitorService.Find(ctx, bson.M{"isActive": true}, nil)
	if err != nil {
		return nil, err
	}

	byTeam := make(map[primitive.ObjectID][]visitormodels.Visitor, len(teams))
	for i := range visitors {
		byTeam[visitors[i].TeamID] = append(byTeam[visitors[i].TeamID], visitors[i])
	}

	result := make([]*analyticsdto.TeamAnalytics, 0, len(teams))
	for i := range teams {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result = append(result, ComputeTeamAnalytics(&teams[i], byTeam[teams[i].ID], months, now, s.thresholds))
	}
	return result, nil
}

// staleEntry returns the expired cache entry for key, if any, and logs the
// downgrade. Returns nil when nothing is cached.
func (s *AnalyticsService) staleEntry(key string, computeErr error) interface{} {
	cached, age, _ := s.cache.Get(key)
	if cached == nil {
		return nil
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"code":      common.ErrCodeStaleAggregate.Code,
		"cache_key": key,
		"age":       age.String(),
		"error":     computeErr.Error(),
	}).Warn("serving stale analytics aggregate after recompute failure")
	return cached
}
