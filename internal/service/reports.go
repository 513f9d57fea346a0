package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/groupledger/internal/cache"
	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// GroupReport is a group's analytics computed at one expense version.
type GroupReport struct {
	Version   int64                 `json:"version"`
	Analytics *calculator.Analytics `json:"analytics"`
}

// Reports builds balances, settlements and analytics from store snapshots.
// Group reports are cached per group; an entry is only served while its
// version matches the group's current expense version, and expense writes
// delete it outright.
type Reports struct {
	store       storage.Store
	cache       cache.Cache[GroupReport]
	metrics     *metrics.Metrics
	options     calculator.AnalyticsOptions
	concurrency int
}

// ReportsOption configures Reports.
type ReportsOption func(*Reports)

// WithCache sets the report cache. The default caches nothing.
func WithCache(c cache.Cache[GroupReport]) ReportsOption {
	return func(r *Reports) { r.cache = c }
}

// WithMetrics records computations and cache lookups.
func WithMetrics(m *metrics.Metrics) ReportsOption {
	return func(r *Reports) { r.metrics = m }
}

// WithRecentLimit caps the recent expenses listed in each report.
func WithRecentLimit(n int) ReportsOption {
	return func(r *Reports) { r.options.RecentLimit = n }
}

// WithConcurrency bounds parallel snapshot reads for user-wide analytics.
func WithConcurrency(n int) ReportsOption {
	return func(r *Reports) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewReports creates a report builder over store.
func NewReports(store storage.Store, opts ...ReportsOption) *Reports {
	r := &Reports{
		store:       store,
		cache:       cache.Noop[GroupReport]{},
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ForGroup returns the report for group, reusing a cached one computed at
// group.ExpenseVersion when available.
func (r *Reports) ForGroup(ctx context.Context, group *models.Group) (*GroupReport, error) {
	if cached, ok := r.cache.Get(ctx, group.ID); ok {
		if cached.Version == group.ExpenseVersion && cached.Analytics != nil {
			r.metrics.CacheLookup("hit")
			return &cached, nil
		}
		r.metrics.CacheLookup("stale")
	} else {
		r.metrics.CacheLookup("miss")
	}

	snap, err := r.store.GroupSnapshot(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	analytics, err := calculator.ComputeAnalyticsWithOptions(snap.Expenses, calculator.GroupScope(snap.Group), r.options)
	if err != nil {
		if errors.Is(err, calculator.ErrInconsistent) {
			r.metrics.ConsistencyFailure()
		}
		return nil, err
	}
	r.metrics.ObserveComputation("group", time.Since(start).Seconds())

	report := GroupReport{Version: snap.Group.ExpenseVersion, Analytics: analytics}
	r.cache.Set(ctx, group.ID, report)

	slog.Debug("Group report computed",
		"group_id", group.ID,
		"version", report.Version,
		"expenses", len(snap.Expenses),
	)
	return &report, nil
}

// ForUser aggregates spending over every group whose roster contains
// userID. Snapshots are read concurrently; groups deleted mid-read are
// skipped.
func (r *Reports) ForUser(ctx context.Context, userID string) (*calculator.Analytics, error) {
	groups, err := r.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	snaps := make([]*storage.Snapshot, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, group := range groups {
		g.Go(func() error {
			snap, err := r.store.GroupSnapshot(gctx, group.ID)
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var expenses []models.Expense
	for _, snap := range snaps {
		if snap != nil {
			expenses = append(expenses, snap.Expenses...)
		}
	}

	start := time.Now()
	analytics, err := calculator.ComputeAnalyticsWithOptions(expenses, calculator.UserScope(userID), r.options)
	if err != nil {
		return nil, err
	}
	r.metrics.ObserveComputation("user", time.Since(start).Seconds())
	return analytics, nil
}

// Invalidate drops any cached report for the group.
func (r *Reports) Invalidate(ctx context.Context, groupID string) {
	r.cache.Delete(ctx, groupID)
}
