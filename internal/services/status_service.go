// Package services – StatusService
//
// This file implements the read-only queries behind the status API: order
// lookups, paginated claim and link listings, the startup replay summary
// and, when the SQLite substrate is configured, event-log statistics.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-booster-bot/internal/domain"
	"github.com/tbourn/go-booster-bot/internal/orderid"
	"github.com/tbourn/go-booster-bot/internal/recovery"
	"github.com/tbourn/go-booster-bot/internal/registry"
	"github.com/tbourn/go-booster-bot/internal/repo"
	"github.com/tbourn/go-booster-bot/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StatusService answers status queries against the live registries.
type StatusService struct {
	State    *registry.State
	Recovery recovery.Stats

	// DB is the SQLite event log; nil when the log lives in a chat channel.
	DB *gorm.DB
}

// Order returns the combined claim/link view of an order. raw is
// normalized first, so "td-001" finds "TD-001".
func (s *StatusService) Order(ctx context.Context, raw string) (registry.OrderStatus, error) {
	tr := otel.Tracer("services/StatusService")
	_, span := tr.Start(ctx, "Order", trace.WithAttributes(attribute.String("order.raw", raw)))
	defer span.End()

	id, ok := orderid.Normalize(raw)
	if !ok {
		return registry.OrderStatus{}, ErrInvalidOrderID
	}
	st, known := s.State.Status(id)
	if !known {
		return registry.OrderStatus{}, ErrOrderNotFound
	}
	return st, nil
}

// ClaimsPage returns one page of claims ordered by claim position.
func (s *StatusService) ClaimsPage(ctx context.Context, page, pageSize int) ([]domain.ClaimRecord, int64, error) {
	tr := otel.Tracer("services/StatusService")
	_, span := tr.Start(ctx, "ClaimsPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	all := s.State.Claims.List()
	return utils.Paginate(all, page, pageSize), int64(len(all)), nil
}

// LinksPage returns one page of ticket links in creation order.
func (s *StatusService) LinksPage(ctx context.Context, page, pageSize int) ([]domain.TicketLink, int64, error) {
	tr := otel.Tracer("services/StatusService")
	_, span := tr.Start(ctx, "LinksPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	all := s.State.Links.List()
	return utils.Paginate(all, page, pageSize), int64(len(all)), nil
}

// RecoveryStats returns the summary of the startup replay.
func (s *StatusService) RecoveryStats(context.Context) recovery.Stats {
	return s.Recovery
}

// LogStats reports event-log aggregates. It returns ErrStatsUnavailable when
// the log is not kept in SQLite.
func (s *StatusService) LogStats(ctx context.Context) (repo.LogStats, error) {
	if s.DB == nil {
		return repo.LogStats{}, ErrStatsUnavailable
	}
	tr := otel.Tracer("services/StatusService")
	ctx, span := tr.Start(ctx, "LogStats")
	defer span.End()
	return repo.EventLogStats(ctx, s.DB)
}

// LogEntriesPage returns raw event-log rows oldest first (SQLite only).
func (s *StatusService) LogEntriesPage(ctx context.Context, page, pageSize int) ([]domain.LogEntry, error) {
	if s.DB == nil {
		return nil, ErrStatsUnavailable
	}
	tr := otel.Tracer("services/StatusService")
	ctx, span := tr.Start(ctx, "LogEntriesPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()
	return repo.ListEntriesPage(ctx, s.DB, (page-1)*pageSize, pageSize)
}
