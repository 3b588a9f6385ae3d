package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-booster-bot/internal/recovery"
	"github.com/tbourn/go-booster-bot/internal/registry"
	"github.com/tbourn/go-booster-bot/internal/repo"
)

func newStatusDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	return db
}

func seededState() *registry.State {
	s := registry.NewState()
	s.Claims.TryClaim("TD-001", "42", 10)
	s.Claims.TryClaim("TD-002", "43", 20)
	s.Claims.TryClaim("TD-003", "44", 30)
	s.Links.TryLink("TD-001", "900", "7")
	return s
}

func TestStatusService_Order(t *testing.T) {
	svc := &StatusService{State: seededState()}
	ctx := context.Background()

	st, err := svc.Order(ctx, "td-001")
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if st.Claim == nil || st.Claim.ClaimantID != "42" || st.Link == nil || st.Link.TicketChannelID != "900" {
		t.Fatalf("status = %+v", st)
	}
	if _, err := svc.Order(ctx, "hello"); !errors.Is(err, ErrInvalidOrderID) {
		t.Fatalf("err = %v; want ErrInvalidOrderID", err)
	}
	if _, err := svc.Order(ctx, "TD-999"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v; want ErrOrderNotFound", err)
	}
}

func TestStatusService_ClaimsAndLinksPages(t *testing.T) {
	svc := &StatusService{State: seededState()}
	ctx := context.Background()

	claims, total, err := svc.ClaimsPage(ctx, 2, 2)
	if err != nil || total != 3 {
		t.Fatalf("ClaimsPage total=%d err=%v", total, err)
	}
	if len(claims) != 1 || claims[0].OrderID != "TD-003" {
		t.Fatalf("page 2 = %+v", claims)
	}
	if out, _, _ := svc.ClaimsPage(ctx, 9, 2); len(out) != 0 {
		t.Fatalf("out-of-range page = %+v", out)
	}

	links, total, err := svc.LinksPage(ctx, 1, 10)
	if err != nil || total != 1 || len(links) != 1 || links[0].CustomerID != "7" {
		t.Fatalf("LinksPage = %+v total=%d err=%v", links, total, err)
	}
}

func TestStatusService_LogStats(t *testing.T) {
	ctx := context.Background()

	noDB := &StatusService{State: registry.NewState()}
	if _, err := noDB.LogStats(ctx); !errors.Is(err, ErrStatsUnavailable) {
		t.Fatalf("err = %v; want ErrStatsUnavailable", err)
	}
	if _, err := noDB.LogEntriesPage(ctx, 1, 10); !errors.Is(err, ErrStatsUnavailable) {
		t.Fatalf("err = %v; want ErrStatsUnavailable", err)
	}

	db := newStatusDB(t)
	store := repo.NewLogStore(db, "bot")
	_, _ = store.Append(ctx, "[CLAIM] order=TD-001 booster=42")
	_, _ = store.Append(ctx, "[INSPECT] order=TD-001 status=<@42> by=5")

	svc := &StatusService{State: registry.NewState(), DB: db, Recovery: recovery.Stats{Entries: 2}}
	st, err := svc.LogStats(ctx)
	if err != nil {
		t.Fatalf("LogStats: %v", err)
	}
	if st.Total != 2 || st.ByTag["CLAIM"] != 1 || st.ByTag["INSPECT"] != 1 {
		t.Fatalf("stats = %+v", st)
	}
	rows, err := svc.LogEntriesPage(ctx, 1, 1)
	if err != nil || len(rows) != 1 || rows[0].Line != "[CLAIM] order=TD-001 booster=42" {
		t.Fatalf("entries = %+v err=%v", rows, err)
	}
	if svc.RecoveryStats(ctx).Entries != 2 {
		t.Fatalf("recovery stats not exposed")
	}
}
