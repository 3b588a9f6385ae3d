// Status HTTP handlers.
//
// This file exposes read-only endpoints over the workflow state:
//   - GET /orders/{id}     (claim + ticket link of one order)
//   - GET /claims          (paginated, ETag support)
//   - GET /links           (paginated, ETag support)
//   - GET /recovery        (startup replay summary)
//   - GET /log/stats       (event-log aggregates, SQLite substrate only)
//   - GET /log/entries     (raw event-log rows, SQLite substrate only)
//
// Handlers are transport-thin: they validate input, call the status service,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-booster-bot/internal/domain"
	"github.com/tbourn/go-booster-bot/internal/recovery"
	"github.com/tbourn/go-booster-bot/internal/registry"
	"github.com/tbourn/go-booster-bot/internal/repo"
	"github.com/tbourn/go-booster-bot/internal/utils"
)

// StatusService defines the read-only queries consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type StatusService interface {
	// Order returns the claim/link view of one order.
	Order(ctx context.Context, raw string) (registry.OrderStatus, error)
	// ClaimsPage returns a page of claims and the total count.
	ClaimsPage(ctx context.Context, page, pageSize int) ([]domain.ClaimRecord, int64, error)
	// LinksPage returns a page of ticket links and the total count.
	LinksPage(ctx context.Context, page, pageSize int) ([]domain.TicketLink, int64, error)
	// RecoveryStats returns the startup replay summary.
	RecoveryStats(ctx context.Context) recovery.Stats
	// LogStats returns event-log aggregates.
	LogStats(ctx context.Context) (repo.LogStats, error)
	// LogEntriesPage returns raw event-log rows, oldest first.
	LogEntriesPage(ctx context.Context, page, pageSize int) ([]domain.LogEntry, error)
}

// Handlers groups the status endpoints.
type Handlers struct {
	svc StatusService
}

// New constructs and returns a Handlers instance bound to svc.
func New(svc StatusService) *Handlers {
	return &Handlers{svc: svc}
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListClaimsResponse wraps a page of claims and pagination information.
type ListClaimsResponse struct {
	Claims     []domain.ClaimRecord `json:"claims"`
	Pagination Pagination           `json:"pagination"`
}

// ListLinksResponse wraps a page of ticket links and pagination information.
type ListLinksResponse struct {
	Links      []domain.TicketLink `json:"links"`
	Pagination Pagination          `json:"pagination"`
}

// ListLogEntriesResponse wraps a page of raw log rows.
type ListLogEntriesResponse struct {
	Entries []domain.LogEntry `json:"entries"`
	Page    int               `json:"page"`
	Size    int               `json:"page_size"`
}

//
// Helpers
//

// clampPagination reads page and page_size from the query string.
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.ParsePage(c.Query("page"), c.Query("page_size"))
}

func paginationOf(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// notModified sets a weak ETag and reports whether the client already has it.
// Registries only grow, so the entry count identifies their content.
func notModified(c *gin.Context, kind string, total int64, page, pageSize int) bool {
	etag := fmt.Sprintf(`W/"%s:%d:%d:%d"`, kind, total, page, pageSize)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

//
// Handlers
//

// GetOrder godoc
// @ID          getOrder
// @Summary     Get order status
// @Description Returns the claim and ticket link of an order. The id is normalized (case-insensitive).
// @Tags        Orders
// @Produce     json
// @Param       id   path      string  true  "Order ID"  example(TD-8FJ2K1)
// @Success     200  {object}  registry.OrderStatus
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid order id"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown order"
// @Router      /orders/{id} [get]
func (h *Handlers) GetOrder(c *gin.Context) {
	st, err := h.svc.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err, ErrCodeInternal)
		return
	}
	ok(c, st)
}

// ListClaims godoc
// @ID          listClaims
// @Summary     List claims (paginated)
// @Description Returns claims ordered by claim position. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Orders
// @Produce     json
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListClaimsResponse
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /claims [get]
func (h *Handlers) ListClaims(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.svc.ClaimsPage(c.Request.Context(), page, pageSize)
	if err != nil {
		failWith(c, err, ErrCodeListFailed)
		return
	}
	if notModified(c, "claims", total, page, pageSize) {
		return
	}
	ok(c, ListClaimsResponse{Claims: items, Pagination: paginationOf(page, pageSize, total)})
}

// ListLinks godoc
// @ID          listLinks
// @Summary     List ticket links (paginated)
// @Description Returns ticket links in creation order. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Orders
// @Produce     json
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListLinksResponse
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /links [get]
func (h *Handlers) ListLinks(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.svc.LinksPage(c.Request.Context(), page, pageSize)
	if err != nil {
		failWith(c, err, ErrCodeListFailed)
		return
	}
	if notModified(c, "links", total, page, pageSize) {
		return
	}
	ok(c, ListLinksResponse{Links: items, Pagination: paginationOf(page, pageSize, total)})
}

// GetRecovery godoc
// @ID          getRecovery
// @Summary     Startup replay summary
// @Tags        Log
// @Produce     json
// @Success     200  {object}  recovery.Stats
// @Router      /recovery [get]
func (h *Handlers) GetRecovery(c *gin.Context) {
	ok(c, h.svc.RecoveryStats(c.Request.Context()))
}

// GetLogStats godoc
// @ID          getLogStats
// @Summary     Event-log statistics
// @Description Available only when the event log is kept in SQLite.
// @Tags        Log
// @Produce     json
// @Success     200  {object}  repo.LogStats
// @Failure     404  {object}  handlers.ErrorResponse "Not available for this log backend"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /log/stats [get]
func (h *Handlers) GetLogStats(c *gin.Context) {
	st, err := h.svc.LogStats(c.Request.Context())
	if err != nil {
		failWith(c, err, ErrCodeStatsFailed)
		return
	}
	ok(c, st)
}

// ListLogEntries godoc
// @ID          listLogEntries
// @Summary     Raw event-log rows (paginated)
// @Description Available only when the event log is kept in SQLite. Rows are ordered by sequence.
// @Tags        Log
// @Produce     json
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListLogEntriesResponse
// @Failure     404  {object}  handlers.ErrorResponse "Not available for this log backend"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /log/entries [get]
func (h *Handlers) ListLogEntries(c *gin.Context) {
	page, pageSize := clampPagination(c)
	rows, err := h.svc.LogEntriesPage(c.Request.Context(), page, pageSize)
	if err != nil {
		failWith(c, err, ErrCodeListFailed)
		return
	}
	ok(c, ListLogEntriesResponse{Entries: rows, Page: page, Size: pageSize})
}
