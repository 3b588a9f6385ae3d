package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-booster-bot/internal/services"
)

// errorRouter serves /err, failing with whatever err currently holds.
func errorRouter(logs *bytes.Buffer, err *error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	logger := zerolog.New(logs)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-1")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/err", func(c *gin.Context) { failWith(c, *err, ErrCodeListFailed) })
	return r
}

func TestFailWith_MapsServiceErrors(t *testing.T) {
	var logs bytes.Buffer
	var err error
	r := errorRouter(&logs, &err)

	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{services.ErrInvalidOrderID, http.StatusBadRequest, ErrCodeInvalidOrderID},
		{fmt.Errorf("lookup: %w", services.ErrOrderNotFound), http.StatusNotFound, ErrCodeNotFound},
		{services.ErrStatsUnavailable, http.StatusNotFound, ErrCodeNotFound},
	}
	for _, tc := range cases {
		err = tc.err
		w := do(r, "/err", nil)
		er := decodeErr(t, w)
		if w.Code != tc.wantStatus || er.Code != tc.wantCode || er.RequestID != "rid-1" {
			t.Fatalf("%v -> %d %+v", tc.err, w.Code, er)
		}
	}
	if logs.Len() != 0 {
		t.Fatalf("client errors must not be logged: %s", logs.String())
	}
}

func TestFailWith_HidesInternalDetail(t *testing.T) {
	var logs bytes.Buffer
	err := errors.New("database is locked: /var/lib/boosterbot/eventlog.db")
	r := errorRouter(&logs, &err)

	w := do(r, "/err", nil)
	er := decodeErr(t, w)
	if w.Code != http.StatusInternalServerError || er.Code != ErrCodeListFailed {
		t.Fatalf("got %d %+v", w.Code, er)
	}
	if strings.Contains(er.Message, "eventlog.db") {
		t.Fatalf("internal detail leaked: %q", er.Message)
	}
	if !strings.Contains(logs.String(), `"level":"error"`) || !strings.Contains(logs.String(), "database is locked") {
		t.Fatalf("expected error log with cause, got: %s", logs.String())
	}
}

func TestFail_And_Ok(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/missing", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope") })
	r.GET("/ok", func(c *gin.Context) { ok(c, gin.H{"order_id": "TD-001"}) })

	w := do(r, "/missing", nil)
	if er := decodeErr(t, w); w.Code != http.StatusNotFound || er.Message != "nope" || er.RequestID != "" {
		t.Fatalf("404 = %d %+v", w.Code, er)
	}

	w = do(r, "/ok", nil)
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || w.Code != http.StatusOK || body["order_id"] != "TD-001" {
		t.Fatalf("ok = %d %s", w.Code, w.Body.String())
	}
}
