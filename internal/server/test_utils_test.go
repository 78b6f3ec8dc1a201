package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	calculationservice "github.com/smallbiznis/custoscarbon/internal/calculation/service"
	"github.com/smallbiznis/custoscarbon/internal/clock"
	factordomain "github.com/smallbiznis/custoscarbon/internal/factor/domain"
	"github.com/smallbiznis/custoscarbon/internal/observability"
	obsmetrics "github.com/smallbiznis/custoscarbon/internal/observability/metrics"
	recorddomain "github.com/smallbiznis/custoscarbon/internal/record/domain"
	recordrepository "github.com/smallbiznis/custoscarbon/internal/record/repository"
	recordservice "github.com/smallbiznis/custoscarbon/internal/record/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	server *Server
	db     *gorm.DB
	clock  *clock.FakeClock
}

func newTestEnv(t *testing.T, factors factordomain.Store) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := recordrepository.Provide()
	require.NoError(t, repo.EnsureSchema(context.Background(), db))

	fake := clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	metrics, err := obsmetrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	records := recordservice.New(recordservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		Repo:  repo,
		Clock: fake,
	})
	calculations := calculationservice.New(calculationservice.Params{
		Log:     zap.NewNop(),
		Factors: factors,
		Records: records,
		Metrics: metrics,
	})

	engine := NewEngine(observability.Config{Environment: "test"}, metrics)
	srv := NewServer(ServerParams{
		Gin:            engine,
		Factors:        factors,
		CalculationSvc: calculations,
		RecordSvc:      records,
	})

	return &testEnv{server: srv, db: db, clock: fake}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.server.Engine().ServeHTTP(w, req)
	return w
}

func (e *testEnv) countRecords(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&recorddomain.Record{}).Count(&n).Error)
	return n
}
