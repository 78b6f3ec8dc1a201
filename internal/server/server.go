package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	calculationdomain "github.com/smallbiznis/custoscarbon/internal/calculation/domain"
	"github.com/smallbiznis/custoscarbon/internal/config"
	factordomain "github.com/smallbiznis/custoscarbon/internal/factor/domain"
	"github.com/smallbiznis/custoscarbon/internal/observability"
	obslogger "github.com/smallbiznis/custoscarbon/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/custoscarbon/internal/observability/metrics"
	obstracing "github.com/smallbiznis/custoscarbon/internal/observability/tracing"
	recorddomain "github.com/smallbiznis/custoscarbon/internal/record/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyError,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	factors        factordomain.Store
	calculationSvc calculationdomain.Service
	recordSvc      recorddomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Factors        factordomain.Store
	CalculationSvc calculationdomain.Service
	RecordSvc      recorddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		factors:        p.Factors,
		calculationSvc: p.CalculationSvc,
		recordSvc:      p.RecordSvc,
	}

	svc.registerRootRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRootRoutes() {
	s.engine.GET("/", s.Index)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/factors", s.ListFactors)
	api.POST("/calculate", s.Calculate)
	api.GET("/records", s.ListRecords)
}

// apiRoutes is what the index route advertises.
var apiRoutes = []string{"/api/factors", "/api/calculate", "/api/records"}

func (s *Server) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "CustosCarbon API is running",
		"routes":  apiRoutes,
	})
}
