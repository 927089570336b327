package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"katydid-common-idgen/internal/config"
	"katydid-common-idgen/pkg/idgen/core"
	"katydid-common-idgen/pkg/idgen/domain"
	"katydid-common-idgen/pkg/idgen/registry"
)

// Server HTTP ID发号服务
type Server struct {
	cfg      config.ServerConfig
	defaults config.GeneratorConfig
	registry *registry.Registry
	logger   *zap.Logger
	promReg  *prometheus.Registry
	metrics  *metrics
	engine   *gin.Engine
}

// New 创建HTTP服务
func New(cfg *config.Config, r *registry.Registry, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)

	promReg := prometheus.NewRegistry()
	s := &Server{
		cfg:      cfg.Server,
		defaults: cfg.Generator,
		registry: r,
		logger:   logger,
		promReg:  promReg,
		metrics:  initMetrics(promReg, r),
		engine:   gin.New(),
	}
	s.routes()
	return s
}

// Handler 返回HTTP处理器
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), s.observe())

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{})))

	v1 := s.engine.Group("/v1/ids")
	v1.GET("/next", s.handleNext)
	v1.GET("/batch", s.handleBatch)
	v1.GET("/:id", s.handleParse)
}

// Run 启动服务，ctx取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 3 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("HTTP server started", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// errIdentityNotAllowed 请求的身份不在配置的白名单中
var errIdentityNotAllowed = errors.New("identity not allowed")

// identityQuery 可选的身份覆盖
// 说明：同一身份只能由一个节点使用，配置generator.allowed_identities限制可覆盖的范围
type identityQuery struct {
	WorkerID     *int64 `form:"worker_id" binding:"omitempty,min=0,max=31"`
	DataCenterID *int64 `form:"datacenter_id" binding:"omitempty,min=0,max=7"`
}

type batchQuery struct {
	identityQuery
	Count int `form:"count" binding:"required,min=1"`
}

type nextResponse struct {
	ID           domain.ID `json:"id"`
	WorkerID     int64     `json:"worker_id"`
	DataCenterID int64     `json:"data_center_id"`
}

type batchResponse struct {
	IDs          domain.IDSlice `json:"ids"`
	WorkerID     int64          `json:"worker_id"`
	DataCenterID int64          `json:"data_center_id"`
}

// resolve 请求未指定时使用配置中的默认身份
func (s *Server) resolve(q identityQuery) (int64, int64, error) {
	workerID, dataCenterID := s.defaults.WorkerID, s.defaults.DataCenterID
	if q.WorkerID != nil {
		workerID = *q.WorkerID
	}
	if q.DataCenterID != nil {
		dataCenterID = *q.DataCenterID
	}
	if !s.defaults.Allows(workerID, dataCenterID) {
		return 0, 0, fmt.Errorf("%w: worker=%d,datacenter=%d",
			errIdentityNotAllowed, workerID, dataCenterID)
	}
	return workerID, dataCenterID, nil
}

func (s *Server) handleNext(c *gin.Context) {
	var q identityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err))
		return
	}

	workerID, dataCenterID, err := s.resolve(q)
	if err != nil {
		s.writeError(c, err)
		return
	}
	id, err := s.registry.Next(workerID, dataCenterID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nextResponse{
		ID:           domain.ID(id),
		WorkerID:     workerID,
		DataCenterID: dataCenterID,
	})
}

func (s *Server) handleBatch(c *gin.Context) {
	var q batchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err))
		return
	}
	if q.Count > s.cfg.MaxBatchSize {
		s.writeError(c, fmt.Errorf("%w: count %d exceeds max %d",
			core.ErrInvalidBatchSize, q.Count, s.cfg.MaxBatchSize))
		return
	}

	workerID, dataCenterID, err := s.resolve(q.identityQuery)
	if err != nil {
		s.writeError(c, err)
		return
	}
	ids, err := s.registry.NextBatch(workerID, dataCenterID, q.Count)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, batchResponse{
		IDs:          domain.FromInt64s(ids),
		WorkerID:     workerID,
		DataCenterID: dataCenterID,
	})
}

func (s *Server) handleParse(c *gin.Context) {
	id, err := domain.ParseID(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	info, err := id.Info()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// writeError 将领域错误映射为HTTP状态码
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrInvalidArgument), errors.Is(err, core.ErrInvalidSnowflakeID):
		status = http.StatusBadRequest
	case errors.Is(err, errIdentityNotAllowed):
		status = http.StatusForbidden
	case errors.Is(err, core.ErrClockMovedBackward):
		status = http.StatusServiceUnavailable
		s.logger.Error("ID generation refused", zap.Error(err))
	default:
		s.logger.Error("request failed", zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// observe 记录请求指标与访问日志
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := c.Writer.Status()
		elapsed := time.Since(start)

		s.metrics.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
		s.metrics.latency.Observe(elapsed.Seconds())
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("code", code),
			zap.Duration("elapsed", elapsed))
	}
}
