package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/approval"
	approvaldomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/approval/domain"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit"
	auditdomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit/domain"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/billing"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/config"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/rate"
	ratedomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/rate/domain"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/registry"
	registrydomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/registry/domain"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/scheduler"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	rate.Module,
	registry.Module,
	approval.Module,
	billing.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	genID       *snowflake.Node
	approvalSvc approvaldomain.Service
	auditSvc    auditdomain.Service
	rateSvc     ratedomain.Service
	registrySvc registrydomain.Service
	scheduler   *scheduler.Scheduler
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	GenID       *snowflake.Node
	ApprovalSvc approvaldomain.Service
	AuditSvc    auditdomain.Service
	RateSvc     ratedomain.Service
	RegistrySvc registrydomain.Service
	Scheduler   *scheduler.Scheduler `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		genID:       p.GenID,
		approvalSvc: p.ApprovalSvc,
		auditSvc:    p.AuditSvc,
		rateSvc:     p.RateSvc,
		registrySvc: p.RegistrySvc,
		scheduler:   p.Scheduler,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(ActorMiddleware())

	api.POST("/approval-requests", s.createApprovalRequest)
	api.GET("/approval-requests", s.listApprovalRequests)
	api.GET("/approval-requests/:id", s.getApprovalRequest)
	api.POST("/approval-requests/:id/decision", s.decideApprovalRequest)

	api.GET("/parcels", s.listParcels)
	api.GET("/parcels/:upin", s.getParcel)

	api.POST("/rates", s.createRate)
	api.GET("/rates", s.listRates)

	api.GET("/audit-logs", s.listAuditLogs)

	admin := api.Group("/admin/scheduler")
	admin.GET("/status", s.schedulerStatus)
	admin.POST("/start", s.schedulerStart)
	admin.POST("/stop", s.schedulerStop)
	admin.POST("/run/:name", s.schedulerRunNow)
}
