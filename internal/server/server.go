package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/quill/internal/account"
	accountdomain "github.com/smallbiznis/quill/internal/account/domain"
	"github.com/smallbiznis/quill/internal/assistant"
	assistantdomain "github.com/smallbiznis/quill/internal/assistant/domain"
	"github.com/smallbiznis/quill/internal/auth"
	"github.com/smallbiznis/quill/internal/billing"
	billingdomain "github.com/smallbiznis/quill/internal/billing/domain"
	"github.com/smallbiznis/quill/internal/completion"
	"github.com/smallbiznis/quill/internal/config"
	"github.com/smallbiznis/quill/internal/document"
	documentdomain "github.com/smallbiznis/quill/internal/document/domain"
	"github.com/smallbiznis/quill/internal/folder"
	folderdomain "github.com/smallbiznis/quill/internal/folder/domain"
	"github.com/smallbiznis/quill/internal/notification"
	"github.com/smallbiznis/quill/internal/observability"
	obsmiddleware "github.com/smallbiznis/quill/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/quill/internal/observability/metrics"
	obstracing "github.com/smallbiznis/quill/internal/observability/tracing"
	"github.com/smallbiznis/quill/internal/providers"
	"github.com/smallbiznis/quill/internal/quota"
	quotadomain "github.com/smallbiznis/quill/internal/quota/domain"
	"github.com/smallbiznis/quill/internal/ratelimit"
	"github.com/smallbiznis/quill/internal/share"
	sharedomain "github.com/smallbiznis/quill/internal/share/domain"
	"github.com/smallbiznis/quill/internal/subscription"
	subscriptiondomain "github.com/smallbiznis/quill/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	account.Module,
	providers.Module,
	notification.Module,
	subscription.Module,
	document.Module,
	quota.Module,
	folder.Module,
	share.Module,
	completion.Module,
	assistant.Module,
	billing.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = ":3000"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", addr))
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
	engine        *gin.Engine
	cfg           config.Config
	tokens        *auth.TokenManager
	accountSvc    accountdomain.Service
	documentSvc   documentdomain.Service
	folderSvc     folderdomain.Service
	shareSvc      sharedomain.Service
	assistantSvc  assistantdomain.Service
	billingSvc    billingdomain.Service
	quota         quotadomain.Tracker
	projector     subscriptiondomain.Projector
	assistLimiter *ratelimit.AssistLimiter
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Tokens        *auth.TokenManager
	AccountSvc    accountdomain.Service
	DocumentSvc   documentdomain.Service
	FolderSvc     folderdomain.Service
	ShareSvc      sharedomain.Service
	AssistantSvc  assistantdomain.Service
	BillingSvc    billingdomain.Service
	Quota         quotadomain.Tracker
	Projector     subscriptiondomain.Projector
	AssistLimiter *ratelimit.AssistLimiter `optional:"true"`
	ObsMetrics    *obsmetrics.Metrics      `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		tokens:        p.Tokens,
		accountSvc:    p.AccountSvc,
		documentSvc:   p.DocumentSvc,
		folderSvc:     p.FolderSvc,
		shareSvc:      p.ShareSvc,
		assistantSvc:  p.AssistantSvc,
		billingSvc:    p.BillingSvc,
		quota:         p.Quota,
		projector:     p.Projector,
		assistLimiter: p.AssistLimiter,
		obsMetrics:    p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerShareRoutes()
	svc.registerPaymentRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/api/auth")

	authGroup.POST("/register", s.Register)
	authGroup.POST("/login", s.Login)
	authGroup.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Users --------
	api.GET("/users/stats", s.GetUserStats)
	api.GET("/users/subscription", s.GetUserSubscription)
	api.DELETE("/users/me", s.DeleteMe)

	// -------- Documents --------
	api.GET("/documents", s.ListDocuments)
	api.POST("/documents", s.CreateDocument)
	api.GET("/documents/:id", s.GetDocument)
	api.PUT("/documents/:id", s.UpdateDocument)
	api.DELETE("/documents/:id", s.DeleteDocument)
	api.GET("/documents/:id/export/pdf", s.ExportDocumentPDF)

	// -------- Folders --------
	api.POST("/folders", s.CreateFolder)
	api.GET("/folders/structure", s.GetFolderStructure)
	api.POST("/folders/move", s.MoveItem)
	api.PUT("/folders/:id", s.RenameFolder)
	api.DELETE("/folders/:id", s.DeleteFolder)

	// -------- AI --------
	api.POST("/ai/assist", s.AssistRateLimit(), s.Assist)
}

// Link holders are anonymous; only the owner routes need a token.
func (s *Server) registerShareRoutes() {
	shareGroup := s.engine.Group("/api/share")

	shareGroup.GET("/shared/:token", s.GetSharedDocument)
	shareGroup.PUT("/shared/:token", s.UpdateSharedDocument)

	shareGroup.POST("/:documentId", s.AuthRequired(), s.CreateShareLink)
	shareGroup.GET("/document/:documentId", s.AuthRequired(), s.ListShareLinks)
	shareGroup.DELETE("/links/:linkId", s.AuthRequired(), s.RevokeShareLink)
}

func (s *Server) registerPaymentRoutes() {
	payments := s.engine.Group("/api/payments")

	payments.POST("/webhook", s.HandleStripeWebhook)

	payments.POST("/create-checkout-session", s.AuthRequired(), s.CreateCheckoutSession)
	payments.POST("/cancel-subscription", s.AuthRequired(), s.CancelSubscription)
	payments.POST("/create-portal-session", s.AuthRequired(), s.CreatePortalSession)
}
