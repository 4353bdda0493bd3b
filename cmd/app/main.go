package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dreamsaver/cmd/fx/account_fx"
	"dreamsaver/cmd/fx/config_fx"
	"dreamsaver/cmd/fx/controllers_fx"
	"dreamsaver/cmd/fx/dashboard"
	"dreamsaver/cmd/fx/db_fx"
	"dreamsaver/cmd/fx/dream_fx"
	"dreamsaver/cmd/fx/insight_fx"
	"dreamsaver/cmd/fx/mail_fx"
	"dreamsaver/cmd/fx/memcache_fx"
	"dreamsaver/cmd/fx/payment_service_fx"
	"dreamsaver/internal/api/controllers"
	"dreamsaver/internal/config"
	"dreamsaver/internal/infra"
	mem "dreamsaver/pkg/memcache"
	"dreamsaver/pkg/metrics"
	"dreamsaver/pkg/middleware"
	"dreamsaver/pkg/utils"
)

const limiterIdleTTL = 30 * time.Minute

func main() {
	app := fx.New(
		config_fx.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		dream_fx.Module,
		insight_fx.Module,
		payment_service_fx.Module,
		dashboard.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	engine *gin.Engine,
	limiter insight_fx.GenerateLimiter,
	resetLimiter account_fx.ResetLimiter,
	log *zap.Logger,
) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	stopCleanup := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			go func() {
				ticker := time.NewTicker(limiterIdleTTL)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						limiter.Cleanup(limiterIdleTTL)
						resetLimiter.Cleanup(limiterIdleTTL)
					case <-stopCleanup:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			close(stopCleanup)
			return srv.Shutdown(ctx)
		},
	})
}

type RouterParams struct {
	fx.In

	Config  *config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	Issuer  *utils.TokenIssuer
	Revoked mem.RevocationList
	Limiter insight_fx.GenerateLimiter
	Resets  account_fx.ResetLimiter

	Accounts  *controllers.AccountController
	Dreams    *controllers.DreamController
	Insights  *controllers.InsightController
	Payments  *controllers.PaymentController
	Dashboard *controllers.DashboardController
	Moods     *controllers.MoodController
}

func ProvideRouter(p RouterParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Log.Named("http")))
	r.Use(middleware.CORSMiddleware(p.Config.Stripe.FrontendURL))

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := infra.Ping(ctx, p.DB); err != nil {
			utils.RespondError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		utils.RespondSuccess(c, gin.H{"status": "ok"}, "healthy")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/moods", p.Moods.ListMoodsHandler)

	auth := middleware.JWTAuthMiddleware(p.Issuer, p.Revoked)

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/signup", p.Accounts.Signup)
	accountGroup.POST("/login", p.Accounts.Login)
	accountGroup.POST("/forgot-password", p.Resets.Handler(), p.Accounts.ForgotPassword)
	accountGroup.POST("/reset-password", p.Resets.Handler(), p.Accounts.ResetPassword)
	accountGroup.POST("/logout", auth, p.Accounts.Logout)
	accountGroup.GET("/me", auth, p.Accounts.Me)

	r.GET("/dashboard", auth, p.Dashboard.GetDashboard)

	dreamGroup := r.Group("/dreams", auth)
	dreamGroup.POST("", p.Dreams.CreateDream)
	dreamGroup.GET("", p.Dreams.ListDreams)
	dreamGroup.GET("/:id", p.Dreams.GetDream)
	dreamGroup.GET("/:id/similar", p.Dreams.SimilarDreams)

	insightGroup := r.Group("/insights", auth)
	insightGroup.POST("/generate", p.Limiter.Handler(), p.Insights.GenerateInsight)

	paymentGroup := r.Group("/payments")
	paymentGroup.POST("/checkout", auth, p.Payments.CreateCheckout)
	paymentGroup.POST("/portal", auth, p.Payments.CreatePortal)
	paymentGroup.POST("/webhook", p.Payments.HandleWebhook)
}
