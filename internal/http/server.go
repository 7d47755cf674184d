// Package http exposes the ledger services as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/services"
)

// Services groups the domain services the handlers call.
type Services struct {
	Users        *services.UserService
	Transactions *services.TransactionService
	Currency     *services.CurrencyService
	Budgets      *services.BudgetService
	Goals        *services.GoalService
	Reports      *services.ReportService
}

// Options configures the HTTP server.
type Options struct {
	CORSOrigins        []string
	RateLimitPerMinute int
	// Ready backs /readyz. Nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *applog.Logger
}

// Server is the API server with its background helpers.
type Server struct {
	*http.Server
	engine  *gin.Engine
	limiter *ratelimit.Limiter
	cancel  context.CancelFunc
}

type handlers struct {
	svc    Services
	tokens *auth.Tokens
	ready  func(ctx context.Context) error
}

// NewServer wires middleware and routes. The rate limiter cleanup runs until Shutdown.
func NewServer(addr string, svc Services, tokens *auth.Tokens, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		applog.RequestLogger(opts.Logger),
		security.Headers(security.DefaultHeadersConfig()),
		cors.New(corsConfig(opts.CORSOrigins)),
		limiter.Middleware(),
	)

	h := &handlers{svc: svc, tokens: tokens, ready: opts.Ready}
	h.routes(engine)

	ctx, cancel := context.WithCancel(context.Background())
	go limiter.Run(ctx)

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		engine:  engine,
		limiter: limiter,
		cancel:  cancel,
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", applog.RequestIDHeader}
	cfg.ExposeHeaders = []string{applog.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (h *handlers) routes(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.readiness)

	api := r.Group("/api")

	user := api.Group("/user")
	user.POST("/signup", h.signup)
	user.POST("/login", h.login)

	authed := api.Group("", h.requireAuth)
	admin := authed.Group("", requireAdmin)

	admin.GET("/user", h.listUsers)
	admin.GET("/user/:id", h.getUser)
	admin.PATCH("/user/:id", h.updateUser)
	admin.DELETE("/user/:id", h.deleteUser)

	authed.POST("/transaction", h.createTransaction)
	admin.GET("/transaction", h.listTransactions)
	authed.GET("/transaction/:id", h.getTransaction)
	authed.PATCH("/transaction/:id", h.updateTransaction)
	authed.DELETE("/transaction/:id", h.deleteTransaction)
	authed.GET("/transaction/user/:userId", h.listUserTransactions)
	authed.GET("/transaction/user/:userId/label/:label", h.listLabelTransactions)
	authed.GET("/transaction/convert/:transactionId/:toCurrency", h.convertTransaction)

	authed.POST("/budget", h.createBudget)
	admin.GET("/budget", h.listBudgets)
	authed.PATCH("/budget/:id", h.updateBudget)
	authed.DELETE("/budget/:id", h.deleteBudget)
	authed.GET("/budget/user/:userId", h.listUserBudgets)
	authed.GET("/budget/monthly/:userId", h.refreshMonthlyBudget)

	authed.POST("/goal", h.createGoal)
	admin.GET("/goal", h.listGoals)
	authed.PATCH("/goal/:id", h.updateGoal)
	authed.DELETE("/goal/:id", h.deleteGoal)
	authed.GET("/goal/user/:userId", h.listUserGoals)
	authed.PUT("/goal/income/:userId", h.allocateIncome)

	authed.POST("/report", h.generateReport)
	admin.GET("/report", h.listReports)
	authed.GET("/report/user/:userId", h.listUserReports)
}

// Engine returns the gin engine, mainly for tests.
func (s *Server) Engine() http.Handler {
	return s.engine
}

// Shutdown stops accepting requests and the limiter cleanup loop.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.Server.Shutdown(ctx)
}
