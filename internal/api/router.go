package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vendorwatch/vendorwatch/internal/api/handlers"
	"github.com/vendorwatch/vendorwatch/internal/api/middleware"
	"github.com/vendorwatch/vendorwatch/internal/audit"
	"github.com/vendorwatch/vendorwatch/internal/auth"
	"github.com/vendorwatch/vendorwatch/internal/config"
	"github.com/vendorwatch/vendorwatch/internal/org"
	"github.com/vendorwatch/vendorwatch/internal/queue"
	"github.com/vendorwatch/vendorwatch/internal/store/pg"
	"github.com/vendorwatch/vendorwatch/internal/supplier"
	"github.com/vendorwatch/vendorwatch/internal/tenant"
	"github.com/vendorwatch/vendorwatch/internal/user"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	queueClient := queue.NewClient(rt.cfg.Redis)
	supplierSvc := supplier.NewService(pg.NewSupplierStore(rt.db), queueClient)
	userSvc := user.NewService(pg.NewUserStore(rt.db))
	auditSvc := audit.NewService(pg.NewAuditStore(rt.db))
	orgSvc := org.NewService(pg.NewOrgStore(rt.db))

	issuer := auth.NewTokenIssuer(rt.cfg.Auth.JWTSecret, rt.cfg.Auth.JWTExpiry)
	authn := middleware.NewAuthenticator(issuer)
	scope := tenant.NewScope(rt.db)

	authH := handlers.NewAuthHandler(userSvc, issuer)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authH.Login)

		r.Group(func(r chi.Router) {
			r.Use(authn.Authenticate)
			r.Use(scope.Middleware)

			r.Get("/auth/me", authH.Me)
			r.Post("/auth/logout", authH.Logout)

			supplierH := handlers.NewSupplierHandler(supplierSvc)
			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", supplierH.List)
				r.Post("/", supplierH.Create)
				r.Get("/{id}", supplierH.Get)
				r.Put("/{id}", supplierH.Update)
				r.Delete("/{id}", supplierH.Delete)
			})

			userH := handlers.NewUserHandler(userSvc)
			r.Route("/users", func(r chi.Router) {
				r.Get("/", userH.List)
				r.Post("/", userH.Create)
				r.Get("/{id}", userH.Get)
				r.Put("/{id}", userH.Update)
				r.Delete("/{id}", userH.Delete)
			})

			auditH := handlers.NewAuditHandler(auditSvc)
			r.Route("/audit-logs", func(r chi.Router) {
				r.Use(middleware.RequirePermission(auth.PermAuditRead))
				r.Get("/", auditH.List)
				r.Get("/{id}", auditH.Get)
			})

			orgH := handlers.NewOrgHandler(orgSvc)
			r.Delete("/organisations/current", orgH.DeleteCurrent)
		})
	})

	return r
}
