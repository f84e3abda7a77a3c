package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pedimenu/pedimenu-backend/internal/config"
	"github.com/pedimenu/pedimenu-backend/internal/geo"
	"github.com/pedimenu/pedimenu-backend/internal/logger"
	"github.com/pedimenu/pedimenu-backend/internal/middleware"
	"github.com/pedimenu/pedimenu-backend/internal/modules/cart"
	"github.com/pedimenu/pedimenu-backend/internal/modules/catalog"
	"github.com/pedimenu/pedimenu-backend/internal/modules/company"
	"github.com/pedimenu/pedimenu-backend/internal/modules/coupon"
	"github.com/pedimenu/pedimenu-backend/internal/modules/order"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.Env == "development"); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.L()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("failed to reach database", zap.Error(err))
	}
	log.Info("connected to database")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.RequestID)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "api_key"},
	}))

	adminGuard := middleware.APIKeyAuth(cfg.Auth.APIKeys)

	// ── Merchant settings ───────────────────────────────────
	companyRepo := company.NewPostgresRepository(db)
	companyService := company.NewService(companyRepo)
	company.NewHandler(companyService, adminGuard).RegisterRoutes(router)

	// ── Catalog & complement schemas ────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService, adminGuard).RegisterRoutes(router)

	// ── Cart & pricing ──────────────────────────────────────
	distancer := geo.NewClient(cfg.RoutingURL)
	cartRepo := cart.NewPostgresRepository(db)
	cartService := cart.NewService(cartRepo, catalogRepo, companyRepo, distancer, log)
	cart.NewHandler(cartService).RegisterRoutes(router)

	// ── Coupons ─────────────────────────────────────────────
	couponRepo := coupon.NewPostgresRepository(db)
	couponService := coupon.NewService(couponRepo)
	coupon.NewHandler(couponService, adminGuard).RegisterRoutes(router)

	// ── Orders ──────────────────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, cartRepo, catalogRepo, companyRepo, log)
	order.NewHandler(orderService, adminGuard).RegisterRoutes(router)

	// ── Start server ────────────────────────────────────────
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Info("pedimenu api listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
