package app

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/shoplist-backend/internal/adapter/postgres"
	productrepo "github.com/heartmarshall/shoplist-backend/internal/adapter/postgres/product"
	listrepo "github.com/heartmarshall/shoplist-backend/internal/adapter/postgres/shoppinglist"
	"github.com/heartmarshall/shoplist-backend/internal/config"
	"github.com/heartmarshall/shoplist-backend/internal/service/product"
	"github.com/heartmarshall/shoplist-backend/internal/service/shoppinglist"
	"github.com/heartmarshall/shoplist-backend/internal/transport/middleware"
	"github.com/heartmarshall/shoplist-backend/internal/transport/rest"
)

const (
	productsPath = "/api/products"
	listsPath    = "/api/shopping-lists"
)

// Router is the assembled HTTP handler together with the resources it owns.
type Router struct {
	http.Handler
	limiter *middleware.RateLimiter
}

// Close releases background resources held by the router.
func (r *Router) Close() {
	r.limiter.Stop()
}

// NewRouter wires repositories, services and handlers on top of pool.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger, clock clockwork.Clock) *Router {
	txm := postgres.NewTxManager(pool)

	products := productrepo.New(pool)
	items := listrepo.NewItemRepo(pool)
	lists := listrepo.New(pool, items)

	productSvc := product.NewService(logger, products, cfg.API.MaxPageSize)
	listSvc := shoppinglist.NewService(logger, lists, items, txm, cfg.API.MaxPageSize)

	errs := rest.NewErrorResponder(logger)

	mux := http.NewServeMux()
	rest.NewResourceHandler(productSvc, "product", errs).
		WithDefaultPageSize(cfg.API.DefaultPageSize).
		Register(mux, productsPath)
	rest.NewResourceHandler(listSvc, "shopping list", errs).
		WithDefaultPageSize(cfg.API.DefaultPageSize).
		Register(mux, listsPath)
	rest.NewHealthHandler(pool, BuildVersion(), clock).Register(mux)

	limiter := middleware.NewRateLimiter(clock, middleware.DefaultCleanupInterval)
	var limit middleware.Middleware
	if cfg.API.RateLimitPerMinute > 0 {
		limit = limiter.Limit(cfg.API.RateLimitPerMinute)
	}

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limit,
	)(mux)

	return &Router{Handler: handler, limiter: limiter}
}
