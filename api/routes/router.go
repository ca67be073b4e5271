package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/govindsingh74/amztwo/api/controllers"
	"github.com/govindsingh74/amztwo/api/middleware"
	authsvc "github.com/govindsingh74/amztwo/internal/auth"
	cartsvc "github.com/govindsingh74/amztwo/internal/cart"
	"github.com/govindsingh74/amztwo/pkg/auth/session"
	"github.com/govindsingh74/amztwo/pkg/config"
	"github.com/govindsingh74/amztwo/pkg/logger"
	"github.com/govindsingh74/amztwo/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Redis        *redis.Client
	Sessions     session.AccessSessionChecker
	AuthService  authsvc.Service
	CartRegistry *cartsvc.SessionRegistry
	Pingers      map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
			Post("/logout", controllers.AuthLogout(deps.AuthService, deps.CartRegistry, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/", controllers.CartFetch(deps.CartRegistry, logg))
		r.Delete("/", controllers.CartClear(deps.CartRegistry, logg))
		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.CartAddItem(deps.CartRegistry, logg))
			r.Patch("/{itemId}", controllers.CartUpdateItem(deps.CartRegistry, logg))
			r.Delete("/{itemId}", controllers.CartRemoveItem(deps.CartRegistry, logg))
		})
	})

	return r
}
