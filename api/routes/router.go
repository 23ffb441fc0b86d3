package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lodgelink/lodgelink-backend/api/controllers"
	"github.com/lodgelink/lodgelink-backend/api/middleware"
	"github.com/lodgelink/lodgelink-backend/internal/auth"
	"github.com/lodgelink/lodgelink-backend/internal/identity"
	"github.com/lodgelink/lodgelink-backend/internal/membership"
	"github.com/lodgelink/lodgelink-backend/pkg/auth/session"
	"github.com/lodgelink/lodgelink-backend/pkg/config"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	"github.com/lodgelink/lodgelink-backend/pkg/logger"
)

type rateLimitStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// NewRouter assembles the HTTP surface: health probes, the public auth
// endpoints, the authenticated identity and lodge routes, and the admin
// provisioning routes behind the super-admin gate.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cacheP controllers.Pinger,
	rateStore rateLimitStore,
	sessions session.AccessSessionChecker,
	authService auth.Service,
	identityService identity.Service,
	membershipService membership.Service,
	lodgeStore controllers.LodgeDirectoryStore,
	gatherer prometheus.Gatherer,
) http.Handler {
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
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cacheP, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/forgot-password", controllers.AuthForgotPassword(authService, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/identities/me", func(r chi.Router) {
			r.Get("/", controllers.IdentityMe(identityService, logg))
			r.Patch("/", controllers.IdentityUpdateProfile(identityService, logg))
			r.Post("/password", controllers.IdentityChangePassword(identityService, logg))
		})

		r.Get("/lodges", controllers.LodgeDirectory(lodgeStore, logg))

		r.Route("/lodges/{lodgeRef}", func(r chi.Router) {
			r.Get("/members", controllers.LodgeMembers(membershipService, logg))
			r.Get("/positions", controllers.LodgePositions(membershipService, logg))
			r.With(middleware.RequireRole(logg, enums.RoleDistrictAdmin, enums.RoleSuperAdmin)).
				Post("/transfer-admin", controllers.LodgeTransferAdmin(membershipService, logg))
		})

		r.Route("/districts/{districtID}", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, enums.RoleDistrictAdmin, enums.RoleSuperAdmin)).
				Get("/members", controllers.DistrictMembers(membershipService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(logg, enums.RoleSuperAdmin))

		r.Route("/identities", func(r chi.Router) {
			r.Post("/", controllers.AdminProvisionIdentity(identityService, logg))
			r.Delete("/{identityID}", controllers.AdminRemoveIdentity(identityService, logg))
		})
	})

	return r
}
