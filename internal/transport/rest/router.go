package rest

import (
	"log/slog"

	"github.com/frahmantamala/tenant-crm/internal/access"
	"github.com/frahmantamala/tenant-crm/internal/account"
	"github.com/frahmantamala/tenant-crm/internal/auth"
	"github.com/frahmantamala/tenant-crm/internal/businessunit"
	"github.com/frahmantamala/tenant-crm/internal/crm"
	"github.com/frahmantamala/tenant-crm/internal/observability"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/frahmantamala/tenant-crm/internal/tenant"
	"github.com/frahmantamala/tenant-crm/internal/transport/middleware"
	"github.com/frahmantamala/tenant-crm/internal/transport/swagger"
	"github.com/frahmantamala/tenant-crm/internal/user"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
)

type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	Gate         *auth.Gate
	Permission   *permission.Handler
	User         *user.Handler
	Account      *account.Handler
	BusinessUnit *businessunit.Handler
	Tenant       *tenant.Handler
	CRM          *crm.Handler
}

type Options struct {
	Origins []string
	// Metrics and Gatherer are nil when metrics are disabled.
	Metrics     *observability.Metrics
	Gatherer    prometheus.Gatherer
	MetricsPath string
	// AuthLimiter throttles login and refresh per client.
	AuthLimiter *middleware.RateLimiter
	Logger      *slog.Logger
}

func RegisterAllRoutes(router chi.Router, h Handlers, opts Options) {
	// Apply global middleware
	router.Use(middleware.CORS(opts.Origins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggingMiddleware(opts.MetricsPath, "/api/v1/ping"))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Instrument)
	}

	router.Get(swagger.SpecPath, swagger.SpecHandler())
	router.Handle("/swagger/*", swagger.Handler())
	if opts.Gatherer != nil && opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, observability.Handler(opts.Gatherer))
	}

	gate := h.Gate

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Group(func(lr chi.Router) {
				if opts.AuthLimiter != nil {
					lr.Use(opts.AuthLimiter.Middleware)
				}
				lr.Post("/login", h.Auth.Login)
				lr.Post("/refresh", h.Auth.RefreshToken)
			})
			ar.Post("/logout", h.Auth.Logout)
		})

		// Protected routes: identity first, then each route's rule
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.With(gate.Protect(auth.Require(permission.UsersRead))).Get("/users", h.User.ListUsers)

			pr.With(gate.Protect(auth.Require(permission.PermissionsRead))).Get("/permissions", h.Permission.ListCatalog)
			pr.With(gate.Protect(auth.Require(permission.PermissionsRead))).Get("/roles/{role}/permissions", h.Permission.ListRoleGrants)
			// Role grants span every tenant; the service admits only the super tier.
			pr.With(gate.Protect(auth.Require(permission.PermissionsWrite))).Put("/roles/{role}/permissions/{permission}", h.Permission.PutRoleGrant)
			pr.With(gate.Protect(auth.RequireOn(permission.PermissionsRead, access.ResourceUser))).Get("/users/{id}/permissions", h.Permission.ListUserGrants)
			pr.With(gate.Protect(auth.RequireOn(permission.PermissionsWrite, access.ResourceUser))).Put("/users/{id}/permissions/{permission}", h.Permission.PutUserGrant)

			pr.Route("/accounts", func(ar chi.Router) {
				ar.With(gate.Protect(auth.Require(permission.AccountsRead))).Get("/", h.Account.ListAccounts)
				ar.With(gate.Protect(auth.Require(permission.AccountsWrite))).Post("/", h.Account.CreateAccount)
				ar.With(gate.Protect(auth.RequireOn(permission.AccountsRead, access.ResourceAccount))).Get("/{id}", h.Account.GetAccount)
				ar.With(gate.Protect(auth.RequireOn(permission.AccountsWrite, access.ResourceAccount))).Put("/{id}", h.Account.UpdateAccount)
				ar.With(gate.Protect(auth.RequireOn(permission.AccountsDelete, access.ResourceAccount))).Delete("/{id}", h.Account.DeleteAccount)
			})

			pr.Route("/business-units", func(br chi.Router) {
				br.With(gate.Protect(auth.Require(permission.BusinessUnitsRead))).Get("/", h.BusinessUnit.ListBusinessUnits)
				br.With(gate.Protect(auth.Require(permission.BusinessUnitsWrite))).Post("/", h.BusinessUnit.CreateBusinessUnit)
				br.With(gate.Protect(auth.RequireOn(permission.BusinessUnitsRead, access.ResourceBusinessUnit))).Get("/{id}", h.BusinessUnit.GetBusinessUnit)
			})

			pr.Route("/tenants", func(tr chi.Router) {
				tr.With(gate.Protect(auth.Require(permission.TenantsRead))).Get("/", h.Tenant.ListTenants)
				tr.With(gate.Protect(auth.RequireOn(permission.TenantsRead, access.ResourceTenant))).Get("/{id}", h.Tenant.GetTenant)
			})

			pr.Route("/customers", func(cr chi.Router) {
				cr.With(gate.Protect(auth.Require(permission.CustomersRead))).Get("/", h.CRM.ListCustomers)
				cr.With(gate.Protect(auth.RequireOn(permission.CustomersRead, access.ResourceCustomer))).Get("/{id}", h.CRM.GetCustomer)
			})

			pr.Route("/deals", func(dr chi.Router) {
				dr.With(gate.Protect(auth.Require(permission.DealsRead))).Get("/", h.CRM.ListDeals)
				dr.With(gate.Protect(auth.RequireOn(permission.DealsRead, access.ResourceDeal))).Get("/{id}", h.CRM.GetDeal)
			})

			pr.Route("/tasks", func(tr chi.Router) {
				tr.With(gate.Protect(auth.Require(permission.TasksRead))).Get("/", h.CRM.ListTasks)
				tr.With(gate.Protect(auth.RequireOn(permission.TasksRead, access.ResourceTask))).Get("/{id}", h.CRM.GetTask)
			})
		})
	})
}
