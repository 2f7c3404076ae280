package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/meibo/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the operation handlers mounted by RegisterRoutes.
type Handlers struct {
	Auth         *auth.AuthHandler
	Registration *RegistrationHandler
	Session      *SessionHandler
	Me           *MeHandler
	Admin        *AdminHandler
	Postal       *PostalHandler
	Preferences  *PreferencesHandler
}

// RouteOptions tunes the router for a deployment.
type RouteOptions struct {
	// CORSOrigins lists the browser origins allowed to call the API with
	// credentials. Empty disables CORS.
	CORSOrigins []string
	// MaxUploadBytes caps the documents request body. Zero keeps huma's
	// default.
	MaxUploadBytes int64
}

func RegisterRoutes(r *chi.Mux, h Handlers, opts RouteOptions) huma.API {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Accept-Language"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(h.Auth.SessionMiddleware)

	// Initialize Huma API
	config := huma.DefaultConfig("Meibo API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Registration flow
	huma.Post(api, "/format", h.Registration.HandleFormat)
	huma.Post(api, "/register/validate", h.Registration.HandleValidate)
	huma.Post(api, "/register", h.Registration.HandleRegister)
	huma.Put(api, "/register/{id}/documents", h.Registration.HandleDocuments, func(o *huma.Operation) {
		if opts.MaxUploadBytes > 0 {
			o.MaxBodyBytes = opts.MaxUploadBytes
		}
	})
	huma.Post(api, "/register/{id}/account", h.Registration.HandleCreateAccount)
	huma.Get(api, "/postal/{code}", h.Postal.HandleLookup)
	huma.Get(api, "/preferences/lang", h.Preferences.HandleGetLang)
	huma.Put(api, "/preferences/lang", h.Preferences.HandleSetLang)

	// Sessions
	huma.Post(api, "/auth/admin/login", h.Session.HandleAdminLogin)
	huma.Post(api, "/auth/user/login", h.Session.HandleUserLogin)
	huma.Post(api, "/auth/logout", h.Session.HandleLogout)

	// Protected routes
	huma.Get(api, "/me/record", h.Me.HandleGetRecord, secured)
	huma.Put(api, "/me/record", h.Me.HandleUpdateRecord, secured)

	huma.Get(api, "/admin/records", h.Admin.HandleListRecords, secured)
	huma.Get(api, "/admin/records/{index}", h.Admin.HandleGetRecord, secured)
	huma.Put(api, "/admin/records/{index}", h.Admin.HandleUpdateRecord, secured)
	huma.Delete(api, "/admin/records/{index}", h.Admin.HandleDeleteRecord, secured)
	huma.Post(api, "/admin/records/delete", h.Admin.HandleDeleteRecords, secured)
	huma.Post(api, "/admin/records/export", h.Admin.HandleExport, secured)

	huma.Get(api, "/admin/accounts", h.Admin.HandleListAccounts, secured)
	huma.Put(api, "/admin/accounts/{account}/password", h.Admin.HandleResetPassword, secured)
	huma.Post(api, "/admin/accounts/{account}/lock", h.Admin.HandleToggleLock, secured)
	huma.Delete(api, "/admin/accounts/{account}", h.Admin.HandleDeleteAccount, secured)

	return api
}

func secured(o *huma.Operation) {
	o.Security = []map[string][]string{{"cookieAuth": {}}}
}
