package api

import (
	"database/sql"
	"net/http"

	"github.com/careconnect/server/internal/model"
	"github.com/careconnect/server/internal/notify"
	"github.com/careconnect/server/internal/session"
	"github.com/careconnect/server/internal/watch"
)

// Deps holds the shared dependencies the routes are wired with.
type Deps struct {
	DB        *sql.DB
	JWTSecret string
	Sender    notify.Sender
	Broker    *session.Broker
	Profiles  *session.Aggregator
	Hub       *watch.Hub
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{
		DB:        deps.DB,
		JWTSecret: deps.JWTSecret,
		Sender:    deps.Sender,
		Broker:    deps.Broker,
		Profiles:  deps.Profiles,
		Hub:       deps.Hub,
	}
	wardsHandler := &WardsHandler{DB: deps.DB, Hub: deps.Hub}
	bookingsHandler := &BookingsHandler{DB: deps.DB, Hub: deps.Hub}
	donationsHandler := &DonationsHandler{DB: deps.DB, Hub: deps.Hub}
	watchHandler := &WatchHandler{Hub: deps.Hub}

	authMW := AuthMiddleware(deps.JWTSecret, deps.DB)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: account lifecycle up to a verified login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/verify-email", authHandler.VerifyEmail)
	mux.HandleFunc("POST /api/auth/verify-mobile", authHandler.VerifyMobile)
	mux.HandleFunc("POST /api/auth/resend-verification", authHandler.ResendVerification)
	mux.HandleFunc("POST /api/auth/reset-password", authHandler.ResetPassword)
	mux.HandleFunc("POST /api/auth/reset-password/confirm", authHandler.ConfirmPasswordReset)

	// Authenticated session routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))

	// Wards: read (all roles), write (admin).
	mux.Handle("GET /api/wards", authMW(http.HandlerFunc(wardsHandler.List)))
	mux.Handle("GET /api/wards/available", authMW(http.HandlerFunc(wardsHandler.Available)))
	mux.Handle("GET /api/wards/{id}", authMW(http.HandlerFunc(wardsHandler.Get)))
	mux.Handle("GET /api/wards/{id}/requirements/{meal}", authMW(http.HandlerFunc(wardsHandler.Requirements)))
	mux.Handle("POST /api/wards", authMW(requireAdmin(http.HandlerFunc(wardsHandler.Create))))
	mux.Handle("DELETE /api/wards/{id}", authMW(requireAdmin(http.HandlerFunc(wardsHandler.Delete))))
	mux.Handle("PUT /api/wards/{id}/requirements/{meal}/{item}", authMW(requireAdmin(http.HandlerFunc(wardsHandler.SetRequirement))))
	mux.Handle("DELETE /api/wards/{id}/requirements/{meal}/{item}", authMW(requireAdmin(http.HandlerFunc(wardsHandler.DeleteRequirement))))

	// Slot bookings.
	mux.Handle("POST /api/bookings", authMW(http.HandlerFunc(bookingsHandler.Create)))
	mux.Handle("GET /api/bookings/mine", authMW(http.HandlerFunc(bookingsHandler.Mine)))
	mux.Handle("GET /api/bookings", authMW(requireAdmin(http.HandlerFunc(bookingsHandler.List))))

	// Donation items: read + book (all roles), manage (admin).
	mux.Handle("GET /api/donations", authMW(http.HandlerFunc(donationsHandler.List)))
	mux.Handle("GET /api/donations/bookings/mine", authMW(http.HandlerFunc(donationsHandler.MyBookings)))
	mux.Handle("GET /api/donations/{id}", authMW(http.HandlerFunc(donationsHandler.Get)))
	mux.Handle("GET /api/donations/{id}/image", authMW(http.HandlerFunc(donationsHandler.GetImage)))
	mux.Handle("POST /api/donations/{id}/book", authMW(http.HandlerFunc(donationsHandler.Book)))
	mux.Handle("POST /api/donations", authMW(requireAdmin(http.HandlerFunc(donationsHandler.Create))))
	mux.Handle("PUT /api/donations/{id}", authMW(requireAdmin(http.HandlerFunc(donationsHandler.Update))))
	mux.Handle("PUT /api/donations/{id}/image", authMW(requireAdmin(http.HandlerFunc(donationsHandler.UploadImage))))

	// Change feed.
	mux.Handle("GET /api/watch", authMW(http.HandlerFunc(watchHandler.Serve)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}
