package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferencescheduler/internal/delivery/http/controllers"
	"conferencescheduler/internal/delivery/http/middleware"
	"conferencescheduler/internal/domain"
)

// Controllers groups the handlers the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Rooms    *controllers.RoomController
	Events   *controllers.EventController
	Schedule *controllers.ScheduleController
	Session  *controllers.SessionController
}

// RouterDeps are what the router needs besides the controllers.
type RouterDeps struct {
	Logger   *slog.Logger
	Verifier domain.TokenVerifier
	Accounts middleware.AccountLookup
	Metrics  http.Handler
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(deps.Verifier, deps.Logger)
	staff := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireAccountType(deps.Accounts, deps.Logger,
			domain.AccountOrganizer, domain.AccountAdmin)(next))
	}

	// Auth and accounts
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /accounts", staff(c.Auth.CreateAccount))
	mux.HandleFunc("GET /me/schedule", auth(c.Auth.MySchedule))

	// Rooms
	mux.HandleFunc("POST /rooms", staff(c.Rooms.AddRoom))
	mux.HandleFunc("GET /rooms", auth(c.Rooms.ListRooms))
	mux.HandleFunc("GET /rooms/{room}", auth(c.Rooms.GetRoom))
	mux.HandleFunc("GET /rooms/{room}/events", auth(c.Rooms.RoomEvents))

	// Schedule reads
	mux.HandleFunc("GET /events", auth(c.Schedule.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Schedule.GetEvent))
	mux.HandleFunc("GET /events/empty", auth(c.Schedule.EmptyEvents))
	mux.HandleFunc("GET /events/attendable", auth(c.Schedule.AttendableEvents))
	mux.HandleFunc("GET /events/attendance", auth(c.Schedule.AttendanceRanking))
	mux.HandleFunc("GET /speakers/{username}/events", auth(c.Schedule.SpeakerEvents))

	// Scheduling protocols
	mux.HandleFunc("POST /events", staff(c.Events.CreateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", staff(c.Events.CancelEvent))
	mux.HandleFunc("PATCH /events/{eventID}/schedule", staff(c.Events.RescheduleEvent))
	mux.HandleFunc("PATCH /events/{eventID}/capacity", staff(c.Events.ChangeCapacity))
	mux.HandleFunc("POST /events/{eventID}/hosts", staff(c.Events.AssignHost))
	mux.HandleFunc("POST /events/{eventID}/attendees", auth(c.Events.SignUp))
	mux.HandleFunc("DELETE /events/{eventID}/attendees/me", auth(c.Events.Drop))

	// Session
	mux.HandleFunc("POST /events/import/sessionize/{sessionizeID}", staff(c.Session.ImportSessionize))
	mux.HandleFunc("POST /session/save", auth(c.Session.Save))

	// Ops
	mux.Handle("GET /metrics", deps.Metrics)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return mux
}

// Wrap applies the middleware chain. Metrics wraps the mux directly so it sees the
// matched route pattern.
func Wrap(mux *http.ServeMux, logger *slog.Logger, observer middleware.HTTPObserver, allowedOrigins []string) http.Handler {
	var h http.Handler = mux
	if observer != nil {
		h = middleware.Metrics(observer, h)
	}
	h = middleware.CORS(allowedOrigins, h)
	h = middleware.LoggingMiddleware(logger, h)
	return middleware.RequestID(h)
}
