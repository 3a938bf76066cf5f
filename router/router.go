package router

import (
	"database/sql"
	"net/http"
	"time"

	"bloglist/internal/auth"
	blogHandler "bloglist/internal/blog"
	blogRepository "bloglist/internal/blog/repository"
	blogService "bloglist/internal/blog/service"
	noteHandler "bloglist/internal/note"
	noteRepository "bloglist/internal/note/repository"
	noteService "bloglist/internal/note/service"
	userHandler "bloglist/internal/user"
	userRepository "bloglist/internal/user/repository"
	userService "bloglist/internal/user/service"
	"bloglist/middleware"
	"bloglist/socket"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Setup wires repositories, services and handlers onto one router.
func Setup(db *sql.DB, hub *socket.Hub, issuer *auth.Issuer, metrics *middleware.Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Handler)
	r.Use(middleware.CORSMiddleware)

	authenticate := middleware.Authenticate(issuer)

	// WebSocket
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.IdentityFrom(r.Context())
		socket.ServeWs(hub, w, r, identity.UserID)
	})
	r.With(middleware.Authenticate(issuer, middleware.AllowQueryToken())).Get("/ws", wsHandler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		state := "ok"
		if err := db.PingContext(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			state = "database unavailable"
		}
		render.Status(r, status)
		render.JSON(w, r, map[string]string{"status": state, "time": time.Now().UTC().Format(time.RFC3339)})
	})

	// REST API
	blogs := blogHandler.NewBlogHandler(blogService.NewBlogService(blogRepository.NewBlogRepository(db), hub))
	notes := noteHandler.NewNoteHandler(noteService.NewNoteService(noteRepository.NewNoteRepository(db), hub))
	users := userHandler.NewUserHandler(userService.NewUserService(userRepository.NewUserRepository(db), issuer))

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Mount("/blogs", blogs.Routes(authenticate))
		r.Mount("/notes", notes.Routes(authenticate))
		r.Mount("/users", users.Routes())
		r.Post("/login", users.Login)
	})

	return r
}
