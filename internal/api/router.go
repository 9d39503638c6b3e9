package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/recipebook/recipebook-be/internal/api/handlers"
	"github.com/recipebook/recipebook-be/internal/auth"
	"github.com/recipebook/recipebook-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(userService services.UserServiceProvider, recipeService services.RecipeServiceProvider, eventService services.EventServiceProvider, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	eventHandler := handlers.NewEventHandler(eventService)
	authMW := auth.NewMiddleware(userService)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register/", userHandler.Register)
		r.Post("/login/", userHandler.Login)

		// Session-scoped endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Post("/logout/", userHandler.Logout)
			r.Get("/me/", userHandler.GetMe)
			r.Get("/events/", eventHandler.GetRecent)
		})

		// Recipe endpoints are open; a valid token only attributes authorship.
		r.Route("/recipes", func(r chi.Router) {
			r.Use(authMW.Optional)
			r.Get("/", recipeHandler.GetAll)
			r.Post("/", recipeHandler.Create)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", recipeHandler.Get)
				r.Patch("/", recipeHandler.Update)
				r.Delete("/", recipeHandler.Delete)
			})
		})
	})

	return r
}
