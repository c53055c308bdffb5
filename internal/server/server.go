package server

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quangdle/anistream/internal/auth"
	"github.com/quangdle/anistream/internal/catalog"
	"github.com/quangdle/anistream/internal/config"
	"github.com/quangdle/anistream/internal/library"
	"github.com/quangdle/anistream/internal/progress"
	"github.com/quangdle/anistream/internal/users"
)

// Server holds the router and the repositories the background jobs need.
type Server struct {
	Router   chi.Router
	Sessions *auth.SessionRepository
}

func New(cfg *config.Config, db *sql.DB) *Server {
	sessions := auth.NewSessionRepository(db)
	mw := auth.NewMiddleware(sessions)

	authHandler := auth.NewHandler(auth.NewRepo(db), sessions, cfg.SessionTTL)

	animeRepo := catalog.NewAnimeRepository(db)
	seasonRepo := catalog.NewSeasonRepository(db)
	episodeRepo := catalog.NewEpisodeRepository(db)
	sourceRepo := catalog.NewSourceRepository(db)
	animeHandler := catalog.NewHandler(animeRepo)
	seasonHandler := catalog.NewSeasonHandler(seasonRepo)
	episodeHandler := catalog.NewEpisodeHandler(episodeRepo, seasonRepo)
	sourceHandler := catalog.NewSourceHandler(sourceRepo, episodeRepo)

	libraryHandler := library.NewHandler(library.NewRepository(db))
	progressHandler := progress.NewHandler(progress.NewRepository(db))
	userHandler := users.NewHandler(users.NewRepository(db), sessions)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// public
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Get("/animes/search", animeHandler.Search)
		r.Get("/animes", animeHandler.List)
		r.Get("/animes/{id}", animeHandler.Get)
		r.Get("/animes/{animeId}/seasons", seasonHandler.ListByAnime)
		r.Get("/seasons", seasonHandler.List)
		r.Get("/seasons/{seasonId}/episodes", episodeHandler.ListBySeason)
		r.Get("/episodes/{episodeId}/video-sources", sourceHandler.ListByEpisode)
		r.Get("/genres", animeHandler.Genres)

		// signed-in users
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth)

			r.Post("/logout", authHandler.Logout)
			r.Get("/user", authHandler.CurrentUser)
			r.Patch("/user/profile", userHandler.UpdateProfile)
			r.Patch("/user/password", userHandler.UpdatePassword)
			r.Delete("/user/account", userHandler.DeleteAccount)

			r.Mount("/watchlist", libraryHandler.WatchlistRouter())
			r.Mount("/favorites", libraryHandler.FavoritesRouter())

			r.Post("/watch-progress/{episodeId}", progressHandler.Update)
			r.Get("/watch-progress/{episodeId}", progressHandler.Get)
			r.Post("/downloads/{episodeId}", progressHandler.RecordDownload)
		})

		// admins
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth)
			r.Use(mw.RequireAdmin)

			r.Post("/animes", animeHandler.Create)
			r.Put("/animes/{id}", animeHandler.Update)
			r.Delete("/animes/{id}", animeHandler.Delete)

			r.Post("/seasons", seasonHandler.Create)
			r.Put("/seasons/{id}", seasonHandler.Update)
			r.Delete("/seasons/{id}", seasonHandler.Delete)

			r.Post("/episodes", episodeHandler.Create)
			r.Put("/episodes/{id}", episodeHandler.Update)
			r.Delete("/episodes/{id}", episodeHandler.Delete)

			r.Post("/video-sources", sourceHandler.Create)
			r.Put("/video-sources/{id}", sourceHandler.Update)
			r.Delete("/video-sources/{id}", sourceHandler.Delete)

			r.Get("/users", userHandler.List)
			r.Patch("/users/{id}", userHandler.Update)
			r.Delete("/users/{id}", userHandler.Delete)

			r.Get("/user-sessions", userHandler.Sessions)
			r.Delete("/user-sessions/{id}", userHandler.DeleteSession)
		})
	})

	return &Server{Router: r, Sessions: sessions}
}

func (s *Server) Handler() http.Handler {
	return s.Router
}
