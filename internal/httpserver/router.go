package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"parley/internal/config"
	"parley/internal/security"
	"parley/internal/service"
	"parley/internal/store"

	_ "parley/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter constructs the main HTTP router and wires routes, services, and middleware.
func NewRouter(cfg *config.Config, repos *store.Repositories, tokens *security.TokenService, hasher *security.PasswordHasher) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// Services
	authSvc := service.NewAuthService(repos.Users, tokens, hasher)
	convSvc := service.NewConversationService(repos.Conversations, repos.Participants)
	partSvc := service.NewParticipantService(repos.Conversations, repos.Participants)
	msgSvc := service.NewMessageService(repos.Conversations, repos.Participants, repos.Messages, repos.Reactions, cfg.PageSizeDefault, cfg.PageSizeMax)
	reactSvc := service.NewReactionService(repos.Messages, repos.Reactions)
	bookSvc := service.NewBookmarkService(repos.Messages, repos.Bookmarks)
	chat := service.NewChat(convSvc, partSvc, msgSvc, reactSvc, bookSvc)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Parley API","version":"1.0.0","docs":"/docs"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"), //The url pointing to API definition
	))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Auth routes (no auth required)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handleRegister(authSvc))
			r.Post("/login", handleLogin(authSvc))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokens, authSvc))

			r.Get("/auth/me", handleMe())

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/{userID}", handleGetUser(authSvc))
			})

			// Conversations, membership, and history
			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", handleCreateConversation(chat))
				r.Get("/", handleListConversations(chat))
				r.Get("/{conversationID}", handleGetConversation(chat))
				r.Post("/{conversationID}/participants", handleAddParticipant(chat))
				r.Delete("/{conversationID}/participants/{userID}", handleRemoveParticipant(chat))
				r.Get("/{conversationID}/messages", handleListMessages(chat))
				r.Post("/{conversationID}/messages", handleSendMessage(chat))
			})

			// Per-message actions
			r.Route("/messages/{messageID}", func(r chi.Router) {
				r.Post("/reactions", handleAddReaction(chat))
				r.Delete("/reactions", handleRemoveReaction(chat))
				r.Put("/bookmark", handleAddBookmark(chat))
				r.Delete("/bookmark", handleRemoveBookmark(chat))
			})

			r.Get("/bookmarks", handleListBookmarks(chat))
		})
	})

	return r
}
