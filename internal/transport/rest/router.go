package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"opencivics/internal/service"
	"opencivics/internal/transport/rest/handler"
	"opencivics/internal/transport/rest/middleware"
	"opencivics/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	SessionService    *service.SessionService
	QuizService       *service.QuizService
	CompletionService *service.CompletionService
	ChatService       *service.ChatService
	ResourceService   *service.ResourceService
	WSHub             *ws.Hub
	AllowedOrigins    string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	quizHandler := handler.NewQuizHandler(c.QuizService, c.CompletionService)
	chatHandler := handler.NewChatHandler(c.ChatService)
	profileHandler := handler.NewProfileHandler(c.QuizService)
	resourceHandler := handler.NewResourceHandler(c.ResourceService)
	wsHandler := ws.NewHandler(c.WSHub, c.SessionService, c.ChatService)

	// Initialize middleware
	sessionMW := middleware.NewSessionMiddleware(c.SessionService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/sessions", sessionHandler.Open).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/questions", quizHandler.Questions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/resources", resourceHandler.Search).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/chat", wsHandler.ChatWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session routes (require a session token)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(sessionMW.RequireSession)

	sessionRoutes.HandleFunc("/chat", chatHandler.Message).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/quiz/start", quizHandler.Start).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/quiz/{subjectId}/responses", quizHandler.SaveResponse).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/quiz/{subjectId}/responses", quizHandler.Responses).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/quiz/{subjectId}/responses", quizHandler.Restart).Methods("DELETE", "OPTIONS")
	sessionRoutes.HandleFunc("/quiz/{subjectId}/next", quizHandler.Next).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/quiz/{subjectId}/complete", quizHandler.Complete).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/profiles/{id}", profileHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/profiles/{id}/interests", profileHandler.Interests).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/profiles/{id}/engagement", profileHandler.RecordEngagement).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
