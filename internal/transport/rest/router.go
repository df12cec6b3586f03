package rest

import (
	"net/http"
	"os"

	"docquiz/internal/service"
	"docquiz/internal/transport/rest/handler"
	"docquiz/internal/transport/rest/middleware"
	"docquiz/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
	RecordService  *service.RecordService
	WSHub          *ws.Hub
	WSHandler      *ws.Handler
	MaxUploadBytes int64
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(c.SessionService, c.AuthService, c.MaxUploadBytes)
	recordHandler := handler.NewRecordHandler(c.RecordService, c.SessionService, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/quizzes", quizHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/records", recordHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/records/{id}/load", recordHandler.Load).Methods("POST", "OPTIONS")
	v1.HandleFunc("/records/{id}", recordHandler.Delete).Methods("DELETE", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/quizzes/{id}", c.WSHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session routes (require a token scoped to the session)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/quizzes/{id}", quizHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/quizzes/{id}", quizHandler.Clear).Methods("DELETE", "OPTIONS")
	sessionRoutes.HandleFunc("/quizzes/{id}/generate", quizHandler.Generate).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/quizzes/{id}/answers", quizHandler.Answer).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/quizzes/{id}/navigate", quizHandler.Navigate).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/quizzes/{id}/reset", quizHandler.Reset).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/quizzes/{id}/save", quizHandler.Save).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
