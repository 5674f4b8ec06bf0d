package http

import (
	"net/http"

	"github.com/swaggo/swag"
	_ "github.com/trailtony/vidhub/docs"
	"github.com/trailtony/vidhub/internal/jwt"
)

// SetupRouter creates and configures HTTP router
func SetupRouter(server *Server, jwtManager jwt.TokenManager) http.Handler {
	mux := http.NewServeMux()

	requireAuth := func(next http.Handler) http.Handler {
		return AuthMiddleware(jwtManager, next)
	}

	// Health check endpoint (no auth required)
	mux.Handle("/health", chainMiddleware(server.Health, methodMiddleware(http.MethodGet)))

	// OpenAPI documentation endpoint (no auth required)
	mux.HandleFunc("/openapi.json", chainMiddleware(serveOpenAPI, CORSMiddleware, methodMiddleware(http.MethodGet)))

	// Account routes
	mux.Handle("/accounts/register", chainMiddleware(server.Register, CORSMiddleware, methodMiddleware(http.MethodPost), RequestIDMiddleware, LoggingMiddleware, ContentTypeMiddleware))
	mux.Handle("/accounts/login", chainMiddleware(server.Login, CORSMiddleware, methodMiddleware(http.MethodPost), RequestIDMiddleware, LoggingMiddleware, ContentTypeMiddleware))
	mux.Handle("/accounts/me", chainMiddleware(server.Profile, CORSMiddleware, methodMiddleware(http.MethodGet), RequestIDMiddleware, LoggingMiddleware, requireAuth))
	mux.Handle("/accounts/logout", chainMiddleware(server.Logout, CORSMiddleware, methodMiddleware(http.MethodPost), RequestIDMiddleware, LoggingMiddleware, requireAuth))

	// Video routes
	mux.Handle("/videos", chainMiddleware(server.ListVideos, CORSMiddleware, methodMiddleware(http.MethodGet), RequestIDMiddleware, LoggingMiddleware))
	mux.Handle("/videos/upload", chainMiddleware(server.UploadVideo, CORSMiddleware, methodMiddleware(http.MethodPost), RequestIDMiddleware, LoggingMiddleware, requireAuth))
	mux.Handle("/videos/channel/{username}", chainMiddleware(server.ChannelVideos, CORSMiddleware, methodMiddleware(http.MethodGet), RequestIDMiddleware, LoggingMiddleware))
	mux.Handle("/videos/{id}", chainMiddleware(server.GetVideo, CORSMiddleware, methodMiddleware(http.MethodGet), RequestIDMiddleware, LoggingMiddleware))

	return mux
}

func serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "OpenAPI documentation not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

// chainMiddleware applies multiple middleware to a handler function
func chainMiddleware(handler http.HandlerFunc, middleware ...func(http.Handler) http.Handler) http.HandlerFunc {
	h := http.Handler(handler)
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	}
}

// methodMiddleware creates middleware that checks for specific HTTP method
func methodMiddleware(method string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				w.Header().Set("Allow", method)
				writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
