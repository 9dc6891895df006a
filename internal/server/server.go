package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hongminglow/telecon-hub-be/internal/auth"
	"github.com/hongminglow/telecon-hub-be/internal/bank"
	"github.com/hongminglow/telecon-hub-be/internal/config"
	"github.com/hongminglow/telecon-hub-be/internal/http/handlers"
	"github.com/hongminglow/telecon-hub-be/internal/middleware"
)

// PublicPaths never require a bearer token.
var PublicPaths = []string{"/health", "/login", "/cadastro", "/pix/gerar-chave-aleatoria"}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, svc *bank.Service, log zerolog.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Handler(cfg, svc, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler builds the full middleware chain around every API route.
func Handler(cfg config.Config, svc *bank.Service, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(svc, tokenManager, log).Register(mux)
	handlers.NewAccountHandler(svc, log).Register(mux)
	handlers.NewCardHandler(svc, log).Register(mux)
	handlers.NewServicesHandler(svc, log).Register(mux)
	handlers.NewPixHandler(svc, log).Register(mux)

	var handler http.Handler = middleware.Authenticate(tokenManager, cfg.AuthRequired, PublicPaths, mux)
	handler = middleware.Logging(log, handler)
	return middleware.CORS(cfg.CORSOrigins, handler)
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
