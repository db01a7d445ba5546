// Package web serves rule lookups over HTTP.
//
// The server exposes a small read-only JSON API for matching transactions
// and inspecting the loaded rule table. When the table is reloaded, connected
// clients are notified through server-sent events.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/robinvdvleuten/categorizer/rules"
	"github.com/robinvdvleuten/categorizer/telemetry"
)

// Resolvers hands out the resolver to serve a request with.
type Resolvers interface {
	Resolver() *rules.Resolver
}

type static struct{ r *rules.Resolver }

func (s static) Resolver() *rules.Resolver { return s.r }

// Static serves r for every request.
func Static(r *rules.Resolver) Resolvers {
	return static{r: r}
}

type Server struct {
	Port      int
	Host      string
	Version   string
	CommitSHA string

	// Logger receives request and event failures.
	Logger rules.Diagnostics

	resolvers Resolvers

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, resolvers Resolvers) *Server {
	return NewWithVersion(port, resolvers, "", "")
}

func NewWithVersion(port int, resolvers Resolvers, version, commitSHA string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		Logger:     rules.NopDiagnostics,
		resolvers:  resolvers,
		sseClients: make(map[chan string]struct{}),
	}
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))

	if s.resolvers == nil || s.resolvers.Resolver() == nil {
		timer.End()
		return fmt.Errorf("rule table is required")
	}

	setupTimer := timer.Child("web.setup_router")
	mux := s.setupRouter()
	setupTimer.End()
	timer.End()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/match", s.handleGetMatch)
		r.Post("/match", s.handlePostMatch)
		r.Get("/rules", s.handleGetRules)
		r.Get("/version", s.handleGetVersion)
		r.Get("/events", s.handleSSE)
	})

	return r
}

// logRequests reports every request to the debug log once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.Logger.Debugf("%s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(), time.Since(start),
				middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}

// NotifyReload tells connected clients that the rule table was reloaded, or
// that reloading failed and the previous table is still served.
func (s *Server) NotifyReload(err error) {
	if err != nil {
		s.Logger.Warnf("rule reload failed: %v", err)
		s.broadcast("reload-failed")
		return
	}
	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip
		}
	}
}
