// Package server implements the scoring service over HTTP: it picks
// questions with spaced repetition, evaluates answers, and records progress
// in the store.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/mathcraft/internal/scoring"
	"github.com/abhisek/mathcraft/internal/spacedrep"
	"github.com/abhisek/mathcraft/internal/store"
)

// RecentSessionLimit is how many sessions the dashboard lists.
const RecentSessionLimit = 5

// Options holds the dependencies for a Server.
type Options struct {
	Users     store.UserRepo
	Questions store.QuestionRepo
	Progress  store.ProgressRepo
	Sessions  store.SessionRepo
	Events    store.EventRepo

	// Picker chooses questions; nil uses a randomly seeded picker.
	Picker *spacedrep.Picker

	// Now is the time source; nil uses time.Now.
	Now func() time.Time

	// Logger receives request and error logs; nil logs to stderr.
	Logger *log.Logger
}

// OptionsFromStore wires every repository from st.
func OptionsFromStore(st *store.Store) Options {
	return Options{
		Users:     st.UserRepo(),
		Questions: st.QuestionRepo(),
		Progress:  st.ProgressRepo(),
		Sessions:  st.SessionRepo(),
		Events:    st.EventRepo(),
	}
}

// Server is the scoring service HTTP handler.
type Server struct {
	users     store.UserRepo
	questions store.QuestionRepo
	progress  store.ProgressRepo
	sessions  store.SessionRepo
	events    store.EventRepo
	picker    *spacedrep.Picker
	now       func() time.Time
	logger    *log.Logger

	router chi.Router
}

// New creates a Server and registers its routes.
func New(opts Options) *Server {
	s := &Server{
		users:     opts.Users,
		questions: opts.Questions,
		progress:  opts.Progress,
		sessions:  opts.Sessions,
		events:    opts.Events,
		picker:    opts.Picker,
		now:       opts.Now,
		logger:    opts.Logger,
	}
	if s.picker == nil {
		s.picker = spacedrep.NewPicker(nil)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = log.New(os.Stderr, "mathcraft: ", log.LstdFlags)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(apiVersion)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.learner)
		r.Post("/start-session", s.startSession)
		r.Post("/end-session", s.endSession)
		r.Get("/stats", s.stats)
		r.Get("/get-question", s.getQuestion)
		r.Post("/submit-answer", s.submitAnswer)
		r.Get("/dashboard", s.dashboard)
		r.Get("/mistakes", s.mistakes)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves s on cfg.Addr until ctx is cancelled, then shuts
// down gracefully within cfg.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, cfg Config) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Printf("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

type learnerKey struct{}

// learner resolves the learner named by the UserHeader, creating the
// profile on first use, and stores it in the request context.
func (s *Server) learner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get(scoring.UserHeader)
		if name == "" {
			name = scoring.DefaultUser
		}
		if !scoring.ValidUsername(name) {
			respondError(w, "Invalid username", http.StatusBadRequest)
			return
		}
		u, err := s.users.Ensure(r.Context(), name, s.now())
		if err != nil {
			s.internalError(w, "resolve learner", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), learnerKey{}, u)))
	})
}

// learnerFrom returns the learner resolved for the request.
func learnerFrom(ctx context.Context) store.UserRecord {
	u, _ := ctx.Value(learnerKey{}).(store.UserRecord)
	return u
}

// apiVersion advertises the HTTP contract version on every response.
func apiVersion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(scoring.APIVersionHeader, scoring.APIVersion)
		next.ServeHTTP(w, r)
	})
}
