// Package api exposes the thin HTTP surface: trigger analysis for an
// existing item and read back the stored result.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/newstrader/newstrader/internal/models"
)

// Store is the read side the handlers need.
type Store interface {
	GetNewsByUUID(ctx context.Context, uuid string) (*models.News, error)
	GetArticleByID(ctx context.Context, id int64) (*models.Article, error)
	GetNewsAnalysis(ctx context.Context, uuid string) (*models.NewsAnalysis, error)
	GetArticleAnalysis(ctx context.Context, id int64) (*models.ArticleAnalysis, error)
}

// JobQueue enqueues analysis jobs. Fire-and-forget; callers only learn
// whether the enqueue itself succeeded.
type JobQueue interface {
	Publish(topic string, key string, payload interface{}) error
}

type Server struct {
	router chi.Router
	store  Store
	queue  JobQueue
}

func NewServer(store Store, queue JobQueue) *Server {
	s := &Server{
		store: store,
		queue: queue,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/news/{uuid}", func(r chi.Router) {
			r.Get("/", s.handleGetNews)
			r.Post("/analyze", s.handleAnalyzeNews)
			r.Get("/analysis", s.handleGetNewsAnalysis)
		})
		r.Route("/articles/{id}", func(r chi.Router) {
			r.Post("/analyze", s.handleAnalyzeArticle)
			r.Get("/analysis", s.handleGetArticleAnalysis)
		})
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[API] Listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("[API] Shutting down...")
		return srv.Shutdown(shutdownCtx)
	}
}
