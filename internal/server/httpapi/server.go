// Package httpapi exposes the idea bank over HTTP with gin. Submitting an
// idea, logging in and the health and metrics endpoints are public; every
// other route needs an administrator access token.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/ideabank/internal/logging"
	"github.com/dmitrijs2005/ideabank/internal/server/metrics"
	"github.com/dmitrijs2005/ideabank/internal/server/models"
	"github.com/dmitrijs2005/ideabank/internal/server/services"
)

type Submissions interface {
	Submit(ctx context.Context, in services.NewSubmission) (*services.SubmitResult, error)
	List(ctx context.Context, f models.Filter) ([]*models.Submission, error)
	Get(ctx context.Context, id string) (*models.Submission, error)
	Update(ctx context.Context, id string, req services.UpdateRequest) (*models.Submission, error)
	Vote(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
	Document(ctx context.Context, id string) (string, []byte, error)
	Documents(ctx context.Context, id string) ([]*models.Document, error)
	Mirror(ctx context.Context, id string) (services.MirrorResult, error)
}

type Dashboard interface {
	Analytics(ctx context.Context, now time.Time) (*services.Analytics, error)
	Leaderboard(ctx context.Context, now time.Time, limit int) ([]services.LeaderboardEntry, error)
	AuthorScore(ctx context.Context, author string, now time.Time) (*services.LeaderboardEntry, error)
	TextAnalysis(ctx context.Context, limit int) (*services.TextAnalysis, error)
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Verify(token string) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	Now             func() time.Time
}

type HTTPServer struct {
	address         string
	logger          logging.Logger
	submissions     Submissions
	dashboard       Dashboard
	auth            Authenticator
	store           Pinger
	metrics         *metrics.Metrics
	corsOrigins     []string
	shutdownTimeout time.Duration
	now             func() time.Time
	engine          *gin.Engine
}

func NewHTTPServer(a string, l logging.Logger, ss Submissions, ds Dashboard, as Authenticator, store Pinger, m *metrics.Metrics, opts Options) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	if m == nil {
		m = metrics.New()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &HTTPServer{
		address:         a,
		logger:          l.With("module", "http_server"),
		submissions:     ss,
		dashboard:       ds,
		auth:            as,
		store:           store,
		metrics:         m,
		corsOrigins:     opts.CORSOrigins,
		shutdownTimeout: opts.ShutdownTimeout,
		now:             opts.Now,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the routed gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range s.corsOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(s.corsOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = s.corsOrigins
	return cfg
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors.New(s.corsConfig()))

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", s.login)
		v1.POST("/submissions", s.createSubmission)

		secured := v1.Group("")
		secured.Use(s.accessToken())

		secured.GET("/submissions", s.listSubmissions)
		secured.GET("/submissions/:id", s.getSubmission)
		secured.PATCH("/submissions/:id", s.updateSubmission)
		secured.DELETE("/submissions/:id", s.deleteSubmission)
		secured.POST("/submissions/:id/votes", s.voteSubmission)
		secured.GET("/submissions/:id/document", s.downloadDocument)
		secured.GET("/submissions/:id/documents", s.listDocuments)
		secured.POST("/submissions/:id/mirror", s.mirrorSubmission)

		secured.GET("/dashboard/analytics", s.analytics)
		secured.GET("/dashboard/leaderboard", s.leaderboard)
		secured.GET("/dashboard/authors/:author", s.authorScore)
		secured.GET("/dashboard/text", s.textAnalysis)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
