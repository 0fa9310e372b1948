// Package server is the HTTP front end: article extraction, the image proxy,
// health and a landing page.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreader/internal/article"
	"github.com/hyperifyio/goreader/internal/proxy"
)

// Scraper produces an Article for a URL.
type Scraper interface {
	Scrape(ctx context.Context, pageURL string) (*article.Article, error)
}

// ImageResolver fetches a decoded image URL.
type ImageResolver interface {
	Resolve(ctx context.Context, imageURL string) (*proxy.ProxyImage, error)
}

// Deps are the services the handlers call.
type Deps struct {
	Scraper  Scraper
	Resolver ImageResolver
	Links    article.LinkBuilder
	Version  string
	// Now stamps /health responses. Defaults to time.Now.
	Now func() time.Time
}

// NewRouter constructs a gin engine with every route and middleware
// registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Now == nil {
		d.Now = time.Now
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(requestLogger(), recovery(), cors())

	RegisterExtractRoutes(r, d)
	RegisterImageRoutes(r, d)
	RegisterHealthRoutes(r, d)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
	return r
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
