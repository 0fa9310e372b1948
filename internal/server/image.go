package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreader/internal/codec"
	"github.com/hyperifyio/goreader/internal/proxy"
)

// RegisterImageRoutes registers GET /image/*token.
func RegisterImageRoutes(r *gin.Engine, d Deps) {
	r.GET("/image/*token", handleImage(d))
}

func handleImage(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		imageURL, err := codec.Decode(c.Param("token"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		img, err := d.Resolver.Resolve(c.Request.Context(), imageURL)
		if err != nil {
			status := http.StatusInternalServerError
			var perr *proxy.Error
			if errors.As(err, &perr) {
				status = perr.Kind.HTTPStatus()
			}
			log.Warn().Err(err).Str("url", imageURL).Int("status", status).Msg("image proxy error")
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		for k, vs := range img.CacheHeaders() {
			for _, v := range vs {
				c.Header(k, v)
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET")
		c.Data(http.StatusOK, img.ContentType, img.Body)
	}
}
