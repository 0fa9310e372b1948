package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreader/internal/article"
)

type extractRequest struct {
	URL string `json:"url"`
}

type extractData struct {
	URL         string              `json:"url"`
	Platform    string              `json:"platform"`
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	Author      string              `json:"author"`
	PublishTime string              `json:"publish_time"`
	Summary     string              `json:"summary"`
	Images      []article.ImageLink `json:"images"`
	Tags        []string            `json:"tags"`
	WordCount   int                 `json:"word_count"`
	ImageCount  int                 `json:"image_count"`
}

// RegisterExtractRoutes registers POST /extract.
func RegisterExtractRoutes(r *gin.Engine, d Deps) {
	r.POST("/extract", handleExtract(d))
}

func handleExtract(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req extractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "request body must be a JSON object"})
			return
		}
		pageURL := strings.TrimSpace(req.URL)
		if pageURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "url is required"})
			return
		}

		art, err := d.Scraper.Scrape(c.Request.Context(), pageURL)
		if err != nil {
			log.Error().Err(err).Str("url", pageURL).Msg("extract failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "scrape failed: " + err.Error()})
			return
		}

		links := d.Links.Links(art)
		log.Info().Str("title", art.Title).Int("images", len(links)).Msg("extract complete")
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": extractData{
				URL:         art.URL,
				Platform:    art.Platform.String(),
				Title:       art.Title,
				Content:     art.Content,
				Author:      art.Author,
				PublishTime: art.PublishTime,
				Summary:     art.Summary,
				Images:      links,
				Tags:        art.Tags,
				WordCount:   art.WordCount,
				ImageCount:  art.ImageCount,
			},
		})
	}
}
