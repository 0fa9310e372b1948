package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers GET /health and the landing page.
func RegisterHealthRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "goreader is running",
			"version":   d.Version,
			"timestamp": d.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>goreader</title></head>
<body>
<h1>goreader</h1>
<p>Article extraction and image proxy service.</p>
<ul>
<li><code>POST /extract</code> with <code>{"url": "..."}</code> returns title, content, author, publish time, summary, tags and proxied images.</li>
<li><code>GET /image/&lt;token&gt;</code> serves an image through the proxy with a cache policy.</li>
<li><code>GET /health</code> reports service status.</li>
</ul>
</body>
</html>
`
