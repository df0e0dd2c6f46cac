package ui

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"filplus/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		return fmt.Sprintf("[INFO] [HTTP] %s %s %d %s %s\n",
			p.Method, p.Path, p.StatusCode, p.Latency.Round(time.Microsecond), p.Keys["request_id"])
	}))

	staticFS, err := fs.Sub(s.assets, "static")
	if err != nil {
		s.logger.Warn("Static files unavailable: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}
