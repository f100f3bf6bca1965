package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// registerStaticRoutes serves the web frontend from dir: "/" is index.html,
// "/login" is login.html and any other unmatched GET falls back to a file in dir.
// Unknown API paths and missing files get a JSON 404.
func registerStaticRoutes(r *gin.Engine, dir string) {
	r.GET("/", func(c *gin.Context) { serveStaticFile(c, dir, "index.html") })
	r.GET("/login", func(c *gin.Context) { serveStaticFile(c, dir, "login.html") })

	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			notFound(c)
			return
		}
		serveStaticFile(c, dir, p)
	})
}

func serveStaticFile(c *gin.Context, dir, name string) {
	if dir == "" {
		notFound(c)
		return
	}
	// Cleaning a rooted path removes any "..", keeping the lookup inside dir.
	clean := path.Clean("/" + name)
	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(clean)))
	if err != nil {
		notFound(c)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		notFound(c)
		return
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
}
