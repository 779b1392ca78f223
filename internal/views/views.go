// Package views embeds the HTML templates of the catalog pages.
package views

import (
	"embed"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gofiber/template/html/v2"
)

// Layout wraps every page.
const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

// NewEngine returns a Fiber view engine serving the embedded templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err) // the directory is embedded at compile time
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("number", func(f float64) string {
		return strconv.FormatFloat(f, 'f', -1, 64)
	})
	return engine
}
