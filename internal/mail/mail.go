package mail

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/valyala/bytebufferpool"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewTemplateEngine loads the embedded notice templates.
func NewTemplateEngine() (*html.Engine, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, err
	}
	return engine, nil
}

func renderHTML(engine *html.Engine, templateName string, vars fiber.Map) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	err := engine.Render(buf, templateName, vars)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
