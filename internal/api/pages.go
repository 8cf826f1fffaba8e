package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/osteele/liquid"

	"github.com/ignite/audience-subscribe/internal/domain"
	"github.com/ignite/audience-subscribe/internal/pkg/logger"
)

// ResultTemplate is the file name looked up in the templates directory.
const ResultTemplate = "result.liquid"

const defaultResultTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{% if result.success %}Thank you{% else %}Something went wrong{% endif %}</title>
</head>
<body>
<main>
  <p class="{% if result.success %}success{% else %}error{% endif %}">{{ result.message | escape }}</p>
  {% if back != "" %}<p><a href="{{ back | escape }}">Back</a></p>{% endif %}
</main>
</body>
</html>
`

// Pages renders the HTML result page shown to browsers that did not ask
// for JSON and did not supply a redirect.
type Pages struct {
	tpl *liquid.Template
}

// NewPages parses dir/result.liquid, falling back to the built-in page when
// dir is empty or holds no such file.
func NewPages(dir string) (*Pages, error) {
	src := defaultResultTemplate
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, ResultTemplate))
		switch {
		case err == nil:
			src = string(data)
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("api: no result template, using built-in page", "dir", dir)
		default:
			return nil, fmt.Errorf("read result template: %w", err)
		}
	}

	tpl, err := liquid.NewEngine().ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("parse result template: %w", err)
	}
	return &Pages{tpl: tpl}, nil
}

// Render writes the page for resp. back is the page the form was posted
// from, or empty.
func (p *Pages) Render(w http.ResponseWriter, status int, resp domain.Response, back string) {
	html, err := p.tpl.RenderString(map[string]any{
		"result": map[string]any{
			"action":    string(resp.Action),
			"success":   resp.Success,
			"errorCode": resp.ErrorCode,
			"message":   resp.Message,
			"values":    resp.Values,
		},
		"back": back,
	})
	if err != nil {
		logger.Error("api: render result page", "error", err.Error())
		http.Error(w, resp.Message, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}
