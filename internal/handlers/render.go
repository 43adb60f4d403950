package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/inkwell-blog/appserver/types"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// safeHTML renders post bodies unescaped. Bodies are rich text authored
// exclusively by the admin.
var templateFuncs = template.FuncMap{
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
}

var pageTemplates = template.Must(
	template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))

// page is the data every template receives: the caller identity for
// nav rendering and an optional flash-style message.
type page struct {
	Identity types.Identity
	Flash    string
	Data     any
}

// renderer executes page templates and reports render failures.
type renderer struct {
	logger zerolog.Logger
}

func (rd renderer) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := pageTemplates.ExecuteTemplate(w, name, page{
		Identity: IdentityFromContext(r.Context()),
		Flash:    r.URL.Query().Get("flash"),
		Data:     data,
	})
	if err != nil {
		rd.logger.Error().Err(err).Str("template", name).Msg("render page")
	}
}

func (rd renderer) serverError(w http.ResponseWriter, r *http.Request, err error) {
	rd.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// redirectWithFlash redirects carrying a one-shot message in the query
// string; templates render it escaped.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, flash string) {
	if flash != "" {
		target += "?flash=" + url.QueryEscape(flash)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
