// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/samber/oops"

	"github.com/tasklight/tasklight/pkg/errutil"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// parseTemplates loads every page template from the embedded filesystem.
// Pages are executed by file name ("home.html", "todo.html", ...).
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, oops.Code("WEB_TEMPLATE_PARSE_FAILED").Wrap(err)
	}
	return tmpl, nil
}

// staticHandler serves the embedded static assets under /static/.
func staticHandler() (http.Handler, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, oops.Code("WEB_STATIC_FS_FAILED").Wrap(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub)), nil
}

// render executes the named template into a buffer first so a template
// error never produces a half-written response body.
func (s *Server) render(w http.ResponseWriter, status int, name string, data *pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		errutil.LogError(s.logger, "template execution failed", oops.Code("WEB_TEMPLATE_EXEC_FAILED").With("template", name).Wrap(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // client may disconnect mid-write
	w.Write(buf.Bytes())
}
