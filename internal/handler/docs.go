// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/naby001/admin-panel/web"
)

// DocsHandler serves the organizer guide rendered from embedded markdown.
type DocsHandler struct {
	rd      *Renderer
	content template.HTML
}

// NewDocsHandler converts the embedded guide once at startup.
func NewDocsHandler(rd *Renderer) (*DocsHandler, error) {
	source, err := web.Docs.ReadFile("docs/organizer-guide.md")
	if err != nil {
		return nil, fmt.Errorf("reading organizer guide: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("converting organizer guide: %w", err)
	}

	// The guide ships with the binary; it is trusted content.
	return &DocsHandler{rd: rd, content: template.HTML(buf.String())}, nil
}

// Help handles GET /help.
func (h *DocsHandler) Help(w http.ResponseWriter, _ *http.Request) {
	h.rd.Render(w, "help", struct {
		Title   string
		Email   string
		Content template.HTML
	}{Title: "Help", Content: h.content})
}
