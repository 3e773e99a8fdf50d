// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package audit

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
)

// Handler is a slog.Handler that wraps another handler and also writes WARN
// and ERROR level records to the audit log.
type Handler struct {
	inner    slog.Handler
	recorder *Recorder
	level    slog.Level
}

// NewHandler creates a Handler that tees records at WARN and above into the
// audit log while forwarding everything to the wrapped handler.
func NewHandler(inner slog.Handler, db *sql.DB) *Handler {
	return &Handler{
		inner:    inner,
		recorder: NewRecorder(db),
		level:    slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		// Background context so the row is written even when the request
		// context is already cancelled.
		_ = h.recorder.Log(context.Background(),
			slogLevelToAuditLevel(r.Level), extractCategory(r), r.Message, extractMetadata(r))
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs), recorder: h.recorder, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), recorder: h.recorder, level: h.level}
}

func slogLevelToAuditLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// extractCategory looks for a "category" attribute, falling back to a guess
// from the message text.
func extractCategory(r slog.Record) string {
	var category string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	if strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "sign-in") {
		return CategoryAuth
	}
	return CategorySystem
}

// extractMetadata collects log attributes into a small JSON object.
func extractMetadata(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			return true
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeJSON(a.Key))
		sb.WriteString(`":"`)
		sb.WriteString(escapeJSON(a.Value.String()))
		sb.WriteString(`"`)
		return true
	})
	sb.WriteString("}")
	return sb.String()
}

func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
