// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the panel's templates and documentation.
package web

import "embed"

// Templates holds the server-rendered page templates.
//
//go:embed templates/*.html
var Templates embed.FS

// Docs holds the markdown documentation served on the help page.
//
//go:embed docs/*.md
var Docs embed.FS
