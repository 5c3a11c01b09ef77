// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// MarkdownRenderer renders assistant replies as terminal markdown.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	wrap     int
}

// NewMarkdownRenderer builds a renderer for the given word wrap width
// and background. Construction failures leave the renderer nil; Render
// then falls back to chroma-highlighted plain text.
func NewMarkdownRenderer(wrap int, dark bool) *MarkdownRenderer {
	styleName := "light"
	if dark {
		styleName = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styleName),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		r = nil
	}
	return &MarkdownRenderer{renderer: r, wrap: wrap}
}

// Render converts markdown to styled terminal output.
func (m *MarkdownRenderer) Render(content string) string {
	if m.renderer != nil {
		out, err := m.renderer.Render(content)
		if err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return highlightFences(content)
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightFences highlights fenced code blocks in otherwise plain
// text. Used as the fallback when glamour is unavailable.
func highlightFences(content string) string {
	lines := strings.Split(content, "\n")
	var out []string
	var code []string
	var lang string
	inFence := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				out = append(out, HighlightCode(strings.Join(code, "\n"), lang))
				code = nil
				inFence = false
			} else {
				lang = strings.TrimPrefix(trimmed, "```")
				inFence = true
			}
			continue
		}
		if inFence {
			code = append(code, line)
		} else {
			out = append(out, line)
		}
	}
	if inFence {
		out = append(out, HighlightCode(strings.Join(code, "\n"), lang))
	}
	return strings.Join(out, "\n")
}

// HighlightCode applies ANSI syntax highlighting to code.
func HighlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
