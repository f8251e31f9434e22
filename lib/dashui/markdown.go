// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// The guidance generator writes markdown: short paragraphs, emphasis
// on hazards, the occasional list. Rendering it as styled terminal
// text keeps the guidance pane readable instead of showing raw
// asterisks.

// markdownParserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to
// share — parsing creates per-call state via Parse(reader).
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// renderMarkdown parses markdown text and renders it as styled
// terminal output word-wrapped to the given width. Soft line breaks
// become spaces so hard-wrapped source reflows at any pane width.
func renderMarkdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force ANSI256: this output is always for the TUI, so bypass
	// profile auto-detection (which yields uncolored output when
	// there is no TTY, as in tests).
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &guidanceRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)
	return strings.TrimRight(renderer.output.String(), "\n")
}

// guidanceRenderer walks a goldmark AST and accumulates styled text.
// Inline content collects in a buffer and is word-wrapped as a unit
// when its containing block closes.
type guidanceRenderer struct {
	source      []byte
	theme       Theme
	width       int
	lipRenderer *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	// Inline style counters: emphasis nodes increment on enter and
	// decrement on leave; Text nodes read them.
	boldCount   int
	italicCount int

	listDepth int
}

func (renderer *guidanceRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := node.(type) {
	case *ast.Heading:
		if entering {
			renderer.inline.Reset()
		} else {
			heading := renderer.lipRenderer.NewStyle().
				Bold(true).
				Foreground(renderer.theme.HeaderForeground).
				Render(renderer.inline.String())
			renderer.output.WriteString(heading + "\n\n")
			renderer.inline.Reset()
		}

	case *ast.Paragraph:
		if entering {
			renderer.inline.Reset()
		} else {
			renderer.flushWrapped(renderer.listIndent())
			if renderer.listDepth == 0 {
				renderer.output.WriteString("\n")
			}
		}

	// Tight list items carry their text in a TextBlock rather than a
	// Paragraph.
	case *ast.TextBlock:
		if entering {
			renderer.inline.Reset()
		} else {
			renderer.flushWrapped(renderer.listIndent())
		}

	case *ast.List:
		if entering {
			renderer.listDepth++
		} else {
			renderer.listDepth--
			if renderer.listDepth == 0 {
				renderer.output.WriteString("\n")
			}
		}

	case *ast.ListItem:
		if entering {
			renderer.inline.Reset()
			indent := strings.Repeat("  ", renderer.listDepth-1)
			renderer.output.WriteString(indent + "• ")
		}

	case *ast.Text:
		if entering {
			renderer.writeStyledText(string(node.Segment.Value(renderer.source)))
			if node.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			}
			if node.HardLineBreak() {
				renderer.flushWrapped("")
			}
		}

	case *ast.Emphasis:
		if entering {
			if node.Level >= 2 {
				renderer.boldCount++
			} else {
				renderer.italicCount++
			}
		} else {
			if node.Level >= 2 {
				renderer.boldCount--
			} else {
				renderer.italicCount--
			}
		}

	case *ast.CodeSpan:
		if entering {
			var literal strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					literal.Write(textNode.Segment.Value(renderer.source))
				}
			}
			code := renderer.lipRenderer.NewStyle().
				Foreground(renderer.theme.CodeForeground).
				Background(renderer.theme.CodeBackground).
				Render(literal.String())
			renderer.inline.WriteString(code)
			return ast.WalkSkipChildren, nil
		}

	case *ast.FencedCodeBlock:
		if entering {
			renderer.writeCodeBlock(node)
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			renderer.writeCodeBlockLines(node)
			return ast.WalkSkipChildren, nil
		}
	}

	return ast.WalkContinue, nil
}

// writeStyledText appends text to the inline buffer with the current
// emphasis styling applied.
func (renderer *guidanceRenderer) writeStyledText(content string) {
	if content == "" {
		return
	}
	style := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.NormalText)
	if renderer.boldCount > 0 {
		style = style.Bold(true).Foreground(renderer.theme.EmphasisForeground)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	renderer.inline.WriteString(style.Render(content))
}

// listIndent returns the continuation-line prefix for the current
// list nesting level ("• " hangs off the first line only).
func (renderer *guidanceRenderer) listIndent() string {
	if renderer.listDepth == 0 {
		return ""
	}
	return strings.Repeat("  ", renderer.listDepth)
}

// flushWrapped word-wraps the inline buffer into the output.
func (renderer *guidanceRenderer) flushWrapped(prefix string) {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return
	}
	wrapped := ansi.Wrap(content, renderer.width-ansi.StringWidth(prefix), " ,.;-+|")
	for index, line := range strings.Split(wrapped, "\n") {
		if index > 0 {
			renderer.output.WriteString(prefix)
		}
		renderer.output.WriteString(line + "\n")
	}
}

// writeCodeBlock renders a fenced code block with chroma syntax
// highlighting when a language is given.
func (renderer *guidanceRenderer) writeCodeBlock(node *ast.FencedCodeBlock) {
	language := string(node.Language(renderer.source))

	var literal strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		literal.Write(segment.Value(renderer.source))
	}

	if language != "" {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, literal.String(), language, "terminal256", "monokai"); err == nil {
			renderer.writeIndented(highlighted.String())
			renderer.output.WriteString("\n")
			return
		}
	}

	style := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.CodeForeground)
	renderer.writeIndented(style.Render(strings.TrimRight(literal.String(), "\n")))
	renderer.output.WriteString("\n")
}

func (renderer *guidanceRenderer) writeCodeBlockLines(node *ast.CodeBlock) {
	var literal strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		literal.Write(segment.Value(renderer.source))
	}
	style := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.CodeForeground)
	renderer.writeIndented(style.Render(strings.TrimRight(literal.String(), "\n")))
	renderer.output.WriteString("\n")
}

// writeIndented writes a block of lines with a two-space indent.
func (renderer *guidanceRenderer) writeIndented(block string) {
	for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
		fmt.Fprintf(&renderer.output, "  %s\n", line)
	}
}
