// Copyright 2026 The Command Guardian Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/SNKK62/command-guardian/lib/config"
)

// Console writes styled lines to a single writer. Methods are safe for
// concurrent use; each call produces one uninterrupted write.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	prompt  lipgloss.Style
	failure lipgloss.Style
	success lipgloss.Style
}

// New returns a Console writing to out with the given color mode.
func New(out io.Writer, mode config.ColorMode) *Console {
	renderer := newRenderer(out, mode)
	return &Console{
		out:     out,
		prompt:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("1")),
		success: renderer.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// newRenderer binds a lipgloss renderer to out. SetColorProfile is
// needed for the forced modes because the renderer otherwise
// re-detects the profile from the writer.
func newRenderer(out io.Writer, mode config.ColorMode) *lipgloss.Renderer {
	switch mode {
	case config.ColorAlways:
		renderer := lipgloss.NewRenderer(out, termenv.WithProfile(termenv.ANSI))
		renderer.SetColorProfile(termenv.ANSI)
		return renderer
	case config.ColorNever:
		renderer := lipgloss.NewRenderer(out, termenv.WithProfile(termenv.Ascii))
		renderer.SetColorProfile(termenv.Ascii)
		return renderer
	default:
		return lipgloss.NewRenderer(out)
	}
}

// Blank writes an empty line.
func (c *Console) Blank() {
	c.write("\n")
}

// Line writes text unstyled, followed by a newline.
func (c *Console) Line(text string) {
	c.write(text + "\n")
}

// Prompt writes text in bold red followed by a single space and no
// newline, leaving the cursor on the prompt line for the answer.
func (c *Console) Prompt(text string) {
	c.write(c.prompt.Render(text) + " ")
}

// Error writes text in red, followed by a newline.
func (c *Console) Error(text string) {
	c.write(c.failure.Render(text) + "\n")
}

// Errorf formats and writes an error line.
func (c *Console) Errorf(format string, args ...any) {
	c.Error(fmt.Sprintf(format, args...))
}

// Success writes text in green, followed by a newline.
func (c *Console) Success(text string) {
	c.write(c.success.Render(text) + "\n")
}

// Successf formats and writes a success line.
func (c *Console) Successf(format string, args ...any) {
	c.Success(fmt.Sprintf(format, args...))
}

func (c *Console) write(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Console output is best effort: a closed stdout must not stop the
	// supervisor from waiting on its child.
	_, _ = io.WriteString(c.out, text)
}
