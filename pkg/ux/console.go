// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Console prints batch progress to a single writer.
//
// Styling is applied only when the writer is an interactive terminal and
// NO_COLOR is unset, so piped output stays machine-readable. All methods are
// safe for concurrent use; lines from parallel build workers do not
// interleave mid-line.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	styled  bool
	partial bool
}

// NewConsole creates a console writing to w, auto-detecting whether w is an
// interactive terminal.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, styled: shouldStyle(w)}
}

// shouldStyle reports whether output to w should carry ANSI styling.
func shouldStyle(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Titlef prints a highlighted title line.
func (c *Console) Titlef(format string, args ...any) {
	c.line(Styles.Title, fmt.Sprintf(format, args...))
}

// Sectionf prints a section line, such as a per-program compile banner.
func (c *Console) Sectionf(format string, args ...any) {
	c.line(Styles.Subtitle, fmt.Sprintf(format, args...))
}

// Printf prints an unstyled line.
func (c *Console) Printf(format string, args ...any) {
	c.line(lipglossNop, fmt.Sprintf(format, args...))
}

// Partialf prints without a trailing newline so a later Finishf can complete
// the line, mirroring a long-running step that reports its result in place.
func (c *Console) Partialf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
	c.partial = true
}

// Finishf completes a line started by Partialf.
func (c *Console) Finishf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
	fmt.Fprintln(c.w)
	c.partial = false
}

// Successf prints a checked success line.
func (c *Console) Successf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.styled {
		msg = IconSuccess.Render() + " " + Styles.Success.Render(msg)
	} else {
		msg = string(IconSuccess) + " " + msg
	}
	c.raw(msg)
}

// Errorf prints a crossed failure line.
func (c *Console) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.styled {
		msg = IconError.Render() + " " + Styles.Error.Render(msg)
	} else {
		msg = string(IconError) + " " + msg
	}
	c.raw(msg)
}

// Verdict styles a relative-performance label for in-line display:
// "(90.91% slower)" in warning tones, "(0.00% faster)" in success tones.
func (c *Console) Verdict(label string) string {
	wrapped := "(" + label + ")"
	if !c.styled {
		return wrapped
	}
	switch {
	case strings.Contains(label, "faster"):
		return Styles.Success.Render(wrapped)
	case strings.Contains(label, "slower"):
		return Styles.Warning.Render(wrapped)
	default:
		return Styles.Muted.Render(wrapped)
	}
}

// line prints one styled line under the lock. A pending partial line is
// closed first so concurrent writers cannot glue onto it.
func (c *Console) line(style interface{ Render(...string) string }, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.partial {
		fmt.Fprintln(c.w)
		c.partial = false
	}
	if c.styled {
		msg = style.Render(msg)
	}
	fmt.Fprintln(c.w, msg)
}

// raw prints one pre-rendered line under the lock.
func (c *Console) raw(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.partial {
		fmt.Fprintln(c.w)
		c.partial = false
	}
	fmt.Fprintln(c.w, msg)
}

// lipglossNop satisfies the line renderer for unstyled output.
var lipglossNop = nopStyle{}

type nopStyle struct{}

func (nopStyle) Render(strs ...string) string { return strings.Join(strs, " ") }
