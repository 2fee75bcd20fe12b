// Package display renders token reports for the terminal.
//
// Commands keep fetching and configuration separate from rendering by handing
// results to the formatters in this package.
package display

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

const (
	NotAvailable = "Not available"
	Unknown      = "Unknown"
	Separator    = "--------------------------"
)

var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
)

// Formatter writes formatted output to a writer.
type Formatter interface {
	Format(w io.Writer) error
}

// DisableColors turns off ANSI output, e.g. when writing to a file.
func DisableColors() {
	color.NoColor = true
}

// ColorLatency renders d in milliseconds: green under 300ms, yellow under 1s.
func ColorLatency(d time.Duration) string {
	ms := d.Milliseconds()
	switch {
	case ms < 300:
		return Green(fmt.Sprintf("%dms", ms))
	case ms < 1000:
		return Yellow(fmt.Sprintf("%dms", ms))
	default:
		return Red(fmt.Sprintf("%dms", ms))
	}
}
