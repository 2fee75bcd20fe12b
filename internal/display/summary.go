package display

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/solmeta/internal/explorer"
	"github.com/dmagro/solmeta/internal/stats"
)

// SummaryRow is one processed token.
type SummaryRow struct {
	Token    string
	Metadata *explorer.Metadata
	Err      error
	Elapsed  time.Duration
}

// SummaryFormatter prints a one-line-per-token table after a batch.
type SummaryFormatter struct {
	rows []SummaryRow
}

func NewSummaryFormatter(rows []SummaryRow) *SummaryFormatter {
	return &SummaryFormatter{rows: rows}
}

// Format writes the success count, the latency line and the table.
func (f *SummaryFormatter) Format(w io.Writer) error {
	var samples []time.Duration
	for _, r := range f.rows {
		if r.Err == nil {
			samples = append(samples, r.Elapsed)
		}
	}

	fmt.Fprintf(w, "\n%s %d/%d succeeded\n", Bold("Summary:"), len(samples), len(f.rows))
	if lat := stats.Summarize(samples); lat.Samples > 0 {
		fmt.Fprintf(w, "Latency: p50 %s, p95 %s, max %s\n",
			ColorLatency(lat.P50), ColorLatency(lat.P95), ColorLatency(lat.Max))
	}

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("#", "Token", "Status", "Name", "Symbol", "DNS", "Time")
	tbl.WithHeaderFormatter(headerFmt)
	tbl.WithWriter(w)

	for i, r := range f.rows {
		if r.Err != nil {
			tbl.AddRow(i+1, r.Token, Red("error"), "-", "-", "-", ColorLatency(r.Elapsed))
			continue
		}
		dns := "-"
		if r.Metadata.HasDNS() {
			dns = fmt.Sprintf("%d", *r.Metadata.DNSRecordCount)
		}
		tbl.AddRow(i+1, r.Token, Green("ok"), plain(r.Metadata.Name), plain(r.Metadata.Symbol), dns, ColorLatency(r.Elapsed))
	}

	tbl.Print()
	_, err := fmt.Fprintln(w)
	return err
}

func plain(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
