package display

import (
	"fmt"
	"io"

	"github.com/dmagro/solmeta/internal/explorer"
)

// MetadataFormatter prints the per-token report block.
type MetadataFormatter struct {
	md *explorer.Metadata
}

func NewMetadataFormatter(md *explorer.Metadata) *MetadataFormatter {
	return &MetadataFormatter{md: md}
}

// Format writes the report block followed by the separator line.
func (f *MetadataFormatter) Format(w io.Writer) error {
	md := f.md
	var supply uint64
	if md.Supply != nil {
		supply = *md.Supply
	}

	fmt.Fprintf(w, "\n%s\n", Bold("Token Metadata:"))
	fmt.Fprintf(w, "  Name: %s\n", or(md.Name, Unknown))
	fmt.Fprintf(w, "  Symbol: %s\n", or(md.Symbol, Unknown))
	fmt.Fprintf(w, "  Address: %s\n", or(md.Address, Unknown))
	fmt.Fprintf(w, "  Supply: %d\n", supply)
	fmt.Fprintf(w, "  Website: %s\n", or(md.Website, NotAvailable))
	fmt.Fprintf(w, "  Update Authority: %s\n", or(md.UpdateAuthority, NotAvailable))

	if md.HasDNS() {
		fmt.Fprintf(w, "  Number of DNS Records: %d\n", *md.DNSRecordCount)
		fmt.Fprintln(w, "  DNS Records:")
		for _, r := range md.DNSRecords {
			fmt.Fprintf(w, "    %s\n", r)
		}
	} else {
		fmt.Fprintf(w, "  Number of DNS Records: %s\n", Dim(NotAvailable))
	}

	_, err := fmt.Fprintln(w, Separator)
	return err
}

// FormatError writes the per-token failure line.
func FormatError(w io.Writer, token string, err error) {
	fmt.Fprintln(w, Red(fmt.Sprintf("Error fetching metadata for token %s: %v", token, err)))
}

func or(s *string, fallback string) string {
	if s == nil {
		return Dim(fallback)
	}
	return *s
}
