// Package report renders pipeline reports for the terminal and the API.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/hargabekas/hargabekas/pkg/pricecheck"
)

// Format selects the output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (use text, json or yaml)", s)
	}
}

// Write renders r to w in the requested format.
func Write(w io.Writer, r *pricecheck.Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(r)
	case FormatText, "":
		return writeText(w, r)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Rupiah formats a price the way listings do: "Rp 15,000,000".
func Rupiah(v int64) string {
	return "Rp " + humanize.Comma(v)
}

func writeText(w io.Writer, r *pricecheck.Report) error {
	thin := strings.Repeat("─", 72)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Query    : %s\n", r.Query)
	fmt.Fprintf(&sb, "Listings : %d raw, %d qualified, %d after outlier removal\n",
		r.RawCount, r.QualifiedCount, r.CleanedCount)

	if r.Stats.Count > 0 {
		sb.WriteString(thin + "\n")
		fmt.Fprintf(&sb, "Average  : %s\n", Rupiah(int64(r.Stats.Mean)))
		fmt.Fprintf(&sb, "Median   : %s\n", Rupiah(int64(r.Stats.Median)))
		fmt.Fprintf(&sb, "Lowest   : %s\n", Rupiah(r.Stats.Min))
		fmt.Fprintf(&sb, "Highest  : %s\n", Rupiah(r.Stats.Max))
	}

	if len(r.Listings) > 0 {
		sb.WriteString(thin + "\n")
		for _, l := range r.Listings {
			fmt.Fprintf(&sb, "%-16s %s\n", Rupiah(l.Price), truncate(l.Title, 54))
			fmt.Fprintf(&sb, "%-16s %s\n", "", l.Link)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
