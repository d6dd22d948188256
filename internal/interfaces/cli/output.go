package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// tableProvider is implemented by command results that render as a table.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

var numbers = message.NewPrinter(language.English)

// formatAmount renders a signed amount with thousands separators.
func formatAmount(v float64) string {
	return numbers.Sprintf("%+.0f", v)
}

// formatNumber renders an unsigned quantity with thousands separators.
func formatNumber(v float64) string {
	return numbers.Sprintf("%.0f", v)
}

// PrintResult writes data to stdout in format. Table output needs a
// tableProvider; other values fall back to JSON.
func PrintResult(cmd *cobra.Command, format string, data interface{}) error {
	switch format {
	case FormatYAML:
		return printYAML(cmd, data)
	case FormatTable:
		if tp, ok := data.(tableProvider); ok {
			fmt.Fprint(cmd.OutOrStdout(), renderTable(tp.TableHeaders(), tp.TableRows()))
			return nil
		}
	}
	return printJSON(cmd, data)
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// printYAML goes through JSON first so YAML keys match the JSON field names.
func printYAML(cmd *cobra.Command, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// renderTable renders headers and rows as aligned columns.
func renderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	seps := make([]string, len(headers))
	for i, h := range headers {
		seps[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(seps, "\t"))
	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
	return sb.String()
}
