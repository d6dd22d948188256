package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/AutoCompare-Intelligence/internal/application/compare"
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/comparison"
	"github.com/turtacn/AutoCompare-Intelligence/pkg/errors"
)

type compareOptions struct {
	file        string
	dismiss     []string
	maxSections int
	maxRows     int
	mode        string
}

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run a full comparison",
		Long: "Compare the base vehicle of the input document against its competitors.\n" +
			"Table output lists the ranked advantages for --mode; json and yaml print the\n" +
			"whole report including chart payloads.",
		Example: "  autocompare compare -f corolla.json --mode gaps\n  autocompare compare -f corolla.yaml -o json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runCompare(cmd, cliCtx, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "input document (JSON or YAML, - for stdin)")
	f.StringSliceVar(&opts.dismiss, "dismiss", nil, "identity keys to leave out (MAKE|MODEL|VERSION|YEAR)")
	f.IntVar(&opts.maxSections, "max-sections", 0, "advantage sections to keep (0 = configured default)")
	f.IntVar(&opts.maxRows, "max-rows", 0, "rows per advantage section (0 = configured default)")
	f.StringVar(&opts.mode, "mode", string(comparison.ModeGaps), "advantages to tabulate (upsides, gaps)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runCompare(cmd *cobra.Command, cliCtx *CLIContext, opts *compareOptions) error {
	mode, err := comparison.ParseMode(opts.mode)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeAdvantageModeInvalid, "invalid --mode")
	}

	req, err := readRequest(cmd, opts.file)
	if err != nil {
		return err
	}
	req.Dismissed = append(req.Dismissed, opts.dismiss...)
	if opts.maxSections > 0 {
		req.MaxSections = opts.maxSections
	}
	if opts.maxRows > 0 {
		req.MaxRows = opts.maxRows
	}

	ctx, cancel := cliCtx.withTimeout(cmd.Context())
	defer cancel()

	rep, err := cliCtx.Service.Recompute(ctx, req)
	if err != nil {
		return err
	}
	return PrintResult(cmd, cliCtx.OutputFormat, reportView{Report: rep, mode: mode})
}

// reportView tabulates the advantage sections of one mode.
type reportView struct {
	*compare.Report
	mode comparison.Mode
}

func (v reportView) TableHeaders() []string {
	return []string{"COMPETITOR", "KIND", strings.ToUpper(string(v.mode)), "DELTA"}
}

func (v reportView) TableRows() [][]string {
	sections := v.Gaps
	if v.mode == comparison.ModeUpsides {
		sections = v.Upsides
	}
	var rows [][]string
	for _, sec := range sections {
		for _, r := range sec.Rows {
			delta := ""
			if r.Kind != comparison.RowFeature {
				delta = fmt.Sprintf("%+.1f", r.Delta)
				if r.Kind == comparison.RowMetric {
					delta = formatAmount(r.Delta)
				}
			}
			rows = append(rows, []string{sec.CompetitorLabel, string(r.Kind), r.Label, delta})
		}
	}
	return rows
}
