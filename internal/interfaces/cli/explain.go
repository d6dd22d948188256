package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/turtacn/AutoCompare-Intelligence/internal/application/compare"
)

// NewExplainCmd creates the explain command.
func NewExplainCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "explain",
		Short:   "Explain each competitor's price gap to the base",
		Example: "  autocompare explain -f corolla.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			req, err := readRequest(cmd, file)
			if err != nil {
				return err
			}

			ctx, cancel := cliCtx.withTimeout(cmd.Context())
			defer cancel()

			exp, err := cliCtx.Service.Explain(ctx, req)
			if err != nil {
				return err
			}
			return PrintResult(cmd, cliCtx.OutputFormat, explainView{exp})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input document (JSON or YAML, - for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// explainView tabulates the waterfall of every decomposition.
type explainView struct {
	*compare.Explanation
}

func (v explainView) TableHeaders() []string {
	return []string{"COMPETITOR", "FACTOR", "AMOUNT", "CUMULATIVE"}
}

func (v explainView) TableRows() [][]string {
	keys := make([]string, 0, len(v.Waterfalls))
	for k := range v.Waterfalls {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rows [][]string
	for _, k := range keys {
		for _, b := range v.Waterfalls[k] {
			rows = append(rows, []string{k, b.Factor, formatAmount(b.Amount), formatAmount(b.End)})
		}
	}
	return rows
}
