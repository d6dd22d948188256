package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

// Roles reported by the key command.
const (
	roleBase       = "base"
	roleCompetitor = "competitor"
	roleDuplicate  = "duplicate"
	roleSameAsBase = "same-as-base"
	roleDismissed  = "dismissed"
)

// NewKeyCmd creates the key command, which prints the identity key of every
// input record and whether a comparison would keep it.
func NewKeyCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print identity keys and dedup decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			req, err := readRequest(cmd, file)
			if err != nil {
				return err
			}

			view := keyView{}
			baseKey := ""
			if req.Base != nil {
				baseKey = vehicle.KeyForRow(req.Base)
				view = append(view, keyEntry{Role: roleBase, Key: baseKey, Label: req.Base.Label()})
			}
			dismissed := make(map[string]bool, len(req.Dismissed))
			for _, k := range req.DismissedKeys() {
				dismissed[k] = true
			}
			seen := map[string]bool{}
			for _, c := range req.Competitors {
				if c == nil {
					continue
				}
				k := vehicle.KeyForRow(c)
				role := roleCompetitor
				switch {
				case k == baseKey:
					role = roleSameAsBase
				case dismissed[k]:
					role = roleDismissed
				case seen[k]:
					role = roleDuplicate
				}
				seen[k] = true
				view = append(view, keyEntry{Role: role, Key: k, Label: c.Label()})
			}
			return PrintResult(cmd, cliCtx.OutputFormat, view)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input document (JSON or YAML, - for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type keyEntry struct {
	Role  string `json:"role"`
	Key   string `json:"key"`
	Label string `json:"label"`
}

type keyView []keyEntry

func (v keyView) TableHeaders() []string { return []string{"ROLE", "KEY", "LABEL"} }

func (v keyView) TableRows() [][]string {
	rows := make([][]string, len(v))
	for i, e := range v {
		rows[i] = []string{e.Role, e.Key, e.Label}
	}
	return rows
}
