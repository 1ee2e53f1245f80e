package cmd

import (
	"encoding/json"
	"fmt"

	"minicourse/services/content"

	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check every sibling set for gaps and duplicate positions",
		Long: `Scan every module, lesson and block sibling set and report the ones whose
positions are not exactly 1..N. Nothing is repaired.

Findings are printed as JSON. The command exits non-zero when any are found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			findings, err := rt.content.Audit(cmd.Context())
			if err != nil {
				return err
			}
			if findings == nil {
				findings = []content.Finding{}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(findings); err != nil {
				return err
			}
			if len(findings) > 0 {
				return fmt.Errorf("%d sibling sets out of order", len(findings))
			}
			return nil
		},
	}
}
