package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/troopsched/app"
	"github.com/kilianp07/troopsched/pkg/export"
)

var validateCmd = &cobra.Command{
	Use:   "validate <snapshot>",
	Short: "Check a stored week against every rule",
	Args:  cobra.ExactArgs(1),
	RunE:  validateSnapshot,
}

var scoreCmd = &cobra.Command{
	Use:   "score <snapshot>",
	Short: "Print the score breakdown of a stored week",
	Args:  cobra.ExactArgs(1),
	RunE:  scoreSnapshot,
}

func init() {
	rootCmd.AddCommand(validateCmd, scoreCmd)
}

func inspect(path string) (app.Inspection, error) {
	f, err := os.Open(path)
	if err != nil {
		return app.Inspection{}, err
	}
	defer func() { _ = f.Close() }()
	snap, err := export.ReadSnapshot(f)
	if err != nil {
		return app.Inspection{}, err
	}
	_, svc, closeFn, err := newService()
	if err != nil {
		return app.Inspection{}, err
	}
	defer closeFn()
	return svc.Inspect(snap)
}

func validateSnapshot(cmd *cobra.Command, args []string) error {
	in, err := inspect(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, v := range in.Violations {
		fmt.Fprintln(out, v.String())
	}
	fmt.Fprintf(out, "week %d: %d violations, %d hard\n", in.Week, len(in.Violations), in.HardViolations)
	if in.HardViolations > 0 {
		return fmt.Errorf("week %d has %d hard violations", in.Week, in.HardViolations)
	}
	return nil
}

func scoreSnapshot(cmd *cobra.Command, args []string) error {
	in, err := inspect(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Week  int `json:"week"`
		Score any `json:"score"`
		Staff any `json:"staff"`
	}{in.Week, in.Score, in.Staff})
}
