package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	progressKind   string
	progressOrigin string
	progressLocal  bool
)

// progressCmd lists what a kind has synced so far.
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "List the ids synced for a kind",
	Long: `Prints the remote ids already synced for a kind as a JSON array, so a
sending site can resume a run. With --local the local ids are printed instead,
as preserve-ids runs need.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, l, st, err := openStore()
		if err != nil {
			return err
		}
		defer l.Sync()

		ids, err := st.SyncedIDs(cmd.Context(), progressKind, progressOrigin, progressLocal)
		if err != nil {
			return fmt.Errorf("failed to list progress: %w", err)
		}
		l.Info("Sync progress",
			zap.String("kind", progressKind),
			zap.String("origin", progressOrigin),
			zap.Int("synced", len(ids)),
		)
		return json.NewEncoder(os.Stdout).Encode(ids)
	},
}

func init() {
	progressCmd.Flags().StringVar(&progressKind, "kind", "post", "Kind to report")
	progressCmd.Flags().StringVar(&progressOrigin, "origin", "", "Restrict to one sending site")
	progressCmd.Flags().BoolVar(&progressLocal, "local", false, "Print local ids")

	RootCmd.AddCommand(progressCmd)
}
