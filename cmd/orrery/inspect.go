package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orrery-db/orrery/internal/cli/ui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [store-file]",
	Short: "Print the ownership tree of a saved store",
	Long: `Inspect reads every record in the store and renders the ownership tree
from the root marker. Retained association targets without an owner in the
store are listed separately. No generated types are needed; inspection works
on the raw records.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx, args)
		if err != nil {
			return err
		}

		recs, root, err := st.ReadAll(ctx)
		if err != nil {
			return err
		}
		logger.Debug("store read",
			zap.String("store_id", st.StoreID().String()),
			zap.Int("records", len(recs)))

		fmt.Printf("store %s (%d records)\n\n", st.StoreID(), len(recs))
		ui.RenderTree(os.Stdout, recs, root, noColor)
		return nil
	},
}
