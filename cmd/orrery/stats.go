package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/orrery-db/orrery/internal/cli/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats [store-file]",
	Short: "Show record counts per type tag",
	Args:  cobra.MaximumNArgs(1),
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

		counts := make(map[string]int)
		for _, rec := range recs {
			counts[rec.Type]++
		}
		tags := make([]string, 0, len(counts))
		for tag := range counts {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		fmt.Printf("store %s, root %s\n\n", st.StoreID(), root)
		tbl := ui.NewTable(os.Stdout, []string{"TYPE", "COUNT"}, noColor)
		for _, tag := range tags {
			tbl.AddRow(tag, strconv.Itoa(counts[tag]))
		}
		tbl.Render()
		return nil
	},
}
