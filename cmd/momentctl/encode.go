package main

import (
	"fmt"
	"io"
	"os"

	"github.com/matst80/moment-finder/pkg/filter"
	"github.com/matst80/moment-finder/pkg/query"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [filter.json]",
	Short: "Convert a stored filter document to a query string",
	Long: `encode reads a filter document, in the current or the older scalar
format, from a file or stdin and prints its canonical query string.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, _ := cmd.Flags().GetString("snapshot")
		s, err := loadScope(cmd, snapshot)
		if err != nil {
			return err
		}
		var data []byte
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return err
		}

		store := filter.NewStore(s.defaults.Tiers.Values())
		store.SyncAvailable(s.series, s.defaults.Tiers.Values())
		f, err := store.LoadJSON(data, true)
		if err != nil {
			return err
		}
		if page, _ := cmd.Flags().GetInt("page"); page > 0 {
			f.CurrentPage = page
		}
		fmt.Fprintln(cmd.OutOrStdout(), query.EncodeString(f, s.defaults, s.series))
		return nil
	},
}

func init() {
	encodeCmd.Flags().String("snapshot", "", "snapshot the available series are taken from")
	encodeCmd.Flags().Int("page", 0, "page to encode, the document's page is reset")
}
