package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/matst80/moment-finder/pkg/common/jsoncompat"
	"github.com/matst80/moment-finder/pkg/index"
	"github.com/matst80/moment-finder/pkg/query"
	"github.com/matst80/moment-finder/pkg/types"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <snapshot> [query]",
	Short: "Evaluate a query string against a snapshot",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScope(cmd, args[0])
		if err != nil {
			return err
		}
		raw := ""
		if len(args) > 1 {
			raw = args[1]
		}
		if exclude, _ := cmd.Flags().GetStringSlice("exclude"); len(exclude) > 0 {
			s.context.ExcludeIds = types.IdSet(exclude...)
		}
		f := query.DecodeString(raw, s.defaults)
		view := index.BuildView(cmd.Context(), s.collection, &f, s.context)

		if asJson, _ := cmd.Flags().GetBool("json"); asJson {
			data, err := jsoncompat.MarshalIndent(view, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("%s of %s moments eligible, page %d of %d\n",
			humanize.Comma(int64(len(view.Eligible()))),
			humanize.Comma(int64(s.collection.Len())),
			view.Window.Page, view.Window.Pages)
		fmt.Printf("query: %s\n\n", query.EncodeString(f, s.defaults, s.series))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, o := range view.Facets {
			values := make([]string, 0, len(o.Values))
			for _, v := range o.Values {
				mark := ""
				if v.Selected {
					mark = "*"
				}
				values = append(values, fmt.Sprintf("%s%s (%d)", mark, v.Value, v.Count))
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", o.Name, o.Total, strings.Join(values, ", "))
		}
		return w.Flush()
	},
}

func init() {
	evalCmd.Flags().Bool("json", false, "print the full view as JSON")
	evalCmd.Flags().StringSlice("exclude", nil, "moment ids that are never eligible")
}
