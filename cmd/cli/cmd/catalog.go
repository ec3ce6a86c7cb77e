package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// catalogCmd lists the category catalog
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List budget categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tNAME (ES)\tNAME (EN)\tEQUIPMENT")
		for _, c := range cat.List() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%v\n", c.Code, c.NameES, c.NameEN, c.IsEquipment)
		}
		return tw.Flush()
	},
}
