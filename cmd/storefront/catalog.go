package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greenfield-poultry/farmshop/internal/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	var (
		asYAML   bool
		category string
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the products the shop sells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			products := cat.Filter(category)
			out := cmd.OutOrStdout()

			if asYAML {
				data, err := catalog.MarshalYAML(products)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tUNIT\tAVAILABLE")
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\t%t\n", p.ID, p.Name, p.Category, p.Price, p.Unit, p.Available)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print in the catalog file format")
	cmd.Flags().StringVar(&category, "category", "", "only list one category")
	return cmd
}
