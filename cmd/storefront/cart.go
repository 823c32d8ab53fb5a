package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greenfield-poultry/farmshop/internal/cart"
	"github.com/greenfield-poultry/farmshop/internal/checkout"
	"github.com/greenfield-poultry/farmshop/internal/storage"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect or reset a visitor's stored cart",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show SESSION_ID",
			Short: "Print the cart stored for a session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCart(cmd.Context(), args[0], func(c *cart.Cart) error {
					return printCart(cmd.OutOrStdout(), c, a.cfg.Pricing())
				})
			},
		},
		&cobra.Command{
			Use:   "clear SESSION_ID",
			Short: "Empty the cart stored for a session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCart(cmd.Context(), args[0], func(c *cart.Cart) error {
					c.Clear(cmd.Context())
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", c.Key())
					return err
				})
			},
		},
	)
	return cmd
}

func (a *app) withCart(ctx context.Context, sessionID string, fn func(*cart.Cart) error) error {
	store, err := storage.Open(ctx, a.cfg.StorageOptions())
	if err != nil {
		return err
	}
	defer store.Close()
	c, err := cart.Load(ctx, store, cart.Key(sessionID))
	if err != nil {
		return err
	}
	return fn(c)
}

func printCart(w io.Writer, c *cart.Cart, pricing checkout.Pricing) error {
	items := c.Items()
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "cart is empty")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t%.2f\n", it.ID, it.Name, it.Price, it.Quantity, it.Subtotal())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	s := checkout.Summarize(items, pricing)
	_, err := fmt.Fprintf(w, "\nitems: %d\nsubtotal: %s %s\ndelivery: %s %s\ntotal: %s %s\n",
		c.ItemCount(), s.Currency, s.Subtotal, s.Currency, s.DeliveryFee, s.Currency, s.Total)
	return err
}
