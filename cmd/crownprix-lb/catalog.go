package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spachava753/crownprix-leaderboards/internal/catalog"
	"github.com/spachava753/crownprix-leaderboards/internal/models"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the leaderboards that would be provisioned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(opts.only)
			if err != nil {
				return err
			}
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			targets, err := cat.Select(kind)
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), targets, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format (text|yaml)")

	return cmd
}

func printCatalog(w io.Writer, targets []models.Target, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(targets); err != nil {
			return fmt.Errorf("encoding catalog: %w", err)
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tVENDOR ID\tREFERENCE NAME\tDISPLAY NAME")
		for _, t := range targets {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Kind, t.VendorID, t.ReferenceName, t.DisplayName)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}
}
