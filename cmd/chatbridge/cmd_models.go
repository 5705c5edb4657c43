package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leofalp/chatbridge/providers/ai/liaobots"
	"github.com/leofalp/chatbridge/providers/registry"
)

func init() {
	rootCmd.AddCommand(modelsCmd, providersCmd)
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the available providers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range registry.Names() {
			marker := " "
			if name == cfg.DefaultProvider {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
		}
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List the models a provider accepts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.DefaultProvider
		if len(args) == 1 {
			name = args[0]
		}

		provider, err := newProvider(cfg, name)
		if err != nil {
			return err
		}

		if name != liaobots.ProviderName {
			for _, model := range provider.Models() {
				fmt.Fprintln(cmd.OutOrStdout(), model)
			}
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMAX LENGTH\tTOKEN LIMIT\tCONTEXT\tALIASES")
		aliases := liaobots.Aliases()
		for _, model := range provider.Models() {
			descriptor, err := liaobots.Descriptor(model)
			if err != nil {
				return err
			}
			var names []string
			for alias, target := range aliases {
				if target == model {
					names = append(names, alias)
				}
			}
			slices.Sort(names)
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%v\n",
				descriptor.ID, descriptor.Name, descriptor.MaxLength, descriptor.TokenLimit, descriptor.Context, names)
		}
		return w.Flush()
	},
}
