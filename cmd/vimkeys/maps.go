package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/vimkeys/internal/app"
	"github.com/dshills/vimkeys/internal/input/mode"
)

func newMapsCmd(g *globalFlags) *cobra.Command {
	var modes string

	cmd := &cobra.Command{
		Use:   "maps",
		Short: "List the mappings of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set := mode.AllModes
			if modes != "" {
				var err error
				if set, err = mode.ParseModeLetters(modes); err != nil {
					return err
				}
			}

			opts, closer, err := g.options(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()

			application, err := app.New(opts)
			if err != nil {
				return err
			}
			defer application.Close()

			out := cmd.OutOrStdout()
			found := false
			for _, mm := range set.List() {
				for _, e := range application.Table().List(mm) {
					fmt.Fprintf(out, "%s  %s\n", mm, e)
					found = true
				}
			}
			if !found {
				fmt.Fprintln(out, "No mapping found")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modes, "modes", "m", "", "mode letters to list, e.g. \"nx\"")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vimkeys %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
