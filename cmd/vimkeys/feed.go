package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/vimkeys/internal/app"
	"github.com/dshills/vimkeys/internal/input"
)

type feedFlags struct {
	noWait   bool
	readOnly bool
	metrics  bool
}

func newFeedCmd(g *globalFlags) *cobra.Command {
	var f feedFlags

	cmd := &cobra.Command{
		Use:   "feed KEYS...",
		Short: "Dispatch keys and print the resulting commands",
		Long: `Dispatch keys written in <> notation as if typed, then print every command
that ran, the text typed in insert mode, messages and the final mode.
Several arguments are joined without spaces; use <Space> for a space.`,
		Example: `  vimkeys feed '3dw'
  vimkeys feed 'ihello<Esc>' '.'
  vimkeys --config maps.toml feed 'jk'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			application.Session().SetReadOnly(f.readOnly)

			if err := application.FeedKeys(strings.Join(args, ""), !f.noWait); err != nil {
				return err
			}
			return printSession(cmd.OutOrStdout(), application, f.metrics)
		},
	}

	cmd.Flags().BoolVar(&f.noWait, "no-wait", false, "do not wait for a pending mapping to time out")
	cmd.Flags().BoolVarP(&f.readOnly, "readonly", "R", false, "refuse commands that change text")
	cmd.Flags().BoolVar(&f.metrics, "metrics", false, "print dispatch metrics")
	return cmd
}

func printSession(w io.Writer, application *app.Application, withMetrics bool) error {
	s := application.Session()
	d := s.Dispatcher()

	for _, r := range s.Records() {
		fmt.Fprintln(w, r.String())
	}
	if text := s.Text(); text != "" {
		fmt.Fprintf(w, "text: %q\n", text)
	}
	for _, msg := range s.Messages() {
		fmt.Fprintf(w, "message: %s\n", msg)
	}
	if n := s.Bells(); n > 0 {
		fmt.Fprintf(w, "errors: %d\n", n)
	}
	fmt.Fprintf(w, "mode: %s\n", d.Mode())
	if d.Pending() {
		fmt.Fprintf(w, "pending: %s\n", d.ShowCmd())
	}

	if withMetrics {
		return printMetrics(w, application.Metrics().Snapshot())
	}
	return nil
}

// metricsReport is the printed form of a metrics snapshot.
type metricsReport struct {
	Keys             uint64 `yaml:"keys"`
	Commands         uint64 `yaml:"commands"`
	BadCommands      uint64 `yaml:"bad_commands"`
	MappingsApplied  uint64 `yaml:"mappings_applied"`
	SequenceTimeouts uint64 `yaml:"sequence_timeouts"`
	RecursionLimits  uint64 `yaml:"recursion_limits"`
	AvgKeyLatency    string `yaml:"avg_key_latency"`
	P99KeyLatency    string `yaml:"p99_key_latency"`
}

func printMetrics(w io.Writer, snap input.MetricsSnapshot) error {
	fmt.Fprintln(w, "metrics:")
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(map[string]metricsReport{"dispatch": {
		Keys:             snap.KeysTotal,
		Commands:         snap.CommandsTotal,
		BadCommands:      snap.BadCommands,
		MappingsApplied:  snap.MappingsApplied,
		SequenceTimeouts: snap.SequenceTimeouts,
		RecursionLimits:  snap.RecursionLimits,
		AvgKeyLatency:    snap.AvgKeyLatency.String(),
		P99KeyLatency:    snap.P99KeyLatency.String(),
	}})
}
