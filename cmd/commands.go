package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fyerfyer/adder-repair/pkg/algorithm"
	"github.com/fyerfyer/adder-repair/pkg/circuit"
	"github.com/fyerfyer/adder-repair/pkg/config"
	"github.com/fyerfyer/adder-repair/pkg/metrics"
	"github.com/fyerfyer/adder-repair/pkg/utils"
)

// options holds global flags shared by every command
type options struct {
	configFile string
	verbose    bool
	logFormat  string
}

// settings loads the config file and applies flag overrides
func (o *options) settings(cmd *cobra.Command) (config.Config, *utils.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return cfg, nil, err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "adder-repair",
		Short: "Evaluate gate networks and repair swapped adder wires",
		Long: `adder-repair simulates networks of AND/OR/XOR gates and finds the
output-wire swaps that turn a broken ripple adder back into a correct one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", string(utils.FormatAuto), "Log format: auto, text or json")

	root.AddCommand(
		newEvalCmd(opts),
		newRepairCmd(opts),
		newCheckCmd(opts),
		newGenerateCmd(),
	)
	return root
}

func newEvalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a netlist and print the z word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			defer logger.Close()

			logger.Info("Parsing netlist from %s", args[0])
			n, values, err := utils.ParseNetlistFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to parse netlist: %w", err)
			}

			z, ok := circuit.ReadOutput(values, n)
			if !ok {
				return fmt.Errorf("evaluation of %s is incomplete: missing input or cycle", n.Name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), z)
			return nil
		},
	}
}

func newRepairCmd(opts *options) *cobra.Command {
	var (
		maxSwaps    int
		width       int
		outputFile  string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "repair FILE",
		Short: "Find the swapped output wires of a broken adder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			defer logger.Close()
			if cmd.Flags().Changed("max-swaps") {
				cfg.MaxSwaps = maxSwaps
			}
			if cmd.Flags().Changed("width") {
				cfg.Width = width
			}
			if metricsFile != "" {
				cfg.MetricsFile = metricsFile
			}

			n, values, err := utils.ParseNetlistFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to parse netlist: %w", err)
			}

			sm, err := metrics.NewSearchMetrics()
			if err != nil {
				return err
			}

			runID := uuid.NewString()[:8]
			r := algorithm.NewRepairer(logger.With("run_id", runID))
			r.MaxSwaps = cfg.MaxSwaps
			r.Width = cfg.Width
			r.Observer = sm

			result, err := r.Run(cmd.Context(), n)
			if err != nil {
				return fmt.Errorf("repair of %s failed: %w", n.Name, err)
			}
			sm.ObserveSearch(result.Stats.TotalTime)

			if cfg.MetricsFile != "" {
				if err := sm.WriteTextfile(cfg.MetricsFile); err != nil {
					return err
				}
			}
			if outputFile != "" {
				if err := utils.WriteNetlistFile(outputFile, values, result.Network); err != nil {
					return err
				}
				logger.Info("Wrote repaired netlist to %s", outputFile)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Joined())
			return nil
		},
	}

	cmd.Flags().IntVar(&maxSwaps, "max-swaps", algorithm.DefaultMaxSwaps, "Swap budget")
	cmd.Flags().IntVar(&width, "width", 0, "Bits per input word (0 derives it from the netlist)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the repaired netlist to this file")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Report which adder output bits verify",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			defer logger.Close()
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			n, _, err := utils.ParseNetlistFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to parse netlist: %w", err)
			}

			reports, err := algorithm.Audit(cmd.Context(), n, cfg.Width, cfg.Workers)
			if err != nil {
				return err
			}
			writeAudit(cmd.OutOrStdout(), n, reports)
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 4, "Bits checked in parallel")
	return cmd
}

// writeAudit prints one row per output bit followed by a summary
func writeAudit(w io.Writer, n *circuit.Network, reports []algorithm.BitReport) {
	fmt.Fprintf(w, "%-5s %-6s %-6s %s\n", "BIT", "WIRE", "STATUS", "CONE")
	for _, r := range reports {
		status := "ok"
		switch {
		case !r.Present:
			status = "absent"
		case !r.Pass:
			status = "FAIL"
		}
		fmt.Fprintf(w, "%-5d %-6s %-6s %d\n", r.Bit, r.Wire, status, r.Cone)
	}

	bad := algorithm.FailingBits(reports)
	if levels, ok := circuit.Levels(n); ok {
		fmt.Fprintf(w, "depth: %d\n", circuit.MaxLevel(levels))
	} else {
		fmt.Fprintln(w, "depth: cyclic")
	}
	if len(bad) == 0 {
		fmt.Fprintln(w, "all bits verified")
		return
	}
	parts := make([]string, len(bad))
	for i, b := range bad {
		parts[i] = fmt.Sprint(b)
	}
	fmt.Fprintf(w, "failing bits: %s\n", strings.Join(parts, ","))
}

func newGenerateCmd() *cobra.Command {
	var (
		width      int
		x, y       uint64
		swaps      []string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a ripple adder netlist, optionally with swapped wires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || width > 63 {
				return fmt.Errorf("width must be between 1 and 63, got %d", width)
			}
			n := circuit.RippleAdder(width)
			for _, s := range swaps {
				a, b, err := utils.ParseSwap(s)
				if err != nil {
					return err
				}
				if err := n.Swap(a, b); err != nil {
					return fmt.Errorf("cannot apply swap %s: %w", s, err)
				}
			}
			values := circuit.Merge(
				circuit.Word(circuit.XPrefix, width, x),
				circuit.Word(circuit.YPrefix, width, y),
			)

			if outputFile == "" {
				return utils.WriteNetlist(cmd.OutOrStdout(), values, n)
			}
			return utils.WriteNetlistFile(outputFile, values, n)
		},
	}

	cmd.Flags().IntVar(&width, "width", 8, "Bits per input word")
	cmd.Flags().Uint64Var(&x, "x", 0, "Value of the x word")
	cmd.Flags().Uint64Var(&y, "y", 0, "Value of the y word")
	cmd.Flags().StringArrayVar(&swaps, "swap", nil, "Swap two output wires (a,b); repeatable")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
