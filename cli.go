package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// cliOptions holds the flags shared by every command
type cliOptions struct {
	configPath  string
	verbose     bool
	inputFormat string
	out         string
	cfg         Config
}

// outputOptions holds the per-command output flags
type outputOptions struct {
	format  string
	dxfPath string
	brace   bool
}

// newRootCommand creates the root command with all subcommands registered
func newRootCommand() *cobra.Command {
	opts := &cliOptions{cfg: DefaultConfig()}

	root := &cobra.Command{
		Use:          "print-sequencer",
		Short:        "Weight and order lattice segments for spatial printing",
		Long:         `print-sequencer assigns a print priority to every segment of a 3D lattice, merges collinear chains into longer moves and walks the lattice to produce a deposition order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			if opts.configPath == "" {
				return nil
			}
			cfg, err := LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			logger.Debug("config loaded", "path", opts.configPath)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML file with tolerances and weighting parameters")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&opts.inputFormat, "input-format", "", "input format: json or geojson (default: from extension)")
	flags.StringVarP(&opts.out, "out", "o", "", "output file (default: stdout)")

	root.AddCommand(opts.weighCommand())
	root.AddCommand(opts.mergeCommand())
	root.AddCommand(opts.orderCommand())
	root.AddCommand(opts.traverseCommand())
	root.AddCommand(opts.trailCommand())
	root.AddCommand(opts.graphCommand())
	root.AddCommand(opts.serveCommand())

	return root
}

func (o *cliOptions) load(cmd *cobra.Command, path string) (*Lattice, error) {
	return LoadLattice(path, o.inputFormat, o.cfg.Tolerance, loggerFromContext(cmd.Context()))
}

func (o *cliOptions) weighCommand() *cobra.Command {
	out := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "weigh <file>",
		Short: "Assign a print weight to every segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runPipeline(cmd, args[0], StageWeigh, out)
		},
	}
	out.register(cmd, OutputJSON)
	return cmd
}

func (o *cliOptions) mergeCommand() *cobra.Command {
	out := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "merge <file>",
		Short: "Weight segments, merge collinear chains and prune redundant segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runPipeline(cmd, args[0], StageMerge, out)
		},
	}
	out.register(cmd, OutputJSON)
	return cmd
}

func (o *cliOptions) orderCommand() *cobra.Command {
	out := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "order <file>",
		Short: "Print the merged segments in ascending weight order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runPipeline(cmd, args[0], StageMerge, out)
		},
	}
	out.register(cmd, OutputTable)
	return cmd
}

func (out *outputOptions) register(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().StringVarP(&out.format, "format", "f", defaultFormat, "output format: json, geojson or table")
	cmd.Flags().StringVar(&out.dxfPath, "dxf", "", "also write a DXF drawing with one layer per weight band")
	cmd.Flags().BoolVar(&out.brace, "brace", false, "keep braces next to the verticals they connect to")
}

// runPipeline loads, processes and writes a lattice
func (o *cliOptions) runPipeline(cmd *cobra.Command, path string, stage Stage, out *outputOptions) error {
	ctx := cmd.Context()
	lattice, err := o.load(cmd, path)
	if err != nil {
		return err
	}

	cfg := o.cfg
	if out.brace {
		cfg.Order.Brace = true
	}

	result, err := Run(ctx, lattice, cfg, stage)
	if err != nil {
		return err
	}

	output := result.Output()
	segments := ExportSegments(output.Segments, output.Weights, output.Order, cfg.Tolerance)

	if out.dxfPath != "" {
		if err := SaveWeightedDXF(segments, out.dxfPath); err != nil {
			return err
		}
		loggerFromContext(ctx).Info("DXF written", "path", out.dxfPath)
	}

	switch out.format {
	case OutputJSON:
		return SaveJSON(output, o.out)
	case OutputGeoJSON:
		return SaveGeoJSON(segments, o.out)
	case OutputTable:
		printOrderTable(cmd.OutOrStdout(), fmt.Sprintf("Print order (%d segments)", len(segments)), segments, output.Order)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, out.format)
	}
}

func (o *cliOptions) traverseCommand() *cobra.Command {
	var pace string
	var svgPath string
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "traverse <file>",
		Short: "Walk the lattice depth first and report the edge visit order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			lattice, err := o.load(cmd, args[0])
			if err != nil {
				return err
			}

			cfg := o.cfg
			if cmd.Flags().Changed("pace") {
				cfg.Traverse.Pace = pace
				if _, err := cfg.PaceDuration(); err != nil {
					return err
				}
			}

			var drawing *VisitedDXF
			var visit func(VisitedEdge) error
			if out.dxfPath != "" {
				if drawing, err = NewVisitedDXF(); err != nil {
					return err
				}
				visit = drawing.Visit
			}

			graph, visited, err := TraverseLattice(ctx, lattice, cfg, visit)
			if err != nil {
				return err
			}

			if drawing != nil {
				if err := drawing.Save(out.dxfPath); err != nil {
					return err
				}
				logger.Info("DXF written", "path", out.dxfPath, "lines", drawing.Lines())
			}

			if svgPath != "" {
				svg, err := RenderSVG(ctx, TraversalDOT(graph, visited))
				if err != nil {
					return err
				}
				if err := os.WriteFile(svgPath, svg, 0644); err != nil {
					return fmt.Errorf("failed to write file: %w", err)
				}
				logger.Info("SVG written", "path", svgPath)
			}

			if out.format == OutputJSON {
				return SaveJSON(visited, o.out)
			}
			printTraversal(cmd.OutOrStdout(), "Traversal order", visited)
			return nil
		},
	}

	cmd.Flags().StringVar(&pace, "pace", "", "delay per visited edge for playback, e.g. 250ms")
	cmd.Flags().StringVar(&svgPath, "svg", "", "render the visit order to an SVG file")
	cmd.Flags().StringVar(&out.dxfPath, "dxf", "", "write visited edges to a DXF drawing on the \"visited\" layer")
	cmd.Flags().StringVarP(&out.format, "format", "f", OutputTable, "output format: json or table")
	return cmd
}

func (o *cliOptions) trailCommand() *cobra.Command {
	var timeout string
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "trail <file>",
		Short: "Find the longest continuous trail through the lattice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			lattice, err := o.load(cmd, args[0])
			if err != nil {
				return err
			}

			cfg := o.cfg
			if cmd.Flags().Changed("timeout") {
				cfg.Traverse.TrailTimeout = timeout
				if _, err := cfg.TrailTimeout(); err != nil {
					return err
				}
			}

			_, trail, err := TrailLattice(ctx, lattice, cfg)
			if err != nil {
				return err
			}

			if out.dxfPath != "" {
				drawing, err := NewVisitedDXF()
				if err != nil {
					return err
				}
				for _, edge := range trail {
					if err := drawing.Visit(edge); err != nil {
						return err
					}
				}
				if err := drawing.Save(out.dxfPath); err != nil {
					return err
				}
				loggerFromContext(ctx).Info("DXF written", "path", out.dxfPath, "lines", drawing.Lines())
			}

			if out.format == OutputJSON {
				return SaveJSON(trail, o.out)
			}
			printTraversal(cmd.OutOrStdout(), fmt.Sprintf("Longest trail (%d edges)", len(trail)), trail)
			return nil
		},
	}

	cmd.Flags().StringVar(&timeout, "timeout", "", "search budget, e.g. 5s (default from config, 20s)")
	cmd.Flags().StringVar(&out.dxfPath, "dxf", "", "write the trail to a DXF drawing on the \"visited\" layer")
	cmd.Flags().StringVarP(&out.format, "format", "f", OutputTable, "output format: json or table")
	return cmd
}

func (o *cliOptions) graphCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Summarize lattice connectivity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lattice, err := o.load(cmd, args[0])
			if err != nil {
				return err
			}

			graph := BuildGraph(lattice.Nodes, lattice.Segments, o.cfg.Tolerance, loggerFromContext(cmd.Context()))
			summary := graph.Summarize()

			if format == OutputJSON {
				return SaveJSON(summary, o.out)
			}
			printGraphSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", OutputTable, "output format: json or table")
	return cmd
}

func (o *cliOptions) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sequencing pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			server := NewServer(cfg, loggerFromContext(cmd.Context()))
			return server.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
