package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/pkg/io"
	"github.com/matzehuels/forcelayout/pkg/metrics"
	"github.com/matzehuels/forcelayout/pkg/pipeline"
)

// layoutFlags are the layout command's own flags. Runner options set on
// the command line override the config file only when given explicitly.
type layoutFlags struct {
	output          string
	noCache         bool
	positionsOnly   bool
	visibleOnly     bool
	defaultDirected bool
	metricsFile     string
	timeout         time.Duration

	opts pipeline.Options
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout <graph.json>",
		Short: "Lay out a graph with a list of force-directed passes",
		Long: `Lay out a graph with a list of force-directed passes.

The pass list is a comma-separated sequence of Random, OpenOrd, YifanHu,
ForceAtlas, Center and Rescale. An optional ":N" suffix caps the iterations
of a pass (":D" sets the target edge length of Rescale):

  forcelayout layout graph.json -p "Random,OpenOrd,YifanHu:100,ForceAtlas:500,Center"

Unknown pass names are skipped with a warning. Results are cached by graph
content and options; use --no-cache to bypass the cache entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file (default: <input>.layout.json)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	fl.BoolVar(&f.opts.Refresh, "refresh", false, "recompute even if a cached layout exists")
	fl.BoolVar(&f.positionsOnly, "positions-only", false, "write only an id -> {x, y} map")
	fl.BoolVar(&f.visibleOnly, "visible-only", false, "leave hidden nodes out of the output")
	fl.BoolVar(&f.defaultDirected, "directed", false, "treat edges without a directed field as directed")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	fl.DurationVar(&f.timeout, "timeout", 0, "abort the run after this long (0 = no limit)")

	fl.StringVarP(&f.opts.Passes, "passes", "p", pipeline.DefaultPasses, "pass list")
	fl.Uint64Var(&f.opts.Seed, "seed", pipeline.DefaultSeed, "random seed")
	fl.IntVar(&f.opts.Workers, "workers", 0, "parallel force workers (0 = GOMAXPROCS)")
	fl.StringVar(&f.opts.Index, "index", "", "repulsion index: quadtree, grid, exact")
	fl.Float64Var(&f.opts.Theta, "theta", 0, "Barnes-Hut opening angle (0 = algorithm default)")
	fl.Float64Var(&f.opts.ReseedThreshold, "reseed-threshold", pipeline.DefaultReseedThreshold, "positional variance below which a layout is reseeded")

	return cmd
}

// flagOptions overlays explicitly set flags on the config options.
func flagOptions(cmd *cobra.Command, base, flags pipeline.Options) pipeline.Options {
	out := base
	set := cmd.Flags().Changed
	if set("passes") {
		out.Passes = flags.Passes
	}
	if set("seed") {
		out.Seed = flags.Seed
	}
	if set("workers") {
		out.Workers = flags.Workers
	}
	if set("index") {
		out.Index = flags.Index
	}
	if set("theta") {
		out.Theta = flags.Theta
	}
	if set("reseed-threshold") {
		out.ReseedThreshold = flags.ReseedThreshold
	}
	out.Refresh = flags.Refresh
	return out
}

// runLayout imports the graph, runs the passes and writes the output.
func (c *CLI) runLayout(cmd *cobra.Command, input string, f layoutFlags) error {
	ctx := cmd.Context()
	cfg, _, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := flagOptions(cmd, cfg.Options(), f.opts)
	opts.Logger = c.Logger

	textfile := f.metricsFile
	if textfile == "" {
		textfile = cfg.Metrics.Textfile
	}
	if textfile != "" {
		reg := metrics.NewRegistry(false)
		reg.Install()
		defer func() {
			if err := reg.WriteToTextfile(textfile); err != nil {
				c.Logger.Warn("metrics not written", "err", err)
			}
		}()
	}

	prog := newProgress(c.Logger)
	g, err := io.ImportJSON(input, io.ImportOptions{DefaultDirected: f.defaultDirected})
	if err != nil {
		return err
	}
	prog.done("imported graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	runner := c.newRunner(ctx, cfg.Cache, f.noCache)
	defer runner.Close()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Running %s...", opts.Passes))
	spinner.Start()
	res, err := runner.Run(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	out := outputPath(input, f.output, f.positionsOnly)
	exp := io.ExportOptions{VisibleOnly: f.visibleOnly}
	if f.positionsOnly {
		err = io.ExportPositions(g, out, exp)
	} else {
		err = io.ExportJSON(g, out, exp)
	}
	if err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Layout complete")
	printPasses(res.Passes)
	printFile(out)
	printStats(res.Stats, res.CacheHit)
	return nil
}

// outputPath derives the default output name from the input file.
func outputPath(input, output string, positionsOnly bool) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if positionsOnly {
		return base + ".positions.json"
	}
	return base + ".layout.json"
}
