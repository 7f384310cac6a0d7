package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/drip_planner/internal/catalog"
	"github.com/LeonardoBeccarini/drip_planner/internal/hydraulics"
	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
	"github.com/LeonardoBeccarini/drip_planner/internal/services/planner"
)

type opts struct {
	// line
	length     float64
	elbows     int
	tees       int
	straights  int
	catalog    string
	asJSON     bool
	remote     string
	project    string
	rpcTimeout time.Duration

	// planters
	outlets int
	flows   []float64

	// continuous
	flow     float64
	drippers map[string]int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o opts

	root := &cobra.Command{
		Use:   "dripplan",
		Short: "Size a garden drip irrigation line",
		Long: `dripplan picks the main pipe for a drip irrigation run, resolves the
emitters feeding each planter and computes the inlet pressure needed to keep
at least 1.0 bar at the far end.

Examples:
  dripplan planters --length 30 --outlets 3 --flows 2,6,2.5 --elbows 2
  dripplan continuous --length 40 --drippers 2.0=30,4.0=15 --tees 1
  dripplan continuous --length 40 --flow 120 --remote localhost:50051`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.Float64VarP(&o.length, "length", "l", messages.DefaultLengthM, "run length in metres")
	pf.IntVar(&o.elbows, "elbows", 0, "elbows on the main line")
	pf.IntVar(&o.tees, "tees", 0, "tees on the main line")
	pf.IntVar(&o.straights, "straights", 0, "straight couplers on the main line")
	pf.StringVar(&o.catalog, "catalog", "", "YAML pipe catalog (default: builtin)")
	pf.BoolVar(&o.asJSON, "json", false, "print the full result as JSON")
	pf.StringVar(&o.remote, "remote", "", "compute on a planner service at host:port (gRPC)")
	pf.StringVar(&o.project, "project", "", "project id sent to the remote planner")
	pf.DurationVar(&o.rpcTimeout, "timeout", 5*time.Second, "remote call timeout")

	planters := &cobra.Command{
		Use:   "planters",
		Short: "Main line feeding discrete planters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := o.base(entities.ModePlanters)
			req.NumOutlets = o.outlets
			req.SpecificFlowsLH = o.flows
			return run(cmd.Context(), cmd.OutOrStdout(), o, req)
		},
	}
	planters.Flags().IntVarP(&o.outlets, "outlets", "n", messages.DefaultOutlets, "number of planters")
	planters.Flags().Float64SliceVar(&o.flows, "flows", nil, "L/h wanted per planter; missing entries default to 2.0")

	continuous := &cobra.Command{
		Use:   "continuous",
		Short: "Drip line laid along the whole run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := o.base(entities.ModeContinuous)
			req.TotalFlowLH = o.flow
			req.DripperCounts = o.drippers
			return run(cmd.Context(), cmd.OutOrStdout(), o, req)
		},
	}
	continuous.Flags().Float64Var(&o.flow, "flow", 0, "total flow in L/h")
	continuous.Flags().StringToIntVar(&o.drippers, "drippers", nil, "dripper tally, e.g. 2.0=10,4.0=3 (overrides --flow)")

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the pipe catalog as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadCatalog(o.catalog)
			if err != nil {
				return err
			}
			return catalog.WriteYAML(cmd.OutOrStdout(), c)
		},
	}

	root.AddCommand(planters, continuous, catalogCmd)
	return root
}

func (o opts) base(mode entities.Mode) messages.ScenarioRequest {
	return messages.ScenarioRequest{
		Mode:    mode,
		LengthM: o.length,
		Connectors: entities.ConnectorCounts{
			Elbows:    o.elbows,
			Tees:      o.tees,
			Straights: o.straights,
		},
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

func run(ctx context.Context, out io.Writer, o opts, req messages.ScenarioRequest) error {
	var res messages.ScenarioResult
	if o.remote != "" {
		conn, client, err := planner.DialPlanner(o.remote)
		if err != nil {
			return err
		}
		defer conn.Close()
		ctx, cancel := context.WithTimeout(ctx, o.rpcTimeout)
		defer cancel()
		evt, err := client.Compute(ctx, o.project, req)
		if err != nil {
			return err
		}
		res = evt.Result
	} else {
		if err := req.Validate(); err != nil {
			return err
		}
		c, err := loadCatalog(o.catalog)
		if err != nil {
			return err
		}
		res = hydraulics.NewEngine(c).Run(req)
	}

	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printResult(out, res)
}

func printResult(out io.Writer, res messages.ScenarioResult) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Scenario\t%s\n", res.Type)
	fmt.Fprintf(tw, "Length\t%s\n", res.RangeClassification)
	fmt.Fprintf(tw, "Main pipe\t%smm\n", strconv.FormatFloat(res.MainPipeMM(), 'f', -1, 64))
	if res.RecommendedPlanterPipe != "" {
		fmt.Fprintf(tw, "Planter tubing\t%s\n", res.RecommendedPlanterPipe)
	}
	fmt.Fprintf(tw, "Total flow\t%.2f L/h\n", res.TotalFlowLH)
	fmt.Fprintf(tw, "Inlet pressure\t%.3f bar\n", res.RequiredInletPressureBar)
	if res.CatalogFallback {
		fmt.Fprintf(tw, "Note\tbore not in catalog, assumed %.0f%% of nominal\n", hydraulics.FallbackInternalRatio*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, d := range res.DetailedPlantersList {
		fmt.Fprintf(out, "  %s\n", d)
	}

	if n := len(res.GraphData.Y); n > 0 {
		fmt.Fprintf(out, "End pressure: %.3f bar at %.1f m\n", res.GraphData.Y[n-1], res.GraphData.X[n-1])
	}
	return nil
}
