package main

import (
	"context"
	"encoding/json"
	"fleet-route-service/internal/adapters/distance"
	"fleet-route-service/internal/adapters/repositories"
	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/api/handlers"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/logging"
	"fleet-route-service/internal/services"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// solve plans a single instance from files and prints the result as JSON.
func main() {
	var (
		instancePath   = pflag.String("instance", "data/instance.json", "instance JSON file")
		fleetPath      = pflag.String("fleet", "data/fleet.yaml", "fleet YAML file")
		strategy       = pflag.String("strategy", string(domain.StrategyTierTracked), "construction strategy")
		improvement    = pflag.String("improvement", string(domain.ImprovementVND), "local search: none, hillclimb or vnd")
		fuelPrice      = pflag.Float64("fuel-price", 0, "fuel price override (0 keeps the instance price)")
		fullnessWeight = pflag.Float64("fullness-weight", 0, "tier fullness weight in [0,1]")
		maxMoves       = pflag.Int("max-moves", 0, "stop local search after this many moves (0 = unlimited)")
		timeLimit      = pflag.Duration("time-limit", 0, "local search time limit (0 = unlimited)")
		parallel       = pflag.Bool("parallel", false, "compute savings in parallel")
		logLevel       = pflag.String("log-level", "warn", "log level")
	)
	pflag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(context.Background(), runArgs{
		instancePath: *instancePath,
		fleetPath:    *fleetPath,
		strategy:     *strategy,
		improvement:  *improvement,
		req: services.PlanRequest{
			FuelPrice:       *fuelPrice,
			FullnessWeight:  *fullnessWeight,
			MaxMoves:        *maxMoves,
			TimeLimit:       *timeLimit,
			ParallelSavings: *parallel,
		},
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runArgs struct {
	instancePath string
	fleetPath    string
	strategy     string
	improvement  string
	req          services.PlanRequest
}

func run(ctx context.Context, args runArgs) error {
	var err error
	if args.req.Strategy, err = domain.ParseStrategy(args.strategy); err != nil {
		return err
	}
	if args.req.Improvement, err = domain.ParseImprovement(args.improvement); err != nil {
		return err
	}

	repo := repositories.NewFileInstanceRepository(args.instancePath, args.fleetPath, distance.NewHaversineBuilder(0))
	res, err := services.PlanFleet(ctx, args.req, repo)
	if err != nil {
		return err
	}

	out := handlers.ToPlanResponse(handlers.StoredPlanFrom(res, nil))
	out.Search = &dto.SearchResponse{
		Moves:     res.Search.Moves,
		Truncated: res.Search.Truncated,
		ElapsedMs: res.Search.Elapsed.Milliseconds(),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
