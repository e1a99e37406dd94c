// Command bosesim runs a fixed-Hamiltonian Chebyshev time-evolution
// simulation described by a YAML config and writes the recorded reduced
// density matrices to a YAML result file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/ajroetker/bosesim/boson"
	"github.com/ajroetker/bosesim/boson/contrib/workerpool"
	"github.com/ajroetker/bosesim/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("bosesim", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the YAML run configuration")
	resultPath := fs.String("result", "", "path to write the YAML density-matrix results")
	dtype := fs.String("dtype", "f32", "numeric precision: f32 or f64")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	setupLogging()

	if *configPath == "" || *resultPath == "" {
		fmt.Fprintln(os.Stderr, "bosesim: --config and --result are required")
		return 2
	}

	var order int
	var tol float64
	switch *dtype {
	case "f32":
		order, tol = 7, 1e-3
	case "f64":
		order, tol = 14, 1e-8
	default:
		fmt.Fprintf(os.Stderr, "bosesim: unrecognized --dtype %q, want f32 or f64\n", *dtype)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bosesim:", err)
		return 1
	}

	pool := workerpool.New(runtime.NumCPU() + 1)
	defer pool.Close()

	bar := progressbar.NewOptions(cfg.TotalTimeStepsNumber,
		progressbar.OptionSetDescription("time steps"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
	progress := func(step int) { _ = bar.Set(step) }

	var densities [][][]complex128
	if *dtype == "f64" {
		densities, err = runDynamics[complex128](cfg, pool, order, tol, progress)
	} else {
		densities, err = runDynamics[complex64](cfg, pool, order, tol, progress)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "bosesim:", err)
		return 1
	}

	if err := config.WriteResult(*resultPath, densities); err != nil {
		fmt.Fprintln(os.Stderr, "bosesim:", err)
		return 1
	}
	return 0
}

// runDynamics runs the full time-evolution loop at precision T and widens
// every resulting density matrix to complex128 for serialization.
func runDynamics[T boson.Complex](cfg *config.Config, pool *workerpool.Pool, order int, tol float64, progress func(int)) ([][][]complex128, error) {
	sim := boson.NewSimulation[T](cfg.Layout(), cfg.HamiltonianTerms(), cfg.TimeStepSize, pool)

	results, err := sim.Run(context.Background(), cfg.TotalTimeStepsNumber, order, tol, cfg.DensityMatrices, progress)
	if err != nil {
		return nil, errors.Wrap(err, "running dynamics")
	}

	out := make([][][]complex128, len(results))
	for i, series := range results {
		out[i] = make([][]complex128, len(series))
		for j, mat := range series {
			row := make([]complex128, len(mat))
			for k, v := range mat {
				row[k] = complex128(v)
			}
			out[i][j] = row
		}
	}
	return out, nil
}

// setupLogging configures the default slog logger from the BOSESIM_LOG
// environment variable (one of debug, info, warn, error; default info),
// writing structured text to stderr so it never collides with --result
// written to a file.
func setupLogging() {
	level := slog.LevelInfo
	switch os.Getenv("BOSESIM_LOG") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
