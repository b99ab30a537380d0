// Package main provides the geomstats command line tool: a small demo
// surface over the library for inspecting engines and computing sphere
// geodesics and distances.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/geomstats-ml/geomstats/backend"
	"github.com/geomstats-ml/geomstats/geometry"
	"github.com/geomstats-ml/geomstats/tensor"
)

const version = "v0.1.0-dev"

// config is the optional YAML configuration file.
type config struct {
	Backend string `yaml:"backend"`
	Solver  struct {
		MaxIter int     `yaml:"max_iter"`
		Tol     float64 `yaml:"tol"`
	} `yaml:"solver"`
}

var (
	configPath  string
	backendName string
	verbose     bool
	loadedCfg   config
)

func main() {
	root := &cobra.Command{
		Use:     "geomstats",
		Short:   "Geometric statistics over non-Euclidean manifolds",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config")
	root.PersistentFlags().StringVarP(&backendName, "backend", "b", "", "compute engine (cpu, parallel, autodiff)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(enginesCmd(), geodesicCmd(), distCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup resolves logging, the config file and the engine selection before
// any command runs.
func setup() error {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		backend.SetLogger(logger)
	}

	name := backendName
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &loadedCfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		if name == "" {
			name = loadedCfg.Backend
		}
	}
	if name != "" {
		if err := backend.Set(name); err != nil {
			return err
		}
	}
	return nil
}

func enginesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List registered compute engines",
		RunE: func(cmd *cobra.Command, args []string) error {
			active := backend.Name()
			activeBase := strings.SplitN(active, "(", 2)[0]
			for _, name := range backend.Names() {
				marker := " "
				if name == activeBase {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, name)
			}
			fmt.Printf("active: %s\n", active)
			return nil
		},
	}
}

func geodesicCmd() *cobra.Command {
	var samples int
	cmd := &cobra.Command{
		Use:   "geodesic <point-a> <point-b>",
		Short: "Sample the sphere geodesic between two points",
		Long: "Points are comma-separated extrinsic coordinates, e.g. 1,0,0. " +
			"Both are projected onto the unit sphere first.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := backend.Active()
			a, err := parsePoint(args[0], engine)
			if err != nil {
				return err
			}
			c, err := parsePoint(args[1], engine)
			if err != nil {
				return err
			}

			sphere, err := newSphere(a, engine)
			if err != nil {
				return err
			}
			pa, err := sphere.Projection(a)
			if err != nil {
				return err
			}
			pb, err := sphere.Projection(c)
			if err != nil {
				return err
			}

			gamma, err := sphere.Metric().Geodesic(pa, pb)
			if err != nil {
				return err
			}
			for i := 0; i <= samples; i++ {
				t := float64(i) / float64(samples)
				point, err := gamma(t)
				if err != nil {
					return err
				}
				fmt.Printf("t=%.3f  %s\n", t, formatPoint(point))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&samples, "samples", "n", 10, "number of intervals to sample")
	return cmd
}

func distCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dist <point-a> <point-b>",
		Short: "Geodesic distance between two points on the sphere",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := backend.Active()
			a, err := parsePoint(args[0], engine)
			if err != nil {
				return err
			}
			c, err := parsePoint(args[1], engine)
			if err != nil {
				return err
			}

			sphere, err := newSphere(a, engine)
			if err != nil {
				return err
			}
			pa, err := sphere.Projection(a)
			if err != nil {
				return err
			}
			pb, err := sphere.Projection(c)
			if err != nil {
				return err
			}

			d, err := sphere.Metric().Dist(pa, pb)
			if err != nil {
				return err
			}
			fmt.Printf("%.9f\n", d.FloatAt(0))
			return nil
		},
	}
}

// newSphere builds the sphere for a parsed point and applies any solver
// overrides from the config file.
func newSphere(point *tensor.RawTensor, engine tensor.Backend) (*geometry.Hypersphere, error) {
	dim := point.Shape()[len(point.Shape())-1] - 1
	sphere, err := geometry.NewHypersphere(dim, engine)
	if err != nil {
		return nil, err
	}
	if loadedCfg.Solver.MaxIter > 0 {
		sphere.Metric().Solver.MaxIter = loadedCfg.Solver.MaxIter
	}
	if loadedCfg.Solver.Tol > 0 {
		sphere.Metric().Solver.Tol = loadedCfg.Solver.Tol
	}
	return sphere, nil
}

// parsePoint reads comma-separated coordinates into a Float64 tensor.
func parsePoint(s string, engine tensor.Backend) (*tensor.RawTensor, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return nil, fmt.Errorf("point needs at least 2 coordinates, got %q", s)
	}
	coords := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d of %q: %w", i, s, err)
		}
		coords[i] = v
	}
	return tensorFromFloats(coords, engine)
}

func tensorFromFloats(coords []float64, engine tensor.Backend) (*tensor.RawTensor, error) {
	t, err := tensor.FromSlice(coords, tensor.Shape{len(coords)}, engine)
	if err != nil {
		return nil, err
	}
	return t.Raw(), nil
}

func formatPoint(p *tensor.RawTensor) string {
	n := p.NumElements()
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("%+.6f", p.FloatAt(i))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
