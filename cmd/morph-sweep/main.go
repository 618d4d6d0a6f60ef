package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"morphogen/internal/engine"
	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// scenario defines the parameter grid swept by this tool.
type scenario struct {
	Biomorphs    []string  `yaml:"biomorphs"`
	Density      []float64 `yaml:"density"`
	Connectivity []float64 `yaml:"connectivity"`
	GrowthRate   []float64 `yaml:"growth_rate"`
	Steps        int       `yaml:"steps"`
}

func defaultScenario() scenario {
	return scenario{
		Biomorphs:    []string{"mold", "bone", "coral", "mycelium", "custom"},
		Density:      []float64{0.2, 0.5, 0.8},
		Connectivity: []float64{0.2, 0.6},
		GrowthRate:   []float64{0.5, 1.0},
		Steps:        600,
	}
}

func loadScenario(path string) (scenario, error) {
	s := defaultScenario()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrap(err, "read scenario")
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, errors.Wrapf(err, "parse scenario %s", path)
	}
	return s, nil
}

type runResult struct {
	params    core.Params
	progress  float64
	nodes     int
	edges     int
	avgStress float64
	ticksUsed int
	snapshot  morph.Snapshot
}

func (r runResult) String() string {
	return fmt.Sprintf("biomorph=%s density=%.2f conn=%.2f growth=%.2f progress=%.2f nodes=%d edges=%d stress=%.3f ticks=%d",
		r.params.Biomorph, r.params.Density, r.params.Connectivity, r.params.GrowthRate,
		r.progress, r.nodes, r.edges, r.avgStress, r.ticksUsed)
}

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seed := flag.Int64("seed", 1337, "seed for deterministic runs")
	scenarioPath := flag.String("scenario", "", "optional YAML scenario file")
	configPath := flag.String("config", "", "optional YAML engine config")
	exportPath := flag.String("export", "", "write the best run's snapshot as JSON")
	var overrides kvList
	flag.Var(&overrides, "set", "engine config override in key=value form (repeatable)")
	flag.Parse()

	sc := defaultScenario()
	if *scenarioPath != "" {
		loaded, err := loadScenario(*scenarioPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		sc = loaded
	}

	if *configPath != "" && len(overrides) > 0 {
		fmt.Fprintln(os.Stderr, "-config and -set are mutually exclusive")
		os.Exit(1)
	}
	baseCfg := engine.DefaultConfig()
	if *configPath != "" {
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		baseCfg = loaded
	}
	if kv := parseOverrides(overrides); len(kv) > 0 {
		baseCfg = engine.FromMap(kv)
	}
	baseCfg.Seed = *seed

	var sets []core.Params
	for _, bm := range sc.Biomorphs {
		for _, den := range sc.Density {
			for _, conn := range sc.Connectivity {
				for _, gr := range sc.GrowthRate {
					p := baseCfg.Params
					p.Biomorph = core.BiomorphType(bm)
					p.Density = den
					p.Connectivity = conn
					p.GrowthRate = gr
					sets = append(sets, p)
				}
			}
		}
	}

	fmt.Printf("Sweeping %d parameter sets (%d workers, %d steps)\n", len(sets), *workers, sc.Steps)

	jobs := make(chan core.Params)
	results := make(chan runResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(baseCfg, params, sc.Steps)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []runResult
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].progress != all[j].progress {
			return all[i].progress > all[j].progress
		}
		return all[i].nodes > all[j].nodes
	})
	elapsed := time.Since(start)

	fmt.Printf("\nTop 5 results (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < 5; i++ {
		fmt.Printf("%2d) %s\n", i+1, all[i])
	}

	if *exportPath != "" && len(all) > 0 {
		f, err := os.Create(*exportPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		if err := all[0].snapshot.Export(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("\nBest snapshot written to %s\n", *exportPath)
	}
}

func parseOverrides(overrides kvList) map[string]string {
	if len(overrides) == 0 {
		return nil
	}
	kv := make(map[string]string, len(overrides))
	for _, entry := range overrides {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		kv[parts[0]] = parts[1]
	}
	return kv
}

// runScenario grows one structure to completion or step exhaustion under a
// synthetic wind+gravity load.
func runScenario(base engine.Config, params core.Params, steps int) runResult {
	cfg := base
	cfg.Params = params

	sim := engine.New(cfg, engine.WithForceProvider(syntheticLoad(cfg.Bounds)))
	sim.Reset(cfg.Seed)

	ticks := 0
	for ; ticks < steps; ticks++ {
		sim.Step()
		if sim.Progress() >= 1 {
			break
		}
	}

	return runResult{
		params:    params,
		progress:  sim.Progress(),
		nodes:     sim.NodeCount(),
		edges:     sim.ConnectionCount(),
		avgStress: sim.AverageStress(),
		ticksUsed: ticks,
		snapshot:  sim.Snapshot(),
	}
}

// syntheticLoad approximates an environment: lateral wind varying across the
// volume plus height-scaled gravity pull.
func syntheticLoad(bounds core.Bounds) engine.ForceProvider {
	size := bounds.Size()
	return func(id morph.NodeID, pos core.Vec3) core.Vec3 {
		phase := 0.0
		if size.X > 0 {
			phase = (pos.X - bounds.Min.X) / size.X * 2 * math.Pi
		}
		height := 0.0
		if size.Y > 0 {
			height = (pos.Y - bounds.Min.Y) / size.Y
		}
		return core.Vec3{
			X: 0.6 * math.Sin(phase),
			Y: -0.4 * height,
			Z: 0.3 * math.Cos(phase),
		}
	}
}
