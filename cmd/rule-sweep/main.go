// Command rule-sweep samples random rules over a grid of sampling settings
// and prints the ones that keep a random grid the busiest.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	flag "github.com/juju/gnuflag"

	"tiled-ca/internal/rule"
	"tiled-ca/internal/sweep"
)

func main() {
	size := flag.Int("size", 64, "grid side length per scenario")
	steps := flag.Int("steps", 100, "updates to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	alphas := flag.String("alphas", "0.1,0.2,0.4,0.8", "comma separated Dirichlet concentrations")
	states := flag.String("states", "2,3,4", "comma separated state counts")
	seeds := flag.Int("seeds", 4, "rules sampled per setting")
	top := flag.Int("top", 10, "number of results to print")
	flag.Parse(true)

	as, err := parseList(*alphas, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
	if err != nil {
		log.Fatal("bad -alphas", "err", err)
	}
	ss, err := parseList(*states, func(s string) (uint8, error) {
		v, err := strconv.ParseUint(s, 10, 8)
		return uint8(v), err
	})
	if err != nil {
		log.Fatal("bad -states", "err", err)
	}
	var seedList []int64
	for i := 1; i <= *seeds; i++ {
		seedList = append(seedList, int64(i))
	}

	scenarios := sweep.Expand([]rule.SamplingMode{rule.Uniform, rule.Dirichlet}, as, ss, 1, seedList)
	fmt.Printf("Sweeping %d scenarios (%d workers, %d steps)\n", len(scenarios), *workers, *steps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := sweep.Run(ctx, scenarios, sweep.Options{Size: *size, Steps: *steps, Workers: *workers})
	if err != nil {
		log.Fatal("sweep failed", "err", err)
	}

	fmt.Printf("\nTop %d results (elapsed %s):\n", min(*top, len(results)), time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(results) && i < *top; i++ {
		res := results[i]
		fmt.Printf("%2d) activity=%.4f entropy=%.3f %s\n", i+1, res.Activity, res.Entropy, res.Scenario)
	}
}

func parseList[T any](s string, parse func(string) (T, error)) ([]T, error) {
	var out []T
	for _, f := range strings.Split(s, ",") {
		v, err := parse(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
