// Command sandsweep runs a scene under a grid of rule parameters and worker
// counts, reporting how long each variant takes to settle. Every worker count
// of a parameter set must agree on the digest; a mismatch is reported as a
// determinism failure.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"hiekkapeli/internal/core"
	"hiekkapeli/internal/driver"
	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/kernel"
	"hiekkapeli/internal/scenes"
	"hiekkapeli/internal/sink"
	"hiekkapeli/internal/tile"
)

type job struct {
	params  kernel.Params
	label   string
	workers int
}

type result struct {
	job
	settled  uint64
	census   grid.Census
	digest   string
	elapsed  time.Duration
	ticksRun uint64
}

type intList []int

func (l *intList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(value string) error {
	*l = (*l)[:0]
	for _, part := range strings.Split(value, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		*l = append(*l, v)
	}
	return nil
}

func main() {
	logger := log.New(os.Stderr, "[sweep] ", log.LstdFlags|log.Lmicroseconds)

	width := flag.Int("width", 160, "grid width")
	height := flag.Int("height", 90, "grid height")
	ticks := flag.Uint64("ticks", 2000, "tick limit per run")
	seed := flag.Int64("seed", 1337, "scene seed")
	sceneName := flag.String("scene", "scatter", "scene to sweep")
	parallel := flag.Int("parallel", runtime.NumCPU(), "runs evaluated concurrently")
	workerCounts := intList{1, 4}
	flag.Var(&workerCounts, "workers", "comma separated kernel worker counts per run")
	thresholds := intList{32, 96, 160}
	flag.Var(&thresholds, "wet-threshold", "comma separated wet_threshold values")
	gains := intList{8, 24, 64}
	flag.Var(&gains, "wet-gain", "comma separated wet_gain values")
	flag.Parse()

	scene, ok := scenes.Lookup(*sceneName, nil)
	if !ok {
		logger.Fatalf("unknown scene %q", *sceneName)
	}

	var jobs []job
	for _, th := range thresholds {
		for _, gain := range gains {
			p := kernel.DefaultParams()
			p.WetThreshold = th
			p.WetGain = gain
			label := fmt.Sprintf("wet_threshold=%d wet_gain=%d", th, gain)
			for _, w := range workerCounts {
				jobs = append(jobs, job{params: p, label: label, workers: w})
			}
		}
	}
	fmt.Printf("Sweeping %d runs of %s %dx%d (%d parallel, %d ticks)\n",
		len(jobs), scene.Name(), *width, *height, *parallel, *ticks)

	queue := make(chan job)
	results := make(chan result)
	var wg sync.WaitGroup
	for i := 0; i < *parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				res, err := run(j, *width, *height, *ticks, *seed, scene)
				if err != nil {
					logger.Printf("%s workers=%d: %v", j.label, j.workers, err)
					continue
				}
				results <- res
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go func() {
		for _, j := range jobs {
			queue <- j
		}
		close(queue)
	}()

	start := time.Now()
	byLabel := map[string][]result{}
	for res := range results {
		byLabel[res.label] = append(byLabel[res.label], res)
	}

	var all []result
	failed := false
	for label, runs := range byLabel {
		digests := make([]string, len(runs))
		for i, r := range runs {
			digests[i] = r.digest
		}
		slices.Sort(digests)
		if distinct := slices.Compact(digests); len(distinct) != 1 {
			logger.Printf("determinism failure for %s: %v", label, distinct)
			failed = true
		}
		sort.Slice(runs, func(i, j int) bool { return runs[i].workers < runs[j].workers })
		all = append(all, runs[0])
		for _, r := range runs {
			fmt.Printf("  %s workers=%d: %.0f ticks/s\n", label, r.workers, float64(r.ticksRun)/r.elapsed.Seconds())
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].settled < all[j].settled })
	fmt.Printf("\nResults (elapsed %s), fastest to settle first:\n", time.Since(start).Round(time.Millisecond))
	for i, r := range all {
		settled := strconv.FormatUint(r.settled, 10)
		if r.settled > *ticks {
			settled = "never"
		}
		fmt.Printf("%2d) settled=%s sand=%d water=%d digest=%.12s %s\n",
			i+1, settled, r.census.Sand, r.census.Water, r.digest, r.label)
	}
	if failed {
		os.Exit(1)
	}
}

// run simulates until the frame stops changing or the tick limit is hit. The
// settle tick is limit+1 when the grid never came to rest.
func run(j job, w, h int, limit uint64, seed int64, scene core.Scene) (result, error) {
	g, err := grid.New(w, h)
	if err != nil {
		return result{}, err
	}
	k := kernel.New(w, j.workers, j.params)
	digest := sink.NewDigest()

	res := result{job: j, settled: limit + 1}
	var (
		loop *driver.Loop
		prev []tile.Tile
	)
	watch := sink.Func(func(f grid.Frame) error {
		cur := f.Clone()
		if f.Tick > 0 && slices.Equal(prev, cur) {
			res.settled = f.Tick
			loop.Stop()
		}
		prev = cur
		res.census = f.Census()
		return nil
	})
	loop = driver.New(g, k, sink.Tee(digest, watch), driver.Options{MaxTicks: limit})
	loop.Reset(scene, seed)

	start := time.Now()
	if err := loop.Run(context.Background()); err != nil {
		return result{}, err
	}
	res.elapsed = time.Since(start)
	res.ticksRun = loop.Tick()
	res.digest = digest.Hex()
	return res, nil
}
