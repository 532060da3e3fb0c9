package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/homier/lru8"
	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
)

// Result holds the counters of one cache over a workload.
type Result struct {
	Name      string  `json:"name"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRatio  float64 `json:"hit_ratio"`
}

// Report is the outcome of a simulation.
type Report struct {
	Workload Workload `json:"workload"`
	Results  []Result `json:"results"`
}

// simCache is the common surface of the simulated caches.
type simCache interface {
	get(key int) bool
	// add stores key and reports whether a live key was evicted.
	add(key, value int) bool
}

type lru8Cache struct {
	c *lru8.Cache[int, int]
}

func (a lru8Cache) get(key int) bool {
	_, ok := a.c.Get(key)
	return ok
}

func (a lru8Cache) add(key, value int) bool {
	before := a.c.Stats().Evictions
	a.c.Write(key, value)

	return a.c.Stats().Evictions > before
}

type golangLRUCache struct {
	c *lru.Cache[int, int]
}

func (a golangLRUCache) get(key int) bool {
	_, ok := a.c.Get(key)
	return ok
}

func (a golangLRUCache) add(key, value int) bool {
	return a.c.Add(key, value)
}

func runSim(args []string, out io.Writer) error {
	def := defaultWorkload()

	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	fs.SetOutput(out)

	configPath := fs.StringP("config", "c", "", "JSONC workload file")
	outPath := fs.StringP("out", "o", "", "Write the report as JSON to this file")
	keys := fs.IntP("keys", "k", def.Keys, "Number of distinct keys")
	ops := fs.IntP("ops", "n", def.Ops, "Number of operations")
	readRatio := fs.Float64P("read-ratio", "r", def.ReadRatio, "Share of reads in [0, 1]")
	dist := fs.StringP("dist", "d", def.Distribution, "Key distribution: uniform or zipf")
	zipfS := fs.Float64P("zipf-s", "s", def.ZipfS, "Zipf exponent, > 1")
	seed := fs.Uint64("seed", def.Seed, "Random seed")

	err := fs.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return fmt.Errorf("parsing flags: %w", err)
	}

	w := def
	if *configPath != "" {
		w, err = loadWorkload(*configPath, def)
		if err != nil {
			return err
		}
	}

	// Flags given explicitly win over the file.
	if fs.Changed("keys") {
		w.Keys = *keys
	}

	if fs.Changed("ops") {
		w.Ops = *ops
	}

	if fs.Changed("read-ratio") {
		w.ReadRatio = *readRatio
	}

	if fs.Changed("dist") {
		w.Distribution = *dist
	}

	if fs.Changed("zipf-s") {
		w.ZipfS = *zipfS
	}

	if fs.Changed("seed") {
		w.Seed = *seed
	}

	err = w.validate()
	if err != nil {
		return err
	}

	report, err := simulate(w)
	if err != nil {
		return err
	}

	printReport(out, report)

	if *outPath != "" {
		err = writeReport(*outPath, report)
		if err != nil {
			return err
		}
	}

	return nil
}

// simulate replays the same operation stream against every cache. A read miss
// is followed by a write, like a read-through cache would do.
func simulate(w Workload) (Report, error) {
	model, err := lru.New[int, int](8)
	if err != nil {
		return Report{}, fmt.Errorf("creating golang-lru cache: %w", err)
	}

	caches := []struct {
		name  string
		cache simCache
	}{
		{"lru8", lru8Cache{lru8.New[int, int]()}},
		{"lru8-branch", lru8Cache{lru8.New(lru8.WithBranchFreeLRU[int, int](false))}},
		{"golang-lru", golangLRUCache{model}},
	}

	report := Report{Workload: w}

	for _, c := range caches {
		res := Result{Name: c.name}
		ops := newOpStream(w)

		for i := range w.Ops {
			key, read := ops.next()

			if read {
				if c.cache.get(key) {
					res.Hits++
					continue
				}

				res.Misses++
			}

			if c.cache.add(key, i) {
				res.Evictions++
			}
		}

		if total := res.Hits + res.Misses; total > 0 {
			res.HitRatio = float64(res.Hits) / float64(total)
		}

		report.Results = append(report.Results, res)
	}

	return report, nil
}

// opStream yields the operations of a workload. Streams built from the same
// workload yield the same sequence.
type opStream struct {
	rng       *rand.Rand
	zipf      *rand.Zipf
	keys      int
	readRatio float64
}

func newOpStream(w Workload) *opStream {
	s := &opStream{
		rng:       rand.New(rand.NewPCG(w.Seed, w.Seed^0x9E3779B97F4A7C15)),
		keys:      w.Keys,
		readRatio: w.ReadRatio,
	}

	if w.Distribution == distZipf {
		s.zipf = rand.NewZipf(s.rng, w.ZipfS, 1, uint64(w.Keys-1))
	}

	return s
}

// next returns the key of the next operation and whether it's a read.
func (s *opStream) next() (int, bool) {
	var key int
	if s.zipf != nil {
		key = int(s.zipf.Uint64())
	} else {
		key = s.rng.IntN(s.keys)
	}

	return key, s.rng.Float64() < s.readRatio
}

func printReport(out io.Writer, r Report) {
	w := r.Workload
	fmt.Fprintf(out, "workload: keys=%d ops=%d read_ratio=%g distribution=%s", w.Keys, w.Ops, w.ReadRatio, w.Distribution)

	if w.Distribution == distZipf {
		fmt.Fprintf(out, " zipf_s=%g", w.ZipfS)
	}

	fmt.Fprintf(out, " seed=%d\n\n", w.Seed)
	fmt.Fprintf(out, "%-12s %10s %10s %10s %9s\n", "cache", "hits", "misses", "evictions", "hit ratio")

	for _, res := range r.Results {
		fmt.Fprintf(out, "%-12s %10d %10d %10d %8.2f%%\n", res.Name, res.Hits, res.Misses, res.Evictions, res.HitRatio*100)
	}
}

// writeReport replaces path with the JSON report in one step.
func writeReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	data = append(data, '\n')

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}

	return nil
}
