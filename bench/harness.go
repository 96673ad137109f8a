package bench

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/quarkchain/sensordb/libs/store"
)

// Phase durations are recorded in nanoseconds, up to one hour.
const (
	histogramMin     = 1
	histogramMax     = int64(time.Hour)
	histogramSigFigs = 3
)

// Result is the outcome of benchmarking one backend. Durations and query
// results are those of the last round.
type Result struct {
	Backend string
	Name    string
	Samples int
	Rounds  int

	InsertElapsed time.Duration
	QueryElapsed  time.Duration

	Min       float64
	Max       float64
	Median    float64
	RangeHits int
	// Height is set for backends that report their tree height.
	Height int

	InsertP50 time.Duration
	InsertMax time.Duration
	QueryP50  time.Duration
	QueryMax  time.Duration
}

type heighter interface {
	Height() int
}

// Harness drives every configured backend through the same workload.
type Harness struct {
	cfg     Config
	logger  log.Logger
	metrics *Metrics
}

// NewHarness validates cfg and returns a harness logging to logger.
func NewHarness(cfg Config, logger log.Logger) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Harness{
		cfg:     cfg,
		logger:  logger.With("module", "bench"),
		metrics: NewMetrics(),
	}, nil
}

// Metrics returns the metrics filled in by Run.
func (h *Harness) Metrics() *Metrics {
	return h.metrics
}

// Run generates the workload once and benchmarks every backend on it, in
// the configured order.
func (h *Harness) Run() ([]Result, error) {
	workload := Generate(NewRand(h.cfg.Seed), h.cfg.Samples, h.cfg.MinValue, h.cfg.MaxValue)
	h.logger.Info("Generated workload",
		"samples", len(workload),
		"min", h.cfg.MinValue,
		"max", h.cfg.MaxValue,
		"seed", h.cfg.Seed,
	)

	results := make([]Result, 0, len(h.cfg.Backends))
	for _, backend := range h.cfg.Backends {
		result, err := h.RunBackend(backend, func() (store.ReadingStore, error) { return store.New(backend) }, workload)
		if err != nil {
			return nil, err
		}
		h.metrics.Observe(result)
		results = append(results, result)
	}

	if h.cfg.MetricsFile != "" {
		if err := h.metrics.WriteToTextfile(h.cfg.MetricsFile); err != nil {
			return nil, err
		}
		h.logger.Info("Wrote metrics", "file", h.cfg.MetricsFile)
	}
	return results, nil
}

// RunBackend benchmarks the stores built by newStore, one per round, on
// workload.
func (h *Harness) RunBackend(backend string, newStore func() (store.ReadingStore, error), workload []float64) (Result, error) {
	insertHist := hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
	queryHist := hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)

	var result Result
	for round := 0; round < h.cfg.Rounds; round++ {
		s, err := newStore()
		if err != nil {
			return Result{}, errors.Wrapf(err, "failed to create backend %s", backend)
		}
		result, err = h.runRound(s, workload)
		if err != nil {
			return Result{}, errors.Wrapf(err, "backend %s round %d", backend, round)
		}
		if err := insertHist.RecordValue(histogramValue(result.InsertElapsed)); err != nil {
			return Result{}, errors.Wrap(err, "failed to record histogram value")
		}
		if err := queryHist.RecordValue(histogramValue(result.QueryElapsed)); err != nil {
			return Result{}, errors.Wrap(err, "failed to record histogram value")
		}
		h.logger.Debug("Finished round",
			"backend", backend,
			"round", round,
			"insert", result.InsertElapsed,
			"query", result.QueryElapsed,
		)
	}

	result.Backend = backend
	result.Rounds = h.cfg.Rounds
	result.InsertP50 = time.Duration(insertHist.ValueAtQuantile(50))
	result.InsertMax = time.Duration(insertHist.Max())
	result.QueryP50 = time.Duration(queryHist.ValueAtQuantile(50))
	result.QueryMax = time.Duration(queryHist.Max())

	h.logger.Info("Benchmark finished",
		"backend", backend,
		"name", result.Name,
		"samples", result.Samples,
		"insert", result.InsertElapsed,
		"query", result.QueryElapsed,
		"min", result.Min,
		"max", result.Max,
		"median", result.Median,
	)
	return result, nil
}

func (h *Harness) runRound(s store.ReadingStore, workload []float64) (Result, error) {
	result := Result{Name: s.Name(), Samples: len(workload)}

	start := time.Now()
	for _, v := range workload {
		s.Insert(v)
	}
	endInsert := time.Now()

	var err error
	if result.Min, err = s.Min(); err != nil {
		return Result{}, errors.Wrap(err, "min")
	}
	if result.Max, err = s.Max(); err != nil {
		return Result{}, errors.Wrap(err, "max")
	}
	if result.Median, err = s.Median(); err != nil {
		return Result{}, errors.Wrap(err, "median")
	}
	s.RangeQuery(h.cfg.RangeLo, h.cfg.RangeHi, func(float64) bool {
		result.RangeHits++
		return true
	})
	endQuery := time.Now()

	result.InsertElapsed = endInsert.Sub(start)
	result.QueryElapsed = endQuery.Sub(endInsert)
	if t, ok := s.(heighter); ok {
		result.Height = t.Height()
	}
	return result, nil
}

func histogramValue(d time.Duration) int64 {
	if d < histogramMin {
		return histogramMin
	}
	if int64(d) > histogramMax {
		return histogramMax
	}
	return int64(d)
}
