// Benchmark for the sensor reading store backends

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/quarkchain/sensordb/bench"
	"github.com/quarkchain/sensordb/libs/store"
)

const (
	ErrDefault = 1 + iota
	ErrUsage
	ErrConfig
	ErrStdErr
)

func newLogger(verbose bool) log.Logger {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	if verbose {
		return log.NewFilter(logger, log.AllowDebug())
	}
	return log.NewFilter(logger, log.AllowInfo())
}

func runBenchmark(logger log.Logger, configFile string, overrides bench.Config) {
	cfg := bench.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = bench.LoadConfig(configFile)
		exitOnErr(err, ErrConfig)
	}
	exitOnErr(cfg.Merge(overrides), ErrConfig)

	h, err := bench.NewHarness(cfg, logger)
	exitOnErr(err, ErrConfig)
	results, err := h.Run()
	exitOnErr(err, ErrDefault)
	exitOnErr(bench.WriteReport(os.Stdout, results), ErrDefault)
}

func exitWithUsage() {
	fmt.Fprintf(os.Stderr, "usage: %s bench [-config file] [-samples n] [-seed s] [-rounds r] [-backends %s] [-metrics-file f] [-verbose]\n",
		os.Args[0], strings.Join(store.Backends(), ","))
	os.Exit(ErrUsage)
}

func exitOnErr(err error, code int) {
	if err != nil {
		if _, printErr := fmt.Fprintln(os.Stderr, err); printErr != nil {
			os.Exit(ErrStdErr)
		}
		os.Exit(code)
	}
}

func main() {
	var (
		verbose    bool
		configFile string
		backends   string
		overrides  bench.Config
	)

	benchFlags := flag.NewFlagSet("bench", flag.ExitOnError)
	benchFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	benchFlags.StringVar(&configFile, "config", "", "Config file (.toml, .yaml)")
	benchFlags.IntVar(&overrides.Samples, "samples", 0, "Number of readings")
	benchFlags.Uint64Var(&overrides.Seed, "seed", 0, "Workload seed")
	benchFlags.IntVar(&overrides.Rounds, "rounds", 0, "Rounds per backend")
	benchFlags.StringVar(&backends, "backends", "", "Comma separated backends")
	benchFlags.StringVar(&overrides.MetricsFile, "metrics-file", "", "Prometheus textfile output")

	if len(os.Args) < 2 {
		exitWithUsage()
	}

	switch os.Args[1] {
	case benchFlags.Name():
		err := benchFlags.Parse(os.Args[2:])
		if err != nil || benchFlags.NArg() != 0 {
			exitWithUsage()
		}
		if backends != "" {
			overrides.Backends = strings.Split(backends, ",")
		}
		runBenchmark(newLogger(verbose), configFile, overrides)
	default:
		exitWithUsage()
	}
}
