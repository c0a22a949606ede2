// Command fra-analyze classifies a sweep file from the command line.
//
//	fra-analyze [-baseline ref.csv] [-format csv|xml] [-server URL [-demo]] sweep.csv
//
// Without -server the analysis runs locally. The verdict is printed as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/fra-analyzer/internal/analysis"
	"github.com/RMahshie/fra-analyzer/internal/parser"
	"github.com/RMahshie/fra-analyzer/pkg/client"
	"github.com/RMahshie/fra-analyzer/pkg/models"
)

func main() {
	var (
		baselinePath = flag.String("baseline", "", "baseline sweep file to compare against")
		formatFlag   = flag.String("format", "", "sweep format (csv or xml); detected from the file name when empty")
		maxPoints    = flag.Int("max-points", 50000, "maximum points per sweep, 0 for no limit")
		noise        = flag.Bool("noise", false, "perturb parsed points with seeded noise")
		seed         = flag.Uint64("seed", 1, "seed for -noise and -demo")
		server       = flag.String("server", "", "analyze via the API at this base URL instead of locally")
		demo         = flag.Bool("demo", false, "with -server, return a labelled demo verdict when the API is unavailable")
		warning      = flag.Int("warning", analysis.DefaultWarningThreshold, "warning threshold for the severity line")
		critical     = flag.Int("critical", analysis.DefaultCriticalThreshold, "critical threshold for the severity line")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: fra-analyze [flags] sweep-file")
		flag.PrintDefaults()
		os.Exit(2)
	}

	thresholds := models.Thresholds{Warning: *warning, Critical: *critical}
	if err := analysis.ValidateThresholds(thresholds); err != nil {
		log.Fatal().Err(err).Msg("Invalid thresholds")
	}

	opts, baselineOpts := parserOptions(*maxPoints, *noise, *seed)

	path := flag.Arg(0)
	data, err := readSweep(path, *formatFlag, opts)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to read sweep")
	}

	var baseline models.Sweep
	if *baselinePath != "" {
		if baseline, err = readSweep(*baselinePath, *formatFlag, baselineOpts); err != nil {
			log.Fatal().Err(err).Str("file", *baselinePath).Msg("Failed to read baseline")
		}
	}

	log.Debug().Int("points", len(data)).Int("baseline_points", len(baseline)).Msg("Sweeps parsed")

	name := filepath.Base(path)
	var result *models.AnalysisResult
	if *server != "" {
		policy := client.FallbackNone
		if *demo {
			policy = client.FallbackDemo
		}
		c := client.New(*server, client.WithFallback(policy, *seed))

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		result, err = c.Analyze(ctx, name, data, baseline)
	} else {
		result, err = analysis.Analyze(name, data, baseline)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	out := struct {
		*models.AnalysisResult
		Severity models.Severity `json:"severity"`
	}{result, analysis.SeverityOf(result.Score, thresholds)}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("Failed to write result")
	}
}

// parserOptions returns the options for the measured sweep and for the
// baseline. With noise enabled the baseline gets its own seed.
func parserOptions(maxPoints int, noise bool, seed uint64) (sweep, baseline parser.Options) {
	sweep = parser.Options{MaxPoints: maxPoints}
	baseline = parser.Options{MaxPoints: maxPoints}
	if noise {
		sweep.Noise = parser.NewNoise(seed)
		baseline.Noise = parser.NewNoise(seed + 1)
	}
	return sweep, baseline
}

func readSweep(path, format string, opts parser.Options) (models.Sweep, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ft parser.Format
	if format != "" {
		ft, err = parser.ParseFormat(format)
	} else {
		ft, err = parser.DetectFormat(path, "")
	}
	if err != nil {
		return nil, err
	}

	return parser.Parse(f, ft, opts)
}
