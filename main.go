package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"

	"github.com/wildstyl3r/sremit/internal/config"
	"github.com/wildstyl3r/sremit/internal/mc"
	"github.com/wildstyl3r/sremit/internal/model"
	"github.com/wildstyl3r/sremit/internal/output"
	"github.com/wildstyl3r/sremit/internal/particle"
	"github.com/wildstyl3r/sremit/internal/random"
	"github.com/wildstyl3r/sremit/internal/store"
	"github.com/wildstyl3r/sremit/internal/thermo"
)

func main() {
	settings, err := config.ParseEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], settings); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

type runner struct {
	conf  config.Config
	cache *store.Store
	df    output.DataFlags
	seed  uint64
	runID string
}

func run(ctx context.Context, args []string, settings config.RunSettings) error {
	fs := flag.NewFlagSet("sremit", flag.ContinueOnError)
	configFileName := fs.String("input", "sremit.toml", "model configuration (.toml or .ini)")
	verbose := fs.Bool("v", settings.Verbose, "verbose output")
	threads := fs.Int("threads", settings.Threads, "worker goroutines")
	seed := fs.Uint64("seed", settings.Seed, "random seed, unused by models with Randomize")
	cachePath := fs.String("cache", settings.Cache, "yield cache file, empty to disable")
	outputDir := fs.String("o", "", "output directory, overrides OutputDir")
	df := output.NewDataFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *threads < 1 {
		return fmt.Errorf("%w: threads must be positive, got %d", config.ErrInvalidParameter, *threads)
	}

	startTime := time.Now()
	if *verbose {
		fmt.Printf("Current time: %s\n", startTime.UTC().Format(time.UnixDate))
	}

	conf, err := config.LoadConfig(*configFileName)
	if err != nil {
		return err
	}
	if *outputDir != "" {
		conf.OutputDir = *outputDir
	}
	df.SetOutputPath(conf.OutputDir)

	r := runner{
		conf:  conf,
		df:    df,
		seed:  *seed,
		runID: uuid.NewString(),
	}
	if *cachePath != "" {
		if r.cache, err = store.Open(*cachePath); err != nil {
			return err
		}
		defer r.cache.Close()
	}

	for _, modelName := range conf.ModelNames() {
		parameters := conf.Models[modelName]
		parameters.SetVerbosity(*verbose)
		parameters.SetThreads(*threads)
		if err := parameters.CheckAndUnify(modelName, &r.conf); err != nil {
			return err
		}
		if *verbose {
			fmt.Println("\n" + modelName)
		}
		if err := r.runModel(ctx, &parameters); err != nil {
			return fmt.Errorf("model %s: %w", modelName, err)
		}
	}
	if *verbose {
		fmt.Printf("Done in %s\n", time.Since(startTime).Round(time.Millisecond))
	}
	return nil
}

func (r *runner) runModel(ctx context.Context, parameters *config.ModelParameters) error {
	th, err := thermo.FromParameters(*parameters)
	if err != nil {
		return err
	}
	table := particle.Default()
	if parameters.ParticlesFile != "" {
		if table, err = particle.LoadTable(parameters.ParticlesFile); err != nil {
			return err
		}
	}
	seed := r.seed
	if parameters.Randomize {
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}

	geometry := model.Geometry{
		T0:     parameters.T0,
		R:      parameters.R,
		H:      parameters.H,
		A:      parameters.A,
		GammaS: parameters.GammaS,
	}
	sampler, err := model.NewEmissionSampler(geometry, th, random.New(seed, 0))
	if err != nil {
		return err
	}
	description := sampler.Description(model.RunInfo{
		RunID:     r.runID,
		Samples:   parameters.IntegrateSamples,
		Randomize: parameters.Randomize,
		Timestamp: time.Now(),
	})
	if parameters.Verbose() {
		fmt.Print(description)
	}
	if r.cache != nil {
		if err := r.cache.SaveModel(ctx, sampler.Record(), description); err != nil {
			return err
		}
	}

	opts := mc.Options{
		Samples:     parameters.IntegrateSamples,
		Threads:     parameters.Threads(),
		Seed:        seed,
		FiniteWidth: parameters.FiniteWidth,
		Verbose:     parameters.Verbose(),
	}
	de := output.NewDataExtractor(parameters, description)
	for _, name := range parameters.Species {
		species, err := table.Lookup(name)
		if err != nil {
			return err
		}
		yield, err := r.integrate(ctx, sampler, species, opts, parameters.Randomize)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		de.AddYield(species.Name, species.PDG, yield)

		if parameters.Events > 0 {
			batch, err := mc.Sample(ctx, sampler, species, parameters.Events, yield.MaxWeight, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			de.AddParticles(species.Name, batch)
		}
	}
	return de.Save(r.df)
}

// integrate reuses a cached yield of the same parameters when there is one.
// Randomized models neither read nor write the cache.
func (r *runner) integrate(ctx context.Context, sampler *model.EmissionSampler, species particle.Type, opts mc.Options, randomize bool) (mc.Yield, error) {
	if r.cache == nil || randomize {
		return mc.Integrate(ctx, sampler, species, opts)
	}
	key := store.YieldKey{
		Hash:        sampler.Hash(),
		PDG:         species.PDG,
		FiniteWidth: opts.FiniteWidth,
		Samples:     opts.Samples,
	}
	cached, err := r.cache.Lookup(ctx, key)
	switch {
	case err == nil:
		if opts.Verbose {
			fmt.Printf("%s: cached yield from run %s\n", species.Name, cached.RunID)
		}
		return mc.Yield{
			Multiplicity: cached.Multiplicity,
			StdError:     cached.StdError,
			MaxWeight:    cached.MaxWeight,
			Discarded:    cached.Discarded,
			Samples:      cached.Samples,
		}, nil
	case !errors.Is(err, store.ErrNotFound):
		return mc.Yield{}, err
	}

	yield, err := mc.Integrate(ctx, sampler, species, opts)
	if err != nil {
		return yield, err
	}
	return yield, r.cache.SaveYield(ctx, store.YieldRecord{
		YieldKey:     key,
		Multiplicity: yield.Multiplicity,
		StdError:     yield.StdError,
		MaxWeight:    yield.MaxWeight,
		Discarded:    yield.Discarded,
		RunID:        r.runID,
	})
}
