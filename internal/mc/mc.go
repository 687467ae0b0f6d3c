// Package mc drives an EmissionSampler: yields by parallel Monte-Carlo
// integration, and emitted particles by rejection sampling.
//
// Every worker owns a stream derived from the run seed and its index, and
// results are merged in worker order, so a run is reproducible for a fixed
// seed and thread count.
package mc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wildstyl3r/sremit/internal/model"
	"github.com/wildstyl3r/sremit/internal/random"
	"github.com/wildstyl3r/sremit/internal/utils"
)

var ErrNoAcceptance = errors.New("no sample accepted")

const (
	// cancellation is polled once per checkEvery evaluations
	checkEvery = 1024

	// Sample gives up after trialsPerParticle·n trials of a worker
	trialsPerParticle = 1_000_000

	// separates sampling streams from integration streams of the same seed
	samplingStream = 0x5eed
)

type Options struct {
	Samples     int
	Threads     int
	Seed        uint64
	FiniteWidth bool
	Verbose     bool
}

func (o Options) workers(n int) int {
	return max(1, min(o.Threads, n))
}

// share is the part of n handled by worker i out of parts.
func share(n, parts, i int) int {
	s := n / parts
	if i < n%parts {
		s++
	}
	return s
}

type Yield struct {
	Multiplicity float64 // HyperVolume · mean weight
	StdError     float64
	MaxWeight    float64
	Discarded    int // evaluations with a non-finite point, counted with zero weight
	Samples      int
}

type integrationPart struct {
	worker    int
	moments   utils.Moments
	maxWeight float64
	discarded int
	err       error
}

// Integrate estimates the multiplicity of species with opts.Samples
// evaluations spread over opts.Threads workers.
func Integrate(ctx context.Context, sampler *model.EmissionSampler, species model.Species, opts Options) (Yield, error) {
	if opts.Samples < 1 {
		return Yield{}, fmt.Errorf("integrate: samples must be positive, got %d", opts.Samples)
	}
	threads := opts.workers(opts.Samples)

	var computeWg sync.WaitGroup
	partflow := make(chan integrationPart, threads)
	for worker := range threads {
		computeWg.Add(1)
		go func() {
			defer computeWg.Done()
			local := sampler.Clone(random.ForWorker(opts.Seed, worker))
			part := integrationPart{worker: worker}
			for i := range share(opts.Samples, threads, worker) {
				if i%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						part.err = err
						break
					}
				}
				point, weight := local.Evaluate(species, opts.FiniteWidth)
				if !point.IsFinite() {
					part.discarded++
					weight = 0
				}
				part.moments.Add(weight)
				part.maxWeight = max(part.maxWeight, weight)
			}
			partflow <- part
		}()
	}
	go func() {
		computeWg.Wait()
		close(partflow)
	}()

	moments := make([]utils.Moments, threads)
	maxWeights := make([]float64, threads)
	discarded := make([]int, threads)
	var err error
	done := 0
	for part := range partflow {
		done++
		if opts.Verbose {
			fmt.Printf("\rIntegrate:[%d/%d]", done, threads)
		}
		if part.err != nil {
			err = part.err
			continue
		}
		moments[part.worker] = part.moments
		maxWeights[part.worker] = part.maxWeight
		discarded[part.worker] = part.discarded
	}
	if opts.Verbose {
		print("\r")
	}
	if err != nil {
		return Yield{}, fmt.Errorf("integrate: %w", err)
	}

	total := utils.Merge(moments)
	mean, _ := total.MeanAndVariance(true)
	volume := sampler.HyperVolume()
	return Yield{
		Multiplicity: volume * mean,
		StdError:     volume * total.StdErrorOfMean(),
		MaxWeight:    utils.MaxSlice(maxWeights),
		Discarded:    utils.SumSlice(discarded),
		Samples:      total.N,
	}, nil
}

// Particle is an accepted emission.
type Particle struct {
	PDG int
	model.PhaseSpacePoint
}

type Batch struct {
	Particles []Particle
	Trials    int
	Overflows int // accepted trials whose weight exceeded maxWeight
	Discarded int
}

type samplingPart struct {
	worker    int
	particles []Particle
	trials    int
	overflows int
	discarded int
	err       error
}

// Sample draws n particles of species distributed as the emission weight,
// accepting a trial when u·maxWeight < weight. maxWeight is normally the
// Yield.MaxWeight of a previous integration.
func Sample(ctx context.Context, sampler *model.EmissionSampler, species model.Species, n int, maxWeight float64, opts Options) (Batch, error) {
	if n <= 0 {
		return Batch{}, nil
	}
	if !(maxWeight > 0) {
		return Batch{}, fmt.Errorf("sample: %w: maximal weight %g", ErrNoAcceptance, maxWeight)
	}
	threads := opts.workers(n)
	seed := random.DeriveSeed(opts.Seed, samplingStream)

	var computeWg sync.WaitGroup
	partflow := make(chan samplingPart, threads)
	for worker := range threads {
		computeWg.Add(1)
		go func() {
			defer computeWg.Done()
			stream := random.ForWorker(seed, worker)
			local := sampler.Clone(stream)
			quota := share(n, threads, worker)
			part := samplingPart{worker: worker, particles: make([]Particle, 0, quota)}
			for len(part.particles) < quota {
				if part.trials%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						part.err = err
						break
					}
				}
				if part.trials >= trialsPerParticle*quota {
					part.err = fmt.Errorf("%w: %d of %d after %d trials", ErrNoAcceptance, len(part.particles), quota, part.trials)
					break
				}
				part.trials++
				point, weight := local.Evaluate(species, opts.FiniteWidth)
				if !point.IsFinite() {
					part.discarded++
					continue
				}
				if stream.Float64()*maxWeight < weight {
					if weight > maxWeight {
						part.overflows++
					}
					part.particles = append(part.particles, Particle{PDG: species.PdgCode(), PhaseSpacePoint: point})
				}
			}
			partflow <- part
		}()
	}
	go func() {
		computeWg.Wait()
		close(partflow)
	}()

	parts := make([]samplingPart, threads)
	var err error
	done := 0
	for part := range partflow {
		done++
		if opts.Verbose {
			fmt.Printf("\rSample:[%d/%d]", done, threads)
		}
		if part.err != nil {
			err = part.err
		}
		parts[part.worker] = part
	}
	if opts.Verbose {
		print("\r")
	}
	if err != nil {
		return Batch{}, fmt.Errorf("sample: %w", err)
	}

	batch := Batch{Particles: make([]Particle, 0, n)}
	for _, part := range parts {
		batch.Particles = append(batch.Particles, part.particles...)
		batch.Trials += part.trials
		batch.Overflows += part.overflows
		batch.Discarded += part.discarded
	}
	return batch, nil
}
