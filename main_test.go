package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/sremit/internal/config"
	"github.com/wildstyl3r/sremit/internal/constants"
	"github.com/wildstyl3r/sremit/internal/mc"
	"github.com/wildstyl3r/sremit/internal/model"
	"github.com/wildstyl3r/sremit/internal/particle"
	"github.com/wildstyl3r/sremit/internal/random"
	"github.com/wildstyl3r/sremit/internal/store"
	"github.com/wildstyl3r/sremit/internal/thermo"
)

const smallRun = `
H = 0.08
A = 0.2
GammaS = 1.0
Chemistry = "chemical_potential"
MuB = 0.0
MuI = 0.0
MuS = 0.0
MuC = 0.0
IntegrateSamples = 2000

[Models.small]
T0 = 9.0
R = 8.0
Temperature = 165.0
Species = ["pi+", "p"]
Events = 20
`

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "small.toml")
	require.NoError(t, os.WriteFile(input, []byte(smallRun), 0600))
	cache := filepath.Join(dir, "cache.db")
	out := filepath.Join(dir, "out")

	settings := config.RunSettings{Seed: 7, Threads: 2, Cache: cache}
	require.NoError(t, run(context.Background(), []string{"-input", input, "-o", out}, settings))

	for _, name := range []string{"yields.txt", "particles.txt", "description.txt"} {
		assert.FileExists(t, filepath.Join(out, "small", name))
	}
	assert.FileExists(t, cache)
}

func TestRunUsesCache(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "small.toml")
	require.NoError(t, os.WriteFile(input, []byte(smallRun), 0600))
	settings := config.RunSettings{Seed: 7, Threads: 2, Cache: filepath.Join(dir, "cache.db")}

	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")
	require.NoError(t, run(context.Background(), []string{"-input", input, "-o", first, "-particles=false", "-report=false"}, settings))
	require.NoError(t, run(context.Background(), []string{"-input", input, "-o", second, "-particles=false", "-report=false"}, settings))

	a, err := os.ReadFile(filepath.Join(first, "small", "yields.txt"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(second, "small", "yields.txt"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

// cachedRunner returns a runner whose cache already holds a yield for pion
// under the sampler's hash.
func cachedRunner(t *testing.T) (*runner, *model.EmissionSampler, particle.Type, store.YieldKey) {
	t.Helper()
	ctx := context.Background()
	cache, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	th := thermo.NewChemicalPotential(0.165, 0, 0, 0, 0, 1, 1, 1)
	geometry := model.Geometry{T0: 9. / constants.HbarC, R: 8. / constants.HbarC, H: 0.01, A: 0.2, GammaS: 1}
	sampler, err := model.NewEmissionSampler(geometry, th, random.New(7, 0))
	require.NoError(t, err)
	require.NoError(t, cache.SaveModel(ctx, sampler.Record(), ""))

	pion, err := particle.Default().Lookup("pi+")
	require.NoError(t, err)
	key := store.YieldKey{Hash: sampler.Hash(), PDG: pion.PDG, Samples: 500}
	require.NoError(t, cache.SaveYield(ctx, store.YieldRecord{
		YieldKey:     key,
		Multiplicity: -1,
		StdError:     0.5,
		MaxWeight:    2,
		Discarded:    7,
		RunID:        "earlier",
	}))
	return &runner{cache: cache, runID: "now"}, sampler, pion, key
}

func TestIntegrateFromCache(t *testing.T) {
	r, sampler, pion, _ := cachedRunner(t)
	yield, err := r.integrate(context.Background(), sampler, pion, mc.Options{Samples: 500, Threads: 2, Seed: 7}, false)
	require.NoError(t, err)
	assert.Equal(t, mc.Yield{Multiplicity: -1, StdError: 0.5, MaxWeight: 2, Discarded: 7, Samples: 500}, yield)
}

func TestIntegrateRandomizedSkipsCache(t *testing.T) {
	ctx := context.Background()
	r, sampler, pion, key := cachedRunner(t)
	yield, err := r.integrate(ctx, sampler, pion, mc.Options{Samples: 500, Threads: 2, Seed: 11}, true)
	require.NoError(t, err)
	assert.Positive(t, yield.Multiplicity)

	stored, err := r.cache.Lookup(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, -1., stored.Multiplicity)
	assert.Equal(t, "earlier", stored.RunID)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	settings := config.RunSettings{Seed: 1, Threads: 1}

	err := run(context.Background(), []string{"-input", filepath.Join(dir, "missing.toml")}, settings)
	assert.Error(t, err)

	input := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(input, []byte(`
[Models.bad]
T0 = 9.0
R = 8.0
H = 0.1
A = 0.0
GammaS = 1.0
Temperature = 165.0
Chemistry = "chemical_potential"
MuB = 0.0
MuI = 0.0
MuS = 0.0
MuC = 0.0
Species = ["graviton"]
IntegrateSamples = 10
`), 0600))
	err = run(context.Background(), []string{"-input", input, "-o", dir}, settings)
	assert.Error(t, err)

	err = run(context.Background(), []string{"-input", input, "-threads", "0"}, settings)
	assert.ErrorIs(t, err, config.ErrInvalidParameter)
}
