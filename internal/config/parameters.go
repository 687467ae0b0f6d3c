package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	ErrMissingParameter = errors.New("missing model parameter")
	ErrUnknownChemistry = errors.New("unknown chemistry mode")
	ErrInvalidParameter = errors.New("invalid model parameter")
)

const (
	ChemicalPotential = "chemical_potential"
	GammaLambda       = "gamma_lambda"
)

type Config struct {
	OutputDir string
	Models    map[string]ModelParameters
	ModelParameters

	InputUnits  []string
	OutputUnits []string

	isDefinedMap map[string]struct{}
	meta         toml.MetaData
}

func (c *Config) isDefined(path ...string) bool {
	if _, sureDefined := c.isDefinedMap[strings.Join(path, "#")]; sureDefined {
		return true
	}
	return c.meta.IsDefined(path...)
}

func (c *Config) markDefined(path ...string) {
	if c.isDefinedMap == nil {
		c.isDefinedMap = map[string]struct{}{}
	}
	c.isDefinedMap[strings.Join(path, "#")] = struct{}{}
}

// LoadConfig reads a TOML model file, or an INI model file when the name
// ends with ".ini". A name without extension is looked up as "<name>.toml".
func LoadConfig(configFileName string) (Config, error) {
	var config Config
	config.isDefinedMap = map[string]struct{}{}

	switch filepath.Ext(configFileName) {
	case ".ini":
		if err := loadINI(configFileName, &config); err != nil {
			return config, err
		}
	default:
		configFileName = strings.TrimSuffix(configFileName, ".toml")
		meta, err := toml.DecodeFile(configFileName+".toml", &config)
		if err != nil {
			return config, fmt.Errorf("decode %s.toml: %w", configFileName, err)
		}
		config.meta = meta
	}

	var unitsConflict []string
	config.InputUnits, unitsConflict = checkUnits(config.InputUnits)
	if len(unitsConflict) > 0 {
		return config, fmt.Errorf("%w: input unit conflict %v", ErrInvalidParameter, unitsConflict)
	}
	if len(config.OutputUnits) == 0 {
		config.OutputUnits = config.InputUnits
	}
	config.OutputUnits, unitsConflict = checkUnits(config.OutputUnits)
	if len(unitsConflict) > 0 {
		return config, fmt.Errorf("%w: output unit conflict %v", ErrInvalidParameter, unitsConflict)
	}

	if len(config.Models) == 0 {
		return config, fmt.Errorf("%w: no models provided", ErrMissingParameter)
	}
	return config, nil
}

// ModelNames lists the configured models in sorted order.
func (c *Config) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for name := range c.Models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type ModelParameters struct {
	T0          float64 // [fm]
	R           float64 // [fm]
	H           float64 // [1]
	A           float64 // [1]
	GammaS      float64 // [1]
	Temperature float64 // [MeV]

	Chemistry string
	MuB       float64 // [MeV]
	MuI       float64 // [MeV]
	MuS       float64 // [MeV]
	MuC       float64 // [MeV]
	LambdaQ   float64
	LambdaI   float64
	LambdaS   float64
	LambdaC   float64
	GammaQ    float64
	GammaC    float64

	IntegrateSamples int
	Events           int
	Species          []string
	FiniteWidth      bool
	Randomize        bool
	EventSubDir      string
	ParticlesFile    string

	_name        string
	_verbose     bool
	_threads     int
	_outputUnits []string
}

func (p *ModelParameters) Name() string {
	return p._name
}

func (p *ModelParameters) Verbose() bool {
	return p._verbose
}

func (p *ModelParameters) SetVerbosity(verbose bool) {
	p._verbose = verbose
}

func (p *ModelParameters) Threads() int {
	return p._threads
}

func (p *ModelParameters) SetThreads(threads int) {
	p._threads = threads
}

func (p *ModelParameters) OutputUnits() []string {
	return p._outputUnits
}

var defaultValues = map[string]any{
	"IntegrateSamples": 100000,
	"Events":           0,
	"Species":          []string{"pi+", "pi-", "pi0", "K+", "K-", "p", "pbar"},
	"FiniteWidth":      false,
	"Randomize":        false,
	"EventSubDir":      "",
	"ParticlesFile":    "",
}

var requiredFields = []string{"T0", "R", "H", "A", "GammaS", "Temperature", "Chemistry"}

var chemistryFields = map[string][]string{
	ChemicalPotential: {"MuB", "MuI", "MuS", "MuC"},
	GammaLambda:       {"LambdaQ", "LambdaI", "LambdaS", "LambdaC", "GammaQ", "GammaC"},
}

// defaults that only apply within one chemistry mode
var chemistryDefaults = map[string]map[string]any{
	ChemicalPotential: {"GammaQ": 1., "GammaC": 1.},
	GammaLambda:       {},
}

var valueUnits = map[string][]UnitElement{
	"T0":          {{Class: Length, Power: 1}},
	"R":           {{Class: Length, Power: 1}},
	"Temperature": {{Class: Energy, Power: 1}},
	"MuB":         {{Class: Energy, Power: 1}},
	"MuI":         {{Class: Energy, Power: 1}},
	"MuS":         {{Class: Energy, Power: 1}},
	"MuC":         {{Class: Energy, Power: 1}},
}

func (modelConfig *ModelParameters) toNatural(parameterNames, units []string) {
	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	for _, name := range parameterNames {
		field := modelConfigReflect.FieldByName(name)
		if classes, some := valueUnits[name]; some && field.CanFloat() {
			field.SetFloat(Natural(field.Float(), classes, units, true))
		}
	}
}

/*
field value priority:
1. model
2. global
3. chemistry-mode default
4. default
*/

// CheckAndUnify fills modelConfig from the global section and defaults,
// converts it to natural units and validates it.
func (modelConfig *ModelParameters) CheckAndUnify(modelName string, config *Config) error {
	modelConfig._name = modelName
	modelConfig._outputUnits = config.OutputUnits
	var discoveredParameters []string

	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	modelConfigType := modelConfigReflect.Type()
	globalReflect := reflect.ValueOf(&config.ModelParameters).Elem()

	for i := range modelConfigReflect.NumField() {
		field := modelConfigType.Field(i)
		if !field.IsExported() {
			continue
		}
		if config.isDefined("Models", modelName, field.Name) {
			discoveredParameters = append(discoveredParameters, field.Name)
		} else if config.isDefined(field.Name) {
			modelConfigReflect.Field(i).Set(globalReflect.Field(i))
			discoveredParameters = append(discoveredParameters, field.Name)
		}
	}

	var missing []string
	for _, name := range requiredFields {
		if !slices.Contains(discoveredParameters, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("model %s: %w: %v", modelName, ErrMissingParameter, missing)
	}

	modeFields, knownMode := chemistryFields[modelConfig.Chemistry]
	if !knownMode {
		return fmt.Errorf("model %s: %w: %q (expected %q or %q)",
			modelName, ErrUnknownChemistry, modelConfig.Chemistry, ChemicalPotential, GammaLambda)
	}
	for fieldName, value := range chemistryDefaults[modelConfig.Chemistry] {
		if !slices.Contains(discoveredParameters, fieldName) {
			modelConfigReflect.FieldByName(fieldName).Set(reflect.ValueOf(value))
			discoveredParameters = append(discoveredParameters, fieldName)
		}
	}
	for _, name := range modeFields {
		if !slices.Contains(discoveredParameters, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("model %s (%s): %w: %v", modelName, modelConfig.Chemistry, ErrMissingParameter, missing)
	}

	modelConfig.toNatural(discoveredParameters, config.InputUnits)

	for fieldName, value := range defaultValues {
		if !slices.Contains(discoveredParameters, fieldName) {
			modelConfigReflect.FieldByName(fieldName).Set(reflect.ValueOf(value))
		}
	}

	return modelConfig.validate()
}

func (p *ModelParameters) validate() error {
	switch {
	case p.R <= 0:
		return fmt.Errorf("model %s: %w: R must be positive, got %g", p._name, ErrInvalidParameter, p.R)
	case p.Temperature <= 0:
		return fmt.Errorf("model %s: %w: Temperature must be positive, got %g", p._name, ErrInvalidParameter, p.Temperature)
	case p.IntegrateSamples <= 0:
		return fmt.Errorf("model %s: %w: IntegrateSamples must be positive, got %d", p._name, ErrInvalidParameter, p.IntegrateSamples)
	case p.Events < 0:
		return fmt.Errorf("model %s: %w: Events must not be negative, got %d", p._name, ErrInvalidParameter, p.Events)
	}
	for _, gamma := range []struct {
		name  string
		value float64
	}{{"GammaQ", p.GammaQ}, {"GammaS", p.GammaS}, {"GammaC", p.GammaC}} {
		if gamma.value <= 0 {
			return fmt.Errorf("model %s: %w: %s must be positive, got %g", p._name, ErrInvalidParameter, gamma.name, gamma.value)
		}
	}
	if p.Chemistry == GammaLambda {
		for name, lambda := range map[string]float64{"LambdaQ": p.LambdaQ, "LambdaI": p.LambdaI, "LambdaS": p.LambdaS, "LambdaC": p.LambdaC} {
			if lambda <= 0 {
				return fmt.Errorf("model %s: %w: %s must be positive, got %g", p._name, ErrInvalidParameter, name, lambda)
			}
		}
	}
	return nil
}
