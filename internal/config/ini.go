package config

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/wildstyl3r/sremit/internal/utils"
	"gopkg.in/gcfg.v1"
)

// iniModel holds the raw values of a [model] section; an empty value means
// the parameter was not given.
type iniModel struct {
	T0          string
	R           string
	H           string
	A           string
	GammaS      string
	Temperature string

	Chemistry string
	MuB       string
	MuI       string
	MuS       string
	MuC       string
	LambdaQ   string
	LambdaI   string
	LambdaS   string
	LambdaC   string
	GammaQ    string
	GammaC    string

	IntegrateSamples string
	Events           string
	Species          []string
	FiniteWidth      string
	Randomize        string
	EventSubDir      string
	ParticlesFile    string
}

type iniFile struct {
	Model iniModel
	Units struct {
		Input  []string
		Output []string
	}
}

func loadINI(fileName string, config *Config) error {
	var file iniFile
	if err := gcfg.FatalOnly(gcfg.ReadFileInto(&file, fileName)); err != nil {
		return fmt.Errorf("read %s: %w", fileName, err)
	}

	modelName := utils.GetFilename(fileName)
	var parameters ModelParameters
	target := reflect.ValueOf(&parameters).Elem()
	source := reflect.ValueOf(file.Model)
	sourceType := source.Type()
	for i := range source.NumField() {
		name := sourceType.Field(i).Name
		field := target.FieldByName(name)
		raw := source.Field(i)
		if raw.Kind() == reflect.Slice {
			if raw.Len() > 0 {
				field.Set(raw)
				config.markDefined("Models", modelName, name)
			}
			continue
		}
		if raw.String() == "" {
			continue
		}
		if err := setFromString(field, raw.String()); err != nil {
			return fmt.Errorf("%s: parameter %s: %w", fileName, name, err)
		}
		config.markDefined("Models", modelName, name)
	}

	config.Models = map[string]ModelParameters{modelName: parameters}
	config.InputUnits = file.Units.Input
	config.OutputUnits = file.Units.Output
	return nil
}

func setFromString(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.Float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(v)
	case reflect.Int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(v))
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(v)
	case reflect.String:
		field.SetString(raw)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
