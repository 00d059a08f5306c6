package formula

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Probe is the input file the self-test writes before invoking the installed tool.
type Probe struct {
	File    string   `yaml:"file"`
	Content string   `yaml:"content"`
	Args    []string `yaml:"args"`
}

// Recipe is the declarative part of a formula: what to call for each stage.
// Fields absent from a recipe file keep their DefaultRecipe values.
type Recipe struct {
	Name          string `yaml:"name"`
	Version       string `yaml:"version"`
	Homepage      string `yaml:"homepage"`
	Bootstrap     string `yaml:"bootstrap"`
	Make          string `yaml:"make"`
	InstallTarget string `yaml:"install_target"`
	Binary        string `yaml:"binary"`
	LTO           bool   `yaml:"lto"`
	Probe         Probe  `yaml:"probe"`
}

// DefaultRecipe builds CMake from its source tree.
func DefaultRecipe() Recipe {
	return Recipe{
		Name:          "cmake",
		Homepage:      "https://www.cmake.org/",
		Bootstrap:     "./bootstrap",
		Make:          "make",
		InstallTarget: "install",
		Binary:        "bin/cmake",
		LTO:           true,
		Probe: Probe{
			File:    "CMakeLists.txt",
			Content: "cmake_minimum_required(VERSION 3.5)\nproject(probe NONE)\n",
			Args:    []string{"."},
		},
	}
}

// LoadRecipe reads a YAML recipe and layers it over DefaultRecipe.
// Unknown keys are rejected so that typos do not silently fall back to defaults.
func LoadRecipe(path string) (Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to open recipe: %w", err)
	}
	defer f.Close()
	return DecodeRecipe(f)
}

// DecodeRecipe is LoadRecipe for an already opened stream.
func DecodeRecipe(r io.Reader) (Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to read recipe: %w", err)
	}

	recipe := DefaultRecipe()
	if len(bytes.TrimSpace(data)) == 0 {
		return recipe, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&recipe); err != nil && !errors.Is(err, io.EOF) {
		return Recipe{}, fmt.Errorf("%w: failed to parse recipe: %v", ErrInvalidConfig, err)
	}

	if err := recipe.Validate(); err != nil {
		return Recipe{}, err
	}
	return recipe, nil
}

func (r Recipe) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if r.Bootstrap == "" {
		missing = append(missing, "bootstrap")
	}
	if r.Make == "" {
		missing = append(missing, "make")
	}
	if strings.TrimSpace(r.InstallTarget) == "" {
		missing = append(missing, "install_target")
	}
	if r.Binary == "" {
		missing = append(missing, "binary")
	}
	if r.Probe.File == "" {
		missing = append(missing, "probe.file")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: recipe is missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}
