package formula

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecipe_OverridesDefaults(t *testing.T) {
	src := `
name: ninja-cmake
version: "3.11.0"
make: ninja
lto: false
probe:
  content: |
    project(x NONE)
`
	r, err := DecodeRecipe(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "ninja-cmake", r.Name)
	assert.Equal(t, "3.11.0", r.Version)
	assert.Equal(t, "ninja", r.Make)
	assert.False(t, r.LTO)
	assert.Equal(t, "./bootstrap", r.Bootstrap, "absent keys keep their defaults")
	assert.Equal(t, "CMakeLists.txt", r.Probe.File)
	assert.Equal(t, "project(x NONE)\n", r.Probe.Content)
}

func TestDecodeRecipe_Empty(t *testing.T) {
	r, err := DecodeRecipe(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRecipe(), r)
}

func TestDecodeRecipe_UnknownField(t *testing.T) {
	_, err := DecodeRecipe(strings.NewReader("bootsrap: ./configure\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDecodeRecipe_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"make", "make: \"\"\n", "make"},
		{"install target", "install_target: \"\"\n", "install_target"},
		{"blank install target", "install_target: \"  \"\n", "install_target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecipe(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDefaultRecipe_IsIndependent(t *testing.T) {
	a := DefaultRecipe()
	a.Probe.Args[0] = "changed"
	assert.Equal(t, ".", DefaultRecipe().Probe.Args[0])
}

func TestLoadRecipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmake.yaml")
	require.NoError(t, os.WriteFile(path, []byte("homepage: https://example.org\n"), 0o644))

	r, err := LoadRecipe(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", r.Homepage)

	_, err = LoadRecipe(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
