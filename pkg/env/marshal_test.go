package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	Home string `env:"HOME"`
}

type sample struct {
	Prefix  string        `env:"PREFIX,required"`
	Jobs    int           `env:"JOBS"`
	Debug   bool          `env:"DEBUG"`
	Delay   time.Duration `env:"DELAY"`
	Tags    []string      `env:"TAGS"`
	Title   string        `env:"TITLE"`
	Skipped string
	Wizard  nested `envPrefix:"WIZARD_"`
}

func TestMarshalEnv(t *testing.T) {
	out, err := MarshalEnv(&sample{
		Prefix: "/opt/tool",
		Jobs:   4,
		Delay:  3 * time.Second,
		Tags:   []string{"a", "b"},
		Title:  "two words",
		Wizard: nested{Home: "/home/ci"},
	})
	require.NoError(t, err)

	want := "DELAY=3s\n" +
		"JOBS=4\n" +
		"PREFIX=/opt/tool\n" +
		"TAGS=a,b\n" +
		"TITLE=\"two words\"\n" +
		"WIZARD_HOME=/home/ci\n"
	assert.Equal(t, want, out)
}

func TestMarshalEnv_RejectsNonStruct(t *testing.T) {
	_, err := MarshalEnv(42)
	assert.Error(t, err)

	var s *sample
	_, err = MarshalEnv(s)
	assert.Error(t, err)
}
