package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeConfig struct {
	Foo string        `yaml:"foo"`
	Bar string        `yaml:"bar"`
	Sub fakeSubConfig `yaml:"sub"`
}

type fakeSubConfig struct {
	Car int `yaml:"car"`
}

func TestConfig_Load(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		f, err := os.CreateTemp("", "shardsim")
		assert.NoError(t, err)

		_, err = f.WriteString(`foo: val1
bar: val2
sub:
  car: 5`)
		assert.NoError(t, err)

		c := &Config{Path: f.Name()}
		var conf fakeConfig
		assert.NoError(t, c.Load(&conf))

		assert.Equal(t, "val1", conf.Foo)
		assert.Equal(t, "val2", conf.Bar)
		assert.Equal(t, 5, conf.Sub.Car)
	})

	t.Run("expand env", func(t *testing.T) {
		f, err := os.CreateTemp("", "shardsim")
		assert.NoError(t, err)

		_ = os.Setenv("SHARDSIM_VAL1", "val1")
		_ = os.Setenv("SHARDSIM_VAL2", "val2")

		_, err = f.WriteString(`foo: $SHARDSIM_VAL1
bar: ${SHARDSIM_VAL2}
sub:
  car: ${SHARDSIM_VAL3:5}`)
		assert.NoError(t, err)

		c := &Config{Path: f.Name(), ExpandEnv: true}
		var conf fakeConfig
		assert.NoError(t, c.Load(&conf))

		assert.Equal(t, "val1", conf.Foo)
		assert.Equal(t, "val2", conf.Bar)
		assert.Equal(t, 5, conf.Sub.Car)
	})

	t.Run("unknown key", func(t *testing.T) {
		f, err := os.CreateTemp("", "shardsim")
		assert.NoError(t, err)

		_, err = f.WriteString(`unknown: xyz`)
		assert.NoError(t, err)

		c := &Config{Path: f.Name()}
		var conf fakeConfig
		assert.Error(t, c.Load(&conf))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		f, err := os.CreateTemp("", "shardsim")
		assert.NoError(t, err)

		_, err = f.WriteString(`invalid yaml...`)
		assert.NoError(t, err)

		c := &Config{Path: f.Name()}
		var conf fakeConfig
		assert.Error(t, c.Load(&conf))
	})

	t.Run("not found", func(t *testing.T) {
		c := &Config{Path: "/a/b/c/notfound"}
		var conf fakeConfig
		assert.Error(t, c.Load(&conf))
	})

	t.Run("no path is a no-op", func(t *testing.T) {
		c := &Config{}
		var conf fakeConfig
		assert.NoError(t, c.Load(&conf))
	})
}
