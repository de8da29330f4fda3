package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Value int
	Name  string
	Calls []string
}

func withValue(v int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if v < 0 {
			return errors.New("value cannot be negative")
		}
		c.Value = v
		c.Calls = append(c.Calls, "value")

		return nil
	})
}

func withName(name string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.Name = name
		c.Calls = append(c.Calls, "name")
	})
}

func TestApply(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg, withValue(42), nil, withName("fixture"))
	require.NoError(t, err)
	require.Equal(t, 42, cfg.Value)
	require.Equal(t, "fixture", cfg.Name)
	require.Equal(t, []string{"value", "name"}, cfg.Calls)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg, withName("a"), withValue(-1), withName("b"))
	require.EqualError(t, err, "value cannot be negative")
	require.Equal(t, "a", cfg.Name)
	require.Equal(t, []string{"name"}, cfg.Calls)
}

func TestApply_NoOptions(t *testing.T) {
	cfg := &testConfig{Value: 7}

	require.NoError(t, Apply(cfg))
	require.Equal(t, 7, cfg.Value)
}
