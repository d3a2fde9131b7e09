package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/yamlconfig/config"
	yamlparser "github.com/0xalexb/yamlconfig/config/parser/yaml"
)

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	empty := &Config{}
	assert.True(t, empty.SetDefaults())
	assert.Equal(t, DefaultAddress, empty.Address)

	set := &Config{Address: ":9090"}
	assert.False(t, set.SetDefaults())
	assert.Equal(t, ":9090", set.Address)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, (&Config{Address: ":8080"}).Validate())
	require.ErrorIs(t, (&Config{}).Validate(), ErrEmptyAddress)
}

func TestConfigFromDocument(t *testing.T) {
	t.Parallel()

	doc, err := yamlparser.NewParser().Parse([]byte("inspect:\n  address: 127.0.0.1:9999\nbroken:\n  address: [1]\n"))
	require.NoError(t, err)

	cfg, err := ConfigFromDocument(doc, "inspect")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Address)

	cfg, err = ConfigFromDocument(doc, "debug")
	require.NoError(t, err)
	assert.Empty(t, cfg.Address)

	_, err = ConfigFromDocument(doc, "broken")
	require.ErrorIs(t, err, config.ErrTypeMismatch)
}

func TestWithAddress_Empty(t *testing.T) {
	t.Parallel()

	cfg := Config{Address: ":1"}

	WithAddress("")(&cfg)

	assert.Empty(t, cfg.Address, "WithAddress should set address even when empty")
}
