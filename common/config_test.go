package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var configYAML = []byte(`
log:
  env: development
  level: info
  no_caller: true
`)

func TestAppConfig(t *testing.T) {
	config := &AppConfig{}
	err := LoadYAMl(configYAML, config)
	assert.Nil(t, err)
	assert.NotNil(t, config.LogConfig)
	assert.Equal(t, "development", config.LogConfig.Env)
	assert.Equal(t, "info", config.LogConfig.Level)
	assert.True(t, config.LogConfig.NoCaller)

	err = config.Parse()
	assert.Nil(t, err)
	assert.Equal(t, config.LogConfig, config.GetLogConfig())
}

func TestLoadYAMLEmpty(t *testing.T) {
	err := LoadYAMl(nil, &AppConfig{})
	assert.NotNil(t, err)
}
