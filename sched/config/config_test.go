package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests to ensure config is properly specified
// and that they parse correctly
func TestGettingConfigurations(t *testing.T) {
	for _, configSelector := range Names() {
		config, err := GetConfig(configSelector)
		assert.Nil(t, err, fmt.Sprintf("error getting config %s: %v", configSelector, err))
		if err != nil {
			continue
		}
		_, err = config.Scheduler.CreateSchedulerConfig()
		assert.Nil(t, err, configSelector)
		_, err = config.Commander.CreateCommanderConfig()
		assert.Nil(t, err, configSelector)
		_, err = config.Journal.CreateJournal()
		assert.Nil(t, err, configSelector)
	}

	selector := "invalid.selector"
	config, err := GetConfig(selector)
	assert.NotNil(t, err, fmt.Sprintf("configuration returned for %s: %s", selector, config))
}

func TestClassicConfig(t *testing.T) {
	config, err := GetConfig("classic")
	require.Nil(t, err)
	sc, err := config.Scheduler.CreateSchedulerConfig()
	require.Nil(t, err)
	assert.Equal(t, 100, sc.MaxPid)
	assert.Equal(t, []int{1, 2, 4, 8}, sc.Quanta)

	cc, err := config.Commander.CreateCommanderConfig()
	require.Nil(t, err)
	assert.Equal(t, 2*time.Second, cc.Pace)
	assert.True(t, cc.StopOnReject)
	assert.Equal(t, "none", config.Journal.Type)
}

// TestWideConfigUsesDefaults checks that sections missing from a configuration
// come from the default one.
func TestWideConfigUsesDefaults(t *testing.T) {
	config, err := GetConfig("wide")
	require.Nil(t, err)
	assert.Equal(t, []int{1, 2, 4, 8, 16, 32}, config.Scheduler.Quanta)
	assert.Equal(t, 8, config.Scheduler.Resources)
	assert.Equal(t, "memory", config.Journal.Type)
	assert.Equal(t, "0s", config.Commander.Pace)
}

func TestLiteralJSON(t *testing.T) {
	config, err := GetConfig(`{"Scheduler": {"Resources": 5}, "Commander": {"Pace": "10ms"}}`)
	require.Nil(t, err)
	assert.Equal(t, 5, config.Scheduler.Resources)
	assert.Equal(t, []int{1, 2, 4, 8}, config.Scheduler.Quanta)

	cc, err := config.Commander.CreateCommanderConfig()
	require.Nil(t, err)
	assert.Equal(t, 10*time.Millisecond, cc.Pace)
	assert.Equal(t, 1, cc.Burst)
}

func TestConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "procsim-config")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "sim.json")
	require.Nil(t, ioutil.WriteFile(path, []byte(`{"Journal": {"Type": "none"}}`), 0644))
	config, err := GetConfig(path)
	require.Nil(t, err)
	assert.Equal(t, "none", config.Journal.Type)

	_, err = GetConfig(filepath.Join(dir, "missing.json"))
	assert.NotNil(t, err)
}

func TestBadConfigs(t *testing.T) {
	for _, text := range []string{
		`{"Scheduler": {"Quanta": "fast"}}`,
		`{"Unknown": {}}`,
		`{not json`,
	} {
		_, err := GetConfig(text)
		assert.NotNil(t, err, text)
	}

	config, err := GetConfig(`{"Scheduler": {"Quanta": [1, 0]}}`)
	require.Nil(t, err)
	_, err = config.Scheduler.CreateSchedulerConfig()
	assert.NotNil(t, err)

	config, err = GetConfig(`{"Commander": {"Pace": "soon"}}`)
	require.Nil(t, err)
	_, err = config.Commander.CreateCommanderConfig()
	assert.NotNil(t, err)

	config, err = GetConfig(`{"Journal": {"Type": "file"}}`)
	require.Nil(t, err)
	_, err = config.Journal.CreateJournal()
	assert.NotNil(t, err)
}
