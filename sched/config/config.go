package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/procsim/sched/commander"
	"github.com/twitter/procsim/sched/journal"
	"github.com/twitter/procsim/sched/scheduler"
)

// JSONConfigs config structure holding the json configs of one simulation
type JSONConfigs struct {
	Scheduler SchedulerJSONConfig `json:"Scheduler"`
	Commander CommanderJSONConfig `json:"Commander"`
	Journal   JournalJSONConfig   `json:"Journal"`
}

func (s JSONConfigs) String() string {
	return fmt.Sprintf("\n%s\n%s\n%s", s.Scheduler, s.Commander, s.Journal)
}

type SchedulerJSONConfig struct {
	Quanta    []int `json:"Quanta"`    // one quantum per priority level
	Resources int   `json:"Resources"` // number of blockable resources
	MaxPid    int   `json:"MaxPid"`    // 0 means unbounded
}

func (sc SchedulerJSONConfig) String() string {
	return fmt.Sprintf("SchedulerJSONConfig: Quanta: %v, Resources: %d, MaxPid: %d", sc.Quanta, sc.Resources, sc.MaxPid)
}

type CommanderJSONConfig struct {
	Pace         string `json:"Pace"`  // duration between delivered commands, default to 0s
	Burst        int    `json:"Burst"` // default to 1
	StopOnReject bool   `json:"StopOnReject"`
}

func (cc CommanderJSONConfig) String() string {
	return fmt.Sprintf("CommanderJSONConfig: Pace: %s, Burst: %d, StopOnReject: %t", cc.Pace, cc.Burst, cc.StopOnReject)
}

type JournalJSONConfig struct {
	Type     string `json:"Type"`     // memory, none
	Capacity int    `json:"Capacity"` // 0 keeps every event
}

func (jc JournalJSONConfig) String() string {
	return fmt.Sprintf("JournalJSONConfig: Type: %s, Capacity: %d", jc.Type, jc.Capacity)
}

// Names lists the built-in configurations.
func Names() []string {
	keys := make([]string, 0, len(SchedulerConfigs))
	for k := range SchedulerConfigs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetConfigText finds the right text for a configSelector: a built-in
// configuration name, a path to a .json file, or literal json text.
func GetConfigText(configSelector string) ([]byte, error) {
	if configText, ok := SchedulerConfigs[configSelector]; ok {
		return []byte(configText), nil
	}
	trimmed := strings.TrimSpace(configSelector)
	if strings.HasPrefix(trimmed, "{") {
		log.Infof("using config selector as literal json config")
		return []byte(trimmed), nil
	}
	if strings.HasSuffix(configSelector, ".json") {
		log.Infof("reading config file %s", configSelector)
		configText, err := ioutil.ReadFile(configSelector)
		if err != nil {
			return nil, errors.Wrapf(err, "error loading config file %s", configSelector)
		}
		return configText, nil
	}
	return nil, fmt.Errorf("invalid configuration %s, supported values are %v, a .json file or literal json", configSelector, Names())
}

// GetConfig parses the configuration selected by configSelector. Sections the
// selected text leaves out take their values from the default configuration,
// and so do the fields a section leaves out.
func GetConfig(configSelector string) (*JSONConfigs, error) {
	defaultConfigText, _ := GetConfigText("default")
	config := &JSONConfigs{}
	if err := json.Unmarshal(defaultConfigText, config); err != nil {
		return nil, errors.Wrap(err, "couldn't parse the default config")
	}

	configText, err := GetConfigText(configSelector)
	if err != nil {
		return nil, err
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(configText, &sections); err != nil {
		return nil, errors.Wrap(err, "couldn't parse top-level config")
	}

	targets := map[string]interface{}{
		"Scheduler": &config.Scheduler,
		"Commander": &config.Commander,
		"Journal":   &config.Journal,
	}
	for name := range sections {
		if _, ok := targets[name]; !ok {
			return nil, fmt.Errorf("unknown config section %q", name)
		}
	}
	for _, name := range []string{"Scheduler", "Commander", "Journal"} {
		raw, ok := sections[name]
		if !ok || len(raw) == 0 || string(raw) == "null" {
			log.Infof("using default %s config", name)
			continue
		}
		if err := json.Unmarshal(raw, targets[name]); err != nil {
			return nil, errors.Wrapf(err, "couldn't parse %s config", name)
		}
	}
	return config, nil
}

func (sc *SchedulerJSONConfig) CreateSchedulerConfig() (scheduler.SchedulerConfig, error) {
	quanta := make([]int, len(sc.Quanta))
	copy(quanta, sc.Quanta)
	c := scheduler.SchedulerConfig{
		Quanta:    quanta,
		Resources: sc.Resources,
		MaxPid:    sc.MaxPid,
	}
	if err := c.Validate(); err != nil {
		return scheduler.SchedulerConfig{}, err
	}
	return c, nil
}

func (cc *CommanderJSONConfig) CreateCommanderConfig() (commander.Config, error) {
	c := commander.Config{Burst: cc.Burst, StopOnReject: cc.StopOnReject}
	if cc.Pace != "" {
		pace, err := time.ParseDuration(cc.Pace)
		if err != nil {
			return commander.Config{}, errors.Wrapf(err, "bad commander pace %q", cc.Pace)
		}
		if pace < 0 {
			return commander.Config{}, fmt.Errorf("commander pace must not be negative, got %s", pace)
		}
		c.Pace = pace
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
	return c, nil
}

func (jc *JournalJSONConfig) CreateJournal() (journal.Journal, error) {
	switch jc.Type {
	case "memory":
		if jc.Capacity < 0 {
			return nil, fmt.Errorf("journal capacity must not be negative, got %d", jc.Capacity)
		}
		return journal.MakeInMemoryJournal(jc.Capacity), nil
	case "none":
		return journal.MakeNopJournal(), nil
	}
	return nil, fmt.Errorf("unknown journal type %q, supported values are memory and none", jc.Type)
}
