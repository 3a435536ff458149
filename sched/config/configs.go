package config

// SchedulerConfigs the map of available configurations
var SchedulerConfigs = map[string]string{
	"default": defaultConfig,
	"classic": classicConfig,
	"wide":    wideConfig,
}

// defaultConfig the configuration values that are used for the sections a specific configuration leaves out
const defaultConfig = `{
	"Scheduler": {
		"Quanta": [1, 2, 4, 8],
		"Resources": 3,
		"MaxPid": 0
	},
	"Commander": {
		"Pace": "0s",
		"Burst": 1,
		"StopOnReject": false
	},
	"Journal": {
		"Type": "memory",
		"Capacity": 10000
	}
}`

// classicConfig a table of 100 pids, a commander that waits 2s between lines
// and stops at the first bad one - !!! make sure this constant is added to SchedulerConfigs map above !!!
const classicConfig = `{
	"Scheduler": {
		"Quanta": [1, 2, 4, 8],
		"Resources": 3,
		"MaxPid": 100
	},
	"Commander": {
		"Pace": "2s",
		"Burst": 1,
		"StopOnReject": true
	},
	"Journal": {
		"Type": "none"
	}
}`

// wideConfig six levels and eight resources - !!! make sure this constant is added to SchedulerConfigs map above !!!
const wideConfig = `{
	"Scheduler": {
		"Quanta": [1, 2, 4, 8, 16, 32],
		"Resources": 8
	}
}`
