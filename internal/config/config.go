// Package config loads the bridge's environment-based configuration,
// grounded on gobfd's internal/config.Load koanf/v2 + env provider
// pattern, simplified to env-only since spec.md names no file/CLI layer.
package config

import (
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds every value spec.md §6 names under "Configuration
// (environment)".
type Config struct {
	TimescaleDBHost     string
	TimescaleDBPort     uint16
	TimescaleDBUser     string
	TimescaleDBPassword string
	TimescaleDBDatabase string

	TapIP            string
	TapMask          string
	TapInterfaceName string

	DockerInterfaceName string
	DockerMode          bool
}

var requiredKeys = []string{
	"timescale_db_host",
	"timescale_db_port",
	"timescale_db_user",
	"timescale_db_password",
	"timescale_db_database",
	"tap_ip",
	"tap_mask",
	"tap_interface_name",
	"docker_interface_name",
}

// Load reads the environment into a Config. Any required key missing or
// unparseable yields a startup-halting *Error (spec.md §6: "Missing/
// unparseable ⇒ startup failure with a distinguishing error kind").
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, &Error{Kind: KindEnvParse, Key: "*", Context: err.Error()}
	}

	for _, key := range requiredKeys {
		if !k.Exists(key) {
			return nil, &Error{Kind: KindEnvMissing, Key: strings.ToUpper(key), Context: "required environment variable not set"}
		}
	}

	port, err := strconv.ParseUint(k.String("timescale_db_port"), 10, 16)
	if err != nil {
		return nil, &Error{Kind: KindEnvParse, Key: "TIMESCALE_DB_PORT", Context: err.Error()}
	}

	cfg := &Config{
		TimescaleDBHost:     k.String("timescale_db_host"),
		TimescaleDBPort:     uint16(port),
		TimescaleDBUser:     k.String("timescale_db_user"),
		TimescaleDBPassword: k.String("timescale_db_password"),
		TimescaleDBDatabase: k.String("timescale_db_database"),
		TapIP:               k.String("tap_ip"),
		TapMask:             k.String("tap_mask"),
		TapInterfaceName:    k.String("tap_interface_name"),
		DockerInterfaceName: k.String("docker_interface_name"),
		DockerMode:          strings.EqualFold(k.String("docker_mode"), "true"),
	}
	return cfg, nil
}
