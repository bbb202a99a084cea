package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

const (
	DbModePostgres = "postgres"

	envPrefix = "SPEND_BROADCASTER"
)

var (
	ErrConfigFailedToSetDefaults = errors.New("error occurred while setting defaults")
	ErrConfigPath                = errors.New("config path error")
	ErrConfigInvalid             = errors.New("invalid config")
)

// Load builds the configuration from defaults, the config.yaml found in configFileDirs and
// SPEND_BROADCASTER_* environment variables, in increasing order of precedence.
func Load(configFileDirs ...string) (*SpendBroadcasterConfig, error) {
	sbConfig := getDefaultSpendBroadcasterConfig()

	v := viper.New()

	err := setDefaults(v, sbConfig)
	if err != nil {
		return nil, err
	}

	err = overrideWithFiles(v, configFileDirs...)
	if err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err = v.Unmarshal(sbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if sbConfig.Tracing != nil {
		tracingAttributes := make([]attribute.KeyValue, 0, len(sbConfig.Tracing.Attributes))
		for key, value := range sbConfig.Tracing.Attributes {
			tracingAttributes = append(tracingAttributes, attribute.String(key, value))
		}

		if len(tracingAttributes) > 0 {
			sbConfig.Tracing.KeyValueAttributes = tracingAttributes
		}
	}

	err = sbConfig.Validate()
	if err != nil {
		return nil, err
	}

	return sbConfig, nil
}

func (c *SpendBroadcasterConfig) Validate() error {
	if c.Broadcaster == nil || c.Broadcaster.Interval <= 0 {
		return errors.Join(ErrConfigInvalid, errors.New("broadcaster.interval must be positive"))
	}

	if c.Db == nil || c.Db.Mode != DbModePostgres {
		return errors.Join(ErrConfigInvalid, fmt.Errorf("db mode %v is not supported", dbMode(c.Db)))
	}

	if c.Db.Postgres == nil {
		return errors.Join(ErrConfigInvalid, errors.New("db.postgres is missing"))
	}

	if c.PeerRPC == nil || c.PeerRPC.Host == "" || c.PeerRPC.Port == 0 {
		return errors.Join(ErrConfigInvalid, errors.New("peerRpc host and port are required"))
	}

	return nil
}

// DumpConfig writes the effective configuration to the given file as yaml.
func (c *SpendBroadcasterConfig) DumpConfig(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(filename, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write config to %s: %w", filename, err)
	}

	return nil
}

func (c *DbConfig) DBInfo() string {
	cfg := c.Postgres

	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		cfg.User, cfg.Password, cfg.Name, cfg.Host, cfg.Port, cfg.SslMode,
	)
}

func dbMode(c *DbConfig) string {
	if c == nil {
		return "<nil>"
	}

	return c.Mode
}

func setDefaults(v *viper.Viper, defaultConfig *SpendBroadcasterConfig) error {
	defaultsMap := make(map[string]interface{})

	if err := mapstructure.Decode(defaultConfig, &defaultsMap); err != nil {
		err = errors.Join(ErrConfigFailedToSetDefaults, err)
		return err
	}

	for key, value := range defaultsMap {
		v.SetDefault(key, value)
	}

	return nil
}

func overrideWithFiles(v *viper.Viper, configFileDirs ...string) error {
	if len(configFileDirs) == 0 || configFileDirs[0] == "" {
		return nil
	}

	for _, path := range configFileDirs {
		stat, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return errors.Join(ErrConfigPath, fmt.Errorf("path: %s does not exist", path))
			}
			return err
		}
		if !stat.IsDir() {
			return errors.Join(ErrConfigPath, fmt.Errorf("path: %s should be a directory", path))
		}

		v.AddConfigPath(path)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	err := v.ReadInConfig()
	if err != nil {
		return err
	}

	return nil
}
