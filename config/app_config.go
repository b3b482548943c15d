package config

import (
	"fmt"

	"github.com/Luismorlan/utxo_handler/model"
	"github.com/Luismorlan/utxo_handler/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// SignatureSchemeKey selects how input signatures are verified: rsa, ed25519 or secp256k1.
	SignatureSchemeKey = "signature_scheme"
	// PoolBackendKey selects where the handler keeps its pool: memory or badger.
	PoolBackendKey = "pool_backend"
	// AmountDecimalsKey is how many fractional digits a unit has in epoch files.
	AmountDecimalsKey = "amount_decimals"
	// LogLevelKey is a logrus level name, e.g. debug or info.
	LogLevelKey = "log_level"

	PoolBackendMemory = "memory"
	PoolBackendBadger = "badger"

	envPrefix = "TXHANDLER"
)

// This is the global app config for the transaction handler.
type AppConfig struct {
	SignatureScheme string `mapstructure:"signature_scheme"`
	PoolBackend     string `mapstructure:"pool_backend"`
	AmountDecimals  int32  `mapstructure:"amount_decimals"`
	LogLevel        string `mapstructure:"log_level"`
}

// LoadConfig reads the config file at path, if any, on top of the defaults.
// Every key can be overridden by a TXHANDLER_<KEY> environment variable.
func LoadConfig(path string) (AppConfig, error) {
	vip := viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.AutomaticEnv()

	vip.SetDefault(SignatureSchemeKey, utils.SchemeRSA)
	vip.SetDefault(PoolBackendKey, PoolBackendMemory)
	vip.SetDefault(AmountDecimalsKey, 0)
	vip.SetDefault(LogLevelKey, log.InfoLevel.String())

	if path != "" {
		vip.SetConfigFile(path)
		if err := vip.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("error while reading config: %w", err)
		}
	}

	c := AppConfig{}
	if err := vip.Unmarshal(&c); err != nil {
		return AppConfig{}, fmt.Errorf("error while decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("error while validating config: %w", err)
	}
	return c, nil
}

func (c AppConfig) Validate() error {
	if _, err := utils.NewVerifier(c.SignatureScheme); err != nil {
		return err
	}
	switch c.PoolBackend {
	case PoolBackendMemory, PoolBackendBadger:
	default:
		return fmt.Errorf("unknown pool backend %q", c.PoolBackend)
	}
	if c.AmountDecimals < 0 || c.AmountDecimals > model.MaxDecimals {
		return fmt.Errorf("%s must be in [0, %d]", AmountDecimalsKey, model.MaxDecimals)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured logrus level. Validate guarantees it parses.
func (c AppConfig) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
