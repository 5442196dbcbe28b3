package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PlanConfig holds configuration for the plan command.
type PlanConfig struct {
	RPCURL      string
	Network     string
	Pool        string
	Asset       string
	Amount      string
	Borrower    string
	AuditOut    string
	PGDSN       string
	DialRetries int
	DialBackoff time.Duration
	LogLevel    string
}

// SettleConfig holds configuration for the settle command.
type SettleConfig struct {
	RPCURL   string
	Pool     string
	Sender   string
	Payload  string
	AuditOut string
	PGDSN    string
	LogLevel string
}

// LoadPlan merges config file, environment variables, and flags into PlanConfig.
func LoadPlan(cfgFile string, flags *pflag.FlagSet) (PlanConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return PlanConfig{}, err
	}

	v.SetDefault("network", "mainnet")
	v.SetDefault("audit-out", "./data/loan_plans.jsonl")
	v.SetDefault("dial-retries", 3)
	v.SetDefault("dial-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	cfg := PlanConfig{
		RPCURL:      v.GetString("rpc"),
		Network:     v.GetString("network"),
		Pool:        v.GetString("pool"),
		Asset:       v.GetString("asset"),
		Amount:      v.GetString("amount"),
		Borrower:    v.GetString("borrower"),
		AuditOut:    v.GetString("audit-out"),
		PGDSN:       v.GetString("pg-dsn"),
		DialRetries: v.GetInt("dial-retries"),
		DialBackoff: v.GetDuration("dial-backoff"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}

// LoadSettle merges config file, environment variables, and flags into SettleConfig.
func LoadSettle(cfgFile string, flags *pflag.FlagSet) (SettleConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return SettleConfig{}, err
	}

	v.SetDefault("audit-out", "./data/settlements.jsonl")
	v.SetDefault("log-level", "info")

	cfg := SettleConfig{
		RPCURL:   v.GetString("rpc"),
		Pool:     v.GetString("pool"),
		Sender:   v.GetString("sender"),
		Payload:  v.GetString("payload"),
		AuditOut: v.GetString("audit-out"),
		PGDSN:    v.GetString("pg-dsn"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("FLASHLEND")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

// LoadNetworks reads extra network entries from the config file under the
// "networks" key and merges them over the built-in table. A redefined key
// replaces the built-in entry.
func LoadNetworks(cfgFile string) (map[string]NetworkSpec, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	specs := make(map[string]NetworkSpec)
	if err := v.UnmarshalKey("networks", &specs); err != nil {
		return nil, fmt.Errorf("parse networks: %w", err)
	}
	return specs, nil
}
