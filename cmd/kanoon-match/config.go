// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/kanoon-match/internal/httputil"
	"github.com/pdiddy/kanoon-match/internal/search"
	"github.com/pdiddy/kanoon-match/internal/storage"
	"github.com/pdiddy/kanoon-match/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "kanoon-match/0.1"
	defaultAddr      = ":3001"
)

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("kanoon-match")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "kanoon-match"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("KANOON_MATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// IK_TOKEN is the variable name the hosted deployments already use.
	_ = viper.BindEnv("token", "KANOON_MATCH_TOKEN", "IK_TOKEN")

	if err := viper.ReadInConfig(); err == nil {
		usedConfigFile = viper.ConfigFileUsed()
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "./")
	v.SetDefault("base_url", search.DefaultBaseURL)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("user_agent", defaultUserAgent)
	v.SetDefault("token", "")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("rate.per_second", 1.0)
	v.SetDefault("rate.burst", 1)
	v.SetDefault("serve.addr", defaultAddr)
}

// usedConfigFile is the config file that was read, if any.
var usedConfigFile string

func configFileUsed() string {
	return usedConfigFile
}

// loadAppConfig decodes the global viper state into an AppConfig.
func loadAppConfig() (types.AppConfig, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg, nil
}

// newClient builds the search client for token. The cache is attached only
// when caching is enabled, so the storage handle is otherwise never opened.
func newClient(token string, store *storage.FileStorage) *search.Client {
	c := &search.Client{
		HTTP:      &http.Client{Timeout: appCfg.Timeout},
		Token:     token,
		BaseURL:   appCfg.BaseURL,
		UserAgent: appCfg.UserAgent,
		Limiter:   httputil.NewLimiter(appCfg.Rate.PerSecond, appCfg.Rate.Burst),
		Log:       log,
	}
	if appCfg.Cache.Enabled && store != nil {
		c.Cache = store
	}
	return c
}
