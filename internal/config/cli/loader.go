package cli_config

import (
	"strings"

	common "github.com/NordCoder/ProjectEye/internal/config/common"
	"github.com/spf13/viper"
)

// Load reads path (optional) on top of v. Flags bound to v by the caller
// take precedence over file, env and defaults.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		_ = v.ReadInConfig()
	}

	common.SetDefaults(v, "projecteye-cli")
	// Diagnostics go to stderr so stdout stays machine readable.
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.pretty", true)

	v.SetEnvPrefix("projecteye")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.API.BaseURL == "" {
		return nil, common.ErrConfig("api.base_url is empty")
	}
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
