package cli

import (
	"errors"
	"fmt"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/dukerupert/larder/internal/catalog"
	"github.com/dukerupert/larder/internal/gateway"
)

// Settings is the CLI configuration. Values come from defaults, then an
// optional .larder.yaml, then LARDER_* environment variables, then flags.
type Settings struct {
	APIURL   string        `json:"api_url"`
	APIKey   string        `json:"-"`
	StateDir string        `json:"state_dir"`
	Locale   string        `json:"locale"`
	Timeout  time.Duration `json:"timeout"`
	LogLevel string        `json:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("api_key", "")
	v.SetDefault("state_dir", "~/.larder")
	v.SetDefault("locale", catalog.DefaultLocale)
	v.SetDefault("timeout", gateway.DefaultTimeout)
	v.SetDefault("log_level", "warn")
}

// LoadSettings reads configFile, or .larder.yaml from the working directory
// or the home directory when configFile is empty. A missing default file is
// not an error.
func LoadSettings(v *viper.Viper, configFile string) (Settings, error) {
	setDefaults(v)
	v.SetEnvPrefix("LARDER")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".larder") // .yaml is implicit
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	stateDir, err := homedir.Expand(v.GetString("state_dir"))
	if err != nil {
		return Settings{}, fmt.Errorf("expand state_dir: %w", err)
	}

	s := Settings{
		APIURL:   v.GetString("api_url"),
		APIKey:   v.GetString("api_key"),
		StateDir: stateDir,
		Locale:   v.GetString("locale"),
		Timeout:  v.GetDuration("timeout"),
		LogLevel: v.GetString("log_level"),
	}
	if s.APIURL == "" {
		return Settings{}, errors.New("api_url is required")
	}
	if s.Timeout <= 0 {
		s.Timeout = gateway.DefaultTimeout
	}
	return s, nil
}
