package cli

import (
	"errors"
	"fmt"
	"os"

	"tagdo/tagdo/client"

	"github.com/spf13/viper"
)

// Settings are the terminal client's connection details.
type Settings struct {
	Server string `mapstructure:"server"`
	Token  string `mapstructure:"token"`
}

// newViper reads ~/.tagdo.yaml (or configFile) and TAGDO_* environment
// variables. A missing config file is not an error.
func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("server", client.DefaultServer)
	v.SetDefault("token", "")

	v.SetEnvPrefix("TAGDO")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".tagdo")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

func loadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unable to decode settings: %w", err)
	}
	return s, nil
}
