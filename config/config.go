package config

import (
	"log"

	"quill/constants"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	DBPath   string `mapstructure:"DB_PATH"`
	SiteName string `mapstructure:"SITE_NAME"`
	Debug    bool   `mapstructure:"DEBUG"`
}

// Load reads quill.yml from the working directory if present, otherwise
// falls back to environment variables and defaults.
func Load() *Config {
	viper.AddConfigPath(".")
	viper.SetConfigName("quill")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_PATH", "quill.db")
	viper.SetDefault("SITE_NAME", constants.APP_NAME)
	viper.SetDefault("DEBUG", false)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode config into struct, %v", err)
	}

	return &config
}
