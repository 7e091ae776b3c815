package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "li-sourcer"
)

type Config struct {
	Search    *SearchConfig   `mapstructure:"search"`
	Store     *StoreConfig    `mapstructure:"store"`
	Scoring   *ScoringConfig  `mapstructure:"scoring"`
	Outreach  *OutreachConfig `mapstructure:"outreach"`
	UserAgent string          `mapstructure:"user-agent"`
	Top       int             `mapstructure:"top"`
}

type SearchConfig struct {
	Site          string  `mapstructure:"site"`
	Num           int     `mapstructure:"num"`
	MaxQueries    int     `mapstructure:"max-queries"`
	RatePerSecond float64 `mapstructure:"rate-per-second"`
	Burst         int     `mapstructure:"burst"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type ScoringConfig struct {
	Strategy        string        `mapstructure:"strategy"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Workers         int           `mapstructure:"workers"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OutreachConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Count   int  `mapstructure:"count"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "li-sourcer is a simple cli for sourcing and scoring public linkedin profiles against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("serpapi-api-key", "SERPAPI_API_KEY"); err != nil {
		log.Fatalf("binding SERPAPI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("gemini-api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is li-sourcer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config is fine: everything has a default or an
		// env var. An unreadable explicit config is not.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Search == nil {
		c.Search = &SearchConfig{}
	}
	if c.Search.Site == "" {
		c.Search.Site = "linkedin.com/in"
	}
	if c.Search.Num <= 0 {
		c.Search.Num = 15
	}
	if c.Search.MaxQueries <= 0 {
		c.Search.MaxQueries = 3
	}

	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Path == "" {
		c.Store.Path = "candidates.db"
	}

	if c.Scoring == nil {
		c.Scoring = &ScoringConfig{}
	}
	if c.Scoring.Strategy == "" {
		c.Scoring.Strategy = "rubric"
	}
	if c.Scoring.Gemini == nil {
		c.Scoring.Gemini = &GeminiConfig{}
	}

	if c.Outreach == nil {
		c.Outreach = &OutreachConfig{}
	}

	if c.Top <= 0 {
		c.Top = 10
	}
}
