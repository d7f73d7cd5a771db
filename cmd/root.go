package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "job-assistant"
)

type Config struct {
	Listen       string      `mapstructure:"listen"`
	UploadDir    string      `mapstructure:"upload-dir"`
	SettingsFile string      `mapstructure:"settings-file"`
	ProfileFile  string      `mapstructure:"profile-file"`
	EnvFile      string      `mapstructure:"env-file"`
	SMTP         *SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Server       string `mapstructure:"server"`
	Port         int    `mapstructure:"port"`
	Address      string `mapstructure:"address"`
	PasswordFile string `mapstructure:"password-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-assistant is a backend for the job assistant browser extension",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env is optional; viper env bindings pick the values up when present.
	_ = godotenv.Load()

	if err := viper.BindEnv("smtp.address", "EMAIL_ADDRESS"); err != nil {
		log.Fatalf("binding EMAIL_ADDRESS environment variable: %v", err)
	}
	if err := viper.BindEnv("smtp.server", "SMTP_SERVER"); err != nil {
		log.Fatalf("binding SMTP_SERVER environment variable: %v", err)
	}
	if err := viper.BindEnv("smtp.port", "SMTP_PORT"); err != nil {
		log.Fatalf("binding SMTP_PORT environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-assistant.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the serve command. If there is no config, we can skip initialization.
	if serveCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The server runs fine on defaults and environment variables alone,
	// but an explicitly passed config file must parse.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
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

	if config.Listen == "" {
		config.Listen = ":5000"
	}
	if config.UploadDir == "" {
		config.UploadDir = "uploads"
	}
	if config.SettingsFile == "" {
		config.SettingsFile = "ai_settings.json"
	}
	if config.ProfileFile == "" {
		config.ProfileFile = "user_profile.json"
	}
	if config.EnvFile == "" {
		config.EnvFile = ".env"
	}
	if config.SMTP == nil {
		config.SMTP = &SMTPConfig{}
	}
	if config.SMTP.Server == "" {
		config.SMTP.Server = "smtp.gmail.com"
	}
	if config.SMTP.Port == 0 {
		config.SMTP.Port = 587
	}

	return config, nil
}
