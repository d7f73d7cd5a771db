package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/analysis"
	"github.com/heetd/job-assistant/internal/config"
	"github.com/heetd/job-assistant/internal/logger"
	"github.com/heetd/job-assistant/internal/mailer"
	"github.com/heetd/job-assistant/internal/prefilter"
	"github.com/heetd/job-assistant/internal/profile"
	"github.com/heetd/job-assistant/internal/secrets"
	"github.com/heetd/job-assistant/internal/server"
	"github.com/heetd/job-assistant/internal/settings"
	"github.com/heetd/job-assistant/internal/vault"

	// Registers the supported AI providers.
	_ "github.com/heetd/job-assistant/internal/ai/gemini"
	_ "github.com/heetd/job-assistant/internal/ai/groq"
	_ "github.com/heetd/job-assistant/internal/ai/openai"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the job-assistant API server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :5000)")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

// serve is the main command for the backend.
func serve() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-assistant", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(cfg, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	envStore := config.NewStore(cfg.EnvFile)

	// The master key is generated and written back on first start.
	v, err := vault.Bootstrap(envStore)
	if err != nil {
		logger.Fatal("bootstrapping the credential vault", zap.Error(err))
	}

	settingsStore := settings.NewStore(cfg.SettingsFile, v, logger)
	profileStore := profile.NewStore(cfg.ProfileFile, logger)

	m := buildMailer(cfg, envStore, logger)
	if !m.Configured() {
		logger.Warn("email credentials not configured, sending is disabled",
			zap.String("hint", "set EMAIL_ADDRESS and EMAIL_PASSWORD or smtp.password-file"))
	}

	srv := server.New(server.Deps{
		Logger:    logger,
		Engine:    analysis.NewEngine(logger),
		Prefilter: prefilter.New(logger),
		Settings:  settingsStore,
		Mailer:    m,
		Profiles:  profileStore,
		UploadDir: cfg.UploadDir,
	})

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening", zap.String("address", cfg.Listen))

	if err := httpServer.ListenAndServe(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func buildMailer(cfg *Config, envStore *config.Store, logger *zap.Logger) *mailer.Mailer {
	address := cfg.SMTP.Address
	if address == "" {
		address = envStore.Get("EMAIL_ADDRESS", "")
	}

	password, err := secrets.Load(secrets.Source{
		Name: "smtp password",
		Env:  "EMAIL_PASSWORD",
		File: cfg.SMTP.PasswordFile,
	})
	if err != nil {
		// No password only disables sending.
		logger.Debug("smtp password not resolved", zap.Error(err))
	}

	return mailer.New(mailer.Config{
		Server:   cfg.SMTP.Server,
		Port:     cfg.SMTP.Port,
		Address:  address,
		Password: password,
	}, logger)
}
