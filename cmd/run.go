package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/app"
	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/auth"
)

var takeCmd = &cobra.Command{
	Use:   "take [skill]",
	Short: "Take an assessment, optionally for the given skill",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runApp,
}

// runApp loads configuration, builds the API client, and launches the TUI.
func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog := openLogger(cfg)
	defer closeLog()

	client := api.New(api.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.RequestTimeout,
		Retry:   cfg.RetryConfig(),
		Tokens:  &auth.Store{},
		Logger:  log,
	})

	opts := app.Options{
		Client: client,
		Skills: cfg.Skills,
		ExamOptions: assessment.Options{
			ExamDuration: cfg.ExamDuration,
			TimerPolicy:  cfg.TimerPolicy(),
		},
		Logger: log,
	}
	if len(args) > 0 {
		opts.Skill = args[0]
	}

	log.Info().Str("api", cfg.APIURL).Dur("duration", cfg.ExamDuration).Msg("starting")
	return app.Run(cmd.Context(), opts)
}
