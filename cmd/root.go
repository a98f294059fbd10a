package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "skillcheck",
	Short: "Proctored skill assessments in the terminal",
	Long:  "SkillCheck: timed, proctored skill assessments generated for the skill you pick.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, args)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is canceled on
// interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Assessment API base URL (overrides SKILLCHECK_API_URL)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path (overrides SKILLCHECK_LOG_FILE)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error, disabled")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies flag overrides, which
// take priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.LogFile = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLogger sets up logging to the configured file. The TUI owns the
// terminal, so logs never go to stderr. The returned func closes the file.
func openLogger(cfg *config.Config) (zerolog.Logger, func()) {
	if cfg.LogLevel == "disabled" {
		return zerolog.Nop(), func() {}
	}
	f, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
		return zerolog.Nop(), func() {}
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, f)
	return log, func() { _ = f.Close() }
}
