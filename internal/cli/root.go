package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storerate/storerate/internal/cli/app"
	"github.com/storerate/storerate/internal/cli/commands"
	"github.com/storerate/storerate/internal/config"
	"github.com/storerate/storerate/internal/logger"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "storerate",
	Short: "Storerate - Rate and review stores",
	Long: `Storerate CLI - Browse, rate and manage stores from the terminal.

Users rate stores from 1 to 5 stars, store owners follow their ratings and
administrators manage users and stores. What you can open depends on your role.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadApp builds the App for a command from the environment
func loadApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.Logging.LevelOr("warn"),
		Format: cfg.Logging.Format,
		Out:    cmd.ErrOrStderr(),
	})

	return app.New(cfg, cmd.OutOrStdout(), log)
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "storerate version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd(loadApp))
	rootCmd.AddCommand(commands.NewSignupCmd(loadApp))
	rootCmd.AddCommand(commands.NewLogoutCmd(loadApp))
	rootCmd.AddCommand(commands.NewWhoamiCmd(loadApp))
	rootCmd.AddCommand(commands.NewPasswdCmd(loadApp))
	rootCmd.AddCommand(commands.NewOpenCmd(loadApp))
	rootCmd.AddCommand(commands.NewHomeCmd(loadApp))
	rootCmd.AddCommand(commands.NewNavCmd(loadApp))
	rootCmd.AddCommand(commands.NewRateCmd(loadApp))
	rootCmd.AddCommand(commands.NewAdminCmd(loadApp))
	rootCmd.AddCommand(commands.NewRoutesCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
