// Package cli wires the newsboard commands: the web server and the database
// maintenance tasks that stand in for an admin site.
package cli

import (
	"fmt"
	"os"

	"newsboard/internal/config"
	"newsboard/internal/db"
	"newsboard/internal/logger"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

// CLI holds the command tree and the configuration loaded for it.
type CLI struct {
	rootCmd *cobra.Command
	cfg     *config.Config

	configPath string
}

func New() *CLI {
	cli := &CLI{}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Execute runs the command named by os.Args and returns the exit code.
func (c *CLI) Execute() int {
	if err := c.rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return ExitFailure
	}
	return ExitSuccess
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "newsboard",
		Short:         "News site with user comments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (environment variables take precedence)")

	cmd.AddCommand(c.newServeCmd())
	cmd.AddCommand(c.newMigrateCmd())
	cmd.AddCommand(c.newSeedCmd())
	cmd.AddCommand(c.newCreateUserCmd())

	return cmd
}

func (c *CLI) initConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Session.Secret == config.DefaultSessionSecret {
		logger.Log.Warn("SESSION_SECRET is not set, using the development default")
	}
	return nil
}

// openDB initializes the package DB and returns a func that closes it.
func (c *CLI) openDB() (func(), error) {
	if err := db.Init(c.cfg.Database); err != nil {
		return nil, err
	}
	return func() {
		if err := db.Close(); err != nil {
			logger.Log.WithError(err).Warn("Closing database failed")
		}
	}, nil
}
