package cli

import (
	"errors"
	"fmt"
	"os"

	"newsboard/internal/db"
	"newsboard/internal/logger"

	"github.com/spf13/cobra"
)

func (c *CLI) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// db.Init migrates on open.
			closeDB, err := c.openDB()
			if err != nil {
				return err
			}
			closeDB()
			return nil
		},
	}
}

func (c *CLI) newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users and news from a YAML fixtures file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSeed(cmd, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixtures file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *CLI) runSeed(cmd *cobra.Command, file string) error {
	fh, err := os.Open(file)
	if err != nil {
		return err
	}
	defer fh.Close()

	fixtures, err := db.ParseFixtures(fh)
	if err != nil {
		return err
	}

	closeDB, err := c.openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	res, err := db.Seed(db.DB, fixtures)
	if err != nil {
		return err
	}
	logger.Log.WithFields(logger.Fields{
		"file":  file,
		"users": res.Users,
		"news":  res.News,
	}).Info("Fixtures loaded")
	fmt.Fprintf(cmd.OutOrStdout(), "Created %d users and %d news\n", res.Users, res.News)
	return nil
}

func (c *CLI) newCreateUserCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a site user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}

			closeDB, err := c.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			user, err := db.CreateUser(db.DB, username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s created (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}
