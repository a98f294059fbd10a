package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login [token]",
	Short: "Save the API token used to authenticate assessments",
	Long: "Save the API token used to authenticate assessments.\n\n" +
		"The token is read from the argument or, if omitted, from stdin. " +
		"The " + auth.EnvToken + " environment variable takes priority over the saved token.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) > 0 {
			token = args[0]
		} else {
			fmt.Fprint(cmd.OutOrStdout(), "Token: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read token: %w", err)
			}
			token = line
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return errors.New("token must not be empty")
		}

		store := &auth.Store{}
		if err := store.Save(token); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := &auth.Store{}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
		return nil
	},
}
