package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/credential"
)

func newCredentialCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage the redis password kept in the system keyring",
	}
	cmd.AddCommand(newCredentialSetCmd(app))
	cmd.AddCommand(newCredentialDeleteCmd(app))
	return cmd
}

func newCredentialSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Read the redis password from stdin and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return errors.New("password must not be empty")
			}

			creds, err := app.openCredentials()
			if err != nil {
				return err
			}
			if err := creds.Set(credential.RedisPasswordKey, password); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "redis password stored")
			return err
		},
	}
}

func newCredentialDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored redis password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := app.openCredentials()
			if err != nil {
				return err
			}
			if err := creds.Delete(credential.RedisPasswordKey); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "redis password removed")
			return err
		},
	}
}
