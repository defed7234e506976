package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/narvanalabs/scalingo-dashboard/internal/secrets"
	"github.com/narvanalabs/scalingo-dashboard/internal/session"
)

func (c *CLI) newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Seal the Scalingo API token for the dashboard configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "keygen",
		Short: "Generate an age key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipient, identity, err := secrets.GenerateKeyPair()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, columns([][]string{
				{"Recipient:", recipient},
				{"Identity:", identity},
			}))
			fmt.Fprintln(c.errOut, "Store the identity as SCALINGO_AGE_IDENTITY; only the recipient is needed to seal.")
			return nil
		},
	})

	var recipient string
	seal := &cobra.Command{
		Use:   "seal [token]",
		Short: "Encrypt an API token for SCALINGO_API_TOKEN_AGE",
		Long:  "Encrypt an API token for SCALINGO_API_TOKEN_AGE. The token is read from standard input when not given as an argument.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := argOrLine(args, c.in)
			if err != nil {
				return err
			}

			vault, err := secrets.NewVault(recipient, "", c.logger().Logger)
			if err != nil {
				return err
			}
			sealed, err := vault.Seal(token)
			if err != nil {
				return err
			}
			fmt.Fprint(c.out, sealed)
			if !strings.HasSuffix(sealed, "\n") {
				fmt.Fprintln(c.out)
			}
			return nil
		},
	}
	seal.Flags().StringVar(&recipient, "recipient", "", "age recipient (age1...) to seal for")
	seal.MarkFlagRequired("recipient")
	cmd.AddCommand(seal)

	return cmd
}

func (c *CLI) newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for DASHBOARD_ADMIN_PASSWORD_HASH",
		Long:  "Print a bcrypt hash for DASHBOARD_ADMIN_PASSWORD_HASH. The password is read from standard input when not given as an argument.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := argOrLine(args, c.in)
			if err != nil {
				return err
			}
			hash, err := session.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, hash)
			return nil
		},
	}
}

// argOrLine returns the first argument, or the first line of r without its
// trailing newline.
func argOrLine(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading standard input: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no value given on the command line or standard input")
	}
	return line, nil
}
