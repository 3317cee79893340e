package app

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rgcpoolandspa/poolsite/internal/auth"
	"github.com/rgcpoolandspa/poolsite/internal/daemon"
	"github.com/rgcpoolandspa/poolsite/internal/db"
)

var newPassword string

func init() { //nolint: gochecknoinits
	passwdCmd.Flags().StringVar(&newPassword, "password", "", "New password, read from stdin when empty")

	adminCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(adminCmd)
}

var (
	adminCmd = &cobra.Command{
		Use:   "admin",
		Short: "Manage back office admins",
	}

	passwdCmd = &cobra.Command{
		Use:     "passwd <username>",
		Short:   "Set the password of an admin",
		Args:    cobra.ExactArgs(1),
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := newPassword
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "New password: ")

				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return auth.ErrMissingCredentials
				}

				password = strings.TrimRight(line, "\r\n")
			}

			gdb, err := daemon.Open(&cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb) //nolint:errcheck

			if err = auth.NewLocalProvider(gdb).SetPassword(args[0], password); err != nil {
				return err
			}

			log.Info().Str("username", args[0]).Msg("admin password changed")

			return nil
		},
	}
)
