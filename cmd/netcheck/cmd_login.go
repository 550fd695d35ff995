package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"netcheck/pkg/authgw"
	"netcheck/pkg/screen"
)

var (
	loginUser     string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in against the controller",
	Long: `Sends the credentials to the configured login endpoint. On success the
session token is kept in the data directory for later submissions.

The password is read from --password, NETCHECK_PASSWORD or standard input.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	password := loginPassword
	if password == "" {
		password = os.Getenv("NETCHECK_PASSWORD")
	}
	if password == "" && loginUser != "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		password = strings.TrimRight(line, "\r\n")
	}

	client, err := authgw.NewHTTPClient(cfg.CAFile, cfg.Insecure, cfg.HTTPTimeout)
	if err != nil {
		return err
	}
	gw := authgw.New(cfg.AuthURL, client, logger.Named("auth"))

	var saveErr error
	login := screen.NewLoginScreen(gw, func(res screen.LoginResult) {
		saveErr = saveSession(cfg.SessionPath(), session{
			Username:        strings.TrimSpace(loginUser),
			Token:           res.Token,
			AuthenticatedAt: time.Now().UTC(),
		})
	})
	res := login.Submit(cmd.Context(), loginUser, password)
	fmt.Fprintln(cmd.OutOrStdout(), res.Alert)
	if res.Outcome != screen.Authenticated {
		return fmt.Errorf("login %s", res.Outcome)
	}
	if saveErr != nil {
		logger.Warn("session not saved", zap.Error(saveErr))
	}
	return nil
}
