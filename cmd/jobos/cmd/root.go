// Package cmd holds the jobos command line client: the same sign-in and upload
// flows as the web front-end, with the token kept in a file instead of a cookie.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jobos/frontend/internal/apiclient"
	"github.com/jobos/frontend/internal/logger"
	"github.com/jobos/frontend/internal/service"
	"github.com/jobos/frontend/internal/session"
	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:5000"

var errNotSignedIn = errors.New(`not signed in: run "jobos signin"`)

// client is built once flags are parsed and shared by every subcommand.
type client struct {
	apiURL    string
	tokenFile string
	timeout   time.Duration
	debug     bool

	store   *session.FileStore
	auth    *service.AuthService
	uploads *service.UploadService
	now     func() time.Time
}

func RootCmd() *cobra.Command {
	c := &client{now: time.Now}

	apiURL := os.Getenv("JOBOS_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	tokenFile, err := session.DefaultTokenPath()
	if err != nil {
		tokenFile = ""
	}

	rootCmd := &cobra.Command{
		Use:   "jobos",
		Short: "Command line client for JOB OS",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.apiURL, "api-url", apiURL, "API base address (env JOBOS_API_URL)")
	rootCmd.PersistentFlags().StringVar(&c.tokenFile, "token-file", tokenFile, "where the session token is kept")
	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 0, "per-request timeout (0 = none)")
	rootCmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "log debug output to stderr")

	rootCmd.AddCommand(signupCmd(c))
	rootCmd.AddCommand(signinCmd(c))
	rootCmd.AddCommand(signoutCmd(c))
	rootCmd.AddCommand(uploadsCmd(c))

	return rootCmd
}

func (c *client) init(cmd *cobra.Command) error {
	if c.debug {
		slog.SetDefault(logger.New(cmd.ErrOrStderr(), true, ""))
	}
	if c.tokenFile == "" {
		return errors.New("no token file location: pass --token-file")
	}

	api := apiclient.New(c.apiURL, apiclient.WithTimeout(c.timeout))
	c.store = session.NewFileStore(c.tokenFile)
	c.auth = service.NewAuthService(api)
	c.uploads = service.NewUploadService(api)

	slog.Debug("jobos client ready", "api_url", api.BaseURL(), "token_file", c.tokenFile)
	return nil
}

// session loads the stored token. An expired or unreadable token is removed so
// the next command starts clean.
func (c *client) session() (*session.Session, error) {
	token, err := c.store.Read()
	if err != nil {
		return nil, err
	}

	sess, err := session.Resolve(token, c.now())
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			slog.Debug("discarding stored token", "error", err)
			clearErr := c.store.Clear()
			if clearErr != nil {
				return nil, clearErr
			}
		}
		return nil, errNotSignedIn
	}
	return sess, nil
}

// userError turns a failure into the line shown to the user: the API's message
// when it sent one, the fallback plus the cause otherwise.
func userError(err error, fallback string) error {
	if errors.Is(err, service.ErrMissingFields) {
		return err
	}
	if apiclient.IsKind(err, apiclient.KindStatus) {
		return errors.New(apiclient.MessageOr(err, fallback))
	}
	return fmt.Errorf("%s: %w", fallback, err)
}
