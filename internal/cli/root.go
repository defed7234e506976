// Package cli implements scalingoctl, a terminal companion to the dashboard
// that talks to the Scalingo API with the same client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
	"github.com/narvanalabs/scalingo-dashboard/internal/scalingo"
	"github.com/narvanalabs/scalingo-dashboard/internal/secrets"
	"github.com/narvanalabs/scalingo-dashboard/internal/updater"
	"github.com/narvanalabs/scalingo-dashboard/pkg/config"
	"github.com/narvanalabs/scalingo-dashboard/pkg/logger"
)

const configName = ".scalingoctl"

var errNoToken = errors.New("no Scalingo API token: set SCALINGO_API_TOKEN or api_token in ~/" + configName + ".yaml")

// API is the part of the Scalingo client the commands use.
type API interface {
	ListApps(ctx context.Context) ([]models.Application, error)
	GetApp(ctx context.Context, id string) (*models.Application, error)
	RawLogs(ctx context.Context, id string, lines int) (string, error)
	Logs(ctx context.Context, id string, lines int) ([]models.LogEntry, error)
	PerformAction(ctx context.Context, id string, action models.AppAction) error
	ListDeployments(ctx context.Context, id string, page int) (*models.DeploymentPage, error)
	DeploymentOutput(ctx context.Context, id, deploymentID string) (*models.DeploymentOutput, error)
	ListDomains(ctx context.Context, id string) ([]models.Domain, error)
}

var _ API = (*scalingo.Client)(nil)

// CLI holds the state shared by every scalingoctl command.
type CLI struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	noColor bool
	version string

	out    io.Writer
	errOut io.Writer
	in     io.Reader

	// newAPI builds the Scalingo client once configuration is loaded.
	newAPI     func() (API, error)
	newUpdater func() *updater.Service
}

// New creates a CLI writing to stdout and stderr.
func New(version string) *CLI {
	c := &CLI{
		v:       viper.New(),
		version: version,
		out:     os.Stdout,
		errOut:  os.Stderr,
		in:      os.Stdin,
	}
	c.newAPI = c.defaultAPI
	c.newUpdater = c.defaultUpdater
	return c
}

// Execute runs scalingoctl with os.Args and returns the process exit code.
func Execute(version string) int {
	c := New(version)
	if err := c.Command().Execute(); err != nil {
		fmt.Fprintln(c.errOut, color.RedString("Error: %s", describe(err)))
		return 1
	}
	return 0
}

// Command builds the root command with every subcommand attached.
func (c *CLI) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "scalingoctl",
		Short:         "Inspect and operate your Scalingo applications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.SetIn(c.in)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/"+configName+".yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log Scalingo API requests")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	flags.String("api-url", "", "regional Scalingo API URL")
	flags.String("token", "", "Scalingo API token")

	c.v.BindPFlag("api_url", flags.Lookup("api-url"))
	c.v.BindPFlag("api_token", flags.Lookup("token"))

	root.AddCommand(
		c.newAppsCommand(),
		c.newAppCommand(),
		c.newLogsCommand(),
		c.newDeploymentsCommand(),
		c.newOutputCommand(),
		c.newDomainsCommand(),
		c.newTokenCommand(),
		c.newHashPasswordCommand(),
		c.newVersionCommand(),
	)
	for _, action := range []models.AppAction{models.AppActionRestart, models.AppActionStop, models.AppActionStart} {
		root.AddCommand(c.newActionCommand(action))
	}

	return root
}

// initConfig reads the config file and SCALINGO_* environment variables.
func (c *CLI) initConfig() error {
	if c.noColor {
		color.NoColor = true
	}

	c.v.SetDefault("api_url", config.DefaultAPIURL)
	c.v.SetDefault("auth_url", config.DefaultAuthURL)
	c.v.SetDefault("timeout", scalingo.DefaultTimeout)
	c.v.SetDefault("log_lines", 100)
	c.v.SetDefault("poll_interval", 2*time.Second)

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		c.v.AddConfigPath(home)
		c.v.SetConfigName(configName)
		c.v.SetConfigType("yaml")
	}

	c.v.SetEnvPrefix("scalingo")
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if c.verbose && c.v.ConfigFileUsed() != "" {
		fmt.Fprintln(c.errOut, "Using config file:", filepath.Clean(c.v.ConfigFileUsed()))
	}
	return nil
}

func (c *CLI) logger() *logger.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	return logger.NewWithWriter(c.errOut, level, false)
}

// defaultAPI resolves the API token and builds a Scalingo client.
func (c *CLI) defaultAPI() (API, error) {
	log := c.logger()

	if c.v.GetString("api_token") == "" && c.v.GetString("api_token_age") == "" {
		return nil, errNoToken
	}
	token, err := secrets.ResolveAPIToken(
		c.v.GetString("api_token"),
		c.v.GetString("api_token_age"),
		c.v.GetString("age_identity"),
		log.Logger,
	)
	if err != nil {
		return nil, err
	}

	timeout := c.v.GetDuration("timeout")
	tokens := scalingo.NewTokenSource(c.v.GetString("auth_url"), token, timeout)
	return scalingo.NewClient(c.v.GetString("api_url"), tokens, timeout, log), nil
}

// describe turns client errors into messages fit for a terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, scalingo.ErrOutputNotAvailable):
		return "deployment not found or output not available"
	case errors.Is(err, scalingo.ErrNotFound):
		return "not found: " + err.Error()
	case errors.Is(err, scalingo.ErrUnauthorized):
		return "Scalingo rejected the API token"
	default:
		return err.Error()
	}
}
