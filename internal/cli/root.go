package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dukerupert/larder/internal/app"
	"github.com/dukerupert/larder/internal/gateway"
	"github.com/dukerupert/larder/internal/kv"
	"github.com/dukerupert/larder/internal/logging"
)

// CLI holds the state shared by every subcommand of one invocation.
type CLI struct {
	v       *viper.Viper
	cfgFile string
	oo      OutputOptions
	in      io.Reader
	stdin   *bufio.Reader
	now     func() time.Time

	settings Settings
	logger   *slog.Logger
	gw       *gateway.Client
	ctl      *app.Controller
}

type Option func(*CLI)

// WithInput replaces stdin, used for password prompts.
func WithInput(r io.Reader) Option {
	return func(c *CLI) { c.in = r }
}

func WithNow(now func() time.Time) Option {
	return func(c *CLI) { c.now = now }
}

func New(opts ...Option) *cobra.Command {
	c := &CLI{v: viper.New(), in: os.Stdin, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	cmd := &cobra.Command{
		Use:           "larderctl",
		Short:         "Track what is in the larder and when it expires.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "Config file (default .larder.yaml in the working or home directory).")
	flags.BoolVar(&c.oo.JSON, "json", false, "Output as JSON.")
	flags.BoolVar(&c.oo.NoColor, "no-color", false, "Disable colored output.")
	flags.String("api-url", "", "Backend base URL.")
	flags.String("state-dir", "", "Directory for the local session and preferences.")
	_ = c.v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = c.v.BindPFlag("state_dir", flags.Lookup("state-dir"))

	addAuth(cmd, c)
	addItems(cmd, c)
	addStats(cmd, c)
	addCategories(cmd, c)
	addProfile(cmd, c)
	addWatch(cmd, c)
	return cmd
}

func (c *CLI) setup(cmd *cobra.Command) error {
	if c.oo.NoColor {
		color.NoColor = true
	}

	s, err := LoadSettings(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	c.settings = s
	c.logger = logging.New(cmd.ErrOrStderr(), s.LogLevel, "text")

	c.gw = gateway.NewClient(gateway.Config{
		BaseURL: s.APIURL,
		APIKey:  s.APIKey,
		Timeout: s.Timeout,
	}, func() string { return c.ctl.Token() })

	c.ctl = app.NewController(app.Options{
		Gateway: c.gw,
		Store:   kv.NewDiskStore(s.StateDir),
		Logger:  c.logger,
		Locale:  s.Locale,
		Now:     c.now,
		OnBusy: func(visible bool, label string) {
			if visible {
				c.logger.Debug("busy", "label", label)
			}
		},
	})
	c.ctl.Resume(cmd.Context())
	return nil
}

func (c *CLI) printer(cmd *cobra.Command) *printer {
	return newPrinter(cmd.OutOrStdout(), &c.oo, c.ctl.Snapshot().Theme, c.now())
}

// fail reports err in the selected output format.
func (c *CLI) fail(cmd *cobra.Command, err error) error {
	return c.oo.HandleError(cmd.OutOrStdout(), err)
}

// signedIn fails unless a session was restored, then syncs with the backend.
func (c *CLI) signedIn(ctx context.Context) error {
	if c.ctl.Snapshot().User == nil {
		return fmt.Errorf("%w; run `larderctl login`", app.ErrNotSignedIn)
	}
	return c.ctl.Refresh(ctx)
}

func (c *CLI) readPassword(cmd *cobra.Command, prompt string) (string, error) {
	errOut := cmd.ErrOrStderr()
	_, _ = fmt.Fprint(errOut, prompt)

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(errOut)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	if c.stdin == nil {
		c.stdin = bufio.NewReader(c.in)
	}
	line, err := c.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
