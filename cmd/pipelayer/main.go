package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/pipelayer/config"
	"github.com/kbukum/pipelayer/logger"
	"github.com/kbukum/pipelayer/manifest"
	"github.com/kbukum/pipelayer/pipeline"
	"github.com/kbukum/pipelayer/validation"
	"github.com/kbukum/pipelayer/version"
)

const serviceName = "pipelayer"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	envFile    string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "pipelayer runs step pipelines and records their manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "path to config.yml (searched for when empty)")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "path to a .env file (searched for when empty)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(helloCmd(&flags))
	root.AddCommand(serveCmd(&flags))
	root.AddCommand(versionCmd())
	return root
}

// loadSettings resolves settings for a command. Flags win over files and
// environment variables.
func loadSettings(flags *globalFlags, stderr io.Writer) (*config.Settings, *logger.Logger, error) {
	var opts []config.LoaderOption
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}
	if flags.envFile != "" {
		opts = append(opts, config.WithEnvFile(flags.envFile))
	}

	var s config.Settings
	if err := config.Load(serviceName, &s, opts...); err != nil {
		return nil, nil, err
	}
	if flags.logLevel != "" {
		s.Logging.Level = flags.logLevel
		if err := s.Validate(); err != nil {
			return nil, nil, err
		}
	}
	// Command output owns stdout, so logs always go to stderr.
	return &s, logger.NewWithWriter(&s.Logging, s.Name, stderr), nil
}

func helloCmd(flags *globalFlags) *cobra.Command {
	var (
		lang   string
		format string
		indent int
	)

	cmd := &cobra.Command{
		Use:   "hello",
		Short: "Run the hello-world pipeline and print its output and manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, log, err := loadSettings(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				format = settings.Manifest.Format
			}
			if !cmd.Flags().Changed("indent") && settings.Manifest.Indent > 0 {
				indent = settings.Manifest.Indent
			}
			if err := validation.New().
				OneOf("format", format, manifest.Formats()).
				OneOf("lang", lang, []string{"en", "fr"}).
				Custom(indent >= 0, "indent", "must not be negative").
				Err(); err != nil {
				return err
			}
			return runHello(cmd.Context(), cmd.OutOrStdout(), settings, log, helloRequest{Lang: lang}, manifest.Format(format), indent)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "en", "greeting language (en, fr)")
	cmd.Flags().StringVar(&format, "format", string(manifest.FormatJSON), "manifest format (json, yaml, dot)")
	cmd.Flags().IntVar(&indent, "indent", 4, "manifest indentation")
	return cmd
}

func runHello(ctx context.Context, w io.Writer, settings *config.Settings, log *logger.Logger, req helloRequest, format manifest.Format, indent int) error {
	p, err := newHelloPipeline(pipeline.WithObserver(pipeline.NewLoggingObserver(log)))
	if err != nil {
		return err
	}

	out, runErr := p.Run(req, pipeline.NewContext(ctx, settings, log))
	if runErr == nil {
		fmt.Fprintf(w, "output: %v\n", out)
	}

	rendered, err := manifest.RenderAs(p.Manifest(), format, indent)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, rendered)
	return runErr
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), serviceName, version.Get().String())
		},
	}
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
