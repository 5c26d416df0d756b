package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atikulmunna/piqlog/internal/config"
	"github.com/atikulmunna/piqlog/internal/output"
	"github.com/atikulmunna/piqlog/internal/scan"
)

var cfgFile string

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "piqlog",
	Short: "piqlog: Precision-IQ device log parser",
	Long: `piqlog reads diagnostic logs produced by Precision-IQ devices, extracts
timestamp, pid/tid, level and tag from every line, folds consecutive lines of
the same event into one entry, and tags every entry with the firmware and
software versions found anywhere in the file.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.piqlog.yaml)")
	flags.StringP("output", "o", config.OutputText, "output format: text, json, yaml")
	flags.StringP("level", "l", "", "only print entries of these levels (comma-separated: E,F; '-' for none)")
	flags.String("log-id", "", "log file identifier attached to every entry")
	flags.String("cycle", "", "log cycle identifier attached to every entry")
	flags.String("ticket", "", "ticket identifier attached to every entry")

	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("level", flags.Lookup("level"))
	_ = viper.BindPFlag("session.log_id", flags.Lookup("log-id"))
	_ = viper.BindPFlag("session.cycle", flags.Lookup("cycle"))
	_ = viper.BindPFlag("session.ticket", flags.Lookup("ticket"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".piqlog")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PIQLOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: cannot read config: %v\n", err)
		}
	}
}

// setup resolves the configuration and builds a scanner from it.
func setup() (*config.Config, *scan.Scanner, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	s, err := scan.New(cfg.Markers, scan.WithMaxLineBytes(cfg.MaxLineBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build scanner: %w", err)
	}
	return cfg, s, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\npiqlog shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// closeRenderer flushes renderers that buffer output.
func closeRenderer(r output.Renderer) error {
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
