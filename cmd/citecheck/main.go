package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kirillkom/citecheck/internal/observability/logging"
)

var version = "dev"

// errCheckFailed marks a failure that has already been reported to the user.
var errCheckFailed = errors.New("citation check failed")

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "citecheck",
		Short: "Check legal citations against CourtListener",
		Long: `citecheck finds every legal citation in a Markdown or text document,
looks each one up in the CourtListener citation database and reports
which ones resolve to a real case.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd, v)
		},
	}

	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))

	v.SetEnvPrefix("CITECHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	root.AddCommand(checkCmd(v))
	root.AddCommand(exportCmd())
	return root
}

// setupLogging sends logs to stderr; stdout carries only results.
func setupLogging(cmd *cobra.Command, v *viper.Viper) error {
	format := strings.ToLower(v.GetString("logging.format"))
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s", format)
	}
	logger := logging.NewLogger(cmd.ErrOrStderr(), format, "citecheck", v.GetString("logging.level"))
	slog.SetDefault(logger)
	return nil
}
