package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/fakenews/internal/config"
	"github.com/hyperjump/fakenews/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

// app carries the state shared by every subcommand once the root command has run.
type app struct {
	configPath string
	debug      bool

	cfg    *config.Config
	logger *zap.Logger
}

// loadConfig reads path. The default path is optional: when it does not exist the
// built-in defaults are used so that training needs no arguments.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	cfg.Debug = cfg.Debug || a.debug

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "fakenews",
		Short:         "Fake news detector with per-word explanations",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "path to config file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newTrainCommand(a),
		newPredictCommand(a),
		newClassifyCommand(a),
		newServeCommand(a),
		newStatusCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{}
	err := newRootCommand(a).ExecuteContext(ctx)
	stop()
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
