package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workmgmt/internal/config"
	"workmgmt/internal/core"
	wlog "workmgmt/internal/log"
)

func init() {
	// Lets the root config hook and the per-group service hook both run.
	cobra.EnableTraverseRunHooks = true
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "workmgmt",
		Short:        "Manage organizations, departments, projects and teams",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, configPath)
		},
		PersistentPostRunE: closeLogFile,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.AddCommand(
		treeCommand(),
		organizationCommand(),
		departmentCommand(),
		projectCommand(),
		teamCommand(),
		memberCommand(),
		userCommand(),
		statsCommand(),
		recordCommand(),
		configCommand(),
	)
	return rootCmd
}

func initConfig(cmd *cobra.Command, path string) error {
	cfg := config.DefaultConfig()
	if err := cfg.Parse(path); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	logger, f, err := wlog.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	ctx := withConfig(cmd.Context(), cfg)
	cmd.SetContext(withLogger(ctx, logger, f))
	return nil
}

func closeLogFile(cmd *cobra.Command, _ []string) error {
	if f, ok := cmd.Context().Value(logFileKey{}).(*os.File); ok {
		return f.Close()
	}
	return nil
}

// initService opens the configured backend and loads the stored record.
// A record that cannot be read is reported and the sample hierarchy is used.
func initService(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := configFromContext(ctx)
	logger := loggerFromContext(ctx)

	backend, err := core.OpenBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Storage.Driver, err)
	}
	svc := core.NewService(
		core.NewDefaultRulesEngine(cfg.StrictNames),
		core.WithLogger(logger),
		core.WithBackend(backend),
		core.WithAutosave(cfg.Storage.Autosave),
	)
	if err := svc.Load(ctx); err != nil {
		logger.Error("stored record unreadable, using sample hierarchy", "err", err)
	}
	cmd.SetContext(withService(ctx, svc))
	return nil
}

func closeService(cmd *cobra.Command, _ []string) error {
	svc := serviceFromContext(cmd.Context())
	if svc == nil {
		return nil
	}
	if err := svc.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}

// serviceGroup returns a parent command whose children run against the service.
func serviceGroup(use, short string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:                use,
		Aliases:            aliases,
		Short:              short,
		PersistentPreRunE:  initService,
		PersistentPostRunE: closeService,
	}
}

var errEmptyName = errors.New("name must not be empty")
