// cmd/dnctl/root.go
package main

import (
	"context"
	"fmt"
	"time"

	"dn-client/internal/apiclient"
	"dn-client/internal/common/cache"
	"dn-client/internal/common/config"
	apperrors "dn-client/internal/common/errors"
	"dn-client/internal/common/logger"
	"dn-client/internal/common/observability"
	"dn-client/internal/schema"
	"dn-client/internal/workflow"
	"dn-client/pkg/registry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli holds global flags and the services built from configuration.
type cli struct {
	configFile  string
	schemasFile string
	jsonOutput  bool

	cfg      *config.Config
	zapLog   *zap.Logger
	log      logger.Logger
	errs     *apperrors.ErrorHandler
	obs      *observability.Observability
	cache    cache.Cache
	api      *apiclient.Client
	registry *schema.Registry
	orch     *workflow.Orchestrator

	// now is the clock used for passed/upcoming labels.
	now func() time.Time
}

func newRootCmd() *cobra.Command {
	c := &cli{now: time.Now}

	root := &cobra.Command{
		Use:   "dnctl",
		Short: "dnctl manages scheduled notifications",
		Long: `dnctl is a client for the scheduled-notification service.

It lists the notification types the service accepts, validates arguments
against those types before submitting them, and browses, inspects and
deletes existing notifications.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: ./configs/config.yaml, ./config.yaml or ~/.config/dn/config.yaml)")
	root.PersistentFlags().StringVar(&c.schemasFile, "schemas", "", "read notification types from this file instead of the service")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "output as JSON")

	root.AddCommand(newVersionCmd())
	root.AddCommand(c.newTypesCmd())
	root.AddCommand(c.newListCmd())
	root.AddCommand(c.newShowCmd())
	root.AddCommand(c.newCreateCmd())
	root.AddCommand(c.newDeleteCmd())
	root.AddCommand(c.newWatchCmd())

	return root
}

// setup loads configuration and wires the services. The version command
// needs none of it.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	if c.configFile != "" {
		c.cfg, err = config.LoadFromFile(c.configFile)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c.zapLog = logger.New(c.cfg.Logging.Level, c.cfg.Logging.Format)
	c.log = logger.NewZapAdapter(c.zapLog).WithFields(map[string]interface{}{
		"command": cmd.Name(),
	})
	c.errs = apperrors.NewErrorHandler(c.log)

	if c.cfg.Metrics.Enabled || cmd.Name() == "watch" {
		c.obs = observability.New(c.cfg.App.Name)
	}

	c.cache, err = cache.New(c.cfg.Cache)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	c.api = apiclient.New(c.cfg.API, c.log, c.obs)

	var source schema.Source = c.api
	if c.schemasFile != "" {
		source = registry.File{Path: c.schemasFile}
	}
	c.registry = schema.NewRegistry(source, c.cache, c.cfg.Cache.GetTTL(), c.log)

	c.orch = workflow.New(c.api, c.registry, c.cfg.Location(),
		workflow.WithLogger(c.log),
		workflow.WithObservability(c.obs),
		workflow.WithClock(c.now),
	)

	c.log.Debug("client configured", map[string]interface{}{
		"baseUrl": c.cfg.API.BaseURL,
		"cache":   c.cfg.Cache.Backend,
	})
	return nil
}

func (c *cli) close() error {
	if c.obs != nil {
		c.obs.Shutdown()
	}
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			return err
		}
	}
	if c.zapLog != nil {
		_ = c.zapLog.Sync()
	}
	return nil
}

// fail logs err through the error handler and returns it for cobra.
func (c *cli) fail(operation string, err error) error {
	if err == nil {
		return nil
	}
	c.errs.HandleOperationError(operation, err)
	return err
}

func (c *cli) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
