// Package cli is the inbound adapter: it wires ports (stores, images,
// translator) into the application service and exposes the board as
// terminal commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mixerboard/internal/application"
	"mixerboard/internal/config"
	"mixerboard/internal/engine"
	"mixerboard/internal/identity"
	"mixerboard/internal/infrastructure/database"
	"mixerboard/internal/infrastructure/i18n"
	"mixerboard/internal/infrastructure/images"
	"mixerboard/internal/ports/output"
)

// Execute runs the mixerboard CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mixerboard",
		Short:         "Sign-up board for the Kyoto x Keio mixer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newListCmd(),
		newCreateCmd(),
		newJoinCmd(),
		newLeaveCmd(),
		newDeleteCmd(),
		newWatchCmd(),
	)
	return root
}

// runtime is the wired application plus its cleanup.
type runtime struct {
	cfg      *config.Config
	service  *application.BoardService
	deviceID string
	close    func()
}

// setup loads configuration, resolves the device identity and opens the
// store for the configured mode.
func setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	idPath, err := identity.DefaultPath()
	if err != nil {
		return nil, err
	}
	deviceID, err := identity.NewProvider(idPath).DeviceID()
	if err != nil {
		return nil, err
	}

	policy := engine.Policy{
		RequireOneJoinPerDevice: cfg.Policy.RequireOneJoinPerDevice,
		PerDeviceCreateQuota:    cfg.Policy.PerDeviceCreateQuota,
		AllowImages:             cfg.Policy.AllowImages,
	}
	eng := engine.New(policy)

	var store output.EventStore
	var closeStore func()
	switch cfg.Mode {
	case config.ModeShared:
		if err := database.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
			return nil, err
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database init: %w", err)
		}
		store = database.NewPostgresStore(pool)
		closeStore = pool.Close
	default:
		s, err := database.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("database init: %w", err)
		}
		store = s
		closeStore = func() { s.Close() }
	}

	var imgs output.ImageStore
	if policy.AllowImages {
		local, err := images.NewLocalImageStore(cfg.ImageDir)
		if err != nil {
			closeStore()
			return nil, err
		}
		imgs = local
	}

	translator := i18n.NewTranslator(cfg.Locale)
	service := application.NewBoardService(store, eng, imgs, translator, cfg.Locale)

	return &runtime{
		cfg:      cfg,
		service:  service,
		deviceID: deviceID,
		close:    closeStore,
	}, nil
}
