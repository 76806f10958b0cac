package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sharecount/sharecount/internal/api"
	"github.com/sharecount/sharecount/internal/config"
	"github.com/sharecount/sharecount/internal/storage/sqlite"
	"github.com/sharecount/sharecount/internal/sync"
)

// app bundles the wired components behind the CLI commands.
type app struct {
	cfg          config.Config
	store        *sqlite.SQLiteStore
	groups       *sync.Groups
	members      *sync.Members
	transactions *sync.Transactions
}

func (a *app) Close() error {
	return a.store.Close()
}

type rootFlags struct {
	configPath string
	backendURL string
	dbPath     string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "sharecount",
		Short:         "Local-first expense splitting",
		Long:          "sharecount keeps a full offline copy of your expense groups and reconciles with the shared backend whenever it is reachable.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: user config dir)")
	cmd.PersistentFlags().StringVar(&flags.backendURL, "backend", "", "backend base URL (overrides config and env)")
	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "local database path (overrides config and env)")

	cmd.AddCommand(
		newGroupsCmd(flags),
		newMembersCmd(flags),
		newTxCmd(flags),
		newSettleCmd(flags),
		newSyncCmd(flags),
		newWhoamiCmd(flags),
		newClaimCmd(flags),
	)
	return cmd
}

// newApp wires config, store, remote client and reconcilers. The
// caller must Close it.
func newApp(flags *rootFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.backendURL != "" {
		cfg.BackendURL = flags.backendURL
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	client, err := api.NewHTTP(cfg.BackendURL)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		cfg:          cfg,
		store:        store,
		groups:       sync.NewGroups(store, client),
		members:      sync.NewMembers(store, client),
		transactions: sync.NewTransactions(store, client),
	}, nil
}
