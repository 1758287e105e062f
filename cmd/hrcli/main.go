package main

import (
	"os"
	"path/filepath"

	"github.com/hroffice/go-hrclient/api"
	"github.com/hroffice/go-hrclient/credstore"
	"github.com/hroffice/go-hrclient/internal/config"
	"github.com/hroffice/go-hrclient/session"
	"github.com/hroffice/go-hrclient/tenants"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app wires the client stack once per invocation and is shared by all
// subcommands.
type app struct {
	cfg      config.Config
	store    credstore.Store
	client   *api.Client
	manager  *session.Manager
	resolver *tenants.Resolver
}

func newApp() (*app, error) {
	cfg := config.New()

	storeOptions := []credstore.FileStoreOption{}
	if passphrase := cfg.GetStorePassphrase(); passphrase != "" {
		storeOptions = append(storeOptions, credstore.WithPassphrase(passphrase))
	}
	store, err := credstore.NewFileStore(filepath.Join(cfg.GetDataFolder(), "credentials.json"), storeOptions...)
	if err != nil {
		return nil, err
	}

	client, err := api.New(cfg.GetBaseURL())
	if err != nil {
		return nil, err
	}

	manager, err := session.NewManager(client, store, session.Config{
		ClientID:     cfg.GetClientID(),
		ClientSecret: cfg.GetClientSecret(),
		RedirectURI:  cfg.GetRedirectURI(),
		Scope:        cfg.GetScope(),
		TokenURL:     client.TokenURL(),
	})
	if err != nil {
		return nil, err
	}
	manager.Restore()

	resolver, err := tenants.NewResolver(client, store)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, store: store, client: client, manager: manager, resolver: resolver}, nil
}

var rootCmd = &cobra.Command{
	Use:           "hrcli",
	Short:         "Command-line client for the HR Office platform",
	Long:          `hrcli signs in to an HR Office tenant, inspects the current session, and resolves navigation the way the dashboard does.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	rootCmd.AddCommand(loginCmd, whoamiCmd, logoutCmd, navCmd, tenantCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
