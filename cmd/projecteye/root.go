package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/NordCoder/ProjectEye/internal/apiclient"
	"github.com/NordCoder/ProjectEye/internal/bootstrap"
	config "github.com/NordCoder/ProjectEye/internal/config/cli"
	common "github.com/NordCoder/ProjectEye/internal/config/common"
	"github.com/NordCoder/ProjectEye/internal/obs"
	"github.com/NordCoder/ProjectEye/internal/projecteye"
	pg "github.com/NordCoder/ProjectEye/internal/repository/postgres"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app holds what every subcommand needs; it is populated in PersistentPreRunE.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg     *config.Config
	log     *zap.Logger
	client  *apiclient.Client
	api     *projecteye.API
	closers []func() error
}

func newApp() *app { return &app{v: viper.New()} }

// run executes the command tree and then releases whatever init opened.
// Cobra skips post-run hooks when a subcommand fails, so closing lives here.
func (a *app) run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "projecteye",
		Short:         "Command line client for the ProjectEye construction management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "yaml config file")
	f.String("base-url", "", "API base URL, e.g. https://eye.example.com/api")
	f.String("store", "", "token store driver: memory, file, redis, postgres")
	f.String("store-path", "", "credentials file for the file store")
	f.String("log-level", "", "log level for diagnostics on stderr")
	for key, flag := range map[string]string{
		"api.base_url": "base-url",
		"store.driver": "store",
		"store.path":   "store-path",
		"log.level":    "log-level",
	} {
		_ = a.v.BindPFlag(key, f.Lookup(flag))
	}

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newTokenCmd(a),
		newProjectsCmd(a),
		newMilestonesCmd(a),
		newTeamCmd(a),
		newTransactionsCmd(a),
	)
	return root
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lc := cfg.Log.AsLoggerConfig(cfg.App)
	if lc.Output == "" {
		lc.Output = "stderr"
	}
	a.log, err = obs.NewLogger(lc)
	if err != nil {
		return err
	}

	var db *pg.DB
	if cfg.Store.Driver == common.DriverPostgres {
		db, err = pg.New(ctx, cfg.DB)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() error { db.Close(); return nil })
	}

	store, closeStore, err := bootstrap.OpenTokenStore(ctx, cfg.Store, db, a.log)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeStore)

	a.client, a.api, err = bootstrap.NewAPI(cfg.API, store, a.log)
	return err
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	if a.log != nil {
		_ = a.log.Sync()
	}
	return errors.Join(errs...)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
