// Command yatra plans a pilgrimage from the terminal. The plan is kept in a
// local SQLite file.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukydev/yatra-planner/internal/catalog"
	"github.com/ukydev/yatra-planner/internal/db"
	"github.com/ukydev/yatra-planner/internal/notify"
	"github.com/ukydev/yatra-planner/internal/planner"
)

type app struct {
	dbPath      string
	catalogPath string
	owner       string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "yatra",
		Short:         "Plan a temple yatra: pick destinations, estimate costs, track the budget",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log.SetOutput(cmd.ErrOrStderr())
			log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
			if a.verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", "yatra.db", "SQLite file holding the plan")
	root.PersistentFlags().StringVar(&a.catalogPath, "catalog", "data/destinations.yaml", "Destination catalog (YAML)")
	root.PersistentFlags().StringVar(&a.owner, "owner", "local", "Plan owner; one file can hold several plans")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.destinationsCmd(),
		a.searchCmd(),
		a.nearbyCmd(),
		a.planCmd(),
		a.settingsCmd(),
		a.familyCmd(),
	)
	return root
}

func (a *app) catalog() (*catalog.Static, error) {
	dests, err := catalog.LoadFile(a.catalogPath)
	if err != nil {
		return nil, err
	}
	return catalog.NewStatic(dests), nil
}

// withStore opens the plan, runs fn and closes the database. Save failures
// are printed as warnings; the command still succeeds.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, s *planner.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sqlDB, err := db.OpenSQL(db.DriverSQLite, a.dbPath)
	if err != nil {
		return err
	}
	defer closeQuietly(sqlDB)
	if err := db.InitStateSchema(ctx, sqlDB); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	store, err := planner.Open(ctx, &db.SQLStateStore{DB: sqlDB, Driver: db.DriverSQLite}, planner.KeysFor(a.owner),
		planner.WithNotifier(notify.Multi{
			notify.LogNotifier{Fields: log.Fields{"db": a.dbPath}},
			planner.NotifierFunc(func(_ context.Context, n planner.Notice) { warn(stderr, n.Message) }),
		}))
	if err != nil {
		return err
	}
	return fn(ctx, store)
}

func closeQuietly(sqlDB *sql.DB) {
	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Debug("Failed to close database")
	}
}

func warn(w io.Writer, msg string) {
	fmt.Fprintf(w, "warning: %s\n", msg)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
