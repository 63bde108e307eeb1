// Package cli is the operator command line for invoicekeeper: it wires the
// configuration, database, services and optional proof archive, and runs a
// single command per invocation.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/invoicekeeper/internal/config"
	"github.com/dmitrijs2005/invoicekeeper/internal/filex"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/invoicekeeper/internal/services"
	"github.com/dmitrijs2005/invoicekeeper/internal/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// maxProofSize caps proof files read from disk.
const maxProofSize = 64 << 20

// Seams for tests.
var (
	openDB     = sql.Open
	newArchive = func(ctx context.Context, cfg *config.Config) (storage.ProofArchive, error) {
		return storage.NewS3Archive(ctx, cfg)
	}
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	repos    repomanager.RepositoryManager
	commands *Commands
}

// NewApp opens the database handle and builds the services. No connection
// is made until the first query.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out, errOut io.Writer) (*App, error) {
	logger := logging.New(cfg.Env, errOut)

	db, err := openDB("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var archive storage.ProofArchive
	if cfg.ArchiveEnabled() {
		archive, err = newArchive(ctx, cfg)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("proof archive init error: %w", err)
		}
		logger.Debug(ctx, "proof archive enabled", "bucket", cfg.S3Bucket)
	}

	repos := repomanager.NewPostgresRepositoryManager()

	app := &App{config: cfg, logger: logger, db: db, repos: repos}
	app.commands = &Commands{
		users:    services.NewUserService(db, repos, cfg, logger),
		invoices: services.NewInvoiceService(db, repos, archive, logger),
		migrate:  app.migrate,
		readFile: readProof,
		in:       bufio.NewReader(in),
		out:      out,
	}
	return app, nil
}

func readProof(path string) ([]byte, error) {
	return filex.ReadLimited(path, maxProofSize)
}

func (app *App) migrate(ctx context.Context) error {
	return app.repos.RunMigrations(ctx, app.db)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Run executes one command. Pending migrations are applied first when
// MigrateOnStart is set. The command is cancelled on SIGINT or SIGTERM and
// after CommandTimeout.
func (app *App) Run(ctx context.Context, args []string) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	if app.config.CommandTimeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, app.config.CommandTimeout)
		defer cancelTimeout()
	}

	if app.config.MigrateOnStart && needsDatabase(args) {
		if err := app.migrate(ctx); err != nil {
			app.logger.Error(ctx, "migrations failed", "error", err)
			return err
		}
	}

	err := app.commands.Run(ctx, args)
	if err != nil && !errors.Is(err, ErrUsage) && !errors.Is(err, ErrUnknownCommand) {
		app.logger.Error(ctx, "command failed", "command", args[0], "error", err)
	}
	return err
}

func needsDatabase(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "help", "-h", "--help", "migrate":
		return false
	}
	return true
}

func (app *App) Close() error {
	return app.db.Close()
}
