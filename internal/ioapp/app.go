// Package ioapp is the application factory of flasky. It wires the
// configuration, the database connection and the HTTP router into one
// App shared by the commands.
package ioapp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gnames/flasky/internal/iodb"
	"github.com/gnames/flasky/internal/ioschema"
	"github.com/gnames/flasky/internal/ioseed"
	"github.com/gnames/flasky/internal/ioweb"
	flasky "github.com/gnames/flasky/pkg"
	"github.com/gnames/flasky/pkg/config"
	"github.com/gnames/flasky/pkg/db"
	"github.com/gnames/flasky/pkg/lifecycle"
	"github.com/gnames/flasky/pkg/shell"
	"gorm.io/gorm"
)

// App is a configured flasky application with an open database
// connection.
type App struct {
	Config   *config.Config
	Operator db.Operator
}

// New creates the application for cfg and connects to its database.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	return NewWithOperator(ctx, cfg, iodb.NewPgxOperator())
}

// NewWithOperator is like New, but uses the given database operator.
func NewWithOperator(
	ctx context.Context,
	cfg *config.Config,
	op db.Operator,
) (*App, error) {
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	slog.Debug("Application created",
		"profile", cfg.Profile,
		"database", cfg.Database.Database,
	)
	return &App{Config: cfg, Operator: op}, nil
}

// DB is the ORM handle of the application.
func (a *App) DB() *gorm.DB {
	return a.Operator.GORM()
}

// Handler builds the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	info := ioweb.Info{
		App:     config.AppName,
		Profile: a.Config.Profile,
		Version: flasky.Version,
		Build:   flasky.Build,
	}
	return ioweb.NewRouter(info, ioweb.NewStore(a.DB()), a.Config.PostsPerPage)
}

// SchemaManager binds the migration engine to the application database.
func (a *App) SchemaManager() lifecycle.SchemaManager {
	return ioschema.NewManager(a.Operator)
}

// Seeder returns the reference data seeder of the application.
func (a *App) Seeder() lifecycle.Seeder {
	return ioseed.New(a.Config, a.Operator)
}

// Deployer runs the deploy sequence against the application database.
func (a *App) Deployer() *lifecycle.Deployer {
	return lifecycle.NewDeployer(a.SchemaManager(), a.Seeder())
}

// ShellContext returns the bindings of an interactive session.
func (a *App) ShellContext() shell.Context {
	return shell.New(a.DB())
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.Operator.Close()
}
