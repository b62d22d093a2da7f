package ioapp_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gnames/flasky/internal/ioapp"
	"github.com/gnames/flasky/internal/iotesting"
	flasky "github.com/gnames/flasky/pkg"
	"github.com/gnames/flasky/pkg/config"
	"github.com/gnames/flasky/pkg/shell"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeOperator struct {
	connectErr error
	connected  bool
	closed     bool
}

func (f *fakeOperator) Connect(context.Context, *config.DatabaseConfig) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeOperator) Close() error { f.closed = true; return nil }
func (f *fakeOperator) Pool() *pgxpool.Pool { return nil }
func (f *fakeOperator) GORM() *gorm.DB { return nil }
func (f *fakeOperator) TableExists(context.Context, string) (bool, error) { return false, nil }
func (f *fakeOperator) HasTables(context.Context) (bool, error) { return false, nil }
func (f *fakeOperator) DropAllTables(context.Context) error { return nil }
func (f *fakeOperator) VacuumAnalyze(context.Context) error { return nil }

func TestNewWithOperator(t *testing.T) {
	assert := assert.New(t)
	cfg := config.New()
	cfg.Update([]config.Option{config.OptProfile(config.ProfileTesting)})
	op := &fakeOperator{}

	app, err := ioapp.NewWithOperator(context.Background(), cfg, op)
	require.NoError(t, err)
	assert.True(op.connected)
	assert.NotNil(app.SchemaManager())
	assert.NotNil(app.Seeder())
	assert.NotNil(app.Deployer())

	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal("flasky", info["app"])
	assert.Equal("testing", info["profile"])
	assert.Equal(flasky.Version, info["version"])

	require.NoError(t, app.Close())
	assert.True(op.closed)
}

func TestNewConnectError(t *testing.T) {
	op := &fakeOperator{connectErr: errors.New("refused")}
	_, err := ioapp.NewWithOperator(context.Background(), config.New(), op)
	assert.Error(t, err)
}

func TestNewIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	cfg := iotesting.GetTestConfig()
	app, err := ioapp.New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.DB())
	ctx := app.ShellContext().Map()
	assert.Len(t, ctx, len(shell.Names()))
	for _, v := range shell.Names() {
		assert.NotNil(t, ctx[v], v)
	}
}
