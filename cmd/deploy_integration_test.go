package cmd

import (
	"context"
	"testing"

	"github.com/gnames/flasky/internal/iotesting"
	"github.com/gnames/flasky/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: This is an integration test that requires PostgreSQL.
// Skip with: go test -short

// TestDeploy_Integration runs deploy twice on an empty database.
func TestDeploy_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iotesting.Connect(t)
	iotesting.DropAllTables(t, op)

	cfg = iotesting.GetTestConfig()
	require.NoError(t, runDeploy(nil, nil))

	// a user registered between deployments
	gdb := op.GORM()
	require.NoError(t, gdb.Create(&schema.User{
		Email: "john@example.com", Username: "john",
	}).Error)

	require.NoError(t, runDeploy(nil, nil))

	ctx := context.Background()
	var roles, follows int64
	require.NoError(t, gdb.WithContext(ctx).Model(&schema.Role{}).Count(&roles).Error)
	require.NoError(t, gdb.WithContext(ctx).Model(&schema.Follow{}).Count(&follows).Error)
	assert.Equal(t, int64(3), roles)
	assert.Equal(t, int64(1), follows)
}
