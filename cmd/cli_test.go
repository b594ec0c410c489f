package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraperfra/TELEMARKETING/internal/config"
	"github.com/fraperfra/TELEMARKETING/internal/db"
	"github.com/fraperfra/TELEMARKETING/internal/model"
	"github.com/fraperfra/TELEMARKETING/internal/repository"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_SeedSearchAndBook(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "scheduler.db")
	common := []string{"--db.driver", "sqlite", "--db.dsn", dsn, "--scheduler.timezone", "UTC", "--server.log_level", "error"}
	agent := "0b6f6a1e-7c1a-4f7e-9a57-3f4d8a0c2b11"

	_, err := run(t, append([]string{"migrate"}, common...)...)
	require.NoError(t, err)

	_, err = run(t, append([]string{"availability", "seed", "--agent", agent}, common...)...)
	require.NoError(t, err)

	// Wednesday 8 January 2025.
	_, err = run(t, append([]string{"availability", "block", "--agent", agent, "--date", "2025-01-08", "--reason", "ferie"}, common...)...)
	require.NoError(t, err)

	out, err := run(t, append([]string{"slots", "next", "--agent", agent, "--from", "2025-01-07T17:30:00Z"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01-09T09:00:00Z")
	assert.Contains(t, out, "giovedì 9 gennaio alle 09:00")

	out, err = run(t, append([]string{"slots", "list", "--agent", agent, "--from", "2025-01-06T09:00:00Z", "--count", "3"}, common...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "2025-01-06T11:00:00Z"), lines[1])

	gdb, err := db.NewGormDB(config.DBConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	contact := &model.Contact{Name: "Sara Gallo", Address: "Piazza Duomo 1, Milano"}
	require.NoError(t, repository.NewGormContactRepository(gdb).Create(context.Background(), contact))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	out, err = run(t, append([]string{"book", "--agent", agent, "--contact", contact.ID.String(), "--from", "2025-01-06T09:00:00Z"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01-06T09:00:00Z")
	assert.Contains(t, out, "lunedì 6 gennaio, 09:00–10:00")
	assert.Contains(t, out, "Sopralluogo - Sara Gallo")

	_, err = run(t, append([]string{"slots", "next", "--agent", "not-a-uuid"}, common...)...)
	assert.Error(t, err)
}
