package session_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-engine/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-engine/internal/repositories/session"
	"github.com/KirkDiggler/rpg-engine/internal/testutils"
)

func TestRedisRepair(t *testing.T) {
	ctx := context.Background()
	var mr *miniredis.Miniredis
	client, cleanup := testutils.CreateTestRedisClientWithContext(t, func(m *miniredis.Miniredis) {
		mr = m
		_ = m.Set("session:roto", "{not json")
		_ = m.Set("session:ajeno", `{"id":"otro","version":1}`)
		_, _ = m.SetAdd("sessions", "roto", "ajeno", "fantasma")
	})
	defer cleanup()

	repo, err := session.NewRedisRepository(&session.RedisConfig{
		Client: client,
		Clock:  clock.NewFixed(testutils.FixedTime),
	})
	require.NoError(t, err)

	_, err = repo.Save(ctx, session.SaveInput{Snapshot: &session.Snapshot{
		ID:     "sano",
		Player: testutils.CreateTestPlayer(),
	}})
	require.NoError(t, err)

	repairer, ok := repo.(session.Repairer)
	require.True(t, ok)

	dry, err := repairer.Repair(ctx, session.RepairInput{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 3, dry.Checked)
	assert.Equal(t, []string{"ajeno", "fantasma", "roto"}, dry.Corrupt)
	assert.Empty(t, dry.Deleted)
	assert.True(t, mr.Exists("session:roto"))

	out, err := repairer.Repair(ctx, session.RepairInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ajeno", "fantasma", "roto"}, out.Deleted)
	assert.False(t, mr.Exists("session:roto"))

	list, err := repo.List(ctx, session.ListInput{})
	require.NoError(t, err)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, "sano", list.Sessions[0].ID)
}

func TestSQLiteRepair(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	repo, err := session.OpenSQLite(ctx, &session.SQLiteConfig{
		Path:  path,
		Clock: clock.NewFixed(testutils.FixedTime),
	})
	require.NoError(t, err)
	defer func() { _ = repo.Close() }()

	_, err = repo.Save(ctx, session.SaveInput{Snapshot: &session.Snapshot{
		ID:     "sano",
		Player: testutils.CreateTestPlayer(),
	}})
	require.NoError(t, err)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions (id, player_name, level, data, saved_at) VALUES ('futuro', 'x', 1, '{"id":"futuro","version":99}', 0)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions (id, player_name, level, data, saved_at) VALUES ('negativo', 'x', 1, '{"id":"negativo","version":-1}', 0)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := repo.Repair(ctx, session.RepairInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Checked)
	assert.Equal(t, []string{"futuro", "negativo"}, out.Deleted)

	list, err := repo.List(ctx, session.ListInput{})
	require.NoError(t, err)
	require.Len(t, list.Sessions, 1)
}
