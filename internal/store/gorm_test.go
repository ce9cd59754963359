package store

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSQLitePersister(t *testing.T) *GormPersister {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	p, err := NewGormPersister(db)
	require.NoError(t, err)
	return p
}

func TestGormPersisterRoundTrip(t *testing.T) {
	p := newSQLitePersister(t)
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, "c1", []byte(`{"schemaVersion":1}`)))

	got, err := p.Load(ctx, "c1")
	require.NoError(t, err)
	require.JSONEq(t, `{"schemaVersion":1}`, string(got))
}

func TestGormPersisterOverwrite(t *testing.T) {
	p := newSQLitePersister(t)
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, "c1", []byte(`{"v":1}`)))
	require.NoError(t, p.Save(ctx, "c1", []byte(`{"v":2}`)))

	got, err := p.Load(ctx, "c1")
	require.NoError(t, err)
	require.JSONEq(t, `{"v":2}`, string(got))
}

func TestGormPersisterMissingKey(t *testing.T) {
	p := newSQLitePersister(t)

	_, err := p.Load(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}
