package database

import (
	"context"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey string

type recordingTracer struct {
	name  string
	calls *[]string
}

func (r recordingTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	*r.calls = append(*r.calls, "start:"+r.name)
	return context.WithValue(ctx, ctxKey(r.name), true)
}

func (r recordingTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryEndData) {
	if ctx.Value(ctxKey(r.name)) == true {
		*r.calls = append(*r.calls, "end:"+r.name)
	}
}

func TestMultiTracerRunsAllTracersInOrder(t *testing.T) {
	var calls []string
	mt := &multiTracer{tracers: []any{
		recordingTracer{name: "a", calls: &calls},
		"not a tracer",
		recordingTracer{name: "b", calls: &calls},
	}}

	ctx := mt.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	mt.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	assert.Equal(t, []string{"start:a", "start:b", "end:a", "end:b"}, calls)
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.Equal(t, []string{
		"001_create_users.sql",
		"002_create_activities.sql",
		"003_create_appointments.sql",
		"004_add_activity_type_and_is_active.sql",
	}, names)
}
