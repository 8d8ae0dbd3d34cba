package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwall/fieldvault/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestError(t *testing.T) {
	t.Parallel()

	attr := logger.Error(errors.New("boom"))
	require.Equal(t, "error", attr.Key)

	// Nil errors produce an empty attr that slog drops silently.
	assert.Equal(t, slog.Attr{}, logger.Error(nil))
}

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "0", g[0].Key)
	assert.Equal(t, "2", g[1].Key)

	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
}

func TestDurationAndElapsed(t *testing.T) {
	t.Parallel()

	attr := logger.Duration(2 * time.Second)
	assert.Equal(t, "duration", attr.Key)
	assert.Equal(t, 2*time.Second, attr.Value.Duration())

	elapsed := logger.Elapsed(time.Now().Add(-time.Minute))
	assert.Equal(t, "elapsed", elapsed.Key)
	assert.GreaterOrEqual(t, elapsed.Value.Duration(), time.Minute)
}

func TestIdentityAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user_id", logger.UserID("u1").Key)
	assert.Equal(t, "group_id", logger.GroupID("g1").Key)
	assert.Equal(t, "collection", logger.Collection("expenses").Key)
	assert.Equal(t, "field", logger.Field("amount").Key)

	// Empty identities collapse to empty attrs.
	assert.Equal(t, slog.Attr{}, logger.UserID(""))
	assert.Equal(t, slog.Attr{}, logger.GroupID(""))
	assert.Equal(t, slog.Attr{}, logger.Collection(""))
	assert.Equal(t, slog.Attr{}, logger.Field(""))
}

func TestMiscAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "component", logger.Component("keyvault").Key)
	assert.Equal(t, "key_state", logger.KeyState("ready").Key)

	v := logger.Version(3)
	assert.Equal(t, "version", v.Key)
	assert.Equal(t, int64(3), v.Value.Int64())

	c := logger.Count("fields", 4)
	assert.Equal(t, "fields", c.Key)
	assert.Equal(t, int64(4), c.Value.Int64())
}
