package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimeLogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	ctx := context.WithValue(context.Background(), RequestIDKey, "r-1")

	var err error
	Time(ctx, "plan.ok")(&err)

	err = errors.New("boom")
	Time(ctx, "plan.fail")(&err)

	entries := logs.All()
	require.Len(t, entries, 2)

	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "plan.ok", entries[0].ContextMap()["op"])
	require.Equal(t, "r-1", entries[0].ContextMap()["req_id"])

	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, "boom", entries[1].ContextMap()["error"])
}
