package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, int8(zapcore.DebugLevel), LevelFor(true))
	assert.Equal(t, int8(zapcore.InfoLevel), LevelFor(false))
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	zl, log := New(&buf, LevelFor(false))
	log.Info("chose path", "path", "/usr/local/bin/tool")
	require.NoError(t, zl.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "chose path", entry[MessageKey])
	assert.Equal(t, "/usr/local/bin/tool", entry["path"])
	assert.Contains(t, entry, TimeStampKey)
	assert.Contains(t, entry, VersionKey)
}

func TestDebugLevelEnablesVerbose(t *testing.T) {
	var buf bytes.Buffer
	_, log := New(&buf, LevelFor(false))
	log.V(1).Info("path changed")
	assert.Empty(t, buf.String())

	buf.Reset()
	_, log = New(&buf, LevelFor(true))
	log.V(1).Info("path changed")
	assert.Contains(t, buf.String(), "path changed")
}

func TestGetReturnsSameInstance(t *testing.T) {
	l1 := Get(LevelFor(false))
	l2 := Get(LevelFor(true))
	require.NotNil(t, l1)
	assert.Same(t, l1, l2)
}

func TestGetReturnsNoopWhenGlobalUnset(t *testing.T) {
	Get(LevelFor(false))
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, Get(LevelFor(false)))
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	log := logr.Discard()

	withLog := WithLogger(ctx, &log)
	assert.Same(t, &log, FromContext(withLog))
	assert.Equal(t, withLog, WithLogger(withLog, &log))

	other := logr.Discard()
	replaced := WithLogger(withLog, &other)
	assert.Same(t, &other, FromContext(replaced))
}

func TestFromContextFallsBack(t *testing.T) {
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
}

func TestSyncWithoutLogger(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	assert.NotPanics(t, Sync)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(syscall.ENOTTY))
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}
