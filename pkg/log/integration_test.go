package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

func TestTestLoggerLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationTest)
	testLogger.Warn("warning message", "warning_code", "TEST_WARNING")
	testLogger.Error("error message", fmt.Errorf("test error"), JobIndexKey, 3)

	require.NotEmpty(t, buffer.String())
	assert.True(t, testLogger.ContainsMessage("debug message"))
	assert.True(t, testLogger.ContainsMessage("info message"))
	assert.True(t, testLogger.ContainsMessage("warning message"))
	assert.True(t, testLogger.ContainsMessage("error message"))

	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(ErrorKey, "test error"))
	assert.True(t, testLogger.ContainsField(JobIndexKey, 3.0))
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ComponentKey, "crossvalidation",
		StrategyKey, "LeavePOut",
	)
	contextLogger.Info("phase change", PhaseKey, PhasePartitioning)

	assert.True(t, testLogger.ContainsField(ComponentKey, "crossvalidation"))
	assert.True(t, testLogger.ContainsField(StrategyKey, "LeavePOut"))
	assert.True(t, testLogger.ContainsField(PhaseKey, PhasePartitioning))
	assert.Equal(t, 1, testLogger.CountField(PhaseKey, PhasePartitioning))
}

func TestTestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	assert.False(t, testLogger.ContainsMessage("this should not appear"))
	assert.True(t, testLogger.ContainsMessage("this should appear"))
}

func TestTestLoggerConcurrent(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)
	child := testLogger.With(ComponentKey, "parallel")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			child.Debug("job finished", JobIndexKey, i)
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 16)
}

func TestTestLoggerProvider(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)

	provider.GetLogger().Info("provider test message")
	provider.GetLoggerWithName("dataset").Info("named logger message")

	out := buffer.String()
	assert.Contains(t, out, "provider test message")
	assert.Contains(t, out, "named logger message")
	assert.Contains(t, out, "dataset")

	provider.SetLevel(LevelError)
	provider.GetLogger().Info("suppressed")
	assert.NotContains(t, buffer.String(), "suppressed")
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo).With(ComponentKey, "parallel")

	logger.Debug("hidden")
	logger.Info("jobs processed", JobsKey, 4, WorkersKey, 2)
	logger.Error("job failed", scierrors.NewJobError(1, scierrors.New("boom")), JobIndexKey, 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	assert.Equal(t, "info", info["level"])
	assert.Equal(t, "jobs processed", info["message"])
	assert.Equal(t, "parallel", info[ComponentKey])
	assert.Equal(t, 4.0, info[JobsKey])

	var failure map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failure))
	assert.Equal(t, "error", failure["level"])
	assert.Contains(t, failure["error"], "job 1 failed")
	assert.NotEmpty(t, failure[StacktraceKey])

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				var argErr *scierrors.InvalidArgumentError
				assert.True(t, scierrors.As(err, &argErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	testLogger, _ := NewTestLogger(LevelDebug)
	SetLogger(testLogger)
	GetLoggerWithName("dataset").Info("hello")
	assert.True(t, testLogger.ContainsField(ComponentKey, "dataset"))

	SetLogger(nil)
	assert.Equal(t, Logger(testLogger), GetLogger())
}
