package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelWarn},
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := New(Options{Level: "info", Writer: &buf})
	require.NoError(t, err)
	defer closeFn()

	log.Debug("hidden")
	log.Info("shown", "mb", 800)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown mb=800")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Level: "debug", Format: "json", Writer: &buf})
	require.NoError(t, err)

	log.Debug("planned", "points", 3)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "planned", rec["msg"])
	assert.Equal(t, float64(3), rec["points"])
}

func TestNew_BadOptions(t *testing.T) {
	_, _, err := New(Options{Format: "xml"})
	require.Error(t, err)
	_, _, err = New(Options{Level: "chatty"})
	require.Error(t, err)
}

func TestNew_LogDir(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "meshctl-2000-01-01.log")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0644))
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

	log, closeFn, err := New(Options{Level: "info", LogDir: dir})
	require.NoError(t, err)
	log.Info("to file")
	require.NoError(t, closeFn())

	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err), "stale log removed")
	_, err = os.Stat(other)
	assert.NoError(t, err, "unrelated files kept")

	today := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	data, err := os.ReadFile(today)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing happens")
}
