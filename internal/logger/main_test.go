package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgcpoolandspa/poolsite/internal/logger"
)

func TestInit(t *testing.T) {
	testCases := []struct {
		name       string
		cfg        logger.Log
		wantErr    error
		wantOutput bool
		wantJSON   bool
		invalidLvl bool
	}{
		{
			name:    "missing service name",
			cfg:     logger.Log{LogLevel: "info", AppName: "test"},
			wantErr: logger.ErrServiceNameIsEmpty,
		},
		{
			name:    "missing app name",
			cfg:     logger.Log{LogLevel: "info", ServiceName: "test"},
			wantErr: logger.ErrAppNameIsEmpty,
		},
		{
			name:       "unknown level",
			cfg:        logger.Log{LogLevel: "loud", ServiceName: "test", AppName: "test"},
			invalidLvl: true,
		},
		{
			name:       "no writer enabled",
			cfg:        logger.Log{LogLevel: "info", ServiceName: "test", AppName: "test"},
			wantOutput: false,
		},
		{
			name: "console json",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true},
			},
			wantOutput: true,
			wantJSON:   true,
		},
		{
			name: "console writer trace with caller",
			cfg: logger.Log{
				LogLevel: "trace", ServiceName: "test", AppName: "test", ReportCaller: true,
				Console: logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			wantOutput: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := captureOutput(t, tc.cfg)

			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
				return
			case tc.invalidLvl:
				require.Error(t, err)
				return
			}

			require.NoError(t, err)

			if !tc.wantOutput {
				assert.Empty(t, out)
				return
			}

			assert.Contains(t, out, "info message")
			assert.Contains(t, out, "error message")

			if tc.wantJSON {
				for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
					var m map[string]any
					require.NoError(t, json.Unmarshal([]byte(line), &m), line)
					assert.Equal(t, "test", m["app"])
				}
			}
		})
	}
}

func TestLevelWriter(t *testing.T) {
	var info, errs bytes.Buffer

	lw := &logger.LevelWriter{InfoWriter: &info, ErrorWriter: &errs}
	l := log.Output(lw)

	l.Info().Msg("to info")
	l.Warn().Msg("to error")
	l.Error().Msg("to error as well")

	assert.Equal(t, 1, strings.Count(info.String(), "\n"))
	assert.Equal(t, 2, strings.Count(errs.String(), "\n"))
	assert.NotContains(t, info.String(), "to error")
}

func captureOutput(t *testing.T, cfg logger.Log) (string, error) {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	initErr := logger.Init(cfg)
	if initErr == nil {
		log.Info().Msg("info message")
		log.Error().Err(errors.New("boom")).Msg("error message") //nolint:goerr113
	}

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC, initErr
}
