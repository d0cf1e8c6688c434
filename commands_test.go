package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OrtheSnowJames/naturebindgen/internal/config"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "naturebindgen dev\n", out.String())
}

func TestExecuteReportsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing header", []string{}, "Error: accepts 1 arg(s), received 0\n"},
		{"symbols without header", []string{"symbols"}, "Error: accepts 1 arg(s), received 0\n"},
		{"unknown flag", []string{"--bogus", "x.h"}, "Error: unknown flag: --bogus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := newRootCommand()
			var stderr bytes.Buffer
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&stderr)
			cmd.SetArgs(tt.args)

			require.Error(t, execute(cmd))
			assert.Equal(t, tt.want, stderr.String())
		})
	}
}

func TestApplyFlags(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Output:      config.DefaultOutput,
		IncludeDirs: []string{"/usr/local/include"},
		Logging:     config.LoggingConfig{Level: "info", Format: "text"},
	}
	applyFlags(cfg, &rootOptions{
		output:      "raylib.n",
		includeDirs: []string{"vendor"},
		clangArgs:   []string{"-DDEBUG"},
		verbose:     true,
	})

	assert.Equal(t, "raylib.n", cfg.Output)
	assert.Equal(t, []string{"-I/usr/local/include", "-Ivendor", "-DDEBUG"}, cfg.CompilerArgs())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

	applyFlags(cfg, &rootOptions{})
	assert.Equal(t, "raylib.n", cfg.Output)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "warn", Format: "json"}}
	logger := newLogger(&buf, cfg)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	cfg.Logging.Format = "text"
	newLogger(&buf, cfg).Warn("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
