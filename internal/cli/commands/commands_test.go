package commands

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninjasql/ninjasql/internal/cli/output"
	"github.com/ninjasql/ninjasql/internal/config"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewGenerateCommand(), "generate", []string{"watch", "select"}},
		{NewPlanCommand(), "plan", []string{"select"}},
		{NewRenderCommand(), "render", []string{"file"}},
		{NewTableLoadCommand(), "tableload", []string{"history"}},
		{NewIntrospectCommand(), "introspect <table>", []string{"key"}},
		{NewApplyCommand(), "apply", []string{"select", "dry-run"}},
		{NewHistoryCommand(), "history", []string{"limit"}},
		{NewMacrosCommand(), "macros", nil},
		{NewVersionCommand("1.2.3", "abc", "today"), "version", nil},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			for _, name := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(name), "flag %s", name)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"repeated", []string{"a", "b"}, []string{"a", "b"}},
		{"comma separated", []string{"a, b", "c"}, []string{"a", "b", "c"}},
		{"blank parts", []string{" , a,,"}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.in))
		})
	}
}

func TestNewCommandContext(t *testing.T) {
	t.Run("no config", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetContext(context.Background())
		_, err := NewCommandContext(cmd)
		assert.ErrorIs(t, err, errNoConfig)
	})

	t.Run("bad output", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetContext(WithConfig(context.Background(), &config.Config{Output: "xml"}))
		_, err := NewCommandContext(cmd)
		assert.ErrorContains(t, err, "unknown output format")
	})

	t.Run("defaults", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.SetContext(WithConfig(context.Background(), &config.Config{Output: "json"}))
		cc, err := NewCommandContext(cmd)
		require.NoError(t, err)
		assert.Equal(t, output.ModeJSON, cc.Renderer.EffectiveMode())
		assert.NotNil(t, cc.Logger)
		assert.NotNil(t, cc.Clock)

		cfg, err := cc.Reload()
		require.NoError(t, err)
		assert.Same(t, cc.Cfg, cfg)
	})
}

func TestCommandContext_Batch(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 9, 17, 30, 0, 0, time.UTC))

	tests := []struct {
		name string
		date string
		want string
	}{
		{"clock", "", "2024-03-09"},
		{"configured", "2023-12-31", "2023-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := &CommandContext{Cfg: &config.Config{Batch: config.BatchConfig{Date: tt.date}}, Clock: clock}
			batch, err := cc.Batch()
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatDate(batch))
		})
	}

	cc := &CommandContext{Cfg: &config.Config{Batch: config.BatchConfig{Date: "31/12/2023"}}, Clock: clock}
	_, err := cc.Batch()
	assert.Error(t, err)
}

func TestCommandContext_ConnectWithoutTarget(t *testing.T) {
	cc := &CommandContext{Cfg: &config.Config{}}
	_, err := cc.Connect(context.Background())
	assert.ErrorContains(t, err, "no target configured")
}
