package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/classrank/internal/config"
	"github.com/okian/classrank/internal/domain/question"
	"github.com/okian/classrank/internal/domain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestTiersCommand(t *testing.T) {
	out, err := run(t, context.Background(), "tiers", "pvp")
	require.NoError(t, err)
	assert.Contains(t, out, "pvp")
	assert.Contains(t, out, "Grasshopper")
	assert.Contains(t, out, "480+")
	assert.NotContains(t, out, "The Crammer")

	out, err = run(t, context.Background(), "tiers")
	require.NoError(t, err)
	for _, name := range []string{"Absent Legend", "Supreme", "Capsule Corp Visionary", "reads weekly scores"} {
		assert.Contains(t, out, name)
	}

	_, err = run(t, context.Background(), "tiers", "season")
	assert.Error(t, err)
}

func TestResolveCommand(t *testing.T) {
	out, err := run(t, context.Background(), "resolve", "149")
	require.NoError(t, err)
	assert.Contains(t, out, "Absent Legend")
	assert.Contains(t, out, "The Crammer")
	assert.Contains(t, out, "in 1 (99%)")

	out, err = run(t, context.Background(), "resolve", "--track", "pvp", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Supreme")
	assert.Contains(t, out, "top tier reached")

	_, err = run(t, context.Background(), "resolve", "lots")
	assert.Error(t, err)

	_, err = run(t, context.Background(), "resolve", "-t", "season", "10")
	assert.Error(t, err)
}

func TestReviewCommand(t *testing.T) {
	bank := filepath.Join(t.TempDir(), "bank.txt")
	require.NoError(t, os.WriteFile(bank, []byte("What is the capital of France?\n\nHow do plants make food?\n"), 0o600))

	t.Run("json", func(t *testing.T) {
		out, err := run(t, context.Background(), "review",
			"--text", "What is the capital city of France?",
			"--choice", "Paris", "--choice", "Lyon",
			"--correct", "0", "--level", "remember",
			"--bank", bank, "--json")
		require.NoError(t, err)

		var r types.Review
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		assert.Equal(t, 100, r.Score)
		assert.Equal(t, question.GradeExcellent, r.Grade)
		require.Len(t, r.Similar, 1)
		assert.Equal(t, 0, r.Similar[0].Index)
	})

	t.Run("text", func(t *testing.T) {
		out, err := run(t, context.Background(), "review", "--text", "capital")
		require.NoError(t, err)
		assert.Contains(t, out, string(question.GradeNeedsImprovement))
		assert.Contains(t, out, question.CheckCorrectAnswer)
		assert.Contains(t, out, "No similar questions.")
	})

	t.Run("missing text", func(t *testing.T) {
		_, err := run(t, context.Background(), "review")
		assert.Error(t, err)
	})

	t.Run("missing bank", func(t *testing.T) {
		_, err := run(t, context.Background(), "review", "--text", "x", "--bank", filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}

func TestServeCommand(t *testing.T) {
	t.Run("stops when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := run(t, ctx, "serve", "--addr", "127.0.0.1:0")
		assert.NoError(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Setenv("CLASSRANK_STORE", "papyrus")
		_, err := run(t, context.Background(), "serve", "--addr", "127.0.0.1:0")
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("unreachable redis", func(t *testing.T) {
		t.Setenv("CLASSRANK_STORE", "redis")
		t.Setenv("CLASSRANK_REDIS_URL", "not a url")
		_, err := run(t, context.Background(), "serve", "--addr", "127.0.0.1:0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "start service")
	})

	t.Run("bad address", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		_, err := run(t, ctx, "serve", "--addr", "127.0.0.1:notaport")
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "listen"))
	})
}

func TestLoadgenCommandFailsWithoutService(t *testing.T) {
	_, err := run(t, context.Background(), "loadgen", "--url", "http://127.0.0.1:1", "-n", "1", "--timeout", "200ms")
	assert.Error(t, err)
}
