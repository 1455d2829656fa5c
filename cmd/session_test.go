package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truemediaorg/postanalyzer/analyzer"
	"github.com/truemediaorg/postanalyzer/status"
	"github.com/truemediaorg/postanalyzer/workflow"
)

type stubAnalyzer struct {
	calls atomic.Int32
}

func (s *stubAnalyzer) SubmitAnalysis(_ context.Context, postURL string, commentCount int) (*analyzer.AnalysisResult, error) {
	s.calls.Add(1)
	return &analyzer.AnalysisResult{
		Post:     analyzer.PostSnapshot{URL: postURL, Author: "foo", Images: []string{}},
		Comments: []string{"great post", "agreed"},
	}, nil
}

type stubStatus struct {
	healthCalls atomic.Int32
}

func (s *stubStatus) FetchHealth(context.Context) (*analyzer.HealthStatus, error) {
	s.healthCalls.Add(1)
	return &analyzer.HealthStatus{Status: analyzer.HealthStateHealthy, Services: map[string]string{}}, nil
}

func (s *stubStatus) FetchMetrics(context.Context) (*analyzer.Metrics, error) {
	return nil, errors.New("metrics unavailable")
}

type silentNotifier struct{}

func (silentNotifier) Loading(string) {}
func (silentNotifier) Dismiss()       {}
func (silentNotifier) Success(string) {}
func (silentNotifier) Error(string)   {}

func runTestSession(t *testing.T, input string, a workflow.Analyzer, source status.StatusSource) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncWriter{w: &bytes.Buffer{}}
	controller := workflow.NewController(a, silentNotifier{}, workflow.Options{})
	poller := status.NewPoller(source)

	require.NoError(t, runSession(ctx, cancel, strings.NewReader(input), out, controller, poller))
	assert.Error(t, ctx.Err(), "session should cancel its context on exit")
	return out.w.(*bytes.Buffer).String()
}

func TestRunSession(t *testing.T) {
	t.Run("submissions and status refreshes", func(t *testing.T) {
		a := &stubAnalyzer{}
		source := &stubStatus{}
		out := runTestSession(t, "https://x.com/foo/status/1 3\n\n:status\n", a, source)

		assert.Equal(t, int32(1), a.calls.Load())
		assert.Equal(t, int32(2), source.healthCalls.Load())
		assert.Equal(t, 2, strings.Count(out, "System Status"))
		assert.Contains(t, out, "  1. great post\n  2. agreed\n")
	})

	t.Run("quit stops reading", func(t *testing.T) {
		a := &stubAnalyzer{}
		out := runTestSession(t, ":quit\nhttps://x.com/foo/status/1\n", a, &stubStatus{})

		assert.Equal(t, int32(0), a.calls.Load())
		assert.Equal(t, 1, strings.Count(out, "System Status"))
	})

	t.Run("malformed lines are reported and skipped", func(t *testing.T) {
		a := &stubAnalyzer{}
		out := runTestSession(t, "https://x.com/foo/status/1 many\n", a, &stubStatus{})

		assert.Equal(t, int32(0), a.calls.Load())
		assert.Contains(t, out, `invalid comment count "many"`)
	})
}

func TestParseSubmission(t *testing.T) {
	postURL, count, err := parseSubmission("https://x.com/foo/status/1")
	assert.NoError(t, err)
	assert.Equal(t, "https://x.com/foo/status/1", postURL)
	assert.Equal(t, 0, count)

	postURL, count, err = parseSubmission("https://x.com/foo/status/1   7")
	assert.NoError(t, err)
	assert.Equal(t, "https://x.com/foo/status/1", postURL)
	assert.Equal(t, 7, count)

	_, _, err = parseSubmission("a b c")
	assert.Error(t, err)
}

func TestSyncWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &syncWriter{w: &buf}
	_, err := io.WriteString(w, "hello")
	assert.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}
