package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/foomo/loadprobe/vo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func elapsed(d time.Duration) *time.Duration {
	return &d
}

func getRun() *vo.Run {
	results := []vo.ProbeResult{
		{Index: 1, Status: 200, Server: "pod-b", Elapsed: elapsed(30 * time.Millisecond)},
		{Index: 0, Status: 200, Server: "pod-a", Elapsed: elapsed(10 * time.Millisecond)},
		{Index: 2, Status: 500, Server: "pod-a", Elapsed: elapsed(20 * time.Millisecond), Failure: vo.FailureHTTP, Error: "500 Internal Server Error"},
		{Index: 3, Status: vo.StatusErr, Server: vo.ServerErr, Failure: vo.FailureTimeout, Error: "context deadline exceeded"},
	}
	return &vo.Run{
		ID:      uuid.MustParse("5b0bd1c4-7f3c-4cf4-9a4c-7cf6f1c9a001"),
		Target:  "http://backend:5000/users",
		Started: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Wall:    1500 * time.Millisecond,
		Results: results,
		Summary: vo.Summarize(results),
	}
}

func TestReportSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Report(buf, getRun(), ReportSummary))
	out := buf.String()
	assert.Contains(t, out, "5b0bd1c4-7f3c-4cf4-9a4c-7cf6f1c9a001")
	assert.Contains(t, out, "Success: 2\n")
	assert.Contains(t, out, "Failed: 2\n")
	assert.Contains(t, out, "Total elapsed: 60ms\n")
	assert.Contains(t, out, "mean 15ms")
	assert.Contains(t, out, "mean 30ms")
	// first sighting order
	assert.Less(t, strings.Index(out, "pod-b"), strings.Index(out, "pod-a"))
	assert.Less(t, strings.Index(out, "\n500 1"), strings.Index(out, "\nERR 1"))
	assert.Contains(t, out, "timeout 1")
}

func TestReportAll(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Report(buf, getRun(), Names()...))
	out := buf.String()
	assert.Contains(t, out, "performance buckets")
	assert.Contains(t, out, "server: pod-a")
	assert.NotContains(t, out, "server: "+vo.ServerErr)
	assert.Contains(t, out, "high score")
	assert.Contains(t, out, "1 x timeout: context deadline exceeded")
	assert.Contains(t, out, "index: 3")
}

func TestReportUnknown(t *testing.T) {
	buf := &bytes.Buffer{}
	assert.Error(t, Report(buf, getRun(), ReportSummary, "seo"))
	assert.Empty(t, buf.String())
}

func TestProbeLine(t *testing.T) {
	buf := &bytes.Buffer{}
	run := getRun()
	ProbeLine(buf, run.Results[0])
	ProbeLine(buf, run.Results[3])
	assert.Equal(t, "1 pod-b 30ms 200\n3 ERR-POD - ERR\n", buf.String())
}

func TestYAML(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, YAML(buf, getRun()))
	decoded := struct {
		ID      string `yaml:"id"`
		Summary struct {
			Success int            `yaml:"success"`
			Failure int            `yaml:"failure"`
			Hits    map[string]int `yaml:"hits"`
		} `yaml:"summary"`
	}{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "5b0bd1c4-7f3c-4cf4-9a4c-7cf6f1c9a001", decoded.ID)
	assert.Equal(t, 2, decoded.Summary.Success)
	assert.Equal(t, 2, decoded.Summary.Failure)
	assert.Equal(t, map[string]int{"pod-a": 2, "pod-b": 1, vo.ServerErr: 1}, decoded.Summary.Hits)
}
