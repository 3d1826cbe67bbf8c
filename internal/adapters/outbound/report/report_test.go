package report_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/agentpm-dev/agentpm/internal/adapters/outbound/report"
	"github.com/agentpm-dev/agentpm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() domain.AggregateReport {
	return domain.AggregateReport{Files: []domain.FileReport{
		domain.NewFileReport("a/agent.json", nil, domain.Policy{}),
		domain.NewFileReport("b/agent.json", []domain.Issue{
			{File: "b/agent.json", Level: domain.SeverityError, Message: "missing properties: 'name'", SchemaPath: "/required"},
		}, domain.Policy{}),
	}}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, sample(), domain.FormatJSON))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded), "output should be one JSON array")
	require.Len(t, decoded, 2)
	assert.Equal(t, "a/agent.json", decoded[0]["file"])
	assert.Equal(t, true, decoded[0]["ok"])
	assert.Equal(t, []any{}, decoded[0]["issues"])

	issue := decoded[1]["issues"].([]any)[0].(map[string]any)
	assert.Equal(t, "error", issue["level"])
	assert.Equal(t, "", issue["instance_path"])
	assert.Equal(t, "/required", issue["schema_path"])
	assert.Contains(t, buf.String(), "\n  {", "json output is indented")
}

func TestWrite_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, domain.AggregateReport{}, domain.FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, sample(), domain.FormatNDJSON))

	sc := bufio.NewScanner(&buf)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 2)
	for _, line := range lines {
		var rec domain.FileReport
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		assert.False(t, strings.Contains(line, "\n  "))
	}
}

func TestWrite_NDJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, domain.AggregateReport{}, domain.FormatNDJSON))
	assert.Empty(t, buf.String())
}

func TestWrite_Pretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, sample(), domain.FormatPretty))
	assert.Contains(t, buf.String(), "a/agent.json")
	assert.Contains(t, buf.String(), "[ERROR]")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := report.Write(&bytes.Buffer{}, sample(), domain.Format("xml"))
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
}

func TestGate(t *testing.T) {
	assert.NoError(t, report.Gate(domain.AggregateReport{}))

	err := report.Gate(sample())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLintFailed)
	assert.Contains(t, err.Error(), "1 of 2")
}
