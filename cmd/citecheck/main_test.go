package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kirillkom/citecheck/internal/core/domain"
	"github.com/kirillkom/citecheck/internal/infrastructure/export/xlsx"
)

const roeResponse = `[{
  "citation": "410 U.S. 113",
  "normalized_citations": ["410 U.S. 113"],
  "start_index": 4,
  "end_index": 16,
  "status": 200,
  "error_message": "",
  "clusters": [{"case_name": "Roe v. Wade", "absolute_url": "/opinion/108713/roe-v-wade/"}]
}]`

func setupLookup(t *testing.T, status int, body string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	t.Setenv("COURTLISTENER_URL", server.URL)
	t.Setenv("COURTLISTENER_API_TOKEN", "test-token")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("NATS_URL", "")
	t.Setenv("CITECHECK_S3_BUCKET", "")
}

func writeBrief(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brief.md")
	require.NoError(t, os.WriteFile(path, []byte("See 410 U.S. 113 (1973)."), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCheckCommandJSONOutputAndSavedReport(t *testing.T) {
	setupLookup(t, http.StatusOK, roeResponse)
	brief := writeBrief(t)
	outDir := t.TempDir()

	stdout, _, err := execute(t, "check", brief, outDir, "--format", "json")
	require.NoError(t, err)

	var result domain.CheckResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.True(t, result.Success)
	require.NotNil(t, result.Data)
	assert.NotEmpty(t, result.RunID)

	report := result.Data.Report
	assert.Equal(t, 1, report.Metadata.TotalCitations)
	assert.Equal(t, 1, report.Metadata.Summary.Found)
	require.Len(t, report.Citations, 1)
	entry := report.Citations[0]
	assert.Equal(t, "FOUND", entry.StatusName)
	assert.True(t, entry.Valid)
	require.NotNil(t, entry.CaseInfo)
	require.NotNil(t, entry.CaseInfo.CaseName)
	assert.Equal(t, "Roe v. Wade", *entry.CaseInfo.CaseName)

	resolvedOut, err := filepath.EvalSymlinks(outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolvedOut, "brief"), filepath.Dir(result.Data.ResultFolder))
	saved, err := os.ReadFile(result.Data.SavedTo)
	require.NoError(t, err)
	var onDisk domain.Report
	require.NoError(t, json.Unmarshal(saved, &onDisk))
	assert.Equal(t, report.Metadata.TotalCitations, onDisk.Metadata.TotalCitations)
	assert.True(t, report.Metadata.CheckedAt.Equal(onDisk.Metadata.CheckedAt))
}

func TestCheckCommandTextSummary(t *testing.T) {
	setupLookup(t, http.StatusOK, roeResponse)

	stdout, _, err := execute(t, "check", writeBrief(t))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Citation Check Summary:")
	assert.Contains(t, stdout, "- Total: 1 citations")
	assert.NotContains(t, stdout, "Report saved:")
}

func TestCheckCommandYAMLUsesJSONKeys(t *testing.T) {
	setupLookup(t, http.StatusOK, roeResponse)

	stdout, _, err := execute(t, "check", writeBrief(t), "-f", "yaml")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, true, decoded["success"])
	data, ok := decoded["data"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, data, "report")
}

func TestCheckCommandReportsUnauthorized(t *testing.T) {
	setupLookup(t, http.StatusUnauthorized, `{"detail":"Invalid token."}`)

	_, stderr, err := execute(t, "check", writeBrief(t))
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, stderr, "Invalid API token")
}

func TestCheckCommandReportsMissingFile(t *testing.T) {
	setupLookup(t, http.StatusOK, roeResponse)
	missing := filepath.Join(t.TempDir(), "nope.md")

	stdout, _, err := execute(t, "check", missing, "--format", "json")
	require.ErrorIs(t, err, errCheckFailed)

	var result domain.CheckResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "File not found: "+missing, result.Error)
}

func TestCheckCommandRejectsUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "check", "brief.md", "--format", "xml")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errCheckFailed)
}

func TestCheckCommandRequiresFile(t *testing.T) {
	_, _, err := execute(t, "check")
	require.Error(t, err)
}

func TestExportCommandWritesSpreadsheet(t *testing.T) {
	setupLookup(t, http.StatusOK, roeResponse)
	outDir := t.TempDir()

	stdout, _, err := execute(t, "check", writeBrief(t), outDir, "--format", "json")
	require.NoError(t, err)
	var result domain.CheckResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))

	exportOut, _, err := execute(t, "export", result.Data.ResultFolder)
	require.NoError(t, err)
	assert.Contains(t, exportOut, xlsx.FileName)

	_, err = os.Stat(filepath.Join(result.Data.ResultFolder, xlsx.FileName))
	require.NoError(t, err)
}

func TestExportCommandMissingReport(t *testing.T) {
	_, _, err := execute(t, "export", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, domain.PublicMessage(err), "Report not found")
}

func TestExportCommandRejectsUnsafeFolders(t *testing.T) {
	_, _, err := execute(t, "export", "/etc/x")
	require.Error(t, err)
	assert.Equal(t, "Cannot write to system directory: /etc", domain.PublicMessage(err))

	_, _, err = execute(t, "export", "a/../b")
	require.Error(t, err)
	assert.Equal(t, "Path traversal detected in output directory", domain.PublicMessage(err))
}
