package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const policyYAML = `
store:
  max_working_days_consecutive: 5
  min_interval_hours: 11
  break_rules:
    - threshold_hours: 6
      break_minutes: 45
staff:
  - id: 11111111-1111-4111-8111-111111111111
    name: 佐藤
    role: leader
    max_hours_per_week: 20
  - id: 22222222-2222-4222-8222-222222222222
    name: 鈴木
off_requests:
  - staff_id: 22222222-2222-4222-8222-222222222222
    date: "2026-03-04"
    type: off
    notes: 通院
`

const satoOverHours = `{"shifts":[
 {"staff_id":"11111111-1111-4111-8111-111111111111","start_at":"2026-03-02T09:00:00Z","end_at":"2026-03-02T17:00:00Z"},
 {"staff_id":"11111111-1111-4111-8111-111111111111","start_at":"2026-03-03T09:00:00Z","end_at":"2026-03-03T17:00:00Z"},
 {"staff_id":"11111111-1111-4111-8111-111111111111","start_at":"2026-03-04T09:00:00Z","end_at":"2026-03-04T17:00:00Z"}
]}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func run(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_ReportsErrors(t *testing.T) {
	dir := t.TempDir()
	policy := writeFile(t, dir, "store.yaml", policyYAML)
	shifts := writeFile(t, dir, "draft.json", satoOverHours)

	out, err := run("validate", "--policy", policy, "--shifts", shifts, "--format", "json")
	assert.ErrorIs(t, err, errHasViolations)

	var report struct {
		Shifts     int  `json:"shifts"`
		HasErrors  bool `json:"has_errors"`
		Violations []struct {
			Code    string `json:"code"`
			StaffID string `json:"staff_id"`
		} `json:"violations"`
	}
	// 错误信息追加在 JSON 之后，只解析第一段
	require.NoError(t, json.NewDecoder(strings.NewReader(out)).Decode(&report))
	assert.Equal(t, 3, report.Shifts)
	assert.True(t, report.HasErrors)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "MAX_HOURS_EXCEEDED", report.Violations[0].Code)
}

func TestValidate_CleanDraft(t *testing.T) {
	dir := t.TempDir()
	policy := writeFile(t, dir, "store.yaml", policyYAML)
	shifts := writeFile(t, dir, "draft.json", `{"shifts":[
 {"staff_id":"22222222-2222-4222-8222-222222222222","start_at":"2026-03-03T09:00:00Z","end_at":"2026-03-03T17:00:00Z"}
]}`)

	out, err := run("validate", "--policy", policy, "--shifts", shifts)
	require.NoError(t, err)
	assert.Contains(t, out, "问题 0 条")
}

func TestValidate_OffRequestConflictTable(t *testing.T) {
	dir := t.TempDir()
	policy := writeFile(t, dir, "store.yaml", policyYAML)
	shifts := writeFile(t, dir, "draft.json", `{"shifts":[
 {"staff_id":"22222222-2222-4222-8222-222222222222","start_at":"2026-03-04T09:00:00Z","end_at":"2026-03-04T17:00:00Z"}
]}`)

	out, err := run("validate", "--policy", policy, "--shifts", shifts)
	assert.ErrorIs(t, err, errHasViolations)
	assert.Contains(t, out, "OFF_REQUEST_CONFLICT")
}

func TestValidate_UnknownStaffIsSchemaError(t *testing.T) {
	dir := t.TempDir()
	policy := writeFile(t, dir, "store.yaml", policyYAML)
	shifts := writeFile(t, dir, "draft.json", `{"shifts":[
 {"staff_id":"99999999-9999-4999-8999-999999999999","start_at":"2026-03-04T09:00:00Z","end_at":"2026-03-04T17:00:00Z"}
]}`)

	_, err := run("validate", "--policy", policy, "--shifts", shifts)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errHasViolations)
	assert.Contains(t, err.Error(), "shifts[0].staff_id")
}

func TestValidate_BadTimezone(t *testing.T) {
	dir := t.TempDir()
	shifts := writeFile(t, dir, "draft.json", `{"shifts":[]}`)

	_, err := run("validate", "--shifts", shifts, "--tz", "Mars/Olympus")
	assert.Error(t, err)
}

func TestPrompt_PrintsInstruction(t *testing.T) {
	dir := t.TempDir()
	policy := writeFile(t, dir, "store.yaml", policyYAML)

	out, err := run("prompt", "--policy", policy, "--start", "2026-03-01", "--end", "2026-03-08", "--tz", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Contains(t, out, "# system")
	assert.Contains(t, out, "11111111-1111-4111-8111-111111111111")
	assert.NotContains(t, out, "佐藤")
	assert.NotContains(t, out, "通院")
	assert.Contains(t, out, "Asia/Tokyo")
	assert.Contains(t, out, "2026-03-04")
}
