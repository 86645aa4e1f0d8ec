package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shift-pilot/backend/config"
	"shift-pilot/backend/internal/policy"
	"shift-pilot/backend/internal/shift"
	apperrors "shift-pilot/backend/pkg/errors"
)

const (
	staffA = "4b0c5a0e-8f53-4c1e-9d7a-2a3b1e6f0c11"
	staffB = "9e7d3c2b-1a0f-4e8d-b6c5-7f4a3b2c1d00"
)

// fakeOracle 记录调用并返回预置结果
type fakeOracle struct {
	reply  string
	err    error
	delay  time.Duration
	calls  int
	system string
	prompt string
}

func (f *fakeOracle) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.system, f.prompt = system, prompt
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func testContext(t *testing.T) *shift.GenerationContext {
	t.Helper()
	period, err := shift.NewPeriod("2026-03-01", "2026-04-01", time.UTC)
	require.NoError(t, err)

	store := policy.ResolveStore(nil)
	noNight := policy.ResolveStaff(store, nil)
	noNight.MidnightWorkAllowed = false

	return &shift.GenerationContext{
		TenantID: "tenant-1",
		Period:   period,
		Store:    store,
		Roster: []shift.RosterMember{
			{StaffID: staffA, DisplayName: "佐藤", StoreRole: "leader", Policy: policy.ResolveStaff(store, nil)},
			{StaffID: staffB, DisplayName: "鈴木", StoreRole: "staff", Policy: noNight, HasOverride: true},
		},
		OffRequests: []shift.OffRequest{
			{StaffID: staffA, Date: "2026-03-10", Type: shift.RequestOff, Notes: ptr("子どもの通院")},
			{StaffID: staffB, Date: "2026-03-11", Type: shift.RequestPreferredOff},
		},
	}
}

func newGenerator(o Oracle, timeout time.Duration) *Generator {
	return New(o, &config.GeneratorConfig{Timeout: timeout, MinDailyHeadcount: 2}, zap.NewNop(), nil)
}

func TestGenerate_Success(t *testing.T) {
	o := &fakeOracle{reply: `{"shifts":[{"staff_id":"` + staffA + `","start_at":"2026-03-02T09:00:00Z","end_at":"2026-03-02T17:00:00Z"}]}`}
	g := newGenerator(o, time.Second)

	got, err := g.Generate(context.Background(), testContext(t))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, staffA, got[0].StaffID)
	assert.Equal(t, 1, o.calls)
}

// 缺少必填字段时整体失败，不返回任何班次
func TestGenerate_ScenarioD_MissingField(t *testing.T) {
	o := &fakeOracle{reply: `{"shifts":[{"staff_id":"` + staffA + `","start_at":"2026-03-02T09:00:00Z"}]}`}
	g := newGenerator(o, time.Second)

	got, err := g.Generate(context.Background(), testContext(t))
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, apperrors.IsGenerationSchema(err))
	assert.Contains(t, err.Error(), "end_at")
	assert.Equal(t, 1, o.calls, "不得重试")
}

func TestGenerate_UnknownStaffRejected(t *testing.T) {
	o := &fakeOracle{reply: `{"shifts":[{"staff_id":"00000000-0000-4000-8000-000000000000","start_at":"2026-03-02T09:00:00Z","end_at":"2026-03-02T10:00:00Z"}]}`}

	got, err := newGenerator(o, time.Second).Generate(context.Background(), testContext(t))
	assert.Nil(t, got)
	assert.True(t, apperrors.IsGenerationSchema(err))
}

func TestGenerate_OracleFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	o := &fakeOracle{err: cause}

	got, err := newGenerator(o, time.Second).Generate(context.Background(), testContext(t))
	assert.Nil(t, got)
	assert.True(t, apperrors.IsGenerationSchema(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, o.calls)
}

func TestGenerate_Timeout(t *testing.T) {
	o := &fakeOracle{delay: time.Second, reply: `{"shifts":[]}`}

	got, err := newGenerator(o, 20*time.Millisecond).Generate(context.Background(), testContext(t))
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, apperrors.IsGenerationSchema(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "超时")
}

func TestGenerate_EmptyRoster(t *testing.T) {
	o := &fakeOracle{reply: `{"shifts":[]}`}
	gc := testContext(t)
	gc.Roster = nil

	_, err := newGenerator(o, time.Second).Generate(context.Background(), gc)
	assert.True(t, apperrors.IsGenerationSchema(err))
	assert.Zero(t, o.calls)
}

func TestBuildInstruction_SeparatesHardAndSoft(t *testing.T) {
	system, prompt, err := BuildInstruction(testContext(t), 3)
	require.NoError(t, err)

	assert.Contains(t, system, `{"shifts":[`)

	hardIdx := strings.Index(prompt, "## 2. 硬性约束")
	softIdx := strings.Index(prompt, "## 3. 优化目标")
	require.True(t, hardIdx > 0 && softIdx > hardIdx)
	hard, soft := prompt[hardIdx:softIdx], prompt[softIdx:]

	assert.Contains(t, hard, "每周工时不超过 40.0 小时")
	assert.Contains(t, hard, "禁止安排与 22:00–05:00")
	assert.Contains(t, hard, "至少间隔 11.0 小时")
	assert.Contains(t, hard, "满 6.0 小时需包含 45 分钟休息")
	assert.Contains(t, hard, "每天至少安排 3 人出勤")
	assert.Contains(t, hard, staffA+" 在 2026-03-10 必须休息")
	assert.NotContains(t, hard, "2026-03-11")

	assert.Contains(t, soft, "均衡")
	assert.Contains(t, soft, staffB+" 希望 2026-03-11 休息")

	assert.Contains(t, prompt, `"end_exclusive": "2026-04-01"`)
	assert.Contains(t, prompt, `"timezone": "UTC"`)
}

func ptr[T any](v T) *T { return &v }

func TestBuildInstruction_OnlyStaffIDsLeaveTheProcess(t *testing.T) {
	system, prompt, err := BuildInstruction(testContext(t), 2)
	require.NoError(t, err)
	all := system + prompt

	for _, personal := range []string{"佐藤", "鈴木", "子どもの通院", "display_name", "notes", "tenant-1"} {
		assert.NotContains(t, all, personal)
	}
	assert.Contains(t, all, staffA)
	assert.Contains(t, all, `"store_role": "leader"`)
	assert.Contains(t, all, `"type": "off"`)
}

func TestBuildInstruction_LeaderObjective(t *testing.T) {
	_, prompt, err := BuildInstruction(testContext(t), 2)
	require.NoError(t, err)
	soft := prompt[strings.Index(prompt, "## 3. 优化目标"):]
	assert.Contains(t, soft, "至少安排 1 名 leader 岗位员工出勤（"+staffA+"）")

	gc := testContext(t)
	for i := range gc.Roster {
		gc.Roster[i].StoreRole = "staff"
	}
	_, prompt, err = BuildInstruction(gc, 2)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "leader 岗位")
}
