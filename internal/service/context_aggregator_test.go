package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/datatypes"

	"shift-pilot/backend/internal/model"
	"shift-pilot/backend/internal/shift"
	apperrors "shift-pilot/backend/pkg/errors"
)

// genai 的依赖链在 init 中启动 opencensus 后台 worker，与聚合器无关
var ignoreOpenCensus = goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start")

func marchPeriod(t *testing.T) shift.Period {
	t.Helper()
	p, err := shift.NewPeriod("2026-03-01", "2026-04-01", time.UTC)
	require.NoError(t, err)
	return p
}

func TestContextAggregator_Success(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensus)

	repo, m := newMockRepos()
	m.store.row = &model.StorePolicy{
		TenantID: testTenant,
		LaborLawConfig: datatypes.NewJSONType(model.LaborLawConfig{
			MaxWorkingDaysConsecutive: ptr(5),
		}),
	}
	m.staff.staff[0].Policy = &model.StaffPolicy{
		StaffID:  staffSato,
		TenantID: testTenant,
		ContractConfig: datatypes.NewJSONType(model.StaffContractConfig{
			MaxHoursPerWeek:     ptr(20.0),
			MidnightWorkAllowed: ptr(false),
		}),
	}
	m.offs.reqs = []model.OffRequest{
		{TenantID: testTenant, StaffID: staffSuzu, RequestDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), RequestType: model.OffRequestHard},
		{TenantID: testTenant, StaffID: staffSuzu, RequestDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), RequestType: model.OffRequestHard},
	}

	gc, err := NewContextAggregator(repo).Aggregate(context.Background(), testTenant, marchPeriod(t))
	require.NoError(t, err)

	assert.Equal(t, 5, gc.Store.MaxWorkingDaysConsecutive)
	require.Len(t, gc.Roster, 2, "只包含在职员工")

	sato := gc.Roster[0]
	assert.True(t, sato.HasOverride)
	assert.Equal(t, 20.0, sato.Policy.MaxHoursPerWeek)
	assert.False(t, sato.Policy.MidnightWorkAllowed)
	assert.Equal(t, 5, sato.Policy.MaxConsecutiveWorkingDays)

	suzu := gc.Roster[1]
	assert.False(t, suzu.HasOverride)
	assert.Equal(t, 40.0, suzu.Policy.MaxHoursPerWeek)

	require.Len(t, gc.OffRequests, 1, "区间右端不包含")
	assert.Equal(t, "2026-03-10", gc.OffRequests[0].Date)
	assert.True(t, gc.OffRequests[0].Hard())
}

func TestContextAggregator_MissingStorePolicyUsesDefaults(t *testing.T) {
	repo, _ := newMockRepos()

	gc, err := NewContextAggregator(repo).Aggregate(context.Background(), testTenant, marchPeriod(t))
	require.NoError(t, err)
	assert.Equal(t, 6, gc.Store.MaxWorkingDaysConsecutive)
	assert.Equal(t, 11.0, gc.Store.MinIntervalHours)
}

func TestContextAggregator_FailFastCancelsSiblings(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensus)

	repo, m := newMockRepos()
	cause := errors.New("connection reset")
	m.staff.err = cause
	m.offs.delay = 10 * time.Second // 只能被取消唤醒

	started := time.Now()
	gc, err := NewContextAggregator(repo).Aggregate(context.Background(), testTenant, marchPeriod(t))

	assert.Nil(t, gc, "不返回部分上下文")
	require.Error(t, err)
	assert.Less(t, time.Since(started), 5*time.Second, "其余读取应被取消")

	var ae *apperrors.AggregationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "staff", ae.Source)
	assert.ErrorIs(t, err, cause)
}

func TestContextAggregator_StorePolicyError(t *testing.T) {
	repo, m := newMockRepos()
	m.store.err = errors.New("timeout")

	_, err := NewContextAggregator(repo).Aggregate(context.Background(), testTenant, marchPeriod(t))

	var ae *apperrors.AggregationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "store_policy", ae.Source)
}

func TestContextAggregator_InvalidPeriod(t *testing.T) {
	repo, m := newMockRepos()
	p := marchPeriod(t)
	p.End = p.Start

	_, err := NewContextAggregator(repo).Aggregate(context.Background(), testTenant, p)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPeriod)
	assert.Zero(t, m.offs.calls, "区间非法时不应发起查询")
}
