package service

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"shift-pilot/backend/internal/model"
	"shift-pilot/backend/internal/repository"
)

const (
	testTenant = "7d9f3a2e-5b1c-4e8a-9f6d-0c2b4a6e8d10"
	staffSato  = "11111111-1111-4111-8111-111111111111"
	staffSuzu  = "22222222-2222-4222-8222-222222222222"
	staffGone  = "33333333-3333-4333-8333-333333333333"
)

func ptr[T any](v T) *T { return &v }

// waitOrDone 模拟慢查询：等待 d 或 ctx 取消
func waitOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ── Mock StorePolicyRepository ──

type mockStorePolicyRepo struct {
	row *model.StorePolicy
	err error
}

func (m *mockStorePolicyRepo) GetByTenant(_ context.Context, tenantID string) (*model.StorePolicy, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.row == nil || m.row.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return m.row, nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff []model.Staff
	err   error
	delay time.Duration
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: []model.Staff{
		{ID: staffSato, TenantID: testTenant, DisplayName: "佐藤", StoreRole: "leader", IsActive: true},
		{ID: staffSuzu, TenantID: testTenant, DisplayName: "鈴木", StoreRole: "staff", IsActive: true},
		{ID: staffGone, TenantID: testTenant, DisplayName: "退職者", StoreRole: "staff", IsActive: false},
	}}
}

func (m *mockStaffRepo) ListActiveWithPolicy(ctx context.Context, tenantID string) ([]model.Staff, error) {
	if err := waitOrDone(ctx, m.delay); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Staff
	for _, s := range m.staff {
		if s.TenantID == tenantID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStaffRepo) GetWithPolicy(_ context.Context, tenantID, staffID string) (*model.Staff, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.staff {
		if m.staff[i].ID == staffID && m.staff[i].TenantID == tenantID {
			s := m.staff[i]
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock OffRequestRepository ──

type mockOffRequestRepo struct {
	mu    sync.Mutex
	reqs  []model.OffRequest
	err   error
	delay time.Duration
	calls int
}

func (m *mockOffRequestRepo) ListByPeriod(ctx context.Context, tenantID, startDate, endDate string) ([]model.OffRequest, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err := waitOrDone(ctx, m.delay); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	var out []model.OffRequest
	for _, r := range m.reqs {
		d := r.RequestDate.Format("2006-01-02")
		if r.TenantID == tenantID && d >= startDate && d < endDate {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockOffRequestRepo) Upsert(_ context.Context, req *model.OffRequest) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.reqs {
		if r.TenantID == req.TenantID && r.StaffID == req.StaffID && r.RequestDate.Equal(req.RequestDate) {
			req.ID = r.ID
			m.reqs[i] = *req
			return nil
		}
	}
	req.ID = "off-" + req.StaffID[:8] + "-" + req.RequestDate.Format("0102")
	m.reqs = append(m.reqs, *req)
	return nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	rows     []model.Shift
	upserted [][]model.Shift
	err      error
}

func (m *mockShiftRepo) UpsertDrafts(_ context.Context, rows []model.Shift) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.upserted = append(m.upserted, rows)
	var n int64
	for _, r := range rows {
		replaced := false
		for i, e := range m.rows {
			if e.TenantID == r.TenantID && e.StaffID == r.StaffID && e.ShiftDate.Equal(r.ShiftDate) && e.StartAt.Equal(r.StartAt) {
				if e.Status == model.ShiftStatusDraft {
					r.ShiftID = e.ShiftID
					m.rows[i] = r
					n++
				}
				replaced = true
				break
			}
		}
		if !replaced {
			r.ShiftID = "shift-" + r.StartAt.Format("0102T1504") + "-" + r.StaffID[:4]
			m.rows = append(m.rows, r)
			n++
		}
	}
	return n, nil
}

func (m *mockShiftRepo) ListByPeriod(_ context.Context, tenantID string, start, end time.Time) ([]model.Shift, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Shift
	for _, r := range m.rows {
		if r.TenantID == tenantID && r.StartAt.Before(end) && r.EndAt.After(start) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockShiftRepo) DeleteDraftsByPeriod(_ context.Context, tenantID, startDate, endDate string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var kept []model.Shift
	var n int64
	for _, r := range m.rows {
		d := r.ShiftDate.Format("2006-01-02")
		if r.TenantID == tenantID && r.Status == model.ShiftStatusDraft && d >= startDate && d < endDate {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

// ── 聚合 ──

type mockRepos struct {
	store *mockStorePolicyRepo
	staff *mockStaffRepo
	offs  *mockOffRequestRepo
	shift *mockShiftRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		store: &mockStorePolicyRepo{},
		staff: newMockStaffRepo(),
		offs:  &mockOffRequestRepo{},
		shift: &mockShiftRepo{},
	}
	return &repository.Repository{
		StorePolicy: m.store,
		Staff:       m.staff,
		OffRequest:  m.offs,
		Shift:       m.shift,
	}, m
}

// ── Fake Oracle ──

type fakeOracle struct {
	reply string
	err   error
	calls int
}

func (f *fakeOracle) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.reply, f.err
}
