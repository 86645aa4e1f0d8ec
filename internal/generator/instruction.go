package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"shift-pilot/backend/internal/policy"
	"shift-pilot/backend/internal/shift"
)

// systemInstruction 角色设定与输出契约
const systemInstruction = `你是一名熟悉劳动法规的排班助理。
你只输出一个 JSON 对象，不输出任何解释文字或 Markdown 代码块。
输出格式严格为：
{"shifts":[{"staff_id":"<名册中的 UUID>","start_at":"<RFC 3339 UTC 时刻>","end_at":"<RFC 3339 UTC 时刻>","role":"<可选，岗位名>"}]}
每个班次的 start_at 必须早于 end_at；staff_id 只能取自输入名册。
员工只以 staff_id（UUID）标识。`

// leaderRole 带班岗位
const leaderRole = "leader"

// promptStaff 名册条目的脱敏视图，只以 staff_id 标识员工
type promptStaff struct {
	StaffID   string       `json:"staff_id"`
	StoreRole string       `json:"store_role,omitempty"`
	Policy    policy.Staff `json:"policy"`
}

// promptOffRequest 休假申请的脱敏视图，不含备注
type promptOffRequest struct {
	StaffID string `json:"staff_id"`
	Date    string `json:"date"`
	Type    string `json:"type"`
}

// promptContext 传给生成服务的上下文快照
// 生成服务属于外部系统：姓名、备注等自由文本一律不出本进程
type promptContext struct {
	Period struct {
		Start    string `json:"start"`
		End      string `json:"end_exclusive"`
		Timezone string `json:"timezone"`
	} `json:"period"`
	Store       policy.Store       `json:"store_policy"`
	Staff       []promptStaff      `json:"staff"`
	OffRequests []promptOffRequest `json:"off_requests"`
}

func newPromptContext(gc *shift.GenerationContext) promptContext {
	pc := promptContext{
		Store:       gc.Store,
		Staff:       make([]promptStaff, 0, len(gc.Roster)),
		OffRequests: make([]promptOffRequest, 0, len(gc.OffRequests)),
	}
	pc.Period.Start = gc.Period.StartDate()
	pc.Period.End = gc.Period.EndDate()
	pc.Period.Timezone = gc.Period.Start.Location().String()

	for _, m := range gc.Roster {
		pc.Staff = append(pc.Staff, promptStaff{StaffID: m.StaffID, StoreRole: m.StoreRole, Policy: m.Policy})
	}
	for _, r := range gc.OffRequests {
		pc.OffRequests = append(pc.OffRequests, promptOffRequest{StaffID: r.StaffID, Date: r.Date, Type: r.Type})
	}
	return pc
}

// BuildInstruction 将上下文编码为 (系统指令, 用户指令)
// 硬性约束与软性目标分开列出；合规与否最终由校验器判定
func BuildInstruction(gc *shift.GenerationContext, minDailyHeadcount int) (string, string, error) {
	pc := newPromptContext(gc)

	payload, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("编码排班上下文失败: %w", err)
	}

	var b strings.Builder
	b.WriteString("请为以下期间生成排班草稿。\n\n")

	b.WriteString("## 1. 输入数据\n")
	b.Write(payload)
	b.WriteString("\n\n")

	b.WriteString("## 2. 硬性约束（不得违反）\n")
	for _, m := range gc.Roster {
		fmt.Fprintf(&b, "- %s：每周工时不超过 %.1f 小时", m.StaffID, m.Policy.MaxHoursPerWeek)
		if !m.Policy.MidnightWorkAllowed {
			fmt.Fprintf(&b, "；禁止安排与 22:00–05:00（%s）有交集的班次", pc.Period.Timezone)
		}
		fmt.Fprintf(&b, "；连续出勤不超过 %d 天\n", m.Policy.MaxConsecutiveWorkingDays)
	}
	fmt.Fprintf(&b, "- 同一员工两班之间至少间隔 %.1f 小时\n", gc.Store.MinIntervalHours)
	for _, r := range gc.Store.BreakRules {
		fmt.Fprintf(&b, "- 单班工作满 %.1f 小时需包含 %d 分钟休息\n", r.ThresholdHours, r.BreakMinutes)
	}
	if minDailyHeadcount > 0 {
		fmt.Fprintf(&b, "- 每天至少安排 %d 人出勤\n", minDailyHeadcount)
	}
	hard, soft := splitOffRequests(gc.OffRequests)
	for _, r := range hard {
		fmt.Fprintf(&b, "- %s 在 %s 必须休息，当天不得安排任何班次\n", r.StaffID, r.Date)
	}

	b.WriteString("\n## 3. 优化目标（尽量满足）\n")
	b.WriteString("- 员工之间工时分配尽量均衡，不集中在少数人身上\n")
	if leaders := leaderIDs(gc.Roster); len(leaders) > 0 {
		fmt.Fprintf(&b, "- 每天尽量至少安排 1 名 %s 岗位员工出勤（%s）\n", leaderRole, strings.Join(leaders, ", "))
	}
	if len(soft) == 0 {
		b.WriteString("- 无\"尽量休息\"申请\n")
	}
	for _, r := range soft {
		fmt.Fprintf(&b, "- %s 希望 %s 休息，人手不足时才安排\n", r.StaffID, r.Date)
	}

	b.WriteString("\n## 4. 输出\n")
	b.WriteString(`只返回 {"shifts":[...]}，时刻使用 RFC 3339 UTC 格式。`)

	return systemInstruction, b.String(), nil
}

func splitOffRequests(reqs []shift.OffRequest) (hard, soft []shift.OffRequest) {
	for _, r := range reqs {
		if r.Hard() {
			hard = append(hard, r)
		} else {
			soft = append(soft, r)
		}
	}
	return hard, soft
}

func leaderIDs(roster []shift.RosterMember) []string {
	var ids []string
	for _, m := range roster {
		if m.StoreRole == leaderRole {
			ids = append(ids, m.StaffID)
		}
	}
	return ids
}
