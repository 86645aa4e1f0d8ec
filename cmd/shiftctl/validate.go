package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shift-pilot/backend/internal/compliance"
	"shift-pilot/backend/internal/policy"
	"shift-pilot/backend/internal/shift"
)

// errHasViolations 存在 ERROR 级问题；用于让 CI 以非零退出
var errHasViolations = errors.New("存在 ERROR 级合规问题")

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "对本地班次文件做结构与合规校验",
		Long: `读取 {"shifts":[...]} 格式的班次文件，按策略文件做合规校验。
存在 ERROR 级问题时以非零状态退出。`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
	cmd.Flags().String("shifts", "", "班次 JSON 文件（- 表示标准输入）")
	cmd.Flags().String("format", "text", "输出格式 text | json")
	_ = cmd.MarkFlagRequired("shifts")
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	shiftsPath, _ := cmd.Flags().GetString("shifts")
	policyPath, _ := cmd.Flags().GetString("policy")
	format, _ := cmd.Flags().GetString("format")

	loc, weekStart, err := calendar(cmd)
	if err != nil {
		return err
	}
	pf, err := loadPolicyFile(policyPath)
	if err != nil {
		return err
	}

	var raw []byte
	if shiftsPath == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(shiftsPath)
	}
	if err != nil {
		return fmt.Errorf("读取班次文件失败: %w", err)
	}

	store := pf.storePolicy()
	roster := pf.roster(store)

	// 策略文件未列出员工时不校验名册归属
	var known map[string]struct{}
	staffPolicies := make(map[string]policy.Staff, len(roster))
	if len(roster) > 0 {
		known = make(map[string]struct{}, len(roster))
		for _, m := range roster {
			known[m.StaffID] = struct{}{}
			staffPolicies[m.StaffID] = m.Policy
		}
	}

	entries, err := shift.DecodeDraft(raw, known)
	if err != nil {
		return err
	}

	issues := compliance.New(compliance.WithLocation(loc), compliance.WithWeekStart(weekStart)).
		Validate(compliance.Input{
			Shifts:        entries,
			StaffPolicies: staffPolicies,
			Store:         store,
			OffRequests:   pf.offRequests(),
		})

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"shifts":     len(entries),
			"violations": issues,
			"has_errors": compliance.HasErrors(issues),
		}); err != nil {
			return err
		}
	default:
		printIssues(out, len(entries), issues)
	}

	if compliance.HasErrors(issues) {
		return errHasViolations
	}
	return nil
}

func printIssues(w io.Writer, shifts int, issues []compliance.Issue) {
	fmt.Fprintf(w, "班次 %d 条，问题 %d 条\n", shifts, len(issues))
	if len(issues) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tCODE\tSTAFF\tDATE\tMESSAGE")
	for _, is := range issues {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", is.Level, is.Code, is.StaffID, is.Date, is.Message)
	}
	tw.Flush()
}
