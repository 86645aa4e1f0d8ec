package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shift-pilot/backend/internal/generator"
	"shift-pilot/backend/internal/shift"
)

func newPromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "打印发送给生成服务的指令（不发起调用）",
		Args:  cobra.NoArgs,
		RunE:  runPrompt,
	}
	cmd.Flags().String("start", "", "开始日期 YYYY-MM-DD")
	cmd.Flags().String("end", "", "结束日期 YYYY-MM-DD（不含）")
	cmd.Flags().Int("min-headcount", 2, "每日最少在岗人数")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	headcount, _ := cmd.Flags().GetInt("min-headcount")
	policyPath, _ := cmd.Flags().GetString("policy")

	loc, _, err := calendar(cmd)
	if err != nil {
		return err
	}
	period, err := shift.NewPeriod(start, end, loc)
	if err != nil {
		return err
	}
	pf, err := loadPolicyFile(policyPath)
	if err != nil {
		return err
	}

	store := pf.storePolicy()
	gc := &shift.GenerationContext{
		Period:      period,
		Store:       store,
		Roster:      pf.roster(store),
		OffRequests: pf.offRequests(),
	}

	system, prompt, err := generator.BuildInstruction(gc, headcount)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "# system")
	fmt.Fprintln(out, system)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "# prompt")
	fmt.Fprintln(out, prompt)
	return nil
}
