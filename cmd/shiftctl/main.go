// shiftctl 离线排班工具：不连接数据库，直接读取本地文件做合规校验或查看生成指令。
//
//	shiftctl validate --shifts draft.json --policy store.yaml --tz Asia/Tokyo
//	shiftctl prompt   --policy store.yaml --start 2026-03-01 --end 2026-04-01
package main

import (
	"os"
	_ "time/tzdata" // 离线环境也能解析 --tz

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "shiftctl",
		Short:        "排班草稿离线工具",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("policy", "", "门店策略 YAML 文件")
	root.PersistentFlags().String("tz", "UTC", "运营时区（IANA 名称）")
	root.PersistentFlags().String("week-start", "monday", "周起始日")

	root.AddCommand(newValidateCmd(), newPromptCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
