package cmd

import (
	"fmt"
	"io"

	"github.com/haierkeys/chrono-journal-service/internal/app"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build info and exit // 打印构建信息并退出",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd.OutOrStdout(), versionJSON)
	},
}

// printVersion 输出版本信息，asJSON 时输出与 /api/version 相同的结构
func printVersion(w io.Writer, asJSON bool) error {
	if asJSON {
		data, err := sonic.Marshal(app.BuildInfo())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err := fmt.Fprintf(w, "%s v%s (git %s, built %s)\n", app.Name, app.Version, app.GitTag, app.BuildTime)
	return err
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print as JSON // 以 JSON 输出")
	rootCmd.AddCommand(versionCmd)
}
