package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vkshell/vkshell/pkg/load"
	"github.com/vkshell/vkshell/pkg/project"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Load-center project files",
}

var projectInfoCmd = &cobra.Command{
	Use:   "info <project_file>",
	Short: "Show the content of a project file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectInfo,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectInfoCmd)
}

func runProjectInfo(cmd *cobra.Command, args []string) error {
	doc, err := project.Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", args[0])
	fmt.Fprintf(out, "Swap axes: %t\n", doc.Swap)
	if doc.ViewZoom > 0 {
		fmt.Fprintf(out, "View zoom: %.1f\n", doc.ViewZoom)
	}
	fmt.Fprintln(out)

	center, ok := load.LoadCenter(doc.Objects, cfg.Export.RequireAllFilled)
	writeObjectTable(out, doc.Objects, center, ok)
	return nil
}
