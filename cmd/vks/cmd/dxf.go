package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vkshell/vkshell/pkg/dxf"
)

var dxfCmd = &cobra.Command{
	Use:   "dxf",
	Short: "DXF file operations",
	Long:  `Commands for working with DXF files written by the exporter or other CAD tools`,
}

var dxfInspectCmd = &cobra.Command{
	Use:   "inspect <dxf_file>",
	Short: "Count the entities of a DXF file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDXFInspect,
}

func init() {
	rootCmd.AddCommand(dxfCmd)
	dxfCmd.AddCommand(dxfInspectCmd)
}

func runDXFInspect(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("error opening dxf: %w", err)
	}
	defer f.Close()

	st, err := dxf.Inspect(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", args[0])
	fmt.Fprintf(out, "Entities: %d\n", st.Entities)
	for _, t := range st.Types() {
		fmt.Fprintf(out, "  %-12s %d\n", t, st.ByType[t])
	}
	if st.Vertices > 0 {
		fmt.Fprintf(out, "Polyline vertices: %d\n", st.Vertices)
	}
	return nil
}
