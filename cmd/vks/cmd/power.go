package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vkshell/vkshell/pkg/coords"
	"github.com/vkshell/vkshell/pkg/load"
	"github.com/vkshell/vkshell/pkg/power"
)

var powerCmd = &cobra.Command{
	Use:   "power <U> <I> <cos φ>",
	Short: "Power triangle calculator",
	Long: `Compute apparent, active and reactive power from voltage (V), current (A)
and power factor:

  S = U·I    P = S·cos φ    Q = √(S² - P²)

Values accept a comma as decimal separator.`,
	Args: cobra.ExactArgs(3),
	RunE: runPower,
}

var powerPFCmd = &cobra.Command{
	Use:   "pf <P> <cos φ>",
	Short: "Complete S and Q from active power and power factor",
	Args:  cobra.ExactArgs(2),
	RunE:  runPowerPF,
}

func init() {
	rootCmd.AddCommand(powerCmd)
	powerCmd.AddCommand(powerPFCmd)
}

func parseArgs(args []string) ([]float64, error) {
	vals := make([]float64, len(args))
	for i, a := range args {
		v, ok := coords.ParseNumber(a)
		if !ok {
			return nil, fmt.Errorf("not a number: %q", a)
		}
		vals[i] = v
	}
	return vals, nil
}

func runPower(cmd *cobra.Command, args []string) error {
	vals, err := parseArgs(args)
	if err != nil {
		return err
	}
	tri, err := power.Solve(vals[0], vals[1], vals[2])
	if err != nil {
		return err
	}
	writeTriangle(cmd.OutOrStdout(), tri)
	return nil
}

func writeTriangle(w io.Writer, t power.Triangle) {
	fmt.Fprintf(w, "U     = %s V\n", load.FormatValue(t.U))
	fmt.Fprintf(w, "I     = %s A\n", load.FormatValue(t.I))
	fmt.Fprintf(w, "cos φ = %s (φ = %s°)\n", load.FormatValue(t.CosPhi), load.FormatValue(t.Phi))
	fmt.Fprintf(w, "S     = %s VA\n", load.FormatValue(t.S))
	fmt.Fprintf(w, "P     = %s W\n", load.FormatValue(t.P))
	fmt.Fprintf(w, "Q     = %s var\n", load.FormatValue(t.Q))
}

func runPowerPF(cmd *cobra.Command, args []string) error {
	vals, err := parseArgs(args)
	if err != nil {
		return err
	}
	s, q, ok := power.FromPF(vals[0], vals[1])
	if !ok {
		return fmt.Errorf("cos φ must be within (0, 1]")
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "S = %s kVA\n", load.FormatValue(s))
	fmt.Fprintf(out, "Q = %s kvar\n", load.FormatValue(q))
	return nil
}
