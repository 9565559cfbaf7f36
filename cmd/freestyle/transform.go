package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/freestyle"
)

var transformCmd = &cobra.Command{
	Use:   "transform <expr>",
	Short: "Parse a transform list and print its matrix",
	Long: `Parse a transform list such as "translate(10, 0) rotate(90deg)" and
print the composed affine matrix. The rightmost function is applied to a
point first.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		points, _ := cmd.Flags().GetFloat64Slice("point")
		return runTransform(os.Stdout, args[0], points)
	},
}

func init() {
	transformCmd.Flags().Float64Slice("point", nil, "Map a point through the matrix: --point x,y")
}

func runTransform(w io.Writer, expr string, point []float64) error {
	m, err := freestyle.Transform(expr, buildConfig())
	if err != nil {
		return err
	}
	fmt.Fprintln(w, m.String())
	if len(point) == 0 {
		return nil
	}
	if len(point) != 2 {
		return fmt.Errorf("--point needs 2 coordinates, got %d", len(point))
	}
	x, y := m.Apply(point[0], point[1])
	fmt.Fprintf(w, "(%g, %g) -> (%g, %g)\n", point[0], point[1], x, y)
	return nil
}
