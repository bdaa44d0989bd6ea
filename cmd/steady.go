package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// steadyCmd runs the steady RANS solve, or the multi-angle sweep when the
// parameters ask for one.
var steadyCmd = &cobra.Command{
	Use:   "steady",
	Short: "Steady RANS solve over the wind farm, optionally sweeping wind angles",
	Long: `
Runs the steady solve for a stabilized or Taylor-Hood formulation. With
SolverType multiangle the solve repeats over the configured range of inflow
directions, accumulating the power functional when optimization output is
requested.`,
	Run: func(cmd *cobra.Command, args []string) {
		ip := processInput(cmd)
		if ip.SolverType == "unsteady" {
			log.Fatal("parameters request the unsteady solver; use the unsteady command")
		}
		ip.Print()
		s, err := buildSolver(ip)
		if err != nil {
			log.Fatalf("setup failed: %v", err)
		}
		if err = s.Solve(); err != nil {
			log.Fatalf("solve failed: %v", err)
		}
		fmt.Printf("Results written to [%s]\n", ip.OutputDir)
	},
}

func init() {
	rootCmd.AddCommand(steadyCmd)
	steadyCmd.Flags().StringP("paramsFile", "I", "", "YAML file of simulation parameters")
}
