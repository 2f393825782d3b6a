package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	assessment "hydropower-calc/internal/assessment/domain"
)

func main() {
	os.Exit(execute(newRootCmd()))
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hydropower-calc",
		Short:         "Hydropower site power and economic screening calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "YAML config file (overrides HYDRO_CONFIG)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(assessCmd())
	rootCmd.AddCommand(presetsCmd())
	rootCmd.AddCommand(tokenCmd())
	return rootCmd
}

// execute runs cmd and returns the process exit code. Parameter violations
// are already listed by the assess command and are not printed again.
func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if len(assessment.ValidationErrors(err)) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return 1
}
