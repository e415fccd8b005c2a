// cmd/insights-server/workers.go
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"intent-insights/pkg/registry"
)

var registryFile string

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List the workflow activities this binary can run",
	RunE:  runWorkers,
}

func init() {
	workersCmd.Flags().StringVarP(&registryFile, "file", "f", "", "Activity registry JSON (defaults to the embedded registry)")
}

func runWorkers(cmd *cobra.Command, args []string) error {
	reg, err := loadActivities(registryFile)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK TYPE\tSTATUS\tTIMEOUT\tRETRIES\tINPUT\tERROR CODES")
	for _, a := range reg.Activities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			a.TaskType,
			a.ImplementationStatus,
			a.TimeoutDuration(),
			a.Retries,
			strings.Join(a.InputFields(), ","),
			strings.Join(a.ErrorCodes, ","),
		)
	}
	return w.Flush()
}

func loadActivities(path string) (*registry.ActivityRegistry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.LoadRegistry(path)
}
