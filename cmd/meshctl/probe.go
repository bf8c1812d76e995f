package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/meshkit/mesh/memprobe"
	"github.com/joshuapare/meshkit/mesh/plan"
)

func init() {
	rootCmd.AddCommand(newProbeCmd())
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Show the physical memory the planner would see",
		Long: `The probe command queries the platform memory probe and the portable
gopsutil probe and prints what each reports.

Example:
  meshctl probe
  meshctl probe --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe()
		},
	}
}

type probeResult struct {
	Name  string `json:"name"`
	Bytes uint64 `json:"bytes"`
	Error string `json:"error,omitempty"`
}

func runProbe() error {
	probes := []struct {
		name string
		p    memprobe.Probe
	}{
		{"selected", probe()},
		{"gopsutil", memprobe.VirtualMemory{}},
	}

	results := make([]probeResult, 0, len(probes))
	for _, pr := range probes {
		r := probeResult{Name: pr.name}
		total, err := pr.p.TotalMemory()
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Bytes = total
		}
		results = append(results, r)
	}

	if jsonOut {
		return printJSON(results)
	}
	for _, r := range results {
		if r.Error != "" {
			printInfo("%-9s unknown (%s)\n", r.Name, r.Error)
			continue
		}
		printInfo("%-9s %d MB\n", r.Name, r.Bytes/plan.MB)
	}
	return nil
}
