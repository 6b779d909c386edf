package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carebook/carebook/internal/domain/lab"
	"github.com/carebook/carebook/internal/platform/report"
)

func newLabCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lab",
		Short: "Lab reports",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List lab reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := a.lab.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tPATIENT\tTEST\tVALUE\tUNIT\tREF RANGE\tFILED BY")
			for _, r := range reports {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.ReportDate, r.Patient, r.TestName, r.ObservedValue, r.Unit, r.ReferenceRange, r.Doctor)
			}
			return w.Flush()
		},
	}

	var patientID int64
	var rows []string
	create := &cobra.Command{
		Use:   "create",
		Short: "File a batch of lab results for a patient",
		Long:  "File one or more test results for a patient in a single report. Each --row is test:value[:unit[:range]], e.g. --row \"HbA1c:7.3:%:4.0-5.6\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			nr := lab.NewReport{PatientID: patientID}
			for _, raw := range rows {
				row, err := parseLabRow(raw)
				if err != nil {
					return err
				}
				nr.Reports = append(nr.Reports, row)
			}
			reports, err := a.lab.Create(cmd.Context(), nr)
			if err != nil {
				return err
			}
			fmt.Printf("Filed %d result(s) for %s\n", len(reports), reports[0].Patient)
			return nil
		},
	}
	create.Flags().Int64Var(&patientID, "patient", 0, "patient id")
	create.Flags().StringArrayVar(&rows, "row", nil, "test result as test:value[:unit[:range]], repeatable")
	create.MarkFlagRequired("patient")
	create.MarkFlagRequired("row")

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export your lab reports as a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := a.lab.List(cmd.Context())
			if err != nil {
				return err
			}
			st, ok := a.sess.Current()
			if !ok {
				return fmt.Errorf("not logged in")
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			if err := report.RenderLabReport(f, st.Username, reports); err != nil {
				return err
			}
			fmt.Printf("Wrote %d report(s) to %s\n", len(reports), out)
			return nil
		},
	}
	export.Flags().StringVar(&out, "out", "lab-reports.pdf", "output file")

	cmd.AddCommand(list, create, export)
	return cmd
}

// parseLabRow splits test:value[:unit[:range]] into a report row.
func parseLabRow(raw string) (lab.Row, error) {
	parts := strings.SplitN(raw, ":", 4)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return lab.Row{}, fmt.Errorf("invalid row %q, want test:value[:unit[:range]]", raw)
	}
	row := lab.Row{TestName: parts[0], ObservedValue: parts[1]}
	if len(parts) > 2 {
		row.Unit = parts[2]
	}
	if len(parts) > 3 {
		row.ReferenceRange = parts[3]
	}
	return row, nil
}
