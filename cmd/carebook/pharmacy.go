package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/carebook/carebook/internal/domain/pharmacy"
	"github.com/carebook/carebook/internal/platform/draft"
	"github.com/carebook/carebook/internal/platform/watch"
)

func newPharmacyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pharmacy",
		Short: "Prescriptions and the dispensing queue",
	}
	cmd.AddCommand(
		newPrescribeCmd(a),
		newQueueCmd(a),
		newDispenseCmd(a),
		newPrescriptionsCmd(a),
	)
	return cmd
}

func newPrescribeCmd(a *app) *cobra.Command {
	var np pharmacy.NewPrescription
	var saveDraft, resume bool
	cmd := &cobra.Command{
		Use:   "prescribe",
		Short: "Write a prescription",
		Long:  "Write a prescription for a patient. Use --draft to save the order locally without sending it, and --resume to pick up a saved draft for the patient.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if resume {
				d, ok, err := a.drafts.Load(np.PatientID)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no saved draft for patient %d", np.PatientID)
				}
				if np.Medication == "" {
					np.Medication = d.Medication
				}
				if np.Dosage == "" {
					np.Dosage = d.Dosage
				}
				if np.Directions == "" {
					np.Directions = d.Directions
				}
			}
			if saveDraft {
				if err := a.drafts.Save(draft.Prescription{
					PatientID:  np.PatientID,
					Medication: np.Medication,
					Dosage:     np.Dosage,
					Directions: np.Directions,
				}); err != nil {
					return err
				}
				fmt.Printf("Draft saved for patient %d\n", np.PatientID)
				return nil
			}
			p, err := a.pharmacy.Create(cmd.Context(), np)
			if err != nil {
				return err
			}
			if err := a.drafts.Clear(np.PatientID); err != nil {
				a.logger.Warn().Err(err).Msg("could not clear draft")
			}
			fmt.Printf("Prescription %d written for %s: %s %s\n", p.ID, p.Patient, p.Medication, p.Dosage)
			return nil
		},
	}
	cmd.Flags().Int64Var(&np.PatientID, "patient", 0, "patient id")
	cmd.Flags().StringVar(&np.Medication, "medication", "", "medication name")
	cmd.Flags().StringVar(&np.Dosage, "dosage", "", "dosage, e.g. 500mg")
	cmd.Flags().StringVar(&np.Directions, "directions", "", "directions for use")
	cmd.Flags().BoolVar(&saveDraft, "draft", false, "save locally instead of sending")
	cmd.Flags().BoolVar(&resume, "resume", false, "fill missing fields from the saved draft")
	cmd.MarkFlagRequired("patient")
	return cmd
}

func printPrescriptions(scripts []pharmacy.Prescription) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATIENT\tMEDICATION\tDOSAGE\tSTATUS\tDOCTOR")
	for _, p := range scripts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Patient, p.Medication, p.Dosage, p.Status, p.Doctor)
	}
	return w.Flush()
}

func newQueueCmd(a *app) *cobra.Command {
	var watchMode bool
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the pending dispensing queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			show := func(ctx context.Context) error {
				scripts, err := a.pharmacy.List(ctx)
				if err != nil {
					return err
				}
				return printPrescriptions(pharmacy.Pending(scripts))
			}
			if err := show(cmd.Context()); err != nil {
				return err
			}
			if !watchMode {
				return nil
			}
			watch.NewPoller(interval, a.logger).Run(cmd.Context(), func(ctx context.Context) error {
				fmt.Println()
				return show(ctx)
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&watchMode, "watch", false, "keep refreshing the queue")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "refresh interval in watch mode")
	return cmd
}

func newDispenseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dispense <id>",
		Short: "Dispense a prescription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid prescription id %q", args[0])
			}
			p, err := a.pharmacy.Dispense(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Prescription %d dispensed to %s\n", p.ID, p.Patient)
			return nil
		},
	}
}

func newPrescriptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List prescriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			scripts, err := a.pharmacy.List(cmd.Context())
			if err != nil {
				return err
			}
			return printPrescriptions(scripts)
		},
	}
}

func newReferCmd(a *app) *cobra.Command {
	var ref pharmacy.Referral
	cmd := &cobra.Command{
		Use:   "refer",
		Short: "Refer a patient to another doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.pharmacy.Refer(cmd.Context(), ref); err != nil {
				return err
			}
			fmt.Printf("Patient %d referred to doctor %d\n", ref.PatientID, ref.ToDoctorID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&ref.PatientID, "patient", 0, "patient id")
	cmd.Flags().Int64Var(&ref.ToDoctorID, "to", 0, "target doctor id")
	cmd.Flags().StringVar(&ref.Reason, "reason", "", "reason for the referral")
	cmd.MarkFlagRequired("patient")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("reason")
	return cmd
}
