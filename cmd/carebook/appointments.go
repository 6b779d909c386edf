package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/carebook/carebook/internal/domain/appointments"
	"github.com/carebook/carebook/internal/domain/identity"
	"github.com/carebook/carebook/internal/platform/watch"
)

func newDoctorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctors",
		Short: "List bookable doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			doctors, err := a.identity.Doctors(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSPECIALIZATION\tAVAILABLE")
			for _, d := range doctors {
				fmt.Fprintf(w, "%d\t%s\t%s\t%v\n", d.ID, d.Username, d.Specialization, d.IsAvailable)
			}
			return w.Flush()
		},
	}
}

func newAvailabilityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "availability",
		Short: "Toggle your availability for bookings (doctor)",
		RunE: func(cmd *cobra.Command, args []string) error {
			available, err := a.identity.ToggleAvailability(cmd.Context())
			if err != nil {
				return err
			}
			if available {
				fmt.Println("You are now accepting appointments")
			} else {
				fmt.Println("You are no longer accepting appointments")
			}
			return nil
		},
	}
}

func newBookCmd(a *app) *cobra.Command {
	var input appointments.BookingInput
	var keepReservation bool
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Reserve an appointment and pay for it",
		RunE: func(cmd *cobra.Command, args []string) error {
			appt, err := a.flow.Book(cmd.Context(), input)
			if err != nil {
				pe, ok := appointments.AsPaymentError(err)
				if !ok {
					return err
				}
				if keepReservation {
					fmt.Printf("Payment failed, reservation %d kept as pending. Retry with: carebook appointments pay %d\n",
						pe.Appointment.ID, pe.Appointment.ID)
					return pe.Err
				}
				if abortErr := a.flow.Abort(cmd.Context(), pe.Appointment.ID); abortErr != nil {
					a.logger.Warn().Err(abortErr).Msg("could not release reservation")
				}
				return fmt.Errorf("payment failed, reservation released: %w", pe.Err)
			}
			fmt.Printf("Booked appointment %d with %s on %s, token number %d, payment %s\n",
				appt.ID, appt.Doctor, appt.Date, appt.TokenNumber, appt.PaymentStatus)
			return nil
		},
	}
	cmd.Flags().Int64Var(&input.DoctorID, "doctor", 0, "doctor id, see `carebook doctors`")
	cmd.Flags().StringVar(&input.Date, "date", "", "appointment date, YYYY-MM-DD")
	cmd.Flags().StringVar(&input.Reason, "reason", "", "reason for the visit")
	cmd.Flags().BoolVar(&keepReservation, "keep-reservation", false, "keep the pending reservation when payment fails")
	cmd.MarkFlagRequired("doctor")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("reason")
	return cmd
}

func newAppointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "View and manage appointments",
	}
	cmd.AddCommand(
		newApptListCmd(a),
		newApptCancelCmd(a),
		newApptPayCmd(a),
		newApptTransitionCmd(a, "accept", "Confirm a pending appointment", appointments.StatusConfirmed),
		newApptDeclineCmd(a),
		newApptTransitionCmd(a, "start", "Start a confirmed appointment", appointments.StatusInProgress),
		newApptCompleteCmd(a),
		newApptVitalsCmd(a),
		newApptSetStatusCmd(a),
	)
	return cmd
}

func printAppointments(out io.Writer, appts []appointments.Appointment) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTOKEN\tPATIENT\tDOCTOR\tSTATUS\tPAYMENT\tREASON")
	for _, ap := range appts {
		status := string(ap.Status)
		if ap.Status == appointments.StatusCancelled && ap.DeclineReason != "" {
			status = fmt.Sprintf("declined (%q)", ap.DeclineReason)
		}
		if ap.Tentative {
			status += "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			ap.ID, ap.Date, ap.TokenNumber, ap.Patient, ap.Doctor, status, ap.PaymentStatus, ap.Reason)
	}
	return w.Flush()
}

func newApptListCmd(a *app) *cobra.Command {
	var watchMode bool
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			col := appointments.NewCollection(a.appts, a.logger)
			if err := col.Load(cmd.Context()); err != nil {
				return err
			}
			if err := printAppointments(os.Stdout, col.Items()); err != nil {
				return err
			}
			if !watchMode {
				return nil
			}
			watch.NewPoller(interval, a.logger).Run(cmd.Context(), func(ctx context.Context) error {
				if err := col.Refresh(ctx); err != nil {
					return err
				}
				fmt.Println()
				return printAppointments(os.Stdout, col.Items())
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&watchMode, "watch", false, "keep refreshing the list")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "refresh interval in watch mode")
	return cmd
}

func argID(args []string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid appointment id %q", args[0])
	}
	return id, nil
}

func newApptCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			if err := a.appts.Cancel(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Appointment %d cancelled\n", id)
			return nil
		},
	}
}

func newApptPayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id>",
		Short: "Pay for a pending reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			appt, err := a.flow.Pay(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Appointment %d payment %s\n", appt.ID, appt.PaymentStatus)
			return nil
		},
	}
}

// newApptTransitionCmd covers the transitions that need no extra fields.
func newApptTransitionCmd(a *app, use, short string, to appointments.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			appt, err := a.appts.UpdateStatus(cmd.Context(), id, appointments.StatusUpdate{Status: to})
			if err != nil {
				return err
			}
			fmt.Printf("Appointment %d is now %s\n", appt.ID, appt.Status)
			return nil
		},
	}
}

func newApptDeclineCmd(a *app) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "decline <id>",
		Short: "Decline a pending appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			appt, err := a.appts.UpdateStatus(cmd.Context(), id, appointments.StatusUpdate{
				Status:        appointments.StatusCancelled,
				DeclineReason: reason,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Appointment %d declined: %s\n", appt.ID, appt.DeclineReason)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "why the appointment is declined")
	cmd.MarkFlagRequired("reason")
	return cmd
}

func newApptCompleteCmd(a *app) *cobra.Command {
	var diagnosis string
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			update := appointments.StatusUpdate{Status: appointments.StatusCompleted, Diagnosis: diagnosis}
			appt, err := a.appts.UpdateStatus(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			fmt.Printf("Appointment %d completed\n", appt.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&diagnosis, "diagnosis", "", "diagnosis for the visit")
	return cmd
}

func newApptVitalsCmd(a *app) *cobra.Command {
	var vitals string
	var confirm bool
	cmd := &cobra.Command{
		Use:   "vitals <id>",
		Short: "Record vitals for an appointment",
		Long:  "Record vitals on an appointment without changing its status. With --confirm, also move a pending appointment to confirmed (check-in).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			update := appointments.StatusUpdate{Vitals: vitals}
			if confirm {
				update.Status = appointments.StatusConfirmed
			}
			appt, err := a.appts.UpdateStatus(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			if confirm {
				fmt.Printf("Appointment %d confirmed, vitals recorded\n", appt.ID)
			} else {
				fmt.Printf("Vitals recorded on appointment %d\n", appt.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&vitals, "vitals", "", "vitals summary, e.g. \"BP 120/80, HR 72\"")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "also confirm a pending appointment")
	cmd.MarkFlagRequired("vitals")
	return cmd
}

func newApptSetStatusCmd(a *app) *cobra.Command {
	var update appointments.StatusUpdate
	var status string
	cmd := &cobra.Command{
		Use:   "set-status <id>",
		Short: "Force an appointment status (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			update.Status = appointments.Status(status)
			if role := a.role(); role != identity.RoleAdmin {
				// Fail fast with the local table before the server does.
				current, ok := statusOf(cmd, a, id)
				if ok {
					if err := appointments.Validate(role, current, update); err != nil {
						return err
					}
				}
			}
			appt, err := a.appts.UpdateStatus(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			fmt.Printf("Appointment %d is now %s\n", appt.ID, appt.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "target status")
	cmd.Flags().StringVar(&update.Diagnosis, "diagnosis", "", "diagnosis when completing")
	cmd.Flags().StringVar(&update.DeclineReason, "reason", "", "reason when cancelling")
	cmd.MarkFlagRequired("status")
	return cmd
}

func statusOf(cmd *cobra.Command, a *app, id int64) (appointments.Status, bool) {
	list, err := a.appts.List(cmd.Context())
	if err != nil {
		return "", false
	}
	for _, ap := range list {
		if ap.ID == id {
			return ap.Status, true
		}
	}
	return "", false
}
