package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carebook/carebook/internal/domain/identity"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (admin)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.identity.Users(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tEMAIL\tSPECIALIZATION")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, u.Email, u.Specialization)
			}
			return w.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			u, err := a.identity.UserDetail(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("%d %s (%s) %s\n", u.ID, u.Username, u.Role, u.Email)
			return nil
		},
	}

	var nu identity.NewUser
	var role string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account of any role",
		RunE: func(cmd *cobra.Command, args []string) error {
			nu.Role = identity.Role(role)
			u, err := a.identity.CreateUser(cmd.Context(), nu)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s (%s), id %d\n", u.Username, u.Role, u.ID)
			return nil
		},
	}
	create.Flags().StringVar(&nu.Username, "username", "", "username")
	create.Flags().StringVar(&nu.Email, "email", "", "email address")
	create.Flags().StringVar(&nu.Password, "password", "", "initial password")
	create.Flags().StringVar(&role, "role", "", "patient, doctor, staff, or admin")
	create.Flags().StringVar(&nu.Specialization, "specialization", "", "specialization for doctors")
	create.Flags().StringVar(&nu.PhoneNumber, "phone", "", "phone number")
	create.MarkFlagRequired("username")
	create.MarkFlagRequired("email")
	create.MarkFlagRequired("password")
	create.MarkFlagRequired("role")

	var email, spec, phone, newRole string
	var available bool
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			var patch identity.UserPatch
			if cmd.Flags().Changed("email") {
				patch.Email = &email
			}
			if cmd.Flags().Changed("role") {
				r := identity.Role(newRole)
				patch.Role = &r
			}
			if cmd.Flags().Changed("specialization") {
				patch.Specialization = &spec
			}
			if cmd.Flags().Changed("phone") {
				patch.PhoneNumber = &phone
			}
			if cmd.Flags().Changed("available") {
				patch.IsAvailable = &available
			}
			u, err := a.identity.UpdateUser(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s (%s)\n", u.Username, u.Role)
			return nil
		},
	}
	update.Flags().StringVar(&email, "email", "", "email address")
	update.Flags().StringVar(&newRole, "role", "", "new role")
	update.Flags().StringVar(&spec, "specialization", "", "specialization")
	update.Flags().StringVar(&phone, "phone", "", "phone number")
	update.Flags().BoolVar(&available, "available", false, "doctor availability")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			if err := a.identity.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("User %d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, show, create, update, del)
	return cmd
}

func newInsightsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Clinic-wide statistics (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := a.insights.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Appointments: %d total, %d completed, %d cancelled\n",
				sum.TotalAppointments, sum.CompletedAppointments, sum.CancelledAppointments)
			fmt.Printf("People: %d patients, %d doctors\n", sum.TotalPatients, sum.TotalDoctors)
			if sum.BusiestDoctor != "" {
				fmt.Printf("Busiest doctor: %s\n", sum.BusiestDoctor)
			}
			statuses := make([]string, 0, len(sum.AppointmentsByStatus))
			for s := range sum.AppointmentsByStatus {
				statuses = append(statuses, s)
			}
			sort.Strings(statuses)
			for _, s := range statuses {
				fmt.Printf("  %s: %d\n", s, sum.AppointmentsByStatus[s])
			}
			return nil
		},
	}
}
