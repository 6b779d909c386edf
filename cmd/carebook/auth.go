package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carebook/carebook/internal/domain/identity"
)

func newLoginCmd(a *app) *cobra.Command {
	var creds identity.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and start a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.identity.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", result.Username, result.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.identity.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := a.sess.Claims()
			if err != nil {
				fmt.Println("Not logged in")
				return nil
			}
			fmt.Printf("%s (%s)\n", claims.Username, claims.Role)
			if !claims.ExpiresAt.IsZero() {
				fmt.Printf("Token expires %s\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var reg identity.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Sign up as a new patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.identity.Register(cmd.Context(), reg); err != nil {
				return err
			}
			fmt.Printf("Account %s created, log in to continue\n", reg.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.Username, "username", "", "desired username")
	cmd.Flags().StringVar(&reg.Email, "email", "", "email address")
	cmd.Flags().StringVar(&reg.Password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&reg.PhoneNumber, "phone", "", "phone number")
	cmd.Flags().StringVar(&reg.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&reg.Age, "age", "", "age in years")
	cmd.Flags().StringVar(&reg.Gender, "gender", "", "gender")
	cmd.Flags().StringVar(&reg.BloodGroup, "blood-group", "", "blood group")
	cmd.Flags().StringVar(&reg.MedicalHistory, "history", "", "relevant medical history")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Password reset",
	}

	var email string
	request := &cobra.Command{
		Use:   "request",
		Short: "Request a password reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.identity.RequestPasswordReset(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Println("If the account exists, a reset token has been issued")
			return nil
		},
	}
	request.Flags().StringVar(&email, "email", "", "account email")
	request.MarkFlagRequired("email")

	var confirm identity.PasswordReset
	confirmCmd := &cobra.Command{
		Use:   "confirm",
		Short: "Set a new password with a reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.identity.ConfirmPasswordReset(cmd.Context(), confirm); err != nil {
				return err
			}
			fmt.Println("Password updated")
			return nil
		},
	}
	confirmCmd.Flags().StringVar(&confirm.Email, "email", "", "account email")
	confirmCmd.Flags().StringVar(&confirm.Token, "token", "", "reset token")
	confirmCmd.Flags().StringVar(&confirm.NewPassword, "new-password", "", "new password")
	confirmCmd.MarkFlagRequired("email")
	confirmCmd.MarkFlagRequired("token")
	confirmCmd.MarkFlagRequired("new-password")

	cmd.AddCommand(request, confirmCmd)
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.identity.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", u.Username, u.Role)
			fmt.Printf("  email: %s\n", u.Email)
			if u.Role == identity.RoleDoctor {
				fmt.Printf("  specialization: %s\n  available: %v\n", u.Specialization, u.IsAvailable)
			}
			if u.PhoneNumber != "" {
				fmt.Printf("  phone: %s\n", u.PhoneNumber)
			}
			if u.Role == identity.RolePatient {
				fmt.Printf("  age: %s  gender: %s  blood group: %s\n", u.Age, u.Gender, u.BloodGroup)
				if u.MedicalHistory != "" {
					fmt.Printf("  history: %s\n", u.MedicalHistory)
				}
			}
			return nil
		},
	}

	var patch identity.ProfilePatch
	var email, phone, address, age, history string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("email") {
				patch.Email = &email
			}
			if cmd.Flags().Changed("phone") {
				patch.PhoneNumber = &phone
			}
			if cmd.Flags().Changed("address") {
				patch.Address = &address
			}
			if cmd.Flags().Changed("age") {
				patch.Age = &age
			}
			if cmd.Flags().Changed("history") {
				patch.MedicalHistory = &history
			}
			u, err := a.identity.UpdateProfile(cmd.Context(), patch)
			if err != nil {
				return err
			}
			fmt.Printf("Profile for %s updated\n", u.Username)
			return nil
		},
	}
	update.Flags().StringVar(&email, "email", "", "email address")
	update.Flags().StringVar(&phone, "phone", "", "phone number")
	update.Flags().StringVar(&address, "address", "", "postal address")
	update.Flags().StringVar(&age, "age", "", "age in years")
	update.Flags().StringVar(&history, "history", "", "relevant medical history")

	cmd.AddCommand(update)
	return cmd
}
