package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carebook/carebook/internal/config"
	"github.com/carebook/carebook/internal/domain/appointments"
	"github.com/carebook/carebook/internal/domain/identity"
	"github.com/carebook/carebook/internal/domain/insights"
	"github.com/carebook/carebook/internal/domain/lab"
	"github.com/carebook/carebook/internal/domain/notifications"
	"github.com/carebook/carebook/internal/domain/pharmacy"
	"github.com/carebook/carebook/internal/platform/api"
	"github.com/carebook/carebook/internal/platform/draft"
	"github.com/carebook/carebook/internal/platform/payment"
	"github.com/carebook/carebook/internal/platform/session"
)

// app holds the wired client stack every command runs against.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	sess   *session.Store
	client *api.Client

	identity *identity.Service
	appts    *appointments.Service
	flow     *appointments.BookingFlow
	lab      *lab.Service
	notes    *notifications.Service
	pharmacy *pharmacy.Service
	insights *insights.Service
	drafts   *draft.Store

	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "carebook",
		Short:         "Clinic appointment client",
		Long:          "carebook books, tracks, and manages clinic appointments, lab reports, prescriptions, and notifications against the clinic backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRegisterCmd(a),
		newResetCmd(a),
		newDoctorsCmd(a),
		newAvailabilityCmd(a),
		newBookCmd(a),
		newAppointmentsCmd(a),
		newLabCmd(a),
		newNotificationsCmd(a),
		newPharmacyCmd(a),
		newReferCmd(a),
		newUsersCmd(a),
		newInsightsCmd(a),
		newProfileCmd(a),
		newStubCmd(a),
	)
	return root
}

func (a *app) init() error {
	level := zerolog.WarnLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	sessPath := filepath.Join(cfg.StateDir, "session.json")
	draftDir := filepath.Join(cfg.StateDir, "drafts")
	if cfg.StateDir == "" {
		if sessPath, err = session.DefaultPath(); err != nil {
			return err
		}
		if draftDir, err = draft.DefaultDir(); err != nil {
			return err
		}
	}
	a.sess = session.NewStore(sessPath, a.logger)
	if err := a.sess.Load(); err != nil {
		return err
	}
	a.drafts = draft.NewStore(draftDir)

	var opts []api.Option
	if cfg.RequestTimeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.RequestTimeout))
	}
	a.client = api.NewClient(cfg.BaseURL(), a.sess, a.logger, opts...)

	a.identity = identity.NewService(a.client, a.sess, a.logger)
	a.appts = appointments.NewService(a.client, a.logger)
	a.flow = appointments.NewBookingFlow(a.appts, a.confirmer(), a.logger)
	a.lab = lab.NewService(a.client, a.logger)
	a.notes = notifications.NewService(a.client, a.logger)
	a.pharmacy = pharmacy.NewService(a.client, a.logger)
	a.insights = insights.NewService(a.client, a.logger)
	return nil
}

// confirmer picks the payment confirmer. The stub backend issues fake
// intents no processor knows about, so development approves them locally.
func (a *app) confirmer() payment.Confirmer {
	if a.cfg.IsDev() {
		return devConfirmer{logger: a.logger}
	}
	return &payment.StripeConfirmer{}
}

type devConfirmer struct {
	logger zerolog.Logger
}

func (d devConfirmer) Confirm(ctx context.Context, intent payment.Intent) error {
	d.logger.Debug().Int64("appointment_id", intent.AppointmentID).Msg("dev mode, payment auto-approved")
	return nil
}

// role returns the logged-in role, or empty when logged out.
func (a *app) role() identity.Role {
	st, ok := a.sess.Current()
	if !ok {
		return ""
	}
	r, err := identity.ParseRole(st.Role)
	if err != nil {
		return ""
	}
	return r
}
