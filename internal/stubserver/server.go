// Package stubserver is a self-contained backend speaking the clinic API.
// It backs development and tests when the real deployment is unavailable;
// everything lives in memory and resets on restart.
package stubserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/domain/appointments"
	"github.com/carebook/carebook/internal/domain/identity"
	"github.com/carebook/carebook/internal/domain/lab"
	"github.com/carebook/carebook/internal/domain/pharmacy"
)

type Server struct {
	store  *Store
	secret []byte
	echo   *echo.Echo
	logger zerolog.Logger
}

func NewServer(store *Store, secret string, logger zerolog.Logger) *Server {
	s := &Server{
		store:  store,
		secret: []byte(secret),
		echo:   echo.New(),
		logger: logger,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.routes()
	return s
}

// Handler exposes the router for in-process test servers.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("stub backend listening")
	return s.echo.Start(addr)
}

func (s *Server) routes() {
	g := s.echo.Group("/api/accounts")

	g.POST("/login/", s.login)
	g.POST("/register/", s.register)
	g.POST("/request-reset/", s.requestReset)
	g.POST("/confirm-reset/", s.confirmReset)

	auth := g.Group("", s.requireAuth)
	auth.GET("/profile/", s.profile)
	auth.PATCH("/profile/", s.updateProfile)
	auth.GET("/doctors/", s.doctors)
	auth.POST("/doctor/toggle-availability/", s.toggleAvailability)

	auth.GET("/appointments/", s.listAppointments)
	auth.POST("/appointments/create/", s.createAppointment)
	auth.PATCH("/appointments/:id/status/", s.updateStatus)
	auth.POST("/appointments/:id/cancel/", s.cancelAppointment)
	auth.POST("/appointments/:id/pay/", s.payAppointment)
	auth.POST("/appointments/create-payment-intent/:id/", s.createPaymentIntent)
	auth.GET("/stripe-config/", s.stripeConfig)

	auth.GET("/users/", s.listUsers)
	auth.GET("/users/:id/", s.userDetail)
	auth.POST("/users/create/", s.createUser)
	auth.PATCH("/users/:id/update/", s.updateUser)
	auth.DELETE("/users/:id/delete/", s.deleteUser)

	auth.GET("/notifications/", s.listNotifications)
	auth.PUT("/notifications/:id/read/", s.markNotificationRead)

	auth.GET("/lab-reports/", s.listReports)
	auth.POST("/lab-reports/create/", s.createReport)

	auth.GET("/prescriptions/", s.listPrescriptions)
	auth.POST("/prescriptions/create/", s.createPrescription)
	auth.POST("/prescriptions/:id/dispense/", s.dispensePrescription)
	auth.POST("/referrals/create/", s.createReferral)

	auth.GET("/ai-insights/", s.insights)
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

func (s *Server) issueToken(u *userRecord, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  u.ID,
		"username": u.Username,
		"role":     string(u.Role),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication credentials were not provided"})
		}
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !tok.Valid {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Given token not valid"})
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Given token not valid"})
		}
		id, _ := claims["user_id"].(float64)
		u, found := s.store.UserByID(int64(id))
		if !found {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "User no longer exists"})
		}
		c.Set("user", u)
		return next(c)
	}
}

func currentUser(c echo.Context) *userRecord {
	return c.Get("user").(*userRecord)
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (s *Server) login(c echo.Context) error {
	var creds identity.Credentials
	if err := c.Bind(&creds); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	u, ok := s.store.UserByUsername(creds.Username)
	if !ok || u.Password != creds.Password {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}
	access, err := s.issueToken(u, time.Hour)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Token generation failed")
	}
	refresh, err := s.issueToken(u, 24*time.Hour)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Token generation failed")
	}
	return c.JSON(http.StatusOK, identity.LoginResult{
		Access:   access,
		Refresh:  refresh,
		Role:     u.Role,
		Username: u.Username,
	})
}

func (s *Server) register(c echo.Context) error {
	var reg identity.Registration
	if err := c.Bind(&reg); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	if reg.Username == "" || reg.Password == "" || reg.Email == "" {
		return fail(c, http.StatusBadRequest, "Username, email and password are required")
	}
	if _, exists := s.store.UserByUsername(reg.Username); exists {
		return fail(c, http.StatusBadRequest, "Username already taken")
	}
	u := s.store.CreateUser(&userRecord{
		User: identity.User{
			Username:       reg.Username,
			Email:          reg.Email,
			Role:           identity.RolePatient,
			PhoneNumber:    reg.PhoneNumber,
			Address:        reg.Address,
			Age:            reg.Age,
			Gender:         reg.Gender,
			BloodGroup:     reg.BloodGroup,
			MedicalHistory: reg.MedicalHistory,
		},
		Password: reg.Password,
	})
	return c.JSON(http.StatusCreated, u.User)
}

func (s *Server) requestReset(c echo.Context) error {
	var req identity.PasswordReset
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	u, ok := s.store.UserByEmail(req.Email)
	if !ok {
		// Same answer either way; the caller learns nothing about accounts.
		return c.JSON(http.StatusOK, echo.Map{"message": "If the account exists, a reset token has been issued"})
	}
	u.ResetToken = uuid.NewString()
	s.logger.Info().Str("email", req.Email).Str("token", u.ResetToken).Msg("reset token issued")
	// A real deployment emails the token. The stub returns it directly.
	return c.JSON(http.StatusOK, echo.Map{
		"message": "If the account exists, a reset token has been issued",
		"token":   u.ResetToken,
	})
}

func (s *Server) confirmReset(c echo.Context) error {
	var req identity.PasswordReset
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	u, ok := s.store.UserByEmail(req.Email)
	if !ok || req.Token == "" || u.ResetToken != req.Token {
		return fail(c, http.StatusBadRequest, "Invalid reset token")
	}
	if req.NewPassword == "" {
		return fail(c, http.StatusBadRequest, "New password is required")
	}
	u.Password = req.NewPassword
	u.ResetToken = ""
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated"})
}

func (s *Server) profile(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c).User)
}

func (s *Server) updateProfile(c echo.Context) error {
	u := currentUser(c)
	var patch identity.ProfilePatch
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	applyProfilePatch(&u.User, patch)
	return c.JSON(http.StatusOK, u.User)
}

func applyProfilePatch(u *identity.User, p identity.ProfilePatch) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.BloodGroup != nil {
		u.BloodGroup = *p.BloodGroup
	}
	if p.MedicalHistory != nil {
		u.MedicalHistory = *p.MedicalHistory
	}
}

func (s *Server) doctors(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Doctors())
}

func (s *Server) toggleAvailability(c echo.Context) error {
	u := currentUser(c)
	if u.Role != identity.RoleDoctor {
		return fail(c, http.StatusForbidden, "Only doctors can toggle availability")
	}
	u.IsAvailable = !u.IsAvailable
	return c.JSON(http.StatusOK, echo.Map{"is_available": u.IsAvailable})
}

func (s *Server) listAppointments(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.AppointmentsFor(currentUser(c)))
}

func (s *Server) createAppointment(c echo.Context) error {
	u := currentUser(c)
	if u.Role != identity.RolePatient {
		return fail(c, http.StatusForbidden, "Only patients can book appointments")
	}
	var input appointments.BookingInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	doctor, ok := s.store.UserByID(input.DoctorID)
	if !ok || doctor.Role != identity.RoleDoctor {
		return fail(c, http.StatusNotFound, "Doctor not found")
	}
	if !doctor.IsAvailable {
		return fail(c, http.StatusBadRequest, "Doctor is not accepting appointments")
	}
	if input.Date == "" || input.Reason == "" {
		return fail(c, http.StatusBadRequest, "Date and reason are required")
	}
	appt := s.store.CreateAppointment(u, doctor, input.Date, input.Reason)
	s.store.Notify(doctor.ID, "New appointment request from %s for %s", u.Username, appt.Date)
	return c.JSON(http.StatusCreated, appt)
}

func (s *Server) updateStatus(c echo.Context) error {
	u := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid appointment id")
	}
	appt, ok := s.store.Appointment(id)
	if !ok {
		return fail(c, http.StatusNotFound, "Appointment not found")
	}
	if u.Role == identity.RoleDoctor && appt.DoctorID != u.ID {
		return fail(c, http.StatusForbidden, "Not your appointment")
	}
	if u.Role == identity.RolePatient {
		return fail(c, http.StatusForbidden, "Patients cancel through the cancel endpoint")
	}

	var update appointments.StatusUpdate
	if err := c.Bind(&update); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	if update.Status == "" {
		// Field-only patch: vitals or diagnosis recorded without moving
		// the appointment.
		if appt.Status == appointments.StatusCompleted {
			return fail(c, http.StatusBadRequest, "Cannot update a completed appointment")
		}
		if update.Vitals != "" {
			appt.Vitals = update.Vitals
		}
		if update.Diagnosis != "" {
			appt.Diagnosis = update.Diagnosis
		}
		return c.JSON(http.StatusOK, appt)
	}
	if err := appointments.Validate(u.Role, appt.Status, update); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	appt.Status = update.Status
	if update.DeclineReason != "" {
		appt.DeclineReason = update.DeclineReason
	}
	if update.Vitals != "" {
		appt.Vitals = update.Vitals
	}
	if update.Diagnosis != "" {
		appt.Diagnosis = update.Diagnosis
	}
	s.store.Notify(appt.PatientID, "Your appointment on %s is now %s", appt.Date, appt.Status)
	return c.JSON(http.StatusOK, appt)
}

func (s *Server) cancelAppointment(c echo.Context) error {
	u := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid appointment id")
	}
	appt, ok := s.store.Appointment(id)
	if !ok {
		return fail(c, http.StatusNotFound, "Appointment not found")
	}
	if u.Role == identity.RolePatient && appt.PatientID != u.ID {
		return fail(c, http.StatusForbidden, "Not your appointment")
	}
	switch appt.Status {
	case appointments.StatusCancelled:
		return c.JSON(http.StatusOK, echo.Map{"message": "Already cancelled"})
	case appointments.StatusCompleted:
		return fail(c, http.StatusBadRequest, "Cannot cancel a completed appointment")
	}
	appt.Status = appointments.StatusCancelled
	s.store.Notify(appt.DoctorID, "Appointment with %s on %s was cancelled", appt.Patient, appt.Date)
	return c.JSON(http.StatusOK, appt)
}

func (s *Server) payAppointment(c echo.Context) error {
	u := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid appointment id")
	}
	appt, ok := s.store.Appointment(id)
	if !ok {
		return fail(c, http.StatusNotFound, "Appointment not found")
	}
	if u.Role == identity.RolePatient && appt.PatientID != u.ID {
		return fail(c, http.StatusForbidden, "Not your appointment")
	}
	if appt.Status == appointments.StatusCancelled {
		return fail(c, http.StatusBadRequest, "Cannot pay for a cancelled appointment")
	}
	appt.PaymentStatus = appointments.PaymentPaid
	return c.JSON(http.StatusOK, appt)
}

func (s *Server) createPaymentIntent(c echo.Context) error {
	u := currentUser(c)
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid appointment id")
	}
	appt, ok := s.store.Appointment(id)
	if !ok {
		return fail(c, http.StatusNotFound, "Appointment not found")
	}
	if appt.PatientID != u.ID && u.Role == identity.RolePatient {
		return fail(c, http.StatusForbidden, "Not your appointment")
	}
	if appt.PaymentStatus == appointments.PaymentPaid {
		return fail(c, http.StatusBadRequest, "Appointment already paid")
	}
	return c.JSON(http.StatusOK, echo.Map{"clientSecret": fakeClientSecret(uuid.NewString())})
}

func (s *Server) stripeConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"publishableKey": "pk_test_stub"})
}

func (s *Server) listUsers(c echo.Context) error {
	if currentUser(c).Role != identity.RoleAdmin {
		return fail(c, http.StatusForbidden, "Admin only")
	}
	return c.JSON(http.StatusOK, s.store.Users())
}

func (s *Server) userDetail(c echo.Context) error {
	if currentUser(c).Role != identity.RoleAdmin {
		return fail(c, http.StatusForbidden, "Admin only")
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user id")
	}
	u, ok := s.store.UserByID(id)
	if !ok {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, u.User)
}

func (s *Server) createUser(c echo.Context) error {
	if currentUser(c).Role != identity.RoleAdmin {
		return fail(c, http.StatusForbidden, "Admin only")
	}
	var nu identity.NewUser
	if err := c.Bind(&nu); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	if _, err := identity.ParseRole(string(nu.Role)); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid role")
	}
	if _, exists := s.store.UserByUsername(nu.Username); exists {
		return fail(c, http.StatusBadRequest, "Username already taken")
	}
	u := s.store.CreateUser(&userRecord{
		User: identity.User{
			Username:       nu.Username,
			Email:          nu.Email,
			Role:           nu.Role,
			Specialization: nu.Specialization,
			PhoneNumber:    nu.PhoneNumber,
		},
		Password: nu.Password,
	})
	return c.JSON(http.StatusCreated, u.User)
}

func (s *Server) updateUser(c echo.Context) error {
	if currentUser(c).Role != identity.RoleAdmin {
		return fail(c, http.StatusForbidden, "Admin only")
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user id")
	}
	u, ok := s.store.UserByID(id)
	if !ok {
		return fail(c, http.StatusNotFound, "User not found")
	}
	var patch identity.UserPatch
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Role != nil {
		if _, err := identity.ParseRole(string(*patch.Role)); err != nil {
			return fail(c, http.StatusBadRequest, "Invalid role")
		}
		u.Role = *patch.Role
	}
	if patch.Specialization != nil {
		u.Specialization = *patch.Specialization
	}
	if patch.PhoneNumber != nil {
		u.PhoneNumber = *patch.PhoneNumber
	}
	if patch.IsAvailable != nil {
		u.IsAvailable = *patch.IsAvailable
	}
	return c.JSON(http.StatusOK, u.User)
}

func (s *Server) deleteUser(c echo.Context) error {
	admin := currentUser(c)
	if admin.Role != identity.RoleAdmin {
		return fail(c, http.StatusForbidden, "Admin only")
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user id")
	}
	if id == admin.ID {
		return fail(c, http.StatusBadRequest, "Cannot delete your own account")
	}
	if !s.store.DeleteUser(id) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listNotifications(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.NotificationsFor(currentUser(c).ID))
}

func (s *Server) markNotificationRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid notification id")
	}
	if !s.store.MarkNotificationRead(currentUser(c).ID, id) {
		return fail(c, http.StatusNotFound, "Notification not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Marked as read"})
}

func (s *Server) listReports(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.ReportsFor(currentUser(c)))
}

func (s *Server) createReport(c echo.Context) error {
	u := currentUser(c)
	if u.Role != identity.RoleStaff && u.Role != identity.RoleAdmin {
		return fail(c, http.StatusForbidden, "Only staff can file lab reports")
	}
	var nr lab.NewReport
	if err := c.Bind(&nr); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	patient, ok := s.store.UserByID(nr.PatientID)
	if !ok || patient.Role != identity.RolePatient {
		return fail(c, http.StatusNotFound, "Patient not found")
	}
	if len(nr.Reports) == 0 {
		return fail(c, http.StatusBadRequest, "At least one test row is required")
	}
	for _, row := range nr.Reports {
		if row.TestName == "" || row.ObservedValue == "" {
			return fail(c, http.StatusBadRequest, "Each row needs a test name and an observed value")
		}
	}
	reports := s.store.CreateReports(patient, u.Username, nr.Reports)
	s.store.Notify(patient.ID, "%d new lab result(s) are available", len(reports))
	return c.JSON(http.StatusCreated, reports)
}

func (s *Server) listPrescriptions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.PrescriptionsFor(currentUser(c)))
}

func (s *Server) createPrescription(c echo.Context) error {
	u := currentUser(c)
	if u.Role != identity.RoleDoctor {
		return fail(c, http.StatusForbidden, "Only doctors can write prescriptions")
	}
	var np struct {
		PatientID  int64  `json:"patient_id"`
		Medication string `json:"medication"`
		Dosage     string `json:"dosage"`
		Directions string `json:"directions"`
	}
	if err := c.Bind(&np); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	patient, ok := s.store.UserByID(np.PatientID)
	if !ok || patient.Role != identity.RolePatient {
		return fail(c, http.StatusNotFound, "Patient not found")
	}
	if np.Medication == "" || np.Dosage == "" {
		return fail(c, http.StatusBadRequest, "Medication and dosage are required")
	}
	p := s.store.CreatePrescription(patient, u.Username, np.Medication, np.Dosage, np.Directions)
	s.store.Notify(patient.ID, "New prescription for %s is ready at the pharmacy", p.Medication)
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) dispensePrescription(c echo.Context) error {
	u := currentUser(c)
	if u.Role != identity.RoleStaff && u.Role != identity.RoleAdmin {
		return fail(c, http.StatusForbidden, "Only pharmacy staff can dispense")
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid prescription id")
	}
	p, ok := s.store.Prescription(id)
	if !ok {
		return fail(c, http.StatusNotFound, "Prescription not found")
	}
	if p.Status == pharmacy.StatusDispensed {
		return fail(c, http.StatusBadRequest, "Already dispensed")
	}
	p.Status = pharmacy.StatusDispensed
	s.store.Notify(p.PatientID, "Your prescription for %s has been dispensed", p.Medication)
	return c.JSON(http.StatusOK, p)
}

func (s *Server) createReferral(c echo.Context) error {
	u := currentUser(c)
	if u.Role != identity.RoleDoctor {
		return fail(c, http.StatusForbidden, "Only doctors can refer patients")
	}
	var ref struct {
		PatientID  int64  `json:"patient_id"`
		ToDoctorID int64  `json:"to_doctor_id"`
		Reason     string `json:"reason"`
	}
	if err := c.Bind(&ref); err != nil {
		return fail(c, http.StatusBadRequest, "Malformed request")
	}
	patient, ok := s.store.UserByID(ref.PatientID)
	if !ok || patient.Role != identity.RolePatient {
		return fail(c, http.StatusNotFound, "Patient not found")
	}
	target, ok := s.store.UserByID(ref.ToDoctorID)
	if !ok || target.Role != identity.RoleDoctor {
		return fail(c, http.StatusNotFound, "Doctor not found")
	}
	s.store.AddReferral(patient.ID, u.ID, target.ID, ref.Reason)
	s.store.Notify(target.ID, "%s referred patient %s to you", u.Username, patient.Username)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Referral created"})
}

func (s *Server) insights(c echo.Context) error {
	u := currentUser(c)
	if u.Role != identity.RoleAdmin {
		return fail(c, http.StatusForbidden, "Admin only")
	}
	byStatus, patients, doctors, busiest := s.store.InsightCounts()
	total := 0
	for _, n := range byStatus {
		total += n
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_appointments":     total,
		"completed_appointments": byStatus[string(appointments.StatusCompleted)],
		"cancelled_appointments": byStatus[string(appointments.StatusCancelled)],
		"total_patients":         patients,
		"total_doctors":          doctors,
		"appointments_by_status": byStatus,
		"busiest_doctor":         busiest,
	})
}
