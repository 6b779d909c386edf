package stubserver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carebook/carebook/internal/domain/appointments"
	"github.com/carebook/carebook/internal/domain/identity"
	"github.com/carebook/carebook/internal/domain/lab"
	"github.com/carebook/carebook/internal/domain/notifications"
	"github.com/carebook/carebook/internal/domain/pharmacy"
)

type userRecord struct {
	identity.User
	Password   string
	ResetToken string
}

type noteRecord struct {
	notifications.Notification
	UserID int64
}

type referralRecord struct {
	ID           int64
	PatientID    int64
	FromDoctorID int64
	ToDoctorID   int64
	Reason       string
}

// Store is the in-memory state behind the stub backend. It is safe for
// concurrent handlers.
type Store struct {
	mu        sync.Mutex
	users     map[int64]*userRecord
	appts     map[int64]*appointments.Appointment
	reports   map[int64]*lab.Report
	notes     map[int64]*noteRecord
	scripts   map[int64]*pharmacy.Prescription
	referrals []referralRecord
	nextID    int64
}

// NewStore seeds the one account every deployment starts with.
func NewStore() *Store {
	s := &Store{
		users:   make(map[int64]*userRecord),
		appts:   make(map[int64]*appointments.Appointment),
		reports: make(map[int64]*lab.Report),
		notes:   make(map[int64]*noteRecord),
		scripts: make(map[int64]*pharmacy.Prescription),
	}
	s.CreateUser(&userRecord{
		User:     identity.User{Username: "admin", Email: "admin@clinic.local", Role: identity.RoleAdmin},
		Password: "admin123",
	})
	return s
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) CreateUser(u *userRecord) *userRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.id()
	if u.Role == identity.RoleDoctor {
		u.IsAvailable = true
	}
	s.users[u.ID] = u
	return u
}

func (s *Store) UserByID(id int64) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Store) UserByUsername(username string) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return nil, false
}

func (s *Store) UserByEmail(email string) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return nil, false
}

func (s *Store) Users() []identity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]identity.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Doctors() []identity.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []identity.Doctor
	for _, u := range s.users {
		if u.Role == identity.RoleDoctor {
			out = append(out, identity.Doctor{
				ID:             u.ID,
				Username:       u.Username,
				Specialization: u.Specialization,
				IsAvailable:    u.IsAvailable,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) DeleteUser(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}

// CreateAppointment reserves a slot. The token number is the appointment's
// position in the doctor's day, counting every non-cancelled booking.
func (s *Store) CreateAppointment(patient *userRecord, doctor *userRecord, date, reason string) *appointments.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := 1
	for _, a := range s.appts {
		if a.DoctorID == doctor.ID && sameDay(a.Date, date) && a.Status != appointments.StatusCancelled {
			token++
		}
	}

	appt := &appointments.Appointment{
		ID:            s.id(),
		Patient:       patient.Username,
		PatientID:     patient.ID,
		Doctor:        doctor.Username,
		DoctorID:      doctor.ID,
		Date:          date,
		Status:        appointments.StatusPending,
		Reason:        reason,
		TokenNumber:   token,
		PaymentStatus: appointments.PaymentPending,
	}
	s.appts[appt.ID] = appt
	return appt
}

func sameDay(a, b string) bool {
	day := func(s string) string {
		if len(s) >= 10 {
			return s[:10]
		}
		return s
	}
	return day(a) == day(b)
}

func (s *Store) Appointment(id int64) (*appointments.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appts[id]
	return a, ok
}

// AppointmentsFor filters by role: patients see their own, doctors their
// schedule, staff and admins everything.
func (s *Store) AppointmentsFor(u *userRecord) []appointments.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []appointments.Appointment
	for _, a := range s.appts {
		switch u.Role {
		case identity.RolePatient:
			if a.PatientID != u.ID {
				continue
			}
		case identity.RoleDoctor:
			if a.DoctorID != u.ID {
				continue
			}
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateReports files a batch of test rows for one patient, stamped with
// the same report date.
func (s *Store) CreateReports(patient *userRecord, filer string, rows []lab.Row) []lab.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	date := time.Now().Format("2006-01-02")
	out := make([]lab.Report, 0, len(rows))
	for _, row := range rows {
		r := &lab.Report{
			ID:             s.id(),
			Patient:        patient.Username,
			PatientID:      patient.ID,
			Doctor:         filer,
			TestName:       row.TestName,
			ObservedValue:  row.ObservedValue,
			Unit:           row.Unit,
			ReferenceRange: row.ReferenceRange,
			ReportDate:     date,
		}
		s.reports[r.ID] = r
		out = append(out, *r)
	}
	return out
}

func (s *Store) ReportsFor(u *userRecord) []lab.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []lab.Report
	for _, r := range s.reports {
		if u.Role == identity.RolePatient && r.PatientID != u.ID {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Notify(userID int64, format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := &noteRecord{
		Notification: notifications.Notification{
			ID:        s.id(),
			Message:   fmt.Sprintf(format, args...),
			CreatedAt: time.Now().Format(time.RFC3339),
		},
		UserID: userID,
	}
	s.notes[n.ID] = n
}

func (s *Store) NotificationsFor(userID int64) []notifications.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notifications.Notification
	for _, n := range s.notes {
		if n.UserID == userID {
			out = append(out, n.Notification)
		}
	}
	// Newest first.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Store) MarkNotificationRead(userID, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return false
	}
	n.IsRead = true
	return true
}

func (s *Store) CreatePrescription(patient *userRecord, doctor string, medication, dosage, directions string) *pharmacy.Prescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &pharmacy.Prescription{
		ID:         s.id(),
		Patient:    patient.Username,
		PatientID:  patient.ID,
		Doctor:     doctor,
		Medication: medication,
		Dosage:     dosage,
		Directions: directions,
		Status:     pharmacy.StatusPending,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}
	s.scripts[p.ID] = p
	return p
}

func (s *Store) Prescription(id int64) (*pharmacy.Prescription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.scripts[id]
	return p, ok
}

func (s *Store) PrescriptionsFor(u *userRecord) []pharmacy.Prescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pharmacy.Prescription
	for _, p := range s.scripts {
		if u.Role == identity.RolePatient && p.PatientID != u.ID {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) AddReferral(patientID, fromDoctorID, toDoctorID int64, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referrals = append(s.referrals, referralRecord{
		ID:           s.id(),
		PatientID:    patientID,
		FromDoctorID: fromDoctorID,
		ToDoctorID:   toDoctorID,
		Reason:       reason,
	})
}

// InsightCounts aggregates the clinic-wide numbers for the insights view.
func (s *Store) InsightCounts() (byStatus map[string]int, patients, doctors int, busiest string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byStatus = make(map[string]int)
	perDoctor := make(map[string]int)
	for _, a := range s.appts {
		byStatus[string(a.Status)]++
		perDoctor[a.Doctor]++
	}
	for _, u := range s.users {
		switch u.Role {
		case identity.RolePatient:
			patients++
		case identity.RoleDoctor:
			doctors++
		}
	}
	best := 0
	names := make([]string, 0, len(perDoctor))
	for name := range perDoctor {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if perDoctor[name] > best {
			best = perDoctor[name]
			busiest = name
		}
	}
	return byStatus, patients, doctors, busiest
}

// fakeClientSecret mimics the processor's pi_xxx_secret_yyy shape.
func fakeClientSecret(id string) string {
	return "pi_" + strings.ReplaceAll(id, "-", "") + "_secret_stub"
}
