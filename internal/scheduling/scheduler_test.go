package scheduling

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"medbook-server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory
	// database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))
	return db
}

func newTestScheduler(t *testing.T) (*Scheduler, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewScheduler(db, zerolog.Nop()), db
}

func createDoctor(t *testing.T, db *gorm.DB, email string) models.Doctor {
	t.Helper()

	user := models.User{Email: email, FirstName: "Doc", LastName: "Tor", Role: models.RoleDoctor, IsActive: true}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(&user).Error)

	doctor := models.Doctor{UserID: user.ID, Specialization: "General Medicine"}
	require.NoError(t, db.Create(&doctor).Error)
	return doctor
}

func createPatient(t *testing.T, db *gorm.DB, email string) models.Patient {
	t.Helper()

	user := models.User{Email: email, FirstName: "Pat", LastName: "Ient", Role: models.RolePatient, IsActive: true}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(&user).Error)

	patient := models.Patient{UserID: user.ID}
	require.NoError(t, db.Create(&patient).Error)
	return patient
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	s, db := newTestScheduler(t)
	doctor := createDoctor(t, db, "doc@example.com")
	patient := createPatient(t, db, "pat@example.com")

	appointment, err := s.Book(patient.UserID, BookRequest{
		DoctorID: doctor.ID,
		Date:     "2024-06-01",
		TimeSlot: "09:00 AM",
		Reason:   "checkup",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, appointment.Status)
	assert.Equal(t, doctor.ID, appointment.DoctorID)
	assert.Equal(t, patient.ID, appointment.PatientID)
	assert.Equal(t, "2024-06-01", appointment.AppointmentDate)
	assert.Equal(t, "09:00 AM", appointment.TimeSlot)
	assert.Equal(t, 30, appointment.Duration)
}

func TestBookValidation(t *testing.T) {
	s, db := newTestScheduler(t)
	doctor := createDoctor(t, db, "doc@example.com")
	patient := createPatient(t, db, "pat@example.com")

	tests := []struct {
		name    string
		caller  string
		req     BookRequest
		wantErr error
	}{
		{
			name:    "caller without patient profile",
			caller:  doctor.UserID,
			req:     BookRequest{DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "09:00 AM"},
			wantErr: ErrPatientProfileNotFound,
		},
		{
			name:    "unknown doctor",
			caller:  patient.UserID,
			req:     BookRequest{DoctorID: "missing", Date: "2024-06-01", TimeSlot: "09:00 AM"},
			wantErr: ErrDoctorNotFound,
		},
		{
			name:    "bad date",
			caller:  patient.UserID,
			req:     BookRequest{DoctorID: doctor.ID, Date: "June 1st", TimeSlot: "09:00 AM"},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "slot not in grid",
			caller:  patient.UserID,
			req:     BookRequest{DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "08:00 AM"},
			wantErr: ErrUnknownSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Book(tt.caller, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNoDoubleBooking(t *testing.T) {
	s, db := newTestScheduler(t)
	doctor := createDoctor(t, db, "doc@example.com")
	first := createPatient(t, db, "first@example.com")
	second := createPatient(t, db, "second@example.com")

	_, err := s.Book(first.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "09:00 AM", Reason: "checkup",
	})
	require.NoError(t, err)

	_, err = s.Book(second.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "09:00 AM", Reason: "checkup",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Same slot on another doctor's grid is unaffected
	other := createDoctor(t, db, "other@example.com")
	_, err = s.Book(second.UserID, BookRequest{
		DoctorID: other.ID, Date: "2024-06-01", TimeSlot: "09:00 AM", Reason: "checkup",
	})
	assert.NoError(t, err)
}

func TestConcurrentBookingSameSlot(t *testing.T) {
	s, db := newTestScheduler(t)
	doctor := createDoctor(t, db, "doc@example.com")

	const workers = 8
	patients := make([]models.Patient, workers)
	for i := range patients {
		patients[i] = createPatient(t, db, fmt.Sprintf("pat%d@example.com", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Book(patients[i].UserID, BookRequest{
				DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "10:00 AM", Reason: "race",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrSlotTaken)
		}
	}
	assert.Equal(t, 1, successes, "exactly one booking must win the slot")

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND time_slot = ? AND status <> ?",
			doctor.ID, "2024-06-01", "10:00 AM", models.StatusCancelled).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCancellationFreesSlot(t *testing.T) {
	s, db := newTestScheduler(t)
	doctor := createDoctor(t, db, "doc@example.com")
	first := createPatient(t, db, "first@example.com")
	second := createPatient(t, db, "second@example.com")

	appointment, err := s.Book(first.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "09:00 AM", Reason: "checkup",
	})
	require.NoError(t, err)

	cancelled, err := s.Cancel(appointment.ID, "patient request", first.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, "patient request", cancelled.CancellationReason)
	assert.Equal(t, first.UserID, cancelled.CancelledBy)

	// The freed slot is bookable again
	_, err = s.Book(second.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "09:00 AM", Reason: "checkup",
	})
	assert.NoError(t, err)
}

func TestAvailableSlotsComplement(t *testing.T) {
	s, db := newTestScheduler(t)
	doctor := createDoctor(t, db, "doc@example.com")
	patient := createPatient(t, db, "pat@example.com")

	// Empty day returns the whole grid in order
	slots, err := s.AvailableSlots(doctor.ID, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, SlotGrid(), slots)

	// Booking removes exactly that slot
	_, err = s.Book(patient.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "11:30 AM", Reason: "checkup",
	})
	require.NoError(t, err)

	slots, err = s.AvailableSlots(doctor.ID, "2024-06-01")
	require.NoError(t, err)
	assert.Len(t, slots, len(SlotGrid())-1)
	assert.NotContains(t, slots, "11:30 AM")

	// Order is preserved
	expected := make([]string, 0, len(SlotGrid())-1)
	for _, slot := range SlotGrid() {
		if slot != "11:30 AM" {
			expected = append(expected, slot)
		}
	}
	assert.Equal(t, expected, slots)

	_, err = s.AvailableSlots("missing", "2024-06-01")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestRescheduleSelfExclusion(t *testing.T) {
	s, db := newTestScheduler(t)
	doctor := createDoctor(t, db, "doc@example.com")
	patient := createPatient(t, db, "pat@example.com")

	appointment, err := s.Book(patient.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "09:00 AM", Reason: "checkup",
	})
	require.NoError(t, err)

	// A no-op reschedule never conflicts with the appointment's own slot
	updated, err := s.Reschedule(appointment.ID, "2024-06-01", "09:00 AM", "")
	require.NoError(t, err)
	assert.Equal(t, "09:00 AM", updated.TimeSlot)
	assert.Equal(t, models.StatusPending, updated.Status)
}

func TestRescheduleConflict(t *testing.T) {
	s, db := newTestScheduler(t)
	doctor := createDoctor(t, db, "doc@example.com")
	first := createPatient(t, db, "first@example.com")
	second := createPatient(t, db, "second@example.com")

	blocker, err := s.Book(first.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "02:00 PM", Reason: "checkup",
	})
	require.NoError(t, err)

	moving, err := s.Book(second.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "02:30 PM", Reason: "checkup",
	})
	require.NoError(t, err)

	_, err = s.Reschedule(moving.ID, "2024-06-01", "02:00 PM", "")
	assert.ErrorIs(t, err, ErrSlotTaken)

	// The failed reschedule left the appointment untouched
	unchanged, err := s.Get(moving.ID)
	require.NoError(t, err)
	assert.Equal(t, "02:30 PM", unchanged.TimeSlot)

	// A cancelled blocker no longer conflicts
	_, err = s.Cancel(blocker.ID, "", first.UserID)
	require.NoError(t, err)

	moved, err := s.Reschedule(moving.ID, "2024-06-01", "02:00 PM", "new reason")
	require.NoError(t, err)
	assert.Equal(t, "02:00 PM", moved.TimeSlot)
	assert.Equal(t, "new reason", moved.Reason)

	_, err = s.Reschedule("missing", "2024-06-01", "02:00 PM", "")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestSetStatus(t *testing.T) {
	s, db := newTestScheduler(t)
	doctor := createDoctor(t, db, "doc@example.com")
	patient := createPatient(t, db, "pat@example.com")

	appointment, err := s.Book(patient.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "09:00 AM", Reason: "checkup",
	})
	require.NoError(t, err)

	// Transitions are deliberately unrestricted within the enum,
	// including backwards moves
	for _, status := range []models.AppointmentStatus{
		models.StatusConfirmed,
		models.StatusCompleted,
		models.StatusPending,
	} {
		updated, err := s.SetStatus(appointment.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	// Setting the same value twice succeeds both times
	for i := 0; i < 2; i++ {
		updated, err := s.SetStatus(appointment.ID, models.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, updated.Status)
	}

	// A bogus status is rejected and the appointment is unchanged
	_, err = s.SetStatus(appointment.ID, "BOGUS")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	unchanged, err := s.Get(appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, unchanged.Status)

	_, err = s.SetStatus("missing", models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

// Full walk through the booking scenario: book, collide, cancel, rebook.
func TestBookingLifecycleScenario(t *testing.T) {
	s, db := newTestScheduler(t)
	doctor := createDoctor(t, db, "doc@example.com")
	first := createPatient(t, db, "first@example.com")
	second := createPatient(t, db, "second@example.com")

	booked, err := s.Book(first.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "09:00 AM", Reason: "checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, booked.Status)

	_, err = s.Book(second.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "09:00 AM", Reason: "checkup",
	})
	require.True(t, errors.Is(err, ErrSlotTaken))

	_, err = s.Cancel(booked.ID, "can't make it", first.UserID)
	require.NoError(t, err)

	slots, err := s.AvailableSlots(doctor.ID, "2024-06-01")
	require.NoError(t, err)
	assert.Contains(t, slots, "09:00 AM")

	rebooked, err := s.Book(second.UserID, BookRequest{
		DoctorID: doctor.ID, Date: "2024-06-01", TimeSlot: "09:00 AM", Reason: "checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, second.ID, rebooked.PatientID)
}
