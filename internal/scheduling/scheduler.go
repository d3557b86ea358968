package scheduling

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medbook-server/internal/models"
)

// Scheduler owns appointment creation, rescheduling and status changes,
// and derives slot availability. All operations return either the
// affected appointment or one of the sentinel errors in errors.go.
type Scheduler struct {
	db    *gorm.DB
	locks *slotLocks
	log   zerolog.Logger
}

// NewScheduler creates a Scheduler on an already-open store handle.
func NewScheduler(db *gorm.DB, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		db:    db,
		locks: newSlotLocks(),
		log:   log,
	}
}

// BookRequest carries the booking fields a patient submits.
type BookRequest struct {
	DoctorID string
	Date     string
	TimeSlot string
	Duration int
	Type     string
	Method   string
	Reason   string
	Symptoms string
}

// AvailableSlots returns the bookable slots for a doctor on a date: the
// full grid minus slots held by non-cancelled appointments, in grid
// order. A day with no appointments returns the whole grid.
func (s *Scheduler) AvailableSlots(doctorID, date string) ([]string, error) {
	if _, err := normalizeDate(date); err != nil {
		return nil, ErrInvalidDate
	}
	if err := s.doctorExists(doctorID); err != nil {
		return nil, err
	}

	var booked []string
	err := s.db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND status <> ?",
			doctorID, date, models.StatusCancelled).
		Pluck("time_slot", &booked).Error
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	available := make([]string, 0, len(slotGrid))
	for _, slot := range slotGrid {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}

// Book creates a PENDING appointment for the caller's patient profile.
// The caller must have a patient profile; doctors and admins cannot book
// as themselves.
func (s *Scheduler) Book(callerUserID string, req BookRequest) (*models.Appointment, error) {
	var patient models.Patient
	if err := s.db.Where("user_id = ?", callerUserID).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientProfileNotFound
		}
		return nil, err
	}

	if err := s.doctorExists(req.DoctorID); err != nil {
		return nil, err
	}
	date, err := normalizeDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !ValidSlot(req.TimeSlot) {
		return nil, ErrUnknownSlot
	}

	duration := req.Duration
	if duration <= 0 {
		duration = 30
	}

	appointment := &models.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       patient.ID,
		AppointmentDate: date,
		TimeSlot:        req.TimeSlot,
		Duration:        duration,
		Type:            req.Type,
		Method:          req.Method,
		Status:          models.StatusPending,
		Reason:          req.Reason,
		Symptoms:        req.Symptoms,
	}

	// Conflict check and insert must run as a unit; the per-key lock
	// keeps a concurrent booking for the same slot from slipping
	// between them.
	unlock := s.locks.acquire(slotKey(req.DoctorID, date, req.TimeSlot))
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		taken, err := slotOccupied(tx, req.DoctorID, date, req.TimeSlot, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		return tx.Create(appointment).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointmentId", appointment.ID).
		Str("doctorId", appointment.DoctorID).
		Str("date", appointment.AppointmentDate).
		Str("slot", appointment.TimeSlot).
		Msg("appointment booked")

	return appointment, nil
}

// Reschedule moves an appointment to a new date/slot, re-running the
// conflict check against the same doctor while excluding the appointment
// itself, so a no-op reschedule never conflicts with its own slot.
// Status is left untouched.
func (s *Scheduler) Reschedule(appointmentID, newDate, newSlot, newReason string) (*models.Appointment, error) {
	appointment, err := s.load(appointmentID)
	if err != nil {
		return nil, err
	}

	date, err := normalizeDate(newDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !ValidSlot(newSlot) {
		return nil, ErrUnknownSlot
	}

	keyChanged := date != appointment.AppointmentDate || newSlot != appointment.TimeSlot

	apply := func(tx *gorm.DB) error {
		if keyChanged {
			taken, err := slotOccupied(tx, appointment.DoctorID, date, newSlot, appointment.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrSlotTaken
			}
		}
		appointment.AppointmentDate = date
		appointment.TimeSlot = newSlot
		if newReason != "" {
			appointment.Reason = newReason
		}
		return tx.Save(appointment).Error
	}

	if keyChanged {
		unlock := s.locks.acquire(slotKey(appointment.DoctorID, date, newSlot))
		defer unlock()
	}

	if err := s.db.Transaction(apply); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointmentId", appointment.ID).
		Str("date", appointment.AppointmentDate).
		Str("slot", appointment.TimeSlot).
		Msg("appointment rescheduled")

	return appointment, nil
}

// SetStatus overwrites the appointment status. Any status may follow any
// other; only membership in the enum is validated.
func (s *Scheduler) SetStatus(appointmentID string, status models.AppointmentStatus) (*models.Appointment, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	appointment, err := s.load(appointmentID)
	if err != nil {
		return nil, err
	}

	appointment.Status = status
	if err := s.db.Save(appointment).Error; err != nil {
		return nil, err
	}
	return appointment, nil
}

// Cancel sets the status to CANCELLED and stamps the cancellation
// metadata. The slot is freed implicitly: availability and conflict
// queries ignore cancelled appointments.
func (s *Scheduler) Cancel(appointmentID, reason, cancelledBy string) (*models.Appointment, error) {
	appointment, err := s.load(appointmentID)
	if err != nil {
		return nil, err
	}

	appointment.Status = models.StatusCancelled
	appointment.CancellationReason = reason
	appointment.CancelledBy = cancelledBy
	if err := s.db.Save(appointment).Error; err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointmentId", appointment.ID).
		Str("cancelledBy", cancelledBy).
		Msg("appointment cancelled")

	return appointment, nil
}

// Get loads a single appointment by id.
func (s *Scheduler) Get(appointmentID string) (*models.Appointment, error) {
	return s.load(appointmentID)
}

func (s *Scheduler) load(appointmentID string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.db.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func (s *Scheduler) doctorExists(doctorID string) error {
	var count int64
	if err := s.db.Model(&models.Doctor{}).Where("id = ?", doctorID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

// slotOccupied reports whether a non-cancelled appointment other than
// excludeID holds (doctorID, date, slot).
func slotOccupied(tx *gorm.DB, doctorID, date, slot, excludeID string) (bool, error) {
	query := tx.Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND time_slot = ? AND status <> ?",
			doctorID, date, slot, models.StatusCancelled)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func normalizeDate(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}
