package access

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"medbook-server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))
	return db
}

func TestResolve(t *testing.T) {
	db := newTestDB(t)

	docUser := models.User{Email: "doc@example.com", Role: models.RoleDoctor}
	require.NoError(t, db.Create(&docUser).Error)
	doctor := models.Doctor{UserID: docUser.ID}
	require.NoError(t, db.Create(&doctor).Error)

	patUser := models.User{Email: "pat@example.com", Role: models.RolePatient}
	require.NoError(t, db.Create(&patUser).Error)
	patient := models.Patient{UserID: patUser.ID}
	require.NoError(t, db.Create(&patient).Error)

	adminUser := models.User{Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&adminUser).Error)

	identity, err := Resolve(db, docUser.ID, models.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, doctor.ID, identity.ProfileID)

	identity, err = Resolve(db, patUser.ID, models.RolePatient)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, identity.ProfileID)

	// Admins have no linked profile
	identity, err = Resolve(db, adminUser.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, identity.ProfileID)
	assert.True(t, identity.IsAdmin())

	// A patient user without a profile record
	orphan := models.User{Email: "orphan@example.com", Role: models.RolePatient}
	require.NoError(t, db.Create(&orphan).Error)
	_, err = Resolve(db, orphan.ID, models.RolePatient)
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestCanAccessAppointment(t *testing.T) {
	appointment := &models.Appointment{DoctorID: "doc-1", PatientID: "pat-1"}

	tests := []struct {
		name     string
		identity Identity
		want     bool
	}{
		{"booked patient", Identity{UserID: "u1", Role: models.RolePatient, ProfileID: "pat-1"}, true},
		{"other patient", Identity{UserID: "u2", Role: models.RolePatient, ProfileID: "pat-2"}, false},
		{"assigned doctor", Identity{UserID: "u3", Role: models.RoleDoctor, ProfileID: "doc-1"}, true},
		{"other doctor", Identity{UserID: "u4", Role: models.RoleDoctor, ProfileID: "doc-2"}, false},
		{"admin", Identity{UserID: "u5", Role: models.RoleAdmin}, true},
		{"patient without profile", Identity{UserID: "u6", Role: models.RolePatient}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessAppointment(tt.identity, appointment))
		})
	}
}

func TestCanAccessPrescription(t *testing.T) {
	prescription := &models.Prescription{DoctorID: "doc-1", PatientID: "pat-1"}

	assert.True(t, CanAccessPrescription(Identity{Role: models.RolePatient, ProfileID: "pat-1"}, prescription))
	assert.True(t, CanAccessPrescription(Identity{Role: models.RoleDoctor, ProfileID: "doc-1"}, prescription))
	assert.True(t, CanAccessPrescription(Identity{Role: models.RoleAdmin}, prescription))
	assert.False(t, CanAccessPrescription(Identity{Role: models.RolePatient, ProfileID: "pat-2"}, prescription))
	assert.False(t, CanAccessPrescription(Identity{Role: models.RoleDoctor, ProfileID: "doc-2"}, prescription))
}

func TestCanViewPatient(t *testing.T) {
	// A doctor sees a patient only when they treat them
	doctor := Identity{Role: models.RoleDoctor, ProfileID: "doc-1"}
	assert.True(t, CanViewPatient(doctor, "pat-1", true))
	assert.False(t, CanViewPatient(doctor, "pat-1", false))

	patient := Identity{Role: models.RolePatient, ProfileID: "pat-1"}
	assert.True(t, CanViewPatient(patient, "pat-1", false))
	assert.False(t, CanViewPatient(patient, "pat-2", false))

	assert.True(t, CanViewPatient(Identity{Role: models.RoleAdmin}, "pat-1", false))
}

func TestTreats(t *testing.T) {
	db := newTestDB(t)

	appointment := models.Appointment{
		DoctorID:        "doc-1",
		PatientID:       "pat-1",
		AppointmentDate: "2024-06-01",
		TimeSlot:        "09:00 AM",
		Status:          models.StatusPending,
	}
	require.NoError(t, db.Create(&appointment).Error)

	treats, err := Treats(db, "doc-1", "pat-1")
	require.NoError(t, err)
	assert.True(t, treats)

	treats, err = Treats(db, "doc-1", "pat-2")
	require.NoError(t, err)
	assert.False(t, treats)
}
