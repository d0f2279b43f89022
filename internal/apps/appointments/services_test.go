package appointments

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gdb, mock
}

func TestCheckTransition(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()

	appt := func(status string) *Appointment {
		return &Appointment{DoctorID: doctorID, PatientID: patientID, Status: status}
	}

	tests := []struct {
		name    string
		appt    *Appointment
		caller  uuid.UUID
		status  string
		wantErr error
	}{
		{"doctor accepts pending", appt(StatusPending), doctorID, StatusAccepted, nil},
		{"doctor rejects pending", appt(StatusPending), doctorID, StatusRejected, nil},
		{"patient cannot accept", appt(StatusPending), patientID, StatusAccepted, ErrForbiddenStatus},
		{"patient cannot reject", appt(StatusPending), patientID, StatusRejected, ErrForbiddenStatus},
		{"accept only from pending", appt(StatusRejected), doctorID, StatusAccepted, ErrInvalidTransition},
		{"patient cancels pending", appt(StatusPending), patientID, StatusCancelled, nil},
		{"doctor cancels accepted", appt(StatusAccepted), doctorID, StatusCancelled, nil},
		{"cancel after rejection refused", appt(StatusRejected), patientID, StatusCancelled, ErrInvalidTransition},
		{"cancel after cancel refused", appt(StatusCancelled), doctorID, StatusCancelled, ErrInvalidTransition},
		{"cannot move back to pending", appt(StatusAccepted), doctorID, StatusPending, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkTransition(tt.appt, tt.caller, tt.status)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBookValidation(t *testing.T) {
	svc := NewService(nil)

	t.Run("missing fields rejected", func(t *testing.T) {
		_, err := svc.Book(uuid.New(), BookRequest{DoctorID: "", Reason: "checkup"})
		assert.ErrorIs(t, err, ErrMissingFields)

		_, err = svc.Book(uuid.New(), BookRequest{DoctorID: uuid.NewString(), Reason: ""})
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("unparseable doctor id reads as unknown doctor", func(t *testing.T) {
		_, err := svc.Book(uuid.New(), BookRequest{DoctorID: "not-a-uuid", Reason: "checkup"})
		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	doctorID := uuid.New()
	patientID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE \(id = .* AND role = .*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role"}).
			AddRow(doctorID, "Dr. Gable", "Doctor"))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	appt, err := svc.Book(patientID, BookRequest{DoctorID: doctorID.String(), Reason: "persistent cough"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, doctorID, appt.DoctorID)
	assert.Equal(t, patientID, appt.PatientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookUnknownDoctor(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Book(uuid.New(), BookRequest{DoctorID: uuid.NewString(), Reason: "checkup"})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestListForDoctorScopesAndOrders(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	doctorID := uuid.New()
	patientID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "appointments" WHERE doctor_id = .* ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "patient_id", "reason", "status"}).
			AddRow(uuid.New(), doctorID, patientID, "back pain", StatusPending))
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE "users"\."id" = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role"}).
			AddRow(patientID, "Pat", "Patient"))

	appts, err := svc.ListForDoctor(doctorID)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "back pain", appts[0].Reason)
	assert.Equal(t, "Pat", appts[0].Patient.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAcceptedForPatientScopesToAcceptedStatus(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	doctorID := uuid.New()
	patientID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "appointments" WHERE patient_id = .* AND status = .* ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "patient_id", "reason", "status"}).
			AddRow(uuid.New(), doctorID, patientID, "follow-up", StatusAccepted))
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE "users"\."id" = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role"}).
			AddRow(doctorID, "Dr. Gable", "Doctor"))

	contacts, err := svc.ListAcceptedForPatient(patientID)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, doctorID, contacts[0].DoctorID)
	assert.Equal(t, "Dr. Gable", contacts[0].DoctorName)
	assert.Equal(t, "follow-up", contacts[0].Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	apptID := uuid.New()

	apptRows := func(status string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "doctor_id", "patient_id", "reason", "status"}).
			AddRow(apptID, doctorID, patientID, "checkup", status)
	}

	t.Run("doctor accepts a pending appointment", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewService(gdb)

		mock.ExpectQuery(`SELECT .* FROM "appointments" WHERE id = .*`).
			WillReturnRows(apptRows(StatusPending))
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "appointments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		appt, err := svc.UpdateStatus(doctorID, apptID, StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, StatusAccepted, appt.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stranger holding a valid token is refused", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewService(gdb)

		mock.ExpectQuery(`SELECT .* FROM "appointments" WHERE id = .*`).
			WillReturnRows(apptRows(StatusPending))

		_, err := svc.UpdateStatus(uuid.New(), apptID, StatusAccepted)
		assert.ErrorIs(t, err, ErrNotParticipant)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		svc := NewService(gdb)

		mock.ExpectQuery(`SELECT .* FROM "appointments" WHERE id = .*`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.UpdateStatus(doctorID, apptID, StatusAccepted)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown status string rejected before any query", func(t *testing.T) {
		svc := NewService(nil)
		_, err := svc.UpdateStatus(doctorID, apptID, "approved")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}
