package chat

import (
	"context"
	"testing"
	"time"

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

func TestStoreHistoryReadsRoomInTimestampOrder(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := NewStore(gdb, time.Second)

	room := RoomID("doc", "pat")
	earlier := time.Now().Add(-time.Hour)
	later := time.Now()

	mock.ExpectQuery(`SELECT .* FROM "chat_messages" WHERE room_id = .* ORDER BY timestamp ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "sender", "receiver", "message", "timestamp"}).
			AddRow(uuid.New(), room, "pat", "doc", "first", earlier).
			AddRow(uuid.New(), room, "doc", "pat", "second", later))

	msgs, err := store.History(context.Background(), room)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Message)
	assert.Equal(t, "second", msgs[1].Message)
	assert.True(t, msgs[0].Timestamp.Before(msgs[1].Timestamp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSavePersistsOneMessage(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := NewStore(gdb, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "chat_messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	msg := ChatMessage{
		ID:        uuid.New(),
		RoomID:    RoomID("doc", "pat"),
		Sender:    "pat",
		Receiver:  "doc",
		Message:   "are you there?",
		Timestamp: time.Now(),
	}
	require.NoError(t, store.Save(context.Background(), &msg))
	assert.NoError(t, mock.ExpectationsWereMet())
}
