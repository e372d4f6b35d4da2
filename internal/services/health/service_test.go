package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusWithoutDatabase(t *testing.T) {
	assert.Equal(t, Status{OK: true, Storage: "memory"}, NewService(nil).Status(context.Background()))
}

func TestStatusPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	assert.Equal(t, Status{OK: true, Storage: "postgres"}, NewService(db).Status(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	got := NewService(db).Status(context.Background())
	assert.False(t, got.OK)
	assert.Equal(t, "database unreachable", got.Error)
	require.NoError(t, mock.ExpectationsWereMet())
}
