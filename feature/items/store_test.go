package items

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestStore_QueryErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gormDB, err := gorm.Open(mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := NewStore(gormDB)
	ctx := context.Background()
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT (.+) FROM `items` WHERE list_id").WillReturnError(boom)
	_, err = store.ForList(ctx, "l1")
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery("SELECT (.+) FROM `items` WHERE id").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `items` SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	_, err = store.Update(ctx, "missing", map[string]any{"picked": true}, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `items` WHERE list_id").WillReturnError(boom)
	mock.ExpectRollback()
	_, err = store.DeleteAll(ctx, "l1")
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}
