package testutils

import (
	"tagdo/tagdo/database"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupMockDB opens a postgres-dialect handle over sqlmock for exercising
// failure paths. Call the returned func to release the connection.
func SetupMockDB() (*database.Database, sqlmock.Sqlmock, func()) {
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		panic(err)
	}

	db, err := database.Open(postgres.New(postgres.Config{
		DSN:                  "sqlmock_tagdo",
		DriverName:           "postgres",
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		conn.Close()
		panic(err)
	}

	return db, mock, func() { conn.Close() }
}
