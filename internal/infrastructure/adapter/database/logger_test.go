package database

import (
	"context"
	"errors"
	"testing"
	"time"

	applogger "github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/time"
	mockcore "github.com/amirhossein-jamali/spin-rewards/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestExtractQueryType(t *testing.T) {
	assert.Equal(t, "SELECT", extractQueryType(`  select * from "users"`))
	assert.Equal(t, "INSERT", extractQueryType(`INSERT INTO "transaction_logs" ...`))
	assert.Equal(t, "UPDATE", extractQueryType(`UPDATE "users" SET ...`))
	assert.Equal(t, "", extractQueryType(`BEGIN`))
}

func TestExtractTableName(t *testing.T) {
	assert.Equal(t, "users", extractTableName(`SELECT * FROM "users" WHERE id = 1 FOR UPDATE`))
	assert.Equal(t, "letter_collections", extractTableName(`INSERT INTO letter_collections (user_id, letter, count) VALUES (1,'H',1)`))
	assert.Equal(t, "user_mission_progress", extractTableName(`UPDATE "user_mission_progress" SET claims_used = claims_used + 1`))
	assert.Equal(t, "", extractTableName(`SET LOCAL lock_timeout = '5000ms'`))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, ParseLogLevel("silent"))
	assert.Equal(t, logger.Error, ParseLogLevel("ERROR"))
	assert.Equal(t, logger.Warn, ParseLogLevel("warn"))
	assert.Equal(t, logger.Info, ParseLogLevel("debug"))
}

func TestDatabaseLogger_Trace(t *testing.T) {
	tp := timeprovider.NewManualTimeProvider(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	begin := tp.Now()
	ctx := applogger.WithRequestID(context.Background(), "req-1")
	fc := func() (string, int64) { return `SELECT * FROM "users"`, 1 }

	t.Run("error is logged with request id", func(t *testing.T) {
		coreLogger := mockcore.NewMockLogger(t)
		coreLogger.On("Error", "SQL Error", mock.MatchedBy(func(f map[string]any) bool {
			return f["request_id"] == "req-1" && f["table"] == "users" && f["error"] == "boom"
		})).Once()

		l := NewDatabaseLogger(coreLogger, tp, "warn", 200*time.Millisecond)
		l.Trace(ctx, begin, fc, errors.New("boom"))
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		coreLogger := mockcore.NewMockLogger(t)

		l := NewDatabaseLogger(coreLogger, tp, "warn", 200*time.Millisecond)
		l.Trace(ctx, begin, fc, gorm.ErrRecordNotFound)
	})

	t.Run("slow query warns", func(t *testing.T) {
		coreLogger := mockcore.NewMockLogger(t)
		coreLogger.On("Warn", "Slow SQL Query", mock.Anything).Once()

		slowTP := timeprovider.NewManualTimeProvider(begin)
		slowTP.Advance(time.Second)
		l := NewDatabaseLogger(coreLogger, slowTP, "warn", 200*time.Millisecond)
		l.Trace(ctx, begin, fc, nil)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		coreLogger := mockcore.NewMockLogger(t)

		l := NewDatabaseLogger(coreLogger, tp, "silent", 200*time.Millisecond)
		l.Trace(ctx, begin, fc, errors.New("boom"))
	})
}
