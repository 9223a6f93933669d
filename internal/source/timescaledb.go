package source

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chrissnell/droughtindex/internal/log"
	"github.com/chrissnell/droughtindex/pkg/indices"
	"github.com/chrissnell/droughtindex/pkg/timeline"
)

const millimetersPerInch = 25.4

// monthlyTotalsSQL rolls the daily continuous aggregate up to months. Rain is
// recorded in inches and temperature in Fahrenheit.
const monthlyTotalsSQL = `
	SELECT
		EXTRACT(YEAR FROM bucket)::int AS year,
		EXTRACT(MONTH FROM bucket)::int AS month,
		SUM(period_rain) AS rain,
		AVG(outtemp) AS outtemp
	FROM weather_1d
	WHERE stationname = ?
	GROUP BY 1, 2
	ORDER BY 1, 2`

// monthlyRow is one row of monthlyTotalsSQL.
type monthlyRow struct {
	Year    int      `gorm:"column:year"`
	Month   int      `gorm:"column:month"`
	Rain    *float64 `gorm:"column:rain"`
	OutTemp *float64 `gorm:"column:outtemp"`
}

// TimescaleSource reads monthly totals for one station from a remoteweather
// TimescaleDB database.
type TimescaleSource struct {
	connectionString string
	station          string
	DB               *gorm.DB
	logger           *zap.SugaredLogger
}

func NewTimescaleSource(connectionString, station string, logger *zap.SugaredLogger) *TimescaleSource {
	return &TimescaleSource{
		connectionString: connectionString,
		station:          station,
		logger:           logger,
	}
}

// Connect opens the database with gorm's logger routed through zap.
func (t *TimescaleSource) Connect() error {
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	t.logger.Info("connecting to TimescaleDB...")
	db, err := gorm.Open(postgres.Open(t.connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return fmt.Errorf("unable to create a TimescaleDB connection: %w", err)
	}
	t.DB = db
	t.logger.Info("TimescaleDB connection successful")
	return nil
}

func (t *TimescaleSource) Name() string { return "timescaledb:" + t.station }

func (t *TimescaleSource) Close() error {
	if t.DB == nil {
		return nil
	}
	sqlDB, err := t.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (t *TimescaleSource) Load(ctx context.Context) (indices.Table, error) {
	if t.DB == nil {
		return nil, fmt.Errorf("timescaledb source is not connected")
	}

	var rows []monthlyRow
	if err := t.DB.WithContext(ctx).Raw(monthlyTotalsSQL, t.station).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no daily readings for station %q", t.station)
	}

	t.logger.Debugf("loaded %d months for station %s", len(rows), t.station)
	return indices.TableFromRecords(toRecords(rows)), nil
}

// toRecords converts rain to millimetres and temperature to Celsius.
func toRecords(rows []monthlyRow) []timeline.Record {
	records := make([]timeline.Record, len(rows))
	for i, r := range rows {
		rec := timeline.Record{
			Year:          r.Year,
			Month:         r.Month,
			Precipitation: math.NaN(),
			Temperature:   math.NaN(),
		}
		if r.Rain != nil {
			rec.Precipitation = *r.Rain * millimetersPerInch
		}
		if r.OutTemp != nil {
			rec.Temperature = (*r.OutTemp - 32) * 5 / 9
		}
		records[i] = rec
	}
	return records
}
