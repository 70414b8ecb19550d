package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func registerDBMetrics(db *sql.DB, logger logrus.FieldLogger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "saved_scenarios",
			Help: "Saved scenario definitions",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM scenarios")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "leads_stored",
			Help: "Stored lead submissions",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM leads")
		},
	))
}

func queryCount(db *sql.DB, logger logrus.FieldLogger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.WithError(err).Warn("metrics query failed")
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
