package influxdb

import (
	"context"
	"time"

	influxdb "github.com/influxdata/influxdb/client/v2"
)

// MetricPoint represents a single row in a batch of measurements
type MetricPoint struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]interface{}
	Timestamp   time.Time
}

// Store provides access to an influxdb database for reading and writing metrics
type Store interface {
	Database() string
	GetClient() influxdb.Client
	Ping(context.Context, time.Duration) error
	ReadMetrics(context.Context, string) (*influxdb.Response, error)
	WriteMetrics(context.Context, string, map[string]string, map[string]interface{}) error
	WriteBatch(context.Context, []MetricPoint) error
}

var _ Store = &influxDB{}

type influxDB struct {
	config   influxdb.HTTPConfig
	client   influxdb.Client
	database string
	mapper   func(string, map[string]string) (string, map[string]string)
}

func defaultInfluxDB() *influxDB {
	return &influxDB{
		config: influxdb.HTTPConfig{
			Addr:               "http://localhost:8086",
			Username:           "admin",
			InsecureSkipVerify: true,
		},
		database: "refmat",
	}
}

// NewStore builds an influxdb client wrapped as a Store, with some options
func NewStore(opts ...StoreOption) (Store, error) {
	db := defaultInfluxDB()
	for _, apply := range opts {
		apply(db)
	}
	c, err := influxdb.NewHTTPClient(db.config)
	if err != nil {
		return nil, err
	}
	db.client = c
	return db, nil
}

func (db *influxDB) GetClient() influxdb.Client {
	return db.client
}

func (db *influxDB) Database() string {
	return db.database
}

func (db *influxDB) Ping(_ context.Context, timeout time.Duration) error {
	_, _, err := db.client.Ping(timeout)
	return err
}

// WriteMetrics posts a single measurement, stamped with the current time
func (db *influxDB) WriteMetrics(ctx context.Context, measurement string, tags map[string]string, fields map[string]interface{}) error {
	return db.WriteBatch(ctx, []MetricPoint{
		{
			Measurement: measurement,
			Tags:        tags,
			Fields:      fields,
			Timestamp:   time.Now(),
		},
	})
}

// ReadMetrics runs a raw query against the metrics database
func (db *influxDB) ReadMetrics(_ context.Context, query string) (*influxdb.Response, error) {
	q := influxdb.Query{
		Command:  query,
		Database: db.database,
	}
	resp, err := db.client.Query(q)
	if err != nil {
		return nil, err
	}
	if resp.Error() != nil {
		return nil, resp.Error()
	}
	return resp, nil
}

// WriteBatch posts a batch of measurements in a single write, applying the
// name mapper to every point when one is configured
func (db *influxDB) WriteBatch(_ context.Context, points []MetricPoint) error {
	bp, err := influxdb.NewBatchPoints(influxdb.BatchPointsConfig{
		Database:  db.database,
		Precision: "s",
	})
	if err != nil {
		return err
	}
	for _, point := range points {
		if db.mapper != nil {
			point.Measurement, point.Tags = db.mapper(point.Measurement, point.Tags)
		}

		pt, err := influxdb.NewPoint(point.Measurement, point.Tags, point.Fields, point.Timestamp)
		if err != nil {
			return err
		}
		bp.AddPoint(pt)
	}
	return db.client.Write(bp)
}
