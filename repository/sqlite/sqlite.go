// Package sqlite persists extracted photo records between scans, so an
// unchanged photo is never decoded twice.
package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/marpio/photostat"
)

type Store struct {
	db *sqlx.DB
	sync.Mutex
}

func New(dbName string) *Store {
	dbInstance := sqlx.MustConnect("sqlite3", dbName)
	initScript := `
	CREATE TABLE IF NOT EXISTS photo (
		path text PRIMARY KEY,
		id text NOT NULL,
		filename text NOT NULL,
		file_size_bytes INTEGER NOT NULL,
		camera text NOT NULL,
		make text NOT NULL,
		lens text NOT NULL,
		aperture REAL,
		shutter_speed REAL,
		iso REAL,
		focal_length REAL,
		focal_length_35mm REAL,
		exposure_bias REAL,
		flash text NOT NULL,
		metering_mode text NOT NULL,
		white_balance text NOT NULL,
		latitude REAL,
		longitude REAL,
		altitude REAL,
		taken_at DATETIME,
		taken_month text NOT NULL,
		mod_time DATETIME NOT NULL);`
	dbInstance.MustExec(initScript)
	return &Store{db: dbInstance}
}

func (datastore *Store) Close() error {
	return datastore.db.Close()
}

const photoColumns = "path, id, filename, file_size_bytes, camera, make, lens, aperture, shutter_speed, iso, focal_length, focal_length_35mm, exposure_bias, flash, metering_mode, white_balance, latitude, longitude, altitude, taken_at, taken_month, mod_time"

type photoRow struct {
	Path          string     `db:"path"`
	ID            string     `db:"id"`
	Filename      string     `db:"filename"`
	SizeBytes     int64      `db:"file_size_bytes"`
	Camera        string     `db:"camera"`
	CameraMake    string     `db:"make"`
	Lens          string     `db:"lens"`
	Aperture      *float64   `db:"aperture"`
	ShutterSpeed  *float64   `db:"shutter_speed"`
	ISO           *float64   `db:"iso"`
	FocalLength   *float64   `db:"focal_length"`
	FocalLength35 *float64   `db:"focal_length_35mm"`
	ExposureBias  *float64   `db:"exposure_bias"`
	Flash         string     `db:"flash"`
	MeteringMode  string     `db:"metering_mode"`
	WhiteBalance  string     `db:"white_balance"`
	Latitude      *float64   `db:"latitude"`
	Longitude     *float64   `db:"longitude"`
	Altitude      *float64   `db:"altitude"`
	TakenAt       *time.Time `db:"taken_at"`
	TakenMonth    string     `db:"taken_month"`
	ModTime       time.Time  `db:"mod_time"`
}

func toRow(r photostat.Record) photoRow {
	return photoRow{
		Path:          r.Path,
		ID:            r.ID,
		Filename:      r.Filename,
		SizeBytes:     r.SizeBytes,
		Camera:        r.Camera,
		CameraMake:    r.Make,
		Lens:          r.Lens,
		Aperture:      r.Aperture,
		ShutterSpeed:  r.ShutterSpeed,
		ISO:           r.ISO,
		FocalLength:   r.FocalLength,
		FocalLength35: r.FocalLength35,
		ExposureBias:  r.ExposureBias,
		Flash:         r.Flash,
		MeteringMode:  r.MeteringMode,
		WhiteBalance:  r.WhiteBalance,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		Altitude:      r.Altitude,
		TakenAt:       r.TakenAt,
		TakenMonth:    r.Dir(),
		ModTime:       r.ModTime,
	}
}

func toRecord(row photoRow) photostat.Record {
	return photostat.Record{
		Path:          row.Path,
		ID:            row.ID,
		Filename:      row.Filename,
		SizeBytes:     row.SizeBytes,
		Camera:        row.Camera,
		Make:          row.CameraMake,
		Lens:          row.Lens,
		Aperture:      row.Aperture,
		ShutterSpeed:  row.ShutterSpeed,
		ISO:           row.ISO,
		FocalLength:   row.FocalLength,
		FocalLength35: row.FocalLength35,
		ExposureBias:  row.ExposureBias,
		Flash:         row.Flash,
		MeteringMode:  row.MeteringMode,
		WhiteBalance:  row.WhiteBalance,
		Latitude:      row.Latitude,
		Longitude:     row.Longitude,
		Altitude:      row.Altitude,
		TakenAt:       row.TakenAt,
		ModTime:       row.ModTime,
	}
}

func toRecords(rows []photoRow) []photostat.Record {
	out := make([]photostat.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRecord(row))
	}
	return out
}

// Add upserts by path, so rescanning a directory refreshes changed
// photos in place.
func (datastore *Store) Add(r photostat.Record) error {
	datastore.Lock()
	defer datastore.Unlock()
	row := toRow(r)
	_, err := datastore.db.NamedExec("INSERT OR REPLACE INTO photo ("+photoColumns+") VALUES (:path, :id, :filename, :file_size_bytes, :camera, :make, :lens, :aperture, :shutter_speed, :iso, :focal_length, :focal_length_35mm, :exposure_bias, :flash, :metering_mode, :white_balance, :latitude, :longitude, :altitude, :taken_at, :taken_month, :mod_time)", row)
	return err
}

func (datastore *Store) DeleteByPath(path string) error {
	datastore.Lock()
	defer datastore.Unlock()
	_, err := datastore.db.Exec("DELETE FROM photo WHERE path=$1", path)
	return err
}

func (datastore *Store) GetAll() ([]photostat.Record, error) {
	var rows = []photoRow{}
	if err := datastore.db.Select(&rows, "SELECT "+photoColumns+" FROM photo ORDER BY path;"); err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func (datastore *Store) GetByPath(path string) (*photostat.Record, error) {
	var row photoRow
	if err := datastore.db.Get(&row, "SELECT "+photoColumns+" FROM photo WHERE path=$1 LIMIT 1;", path); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	r := toRecord(row)
	return &r, nil
}

func (datastore *Store) GetByID(id string) (*photostat.Record, error) {
	var row photoRow
	if err := datastore.db.Get(&row, "SELECT "+photoColumns+" FROM photo WHERE id=$1 LIMIT 1;", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	r := toRecord(row)
	return &r, nil
}

func (datastore *Store) GetByDir(dir string) ([]photostat.Record, error) {
	var rows = []photoRow{}
	if err := datastore.db.Select(&rows, "SELECT "+photoColumns+" FROM photo WHERE taken_month=$1 ORDER BY taken_at, path;", dir); err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

// GetDirs lists the capture months with photos, newest first.
func (datastore *Store) GetDirs() ([]string, error) {
	var res = []string{}
	if err := datastore.db.Select(&res, "SELECT DISTINCT taken_month FROM photo ORDER BY taken_month DESC;"); err != nil {
		return nil, err
	}
	return res, nil
}

func (datastore *Store) Count() (int, error) {
	var n int
	if err := datastore.db.Get(&n, "SELECT COUNT(*) FROM photo;"); err != nil {
		return 0, err
	}
	return n, nil
}

// Reload revalidates the connection. SQLite reads always see the file
// as it is on disk, so there is nothing to refresh beyond the handle.
func (datastore *Store) Reload(ctx context.Context) error {
	return datastore.db.PingContext(ctx)
}
