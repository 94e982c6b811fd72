package pulses

import (
	"fmt"

	sqlx "github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ClusterStore keeps the cluster count of every processed event in a SQLite
// database, one row per event.
type ClusterStore struct {
	db *sqlx.DB
}

type ClusterCountEntry struct {
	EventID    int64   `db:"event_id"`
	NumSensors int     `db:"n_sensors"`
	NumCluster int     `db:"n_clusters"`
	Threshold  float64 `db:"threshold"`
	Criterion  string  `db:"criterion"`
	Method     string  `db:"method"`
}

const createClusterCounts = `
CREATE TABLE IF NOT EXISTS cluster_counts (
    event_id   INTEGER PRIMARY KEY,
    n_sensors  INTEGER NOT NULL,
    n_clusters INTEGER NOT NULL,
    threshold  REAL NOT NULL,
    criterion  TEXT NOT NULL,
    method     TEXT NOT NULL
);`

const upsertClusterCount = `
INSERT INTO cluster_counts (event_id, n_sensors, n_clusters, threshold, criterion, method)
VALUES (:event_id, :n_sensors, :n_clusters, :threshold, :criterion, :method)
ON CONFLICT(event_id) DO UPDATE SET
    n_sensors  = excluded.n_sensors,
    n_clusters = excluded.n_clusters,
    threshold  = excluded.threshold,
    criterion  = excluded.criterion,
    method     = excluded.method;`

func OpenClusterStore(dataSourceName string) (*ClusterStore, error) {
	db, err := sqlx.Connect("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %w", err)
	}
	return NewClusterStore(db)
}

// NewClusterStore creates the cluster_counts table if needed.
func NewClusterStore(db *sqlx.DB) (*ClusterStore, error) {
	if _, err := db.Exec(createClusterCounts); err != nil {
		return nil, fmt.Errorf("error creating cluster_counts table: %w", err)
	}
	return &ClusterStore{db: db}, nil
}

func (s *ClusterStore) Save(results []ClusterResult, opts ClusterOptions) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	for _, r := range results {
		entry := ClusterCountEntry{
			EventID:    r.EventID,
			NumSensors: r.NumSensors,
			NumCluster: r.NumClusters,
			Threshold:  opts.Threshold,
			Criterion:  opts.Criterion.String(),
			Method:     opts.Method.String(),
		}
		if _, err := tx.NamedExec(upsertClusterCount, entry); err != nil {
			tx.Rollback()
			return fmt.Errorf("error saving event %d: %w", r.EventID, err)
		}
	}
	return tx.Commit()
}

func (s *ClusterStore) Get(eventID int64) (ClusterCountEntry, error) {
	var entry ClusterCountEntry
	err := s.db.Get(&entry, "SELECT * FROM cluster_counts WHERE event_id = ?", eventID)
	return entry, err
}

func (s *ClusterStore) All() ([]ClusterCountEntry, error) {
	entries := make([]ClusterCountEntry, 0)
	err := s.db.Select(&entries, "SELECT * FROM cluster_counts ORDER BY event_id")
	return entries, err
}

func (s *ClusterStore) Close() error {
	return s.db.Close()
}
