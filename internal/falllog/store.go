// Package falllog persists every rider fall in a size-capped SQLite
// database for offline tuning analysis.
package falllog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/edgeabyss/ridersim/internal/events"
	"github.com/edgeabyss/ridersim/internal/telemetry"

	_ "modernc.org/sqlite"
)

const (
	maxStoreBytes  int64   = 256 << 20 // 256 MiB
	evictPct       float64 = 0.10      // evict oldest 10% of rows
	vacuumInterval         = 10        // incremental vacuum every N evictions

	recordBuf = 512
)

// Store persists fall records FIFO in SQLite, capped at maxStoreBytes.
// Oldest rows are evicted when the budget is exceeded.
type Store struct {
	db           *sql.DB
	mu           sync.Mutex
	cachedSize   int64
	rowCount     int64
	evictCounter int

	jobs chan events.Event
	done chan struct{}
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create fall log dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	var avMode int
	if err := db.QueryRow(`PRAGMA auto_vacuum`).Scan(&avMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("read auto_vacuum: %w", err)
	}
	if avMode != 2 {
		if _, err := db.Exec(`PRAGMA auto_vacuum = INCREMENTAL`); err != nil {
			db.Close()
			return nil, fmt.Errorf("set auto_vacuum: %w", err)
		}
		if _, err := db.Exec(`VACUUM`); err != nil {
			telemetry.Warnf("fall log: VACUUM to enable auto_vacuum failed: %v", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init fall log schema: %w", err)
	}

	var size int64
	db.QueryRow(`SELECT COALESCE(page_count * page_size, 0) FROM pragma_page_count(), pragma_page_size()`).Scan(&size)
	var rowCount int64
	db.QueryRow(`SELECT COUNT(*) FROM falls`).Scan(&rowCount)

	s := &Store{
		db:         db,
		cachedSize: size,
		rowCount:   rowCount,
		jobs:       make(chan events.Event, recordBuf),
		done:       make(chan struct{}),
	}
	go s.writer()

	telemetry.Infof("fall log: opened %s  size=%d  rows=%d", path, size, rowCount)
	return s, nil
}

const schema = `CREATE TABLE IF NOT EXISTS falls (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT    NOT NULL,
	course      TEXT    NOT NULL,
	kind        TEXT    NOT NULL,
	reason      TEXT    NOT NULL,
	cause       TEXT    NOT NULL DEFAULT '',
	stability   REAL    NOT NULL,
	speed       REAL    NOT NULL,
	lean        REAL    NOT NULL,
	x           REAL    NOT NULL,
	y           REAL    NOT NULL,
	z           REAL    NOT NULL,
	occurred_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_falls_course ON falls(course);
CREATE INDEX IF NOT EXISTS idx_falls_reason ON falls(reason);`

// Attach subscribes the store to fall events on the bus. The bus handler
// only enqueues — inserts happen on the store's writer goroutine so a slow
// disk never stalls a simulation tick.
func (s *Store) Attach(bus *events.Bus) {
	bus.Subscribe(events.EventRiderFall, func(evt events.Event) error {
		select {
		case s.jobs <- evt:
		default:
			telemetry.Metrics.FallLogErrors.Inc()
			telemetry.Warnf("fall log: queue full, dropping record for session %s", evt.SessionID)
		}
		return nil
	})
}

func (s *Store) writer() {
	defer close(s.done)
	for evt := range s.jobs {
		if err := s.Record(evt); err != nil {
			telemetry.Metrics.FallLogErrors.Inc()
			telemetry.Warnf("fall log: %v", err)
		}
	}
}

// Record inserts one fall event synchronously.
func (s *Store) Record(evt events.Event) error {
	fall, ok := evt.Payload.(events.RiderFallEvent)
	if !ok {
		return fmt.Errorf("record: payload type %T is not a fall", evt.Payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO falls (session_id, course, kind, reason, cause, stability, speed, lean, x, y, z, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.SessionID, evt.Course, string(evt.Kind),
		fall.Reason, fall.Cause, fall.Stability, fall.Speed, fall.Lean,
		fall.X, fall.Y, fall.Z,
		evt.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert fall: %w", err)
	}
	s.rowCount++

	return s.enforceBudget()
}

// enforceBudget evicts the oldest rows once the database exceeds the size
// cap. Called with s.mu held.
func (s *Store) enforceBudget() error {
	if err := s.db.QueryRow(
		`SELECT COALESCE(page_count * page_size, 0) FROM pragma_page_count(), pragma_page_size()`,
	).Scan(&s.cachedSize); err != nil {
		return fmt.Errorf("read db size: %w", err)
	}
	if s.cachedSize <= maxStoreBytes {
		return nil
	}

	evict := int64(float64(s.rowCount) * evictPct)
	if evict < 1 {
		evict = 1
	}
	if _, err := s.db.Exec(
		`DELETE FROM falls WHERE id IN (SELECT id FROM falls ORDER BY id ASC LIMIT ?)`, evict,
	); err != nil {
		return fmt.Errorf("evict: %w", err)
	}
	s.rowCount -= evict
	s.evictCounter++

	if s.evictCounter%vacuumInterval == 0 {
		if _, err := s.db.Exec(`PRAGMA incremental_vacuum`); err != nil {
			telemetry.Warnf("fall log: incremental vacuum failed: %v", err)
		}
	}
	telemetry.Infof("fall log: evicted %d oldest rows (size=%d)", evict, s.cachedSize)
	return nil
}

// Close drains pending records and closes the database.
func (s *Store) Close() error {
	close(s.jobs)
	<-s.done
	return s.db.Close()
}

func (s *Store) Rows() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowCount
}

func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cachedSize
}
