package falllog

import (
	"fmt"
	"time"
)

// FallRecord is one persisted fall, as returned by the query API.
type FallRecord struct {
	ID         int64
	SessionID  string
	Course     string
	Kind       string
	Reason     string
	Cause      string
	Stability  float64
	Speed      float64
	Lean       float64
	X, Y, Z    float64
	OccurredAt time.Time
}

// Recent returns up to limit falls, newest first.
func (s *Store) Recent(limit int) ([]FallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, session_id, course, kind, reason, cause, stability, speed, lean, x, y, z, occurred_at
		 FROM falls ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent falls: %w", err)
	}
	defer rows.Close()

	var out []FallRecord
	for rows.Next() {
		var r FallRecord
		var ts string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Course, &r.Kind, &r.Reason, &r.Cause,
			&r.Stability, &r.Speed, &r.Lean, &r.X, &r.Y, &r.Z, &ts); err != nil {
			return nil, fmt.Errorf("scan fall: %w", err)
		}
		r.OccurredAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountByReason returns total falls grouped by fall reason.
func (s *Store) CountByReason() (map[string]int64, error) {
	return s.countBy("reason")
}

// CountByCourse returns total falls grouped by course name.
func (s *Store) CountByCourse() (map[string]int64, error) {
	return s.countBy("course")
}

func (s *Store) countBy(col string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT ` + col + `, COUNT(*) FROM falls GROUP BY ` + col)
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", col, err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[key] = n
	}
	return out, rows.Err()
}
