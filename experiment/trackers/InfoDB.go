package trackers

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samuelfneumann/gometaworld/timestep"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS steps (
	run_id          TEXT NOT NULL,
	episode         INTEGER NOT NULL,
	step            INTEGER NOT NULL,
	reward          REAL NOT NULL,
	success         INTEGER NOT NULL,
	near_object     REAL NOT NULL,
	grasp_success   INTEGER NOT NULL,
	grasp_reward    REAL NOT NULL,
	in_place_reward REAL NOT NULL,
	obj_to_target   REAL NOT NULL,
	unscaled_reward REAL NOT NULL,
	created_at      TEXT NOT NULL,
	PRIMARY KEY (run_id, episode, step)
);
`

// InfoDB tracks the reward diagnostics of every step of an experiment
// in a SQLite database. Each InfoDB tags its rows with a new run ID so
// that many runs may share a database.
//
// Rows are written as steps are tracked. Track cannot return errors,
// so the first error encountered is kept and returned by Save, and no
// further rows are written.
type InfoDB struct {
	db      *sql.DB
	runID   string
	episode int
	err     error
}

// NewInfoDB opens, and creates if needed, the SQLite database at path
func NewInfoDB(path string) (*InfoDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("newInfoDB: open db: %w", err)
	}
	// In-memory databases are private to a connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("newInfoDB: migrate: %w", err)
	}

	return &InfoDB{db: db, runID: uuid.New().String(), episode: -1}, nil
}

// RunID returns the ID the rows of this InfoDB are tagged with
func (d *InfoDB) RunID() string {
	return d.runID
}

// DB returns the underlying *sql.DB
func (d *InfoDB) DB() *sql.DB {
	return d.db
}

// Track writes the diagnostics of t. First timesteps start a new
// episode and carry no diagnostics, so they are not written.
func (d *InfoDB) Track(t timestep.TimeStep) {
	if t.First() {
		d.episode++
		return
	}
	if d.err != nil {
		return
	}
	if d.episode < 0 {
		d.err = fmt.Errorf("track: timestep %v tracked before the first "+
			"timestep of an episode", t.Number)
		return
	}

	info := t.Info
	_, err := d.db.Exec(
		`INSERT INTO steps (run_id, episode, step, reward, success,
			near_object, grasp_success, grasp_reward, in_place_reward,
			obj_to_target, unscaled_reward, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.runID, d.episode, t.Number, t.Reward, info.Success,
		info.NearObject, info.GraspSuccess, info.GraspReward,
		info.InPlaceReward, info.ObjToTarget, info.UnscaledReward,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		d.err = fmt.Errorf("track: insert step: %w", err)
	}
}

// EpisodeSuccess returns, for each episode of the run tracked so far,
// whether any of its steps succeeded
func (d *InfoDB) EpisodeSuccess() ([]bool, error) {
	rows, err := d.db.Query(
		`SELECT episode, MAX(success) FROM steps WHERE run_id = ?
		 GROUP BY episode ORDER BY episode`, d.runID)
	if err != nil {
		return nil, fmt.Errorf("episodeSuccess: query: %w", err)
	}
	defer rows.Close()

	var successes []bool
	for rows.Next() {
		var episode int
		var success bool
		if err := rows.Scan(&episode, &success); err != nil {
			return nil, fmt.Errorf("episodeSuccess: scan: %w", err)
		}
		successes = append(successes, success)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("episodeSuccess: %w", err)
	}
	return successes, nil
}

// Save returns the first error encountered while tracking, if any, and
// closes the database.
func (d *InfoDB) Save() error {
	if err := d.db.Close(); err != nil && d.err == nil {
		return fmt.Errorf("save: close db: %w", err)
	}
	return d.err
}
