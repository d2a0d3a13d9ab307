package dal

import (
	"time"
)

func (s *store) AddJob(job *Job) error {
	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.NextAttemptAt.IsZero() {
		job.NextAttemptAt = now
	}
	res, err := s.q.Exec(`INSERT INTO jobs (name, activity_id, attempts, next_attempt_at, created_at)
		VALUES (?, ?, ?, ?, ?)`, job.Name, job.ActivityId, job.Attempts, job.NextAttemptAt.UTC(), job.CreatedAt.UTC())
	if err != nil {
		return err
	}
	job.Id, err = res.LastInsertId()
	return err
}

// GetDueJobs returns up to maxCount jobs whose next attempt is not later than now, oldest first.
func (s *store) GetDueJobs(now time.Time, maxCount int) ([]*Job, error) {
	rows, err := s.q.Query(`SELECT id, name, activity_id, attempts, next_attempt_at, created_at FROM jobs
		WHERE next_attempt_at<=? ORDER BY next_attempt_at, id LIMIT ?`, now.UTC(), maxCount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []*Job{}
	for rows.Next() {
		var j Job
		if err = rows.Scan(&j.Id, &j.Name, &j.ActivityId, &j.Attempts, &j.NextAttemptAt, &j.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &j)
	}
	return res, rows.Err()
}

func (s *store) GetJobCount() (int, error) {
	row := s.q.QueryRow("SELECT COUNT(*) FROM jobs")
	var res int
	if err := row.Scan(&res); err != nil {
		return 0, err
	}
	return res, nil
}

func (s *store) RescheduleJob(id int64, attempts int, next time.Time) error {
	_, err := s.q.Exec("UPDATE jobs SET attempts=?, next_attempt_at=? WHERE id=?", attempts, next.UTC(), id)
	return err
}

func (s *store) DeleteJob(id int64) error {
	_, err := s.q.Exec("DELETE FROM jobs WHERE id=?", id)
	return err
}
