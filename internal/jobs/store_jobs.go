package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const jobColumns = `id, request_id, source_path, source_name, target_language,
source_language_hint, voice_kind, voice, speed_factor, status, stage,
error_message, original_text, translated_text, detected_language,
original_duration, final_duration, output_path, created_at, updated_at`

// Create inserts a new pending job and returns the stored row.
func (s *Store) Create(ctx context.Context, job *Job) (*Job, error) {
	if job == nil {
		return nil, errors.New("job is nil")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if job.Status == "" {
		job.Status = StatusPending
	}
	if job.SpeedFactor == 0 {
		job.SpeedFactor = 1.0
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO jobs (
            request_id, source_path, source_name, target_language,
            source_language_hint, voice_kind, voice, speed_factor,
            status, stage, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.RequestID,
		job.SourcePath,
		job.SourceName,
		job.TargetLanguage,
		job.SourceLanguageHint,
		string(job.VoiceKind),
		job.Voice,
		job.SpeedFactor,
		string(job.Status),
		job.Stage,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a job by row identifier. A missing job returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// GetByRequestID fetches a job by its public request identifier.
func (s *Store) GetByRequestID(ctx context.Context, requestID string) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM jobs WHERE request_id = ?`, requestID)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job by request id: %w", err)
	}
	return job, nil
}

// List returns all jobs, newest first.
func (s *Store) List(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM jobs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var result []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		result = append(result, job)
	}
	return result, rows.Err()
}

// Update persists changes to an existing job.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	job.UpdatedAt = time.Now().UTC()

	_, err := s.execWithRetry(
		ctx,
		`UPDATE jobs SET
            status = ?, stage = ?, error_message = ?,
            original_text = ?, translated_text = ?, detected_language = ?,
            original_duration = ?, final_duration = ?, output_path = ?,
            updated_at = ?
        WHERE id = ?`,
		string(job.Status),
		job.Stage,
		job.ErrorMessage,
		job.OriginalText,
		job.TranslatedText,
		job.DetectedLanguage,
		job.OriginalDuration,
		job.FinalDuration,
		job.OutputPath,
		job.UpdatedAt.Format(time.RFC3339Nano),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// ClaimNextPending atomically moves the oldest pending job into the
// extracting status and returns it. Returns (nil, nil) when nothing is
// pending.
func (s *Store) ClaimNextPending(ctx context.Context) (*Job, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id FROM jobs WHERE status = ? ORDER BY id LIMIT 1`, string(StatusPending))
	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find pending job: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(ctx,
		`UPDATE jobs SET status = ?, stage = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(StatusExtracting), "extracting", now, id, string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("claim job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("claim job: %w", err)
	}
	if affected == 0 {
		// Another worker won the race.
		return nil, nil
	}
	return s.GetByID(ctx, id)
}

// FailInFlight marks every mid-pipeline job as failed. Called on startup and
// shutdown because pipeline runs do not survive a daemon restart.
func (s *Store) FailInFlight(ctx context.Context, reason string) (int64, error) {
	if reason == "" {
		reason = DaemonStopReason
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	statuses := make([]any, 0, len(processingStatuses)+3)
	placeholders := make([]string, 0, len(processingStatuses))
	for status := range processingStatuses {
		statuses = append(statuses, string(status))
		placeholders = append(placeholders, "?")
	}
	args := append([]any{string(StatusFailed), reason, now}, statuses...)

	res, err := s.execWithRetry(ctx,
		`UPDATE jobs SET status = ?, error_message = ?, updated_at = ?
         WHERE status IN (`+joinPlaceholders(placeholders)+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("fail in-flight jobs: %w", err)
	}
	return res.RowsAffected()
}

// CountByStatus returns job counts keyed by status.
func (s *Store) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT status, COUNT(1) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}

func joinPlaceholders(placeholders []string) string {
	out := ""
	for i, p := range placeholders {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job        Job
		voiceKind  string
		status     string
		createdRaw string
		updatedRaw string
	)
	if err := row.Scan(
		&job.ID,
		&job.RequestID,
		&job.SourcePath,
		&job.SourceName,
		&job.TargetLanguage,
		&job.SourceLanguageHint,
		&voiceKind,
		&job.Voice,
		&job.SpeedFactor,
		&status,
		&job.Stage,
		&job.ErrorMessage,
		&job.OriginalText,
		&job.TranslatedText,
		&job.DetectedLanguage,
		&job.OriginalDuration,
		&job.FinalDuration,
		&job.OutputPath,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	job.VoiceKind = VoiceKind(voiceKind)
	job.Status = Status(status)
	job.CreatedAt = parseTimestamp(createdRaw)
	job.UpdatedAt = parseTimestamp(updatedRaw)
	return &job, nil
}

func parseTimestamp(raw string) time.Time {
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts
	}
	return time.Time{}
}
