package backup

import (
	"database/sql"
	"fmt"
	"time"
)

type RecordStatus string

const (
	StatusPending   RecordStatus = "pending"
	StatusUploading RecordStatus = "uploading"
	StatusCompleted RecordStatus = "completed"
	StatusFailed    RecordStatus = "failed"
)

// Record is one row of backup history.
type Record struct {
	ID           int64        `json:"id"`
	Filename     string       `json:"filename"`
	S3Key        string       `json:"s3_key"`
	SizeBytes    int64        `json:"size_bytes"`
	Status       RecordStatus `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// History records backup attempts in the backups table.
type History struct {
	db *sql.DB
}

func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

func (h *History) Create(filename, s3Key string) (*Record, error) {
	now := time.Now().UTC()
	result, err := h.db.Exec(
		`INSERT INTO backups (filename, s3_key, status, started_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		filename, s3Key, StatusPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create backup record: %w", err)
	}
	id, _ := result.LastInsertId()
	return &Record{
		ID:        id,
		Filename:  filename,
		S3Key:     s3Key,
		Status:    StatusPending,
		StartedAt: &now,
		CreatedAt: now,
	}, nil
}

const recordCols = `id, filename, s3_key, size_bytes, status, error_message, started_at, completed_at, created_at`

func scanRecord(scanner interface{ Scan(...any) error }) (*Record, error) {
	var rec Record
	var errMsg sql.NullString
	var startedAt, completedAt sql.NullTime
	err := scanner.Scan(&rec.ID, &rec.Filename, &rec.S3Key, &rec.SizeBytes, &rec.Status,
		&errMsg, &startedAt, &completedAt, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.ErrorMessage = errMsg.String
	if startedAt.Valid {
		rec.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		rec.CompletedAt = &completedAt.Time
	}
	return &rec, nil
}

func (h *History) GetByID(id int64) (*Record, error) {
	row := h.db.QueryRow(`SELECT `+recordCols+` FROM backups WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get backup %d: %w", id, err)
	}
	return rec, nil
}

func (h *History) List(limit int) ([]Record, error) {
	rows, err := h.db.Query(`SELECT `+recordCols+` FROM backups ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backup: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (h *History) UpdateStatus(id int64, status RecordStatus, errorMsg string) error {
	var errPtr *string
	if errorMsg != "" {
		errPtr = &errorMsg
	}
	_, err := h.db.Exec(`UPDATE backups SET status = ?, error_message = ? WHERE id = ?`, status, errPtr, id)
	if err != nil {
		return fmt.Errorf("update backup status: %w", err)
	}
	return nil
}

func (h *History) UpdateCompleted(id, sizeBytes int64) error {
	now := time.Now().UTC()
	_, err := h.db.Exec(
		`UPDATE backups SET status = ?, size_bytes = ?, completed_at = ? WHERE id = ?`,
		StatusCompleted, sizeBytes, now, id,
	)
	if err != nil {
		return fmt.Errorf("update backup completed: %w", err)
	}
	return nil
}

// DeleteOlderThan deletes records older than the given time and returns the
// S3 keys of the deleted backups so the objects can be removed too.
func (h *History) DeleteOlderThan(before time.Time) ([]string, error) {
	rows, err := h.db.Query(`SELECT s3_key FROM backups WHERE created_at < ?`, before)
	if err != nil {
		return nil, fmt.Errorf("select old backups: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan s3 key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := h.db.Exec(`DELETE FROM backups WHERE created_at < ?`, before); err != nil {
		return nil, fmt.Errorf("delete old backups: %w", err)
	}
	return keys, nil
}
