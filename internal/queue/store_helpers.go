package queue

import (
	"database/sql"
	"errors"
	"time"
)

const jobColumns = "id, file_name, source_lang, target_lang, mode, policy, status, error_message, input_path, result_path, segments, translated, passthrough, backend_used, created_at, updated_at, started_at, finished_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id           string
		fileName     string
		sourceLang   string
		targetLang   string
		mode         string
		policy       string
		statusStr    string
		errorMessage sql.NullString
		inputPath    string
		resultPath   sql.NullString
		segments     int
		translated   int
		passthrough  int
		backendUsed  sql.NullString
		createdRaw   string
		updatedRaw   string
		startedRaw   sql.NullString
		finishedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&fileName,
		&sourceLang,
		&targetLang,
		&mode,
		&policy,
		&statusStr,
		&errorMessage,
		&inputPath,
		&resultPath,
		&segments,
		&translated,
		&passthrough,
		&backendUsed,
		&createdRaw,
		&updatedRaw,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:           id,
		FileName:     fileName,
		SourceLang:   sourceLang,
		TargetLang:   targetLang,
		Mode:         mode,
		Policy:       policy,
		Status:       Status(statusStr),
		ErrorMessage: errorMessage.String,
		InputPath:    inputPath,
		ResultPath:   resultPath.String,
		Segments:     segments,
		Translated:   translated,
		Passthrough:  passthrough,
		BackendUsed:  backendUsed.String,
	}

	if created, err := parseTimeString(createdRaw); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		job.UpdatedAt = updated
	}
	if startedRaw.Valid {
		if started, err := parseTimeString(startedRaw.String); err == nil {
			job.StartedAt = &started
		}
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			job.FinishedAt = &finished
		}
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
