package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dexusno/NorTrans/internal/logging"
	"github.com/dexusno/NorTrans/internal/queue"
)

type jobView struct {
	ID           string     `json:"id"`
	FileName     string     `json:"file_name"`
	SourceLang   string     `json:"source_lang"`
	TargetLang   string     `json:"target_lang"`
	Mode         string     `json:"mode"`
	Policy       string     `json:"policy"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ResultPath   string     `json:"result_path,omitempty"`
	Segments     int        `json:"segments"`
	Translated   int        `json:"translated"`
	Passthrough  int        `json:"passthrough"`
	BackendUsed  string     `json:"backend_used,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

type jobListResponse struct {
	Jobs []jobView `json:"jobs"`
}

func viewOf(job *queue.Job) jobView {
	return jobView{
		ID:           job.ID,
		FileName:     job.FileName,
		SourceLang:   job.SourceLang,
		TargetLang:   job.TargetLang,
		Mode:         job.Mode,
		Policy:       job.Policy,
		Status:       string(job.Status),
		ErrorMessage: job.ErrorMessage,
		ResultPath:   job.ResultPath,
		Segments:     job.Segments,
		Translated:   job.Translated,
		Passthrough:  job.Passthrough,
		BackendUsed:  job.BackendUsed,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
		StartedAt:    job.StartedAt,
		FinishedAt:   job.FinishedAt,
	}
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "queue", "job queue is not available")
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.listJobs(w, r)
	case http.MethodPost:
		s.createJob(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method", "method not allowed")
	}
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	var statuses []queue.Status
	for _, value := range r.URL.Query()["status"] {
		status, ok := queue.ParseStatus(value)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "request", fmt.Sprintf("unknown status %q", value))
			return
		}
		statuses = append(statuses, status)
	}

	jobs, err := s.store.List(r.Context(), statuses...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "queue", err.Error())
		return
	}
	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, viewOf(job))
	}
	s.writeJSON(w, http.StatusOK, jobListResponse{Jobs: views})
}

// createJob accepts the same multipart payload as /translate-srt but
// spools the upload and answers immediately; a daemon worker picks the
// job up from the queue.
func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "request", "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "request", "missing file upload")
		return
	}
	defer file.Close()

	params, err := s.requestParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "request", err.Error())
		return
	}

	raw, err := readSubtitleUpload(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "request", err.Error())
		return
	}

	spoolDir := s.cfg.Paths.SpoolDir
	if err := os.MkdirAll(spoolDir, 0o755); err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal", "spool dir: "+err.Error())
		return
	}
	inputPath := filepath.Join(spoolDir, uuid.NewString()+".srt")
	if err := os.WriteFile(inputPath, raw, 0o644); err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal", "spool upload: "+err.Error())
		return
	}

	job, err := s.store.Enqueue(r.Context(), queue.JobSpec{
		FileName:   filepath.Base(header.Filename),
		SourceLang: params.sourceLang,
		TargetLang: params.targetLang,
		Mode:       params.mode,
		Policy:     string(params.policy),
		InputPath:  inputPath,
	})
	if err != nil {
		_ = os.Remove(inputPath)
		s.writeError(w, http.StatusInternalServerError, "queue", err.Error())
		return
	}

	s.logger.Info("job enqueued",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("file", job.FileName),
		logging.String("target", job.TargetLang))
	s.writeJSON(w, http.StatusAccepted, viewOf(job))
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method", "method not allowed")
		return
	}
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "queue", "job queue is not available")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "not-found", "job not found")
		return
	}
	job, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "queue", err.Error())
		return
	}
	if job == nil {
		s.writeError(w, http.StatusNotFound, "not-found", "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, viewOf(job))
}
