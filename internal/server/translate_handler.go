package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dexusno/NorTrans/internal/logging"
	"github.com/dexusno/NorTrans/internal/pipeline"
	"github.com/dexusno/NorTrans/internal/services"
	"github.com/dexusno/NorTrans/internal/srt"
	"github.com/dexusno/NorTrans/internal/translate"
)

const maxUploadBytes = 32 << 20

// translateParams carries the per-request translation settings merged
// from form fields and config defaults.
type translateParams struct {
	sourceLang string
	targetLang string
	mode       string
	apiURL     string
	policy     pipeline.Policy
	workers    int
}

func (s *Server) requestParams(r *http.Request) (translateParams, error) {
	cfg := s.cfg
	params := translateParams{
		sourceLang: formValue(r, "source_lang", cfg.Translator.DefaultSourceLang),
		targetLang: formValue(r, "target_lang", cfg.Translator.DefaultTargetLang),
		mode:       formValue(r, "mode", cfg.Translator.Mode),
		apiURL:     formValue(r, "api_url", cfg.Translator.APIURL),
		workers:    cfg.Translator.MaxConcurrent,
	}

	policy, err := pipeline.ParsePolicy(formValue(r, "policy", cfg.Translator.FailurePolicy))
	if err != nil {
		return translateParams{}, err
	}
	params.policy = policy

	if raw := strings.TrimSpace(r.FormValue("workers")); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil || workers < 1 {
			return translateParams{}, fmt.Errorf("invalid workers value %q", raw)
		}
		params.workers = workers
	}
	return params, nil
}

func formValue(r *http.Request, key, fallback string) string {
	if value := strings.TrimSpace(r.FormValue(key)); value != "" {
		return value
	}
	return fallback
}

func (s *Server) handleTranslateSRT(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method", "method not allowed")
		return
	}
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

	doc, err := srt.Parse(raw)
	if err != nil {
		s.writeTranslationError(w, err)
		return
	}

	backend, err := s.newBackend(translate.Settings{
		Mode:     params.mode,
		APIURL:   params.apiURL,
		ModelDir: s.cfg.Paths.ModelDir,
		Timeout:  s.cfg.RequestTimeout(),
	}, s.logger)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "request", err.Error())
		return
	}

	started := time.Now()
	out, report, err := pipeline.New(backend, s.logger).TranslateDocument(r.Context(), doc, pipeline.Request{
		Source:  params.sourceLang,
		Target:  params.targetLang,
		Policy:  params.policy,
		Workers: params.workers,
	})
	if err != nil {
		s.writeTranslationError(w, err)
		return
	}

	filename := outputFileName(header.Filename, params.targetLang)
	logger := s.logger
	if requestID, ok := services.RequestIDFromContext(r.Context()); ok {
		logger = logger.With(logging.String(logging.FieldRequestID, requestID))
	}
	logger.Info("translated upload",
		logging.String("file", header.Filename),
		logging.String("source", params.sourceLang),
		logging.String("target", params.targetLang),
		logging.String("backend", report.Backend),
		logging.Int("segments", report.Segments),
		logging.Duration("elapsed", time.Since(started)))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-NorTrans-Backend", report.Backend)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(srt.Serialize(out))
}

// readSubtitleUpload reads the upload as UTF-8, falling back to
// Latin-1 when the bytes are not valid UTF-8.
func readSubtitleUpload(file multipart.File) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > maxUploadBytes {
		return nil, fmt.Errorf("upload exceeds %d bytes", maxUploadBytes)
	}
	return srt.DecodeBytes(raw)
}

// outputFileName derives `<base>.<target>.srt` from the upload name.
func outputFileName(uploadName, target string) string {
	base := filepath.Base(strings.TrimSpace(uploadName))
	if base == "." || base == "/" || base == "" {
		base = "subtitles.srt"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + target + ".srt"
}
