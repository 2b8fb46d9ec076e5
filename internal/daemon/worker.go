package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dexusno/NorTrans/internal/logging"
	"github.com/dexusno/NorTrans/internal/pipeline"
	"github.com/dexusno/NorTrans/internal/queue"
	"github.com/dexusno/NorTrans/internal/services"
	"github.com/dexusno/NorTrans/internal/srt"
	"github.com/dexusno/NorTrans/internal/translate"
)

// runWorker drains the job queue one job at a time until ctx ends.
func (d *Daemon) runWorker(ctx context.Context) {
	defer d.wg.Done()

	pollInterval := d.cfg.JobPollInterval()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := d.store.NextQueued(ctx)
		if err != nil {
			d.logger.Error("failed to fetch next job", logging.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollInterval):
			}
			continue
		}
		if job == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollInterval):
			}
			continue
		}

		d.processJob(ctx, job)
	}
}

func (d *Daemon) processJob(ctx context.Context, job *queue.Job) {
	logger := d.logger.With(logging.String(logging.FieldJobID, job.ID))
	logger.Info("job started",
		logging.String("file", job.FileName),
		logging.String("source", job.SourceLang),
		logging.String("target", job.TargetLang))

	report, resultPath, err := d.translateJob(ctx, job)
	finished := time.Now().UTC()
	job.FinishedAt = &finished

	if err != nil {
		job.Status = queue.StatusFailed
		if errors.Is(err, context.Canceled) {
			job.ErrorMessage = queue.DaemonStopReason
		} else {
			job.ErrorMessage = err.Error()
		}
		if updateErr := d.store.Update(context.Background(), job); updateErr != nil {
			logger.Error("failed to record job failure", logging.Error(updateErr))
		}
		logger.Error("job failed", logging.Error(err))
		return
	}

	job.Status = queue.StatusCompleted
	job.ResultPath = resultPath
	job.Segments = report.Segments
	job.Translated = report.Translated
	job.Passthrough = report.Passthrough
	job.BackendUsed = report.Backend
	if updateErr := d.store.Update(context.Background(), job); updateErr != nil {
		logger.Error("failed to record job completion", logging.Error(updateErr))
		return
	}
	logger.Info("job completed",
		logging.String("result", resultPath),
		logging.String("backend", report.Backend),
		logging.Int("segments", report.Segments),
		logging.Int("passthrough", report.Passthrough))
}

func (d *Daemon) translateJob(ctx context.Context, job *queue.Job) (*pipeline.Report, string, error) {
	ctx = services.WithJobID(ctx, job.ID)

	raw, err := os.ReadFile(job.InputPath)
	if err != nil {
		return nil, "", services.Wrap(services.ErrTransient, "daemon", "read input", job.InputPath, err)
	}
	doc, err := srt.Parse(raw)
	if err != nil {
		return nil, "", services.Wrap(services.ErrValidation, "daemon", "parse subtitles", job.FileName, err)
	}

	policy, err := pipeline.ParsePolicy(job.Policy)
	if err != nil {
		return nil, "", services.Wrap(services.ErrConfiguration, "daemon", "parse policy", job.Policy, err)
	}
	backend, err := d.newBackend(translate.Settings{
		Mode:     job.Mode,
		APIURL:   d.cfg.Translator.APIURL,
		ModelDir: d.cfg.Paths.ModelDir,
		Timeout:  d.cfg.RequestTimeout(),
	}, d.logger)
	if err != nil {
		return nil, "", services.Wrap(services.ErrConfiguration, "daemon", "build backend", job.Mode, err)
	}

	out, report, err := pipeline.New(backend, d.logger).TranslateDocument(ctx, doc, pipeline.Request{
		Source:  job.SourceLang,
		Target:  job.TargetLang,
		Policy:  policy,
		Workers: d.cfg.Translator.MaxConcurrent,
	})
	if err != nil {
		return nil, "", err
	}

	if err := os.MkdirAll(d.cfg.Paths.OutputDir, 0o755); err != nil {
		return nil, "", services.Wrap(services.ErrTransient, "daemon", "output dir", d.cfg.Paths.OutputDir, err)
	}
	resultPath := filepath.Join(d.cfg.Paths.OutputDir, resultFileName(job.FileName, job.TargetLang))
	if err := os.WriteFile(resultPath, srt.Serialize(out), 0o644); err != nil {
		return nil, "", services.Wrap(services.ErrTransient, "daemon", "write result", resultPath, err)
	}
	return report, resultPath, nil
}

// resultFileName derives `<base>.<target>.srt` from the original upload name.
func resultFileName(uploadName, target string) string {
	base := filepath.Base(strings.TrimSpace(uploadName))
	if base == "." || base == "/" || base == "" {
		base = "subtitles.srt"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + target + ".srt"
}
