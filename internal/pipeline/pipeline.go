package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dexusno/NorTrans/internal/language"
	"github.com/dexusno/NorTrans/internal/logging"
	"github.com/dexusno/NorTrans/internal/srt"
	"github.com/dexusno/NorTrans/internal/translate"
)

// Policy controls how the pipeline reacts to per-segment failures.
type Policy string

const (
	// PolicyStrict aborts the run on the first backend failure.
	PolicyStrict Policy = "strict"
	// PolicyLenient keeps failed segments untranslated and finishes.
	PolicyLenient Policy = "lenient"
)

// ParsePolicy maps user input onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return PolicyStrict, nil
	case "lenient", "":
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q (expected strict or lenient)", s)
	}
}

// Request describes one translation run over a document.
type Request struct {
	Source  string
	Target  string
	Policy  Policy
	Workers int
}

// Report summarizes what a run did. Backend records the backend that
// actually served the run, which differs from the configured one after
// an offline-to-API fallback.
type Report struct {
	Segments    int
	Translated  int
	Passthrough int
	Backend     string
}

// Error kinds reported by TranslateDocument.
const (
	KindUnsupportedPair = "unsupported-language-pair"
	KindAbortedStrict   = "aborted-strict"
)

// Error wraps a run-level failure with its classification.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKindOf extracts the pipeline error kind, or "" for other errors.
func ErrorKindOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// Pipeline runs documents through a translation backend.
type Pipeline struct {
	backend translate.Backend
	logger  *slog.Logger
}

// New builds a pipeline around the given backend.
func New(backend translate.Backend, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		backend: backend,
		logger:  logging.WithComponent(logger, "pipeline"),
	}
}

// task addresses one translatable segment inside the document copy.
type task struct {
	slot    int
	cueIdx  int
	lineIdx int
	segIdx  int
	text    string
}

// outcome carries a worker's result back to the collector.
type outcome struct {
	slot       int
	translated string
	err        error
}

// TranslateDocument translates every text segment of doc and returns a
// new document with the results written in place of the originals. The
// input document is never mutated. Cue order, indices, timestamps and
// tag segments are preserved exactly.
func (p *Pipeline) TranslateDocument(ctx context.Context, doc *srt.Document, req Request) (*srt.Document, *Report, error) {
	pair, err := language.NewPair(req.Source, req.Target)
	if err != nil {
		return nil, nil, &Error{Kind: KindUnsupportedPair, Err: err}
	}

	policy := req.Policy
	if policy == "" {
		policy = PolicyLenient
	}
	workers := req.Workers
	if workers < 1 {
		workers = 1
	}

	out := doc.Clone()
	tasks := collectTasks(out)
	report := &Report{Segments: len(tasks)}

	if len(tasks) == 0 {
		report.Backend = p.backend.Name()
		return out, report, nil
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan task)
	results := make(chan outcome, len(tasks))

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for t := range queue {
				translated, err := p.backend.Translate(runCtx, t.text, pair.Source, pair.Target)
				select {
				case results <- outcome{slot: t.slot, translated: translated, err: err}:
				case <-runCtx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, t := range tasks {
			select {
			case queue <- t:
			case <-runCtx.Done():
				return
			}
		}
	}()

	translated := make([]string, len(tasks))
	failed := make([]bool, len(tasks))
	var runErr error

collect:
	for received := 0; received < len(tasks); received++ {
		select {
		case res := <-results:
			if res.err != nil {
				if ctxErr := runCtx.Err(); ctxErr != nil {
					runErr = ctxErr
					break collect
				}
				if policy == PolicyStrict {
					runErr = &Error{Kind: KindAbortedStrict, Err: res.err}
					break collect
				}
				failed[res.slot] = true
				p.logger.Warn("segment left untranslated",
					logging.String("backend", p.backend.Name()),
					logging.Error(res.err))
				continue
			}
			translated[res.slot] = res.translated
		case <-runCtx.Done():
			runErr = runCtx.Err()
			break collect
		}
	}
	cancel()
	wg.Wait()

	if runErr != nil {
		return nil, nil, runErr
	}

	for i, t := range tasks {
		if failed[i] {
			report.Passthrough++
			continue
		}
		out.Cues[t.cueIdx].Lines[t.lineIdx][t.segIdx].Value = translated[i]
		report.Translated++
	}
	report.Backend = p.backend.Name()

	p.logger.Info("document translated",
		logging.String("source", pair.Source),
		logging.String("target", pair.Target),
		logging.Int("segments", report.Segments),
		logging.Int("passthrough", report.Passthrough),
		logging.String("backend", report.Backend))
	return out, report, nil
}

// collectTasks walks the document and records every segment worth
// sending to the backend. Tag segments and whitespace-only text stay
// as they are.
func collectTasks(doc *srt.Document) []task {
	var tasks []task
	for ci := range doc.Cues {
		for li := range doc.Cues[ci].Lines {
			for si, seg := range doc.Cues[ci].Lines[li] {
				if seg.Kind != srt.SegmentText {
					continue
				}
				if strings.TrimSpace(seg.Value) == "" {
					continue
				}
				tasks = append(tasks, task{
					slot:    len(tasks),
					cueIdx:  ci,
					lineIdx: li,
					segIdx:  si,
					text:    seg.Value,
				})
			}
		}
	}
	return tasks
}
