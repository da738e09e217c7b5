// Package extraction runs one extraction attempt end to end: pick the
// source, fetch when it is a URL, extract, then publish the outcome to the
// workspace and the history.
package extraction

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/propintel/internal/domain"
	"github.com/MrSnakeDoc/propintel/internal/logger"
	"github.com/MrSnakeDoc/propintel/internal/metrics"
	"github.com/MrSnakeDoc/propintel/internal/workspace"
)

const (
	EmptyInputMessage     = "Please enter a URL or paste some property text to analyze."
	UnknownFailureMessage = "An unknown error occurred during AI extraction."
)

// ErrBusy is returned while another extraction is in flight.
var ErrBusy = errors.New("an extraction is already in progress")

// Extractor converts listing text into a record. extract.Gemini is the
// production implementation; failures should be *domain.ExtractionError.
type Extractor interface {
	Extract(ctx context.Context, text string) (domain.PropertyDetails, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// HistoryRecorder is satisfied by records.Gateway.
type HistoryRecorder interface {
	AppendHistory(ctx context.Context, rec domain.PropertyDetails, source domain.SourceType, identifier string) domain.HistoryEntry
}

// Request carries the user's input. A non-blank URL wins over Text.
type Request struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Result is a successful extraction.
type Result struct {
	Record  domain.PropertyDetails `json:"record"`
	Entry   domain.HistoryEntry    `json:"entry"`
	Content string                 `json:"content"` // the text the record was extracted from
}

type Service struct {
	extractor Extractor
	fetcher   Fetcher
	history   HistoryRecorder
	ws        *workspace.Workspace
	logger    logger.Logger
	metrics   *metrics.Metrics

	busy atomic.Bool
}

func NewService(ex Extractor, f Fetcher, h HistoryRecorder, ws *workspace.Workspace, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		extractor: ex,
		fetcher:   f,
		history:   h,
		ws:        ws,
		logger:    log,
		metrics:   m,
	}
}

// Busy reports whether an extraction is running.
func (s *Service) Busy() bool { return s.busy.Load() }

// Extract runs one attempt. On failure the workspace shows the error and no
// record, and the history is left untouched. Returned errors are
// *domain.ValidationError, *domain.FetchError, domain.ErrEmptyContent,
// *domain.ExtractionError or ErrBusy.
func (s *Service) Extract(ctx context.Context, req Request) (Result, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer s.busy.Store(false)

	s.ws.Clear()

	start := time.Now()
	source, identifier := resolveSource(req)
	log := s.logger.With(
		logger.String("attempt_id", uuid.Must(uuid.NewV7()).String()),
		logger.String("source", string(source)),
	)

	res, err := s.run(ctx, req, source, identifier, log)
	elapsed := time.Since(start)
	s.metrics.ObserveExtraction(source, outcome(err), elapsed)

	if err != nil {
		s.ws.Fail(Message(err))
		log.Warn("extraction failed", logger.Duration("elapsed", elapsed), logger.Error(err))
		return Result{}, err
	}

	log.Info("extraction succeeded",
		logger.String("title", res.Record.Title()),
		logger.String("entry_id", res.Entry.ID),
		logger.Duration("elapsed", elapsed))
	return res, nil
}

func (s *Service) run(ctx context.Context, req Request, source domain.SourceType, identifier string, log logger.Logger) (Result, error) {
	content := strings.TrimSpace(req.Text)

	if source == domain.SourceURL {
		log.Debug("fetching listing", logger.String("url", identifier))
		fetched, err := s.fetcher.Fetch(ctx, identifier)
		if err != nil {
			return Result{}, err
		}
		content = fetched
	} else if content == "" {
		return Result{}, &domain.ValidationError{Message: EmptyInputMessage}
	}

	log.Debug("extracting listing", logger.Int("content_length", len(content)))
	rec, err := s.extractor.Extract(ctx, content)
	if err != nil {
		var eerr *domain.ExtractionError
		if !errors.As(err, &eerr) {
			err = &domain.ExtractionError{Message: UnknownFailureMessage, Err: err}
		}
		return Result{}, err
	}
	rec.Normalize()

	s.ws.Show(rec)
	entry := s.history.AppendHistory(ctx, rec, source, identifier)

	return Result{Record: rec, Entry: entry, Content: content}, nil
}

func resolveSource(req Request) (domain.SourceType, string) {
	if u := strings.TrimSpace(req.URL); u != "" {
		return domain.SourceURL, u
	}
	return domain.SourceText, domain.TextSourceIdentifier(req.Text)
}

// Message is the user-facing text for an extraction failure.
func Message(err error) string {
	var (
		verr *domain.ValidationError
		ferr *domain.FetchError
		eerr *domain.ExtractionError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &ferr):
		return ferr.Error()
	case errors.Is(err, domain.ErrEmptyContent):
		return domain.ErrEmptyContent.Error()
	case errors.As(err, &eerr):
		return eerr.Message
	case errors.Is(err, ErrBusy):
		return "An extraction is already in progress. Please wait for it to finish."
	default:
		return UnknownFailureMessage
	}
}

func outcome(err error) string {
	var (
		verr *domain.ValidationError
		ferr *domain.FetchError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &verr):
		return metrics.OutcomeValidation
	case errors.As(err, &ferr), errors.Is(err, domain.ErrEmptyContent):
		return metrics.OutcomeFetch
	default:
		return metrics.OutcomeExtraction
	}
}
