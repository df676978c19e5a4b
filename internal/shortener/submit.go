package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/pocketlink/internal/analytics"
	"github.com/serroba/pocketlink/internal/applog"
	"github.com/serroba/pocketlink/internal/messaging"
	"go.uber.org/zap"
)

// MaxBatchSize is the largest number of URLs accepted per submission.
const MaxBatchSize = 5

// ErrBatchTooLarge is returned when a submission exceeds MaxBatchSize.
var ErrBatchTooLarge = errors.New("too many urls in one submission")

// Submission is one URL to shorten.
type Submission struct {
	OriginalURL     string
	ValidityMinutes int64
	PreferredCode   string
}

// Field names used in per-item validation errors.
const (
	FieldOriginalURL = "originalUrl"
	FieldValidity    = "validityPeriodMinutes"
	FieldShortCode   = "preferredShortcode"
)

// FieldErrors maps a submission field to its validation message.
type FieldErrors map[string]string

// Service orchestrates the submission flow: validation, preferred-code
// uniqueness, code generation and record creation.
type Service struct {
	repo      Repository
	generator *Generator
	publish   messaging.Publish[analytics.LinkCreatedEvent]
	observer  *applog.Logger
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a submission service.
func NewService(
	repo Repository,
	generator *Generator,
	publish messaging.Publish[analytics.LinkCreatedEvent],
	observer *applog.Logger,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		generator: generator,
		publish:   publish,
		observer:  observer,
		logger:    logger,
		now:       time.Now,
	}
}

// SubmitBatch shortens up to MaxBatchSize URLs at once. Batches are
// all-or-nothing: if any item fails validation, nothing is committed and
// the per-item messages are returned. Creates are sequential; a
// persistence failure aborts the remaining items, leaving earlier items
// of the batch committed.
func (s *Service) SubmitBatch(ctx context.Context, items []Submission) ([]Record, []FieldErrors, error) {
	if len(items) > MaxBatchSize {
		return nil, nil, ErrBatchTooLarge
	}

	fieldErrs := make([]FieldErrors, len(items))
	seenPreferred := make(map[string]struct{})
	anyInvalid := false

	for i, item := range items {
		errs := s.validateItem(ctx, item, seenPreferred)
		if len(errs) > 0 {
			fieldErrs[i] = errs
			anyInvalid = true
		}
	}

	if anyInvalid {
		return nil, fieldErrs, nil
	}

	excluding := s.codeExclusionSet(ctx, items)
	nowMillis := s.now().UnixMilli()
	meta := RequestMetaFromContext(ctx)
	created := make([]Record, 0, len(items))

	for _, item := range items {
		code := item.PreferredCode
		if code == "" {
			code = s.generator.GenerateUnique(func(candidate string) bool {
				_, taken := excluding[candidate]

				return taken
			}, DefaultCodeLength)
		}

		excluding[code] = struct{}{}

		record := Record{
			ID:          NewID(),
			OriginalURL: NormalizeURL(item.OriginalURL),
			ShortCode:   code,
			CreatedAt:   nowMillis,
			ExpiresAt:   nowMillis + item.ValidityMinutes*60000,
			Clicks:      []ClickEvent{},
		}

		if err := s.repo.Create(ctx, &record); err != nil {
			s.observer.Error("url_create_failed", map[string]any{
				"shortCode": code,
				"error":     err.Error(),
			})

			return created, nil, fmt.Errorf("create record: %w", err)
		}

		created = append(created, record)

		s.observer.Info("url_created", map[string]any{
			"id":        record.ID,
			"shortCode": record.ShortCode,
		})

		event := &analytics.LinkCreatedEvent{
			Code:        record.ShortCode,
			OriginalURL: record.OriginalURL,
			CreatedAt:   record.CreatedAt,
			ExpiresAt:   record.ExpiresAt,
			ClientIP:    meta.ClientIP,
			UserAgent:   meta.UserAgent,
		}

		if err := s.publish(event); err != nil {
			s.logger.Error("failed to publish created event",
				zap.String("code", record.ShortCode),
				zap.Error(err),
			)
		}
	}

	return created, nil, nil
}

func (s *Service) validateItem(ctx context.Context, item Submission, seenPreferred map[string]struct{}) FieldErrors {
	errs := FieldErrors{}

	if res := ValidateURL(item.OriginalURL); !res.IsValid {
		errs[FieldOriginalURL] = res.Message
	}

	if res := ValidatePeriod(item.ValidityMinutes); !res.IsValid {
		errs[FieldValidity] = res.Message
	}

	if res := ValidateShortCode(item.PreferredCode); !res.IsValid {
		errs[FieldShortCode] = res.Message
	} else if item.PreferredCode != "" {
		_, duplicate := seenPreferred[item.PreferredCode]
		if duplicate || !s.repo.IsCodeUnique(ctx, item.PreferredCode) {
			errs[FieldShortCode] = "Shortcode is already taken"
			s.observer.Warn("shortcode_conflict", map[string]any{
				"shortCode": item.PreferredCode,
			})
		}

		seenPreferred[item.PreferredCode] = struct{}{}
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// codeExclusionSet seeds generation with every live code plus the
// preferred codes of the batch itself.
func (s *Service) codeExclusionSet(ctx context.Context, items []Submission) map[string]struct{} {
	excluding := make(map[string]struct{})

	for _, record := range s.repo.ListAll(ctx) {
		excluding[record.ShortCode] = struct{}{}
	}

	for _, item := range items {
		if item.PreferredCode != "" {
			excluding[item.PreferredCode] = struct{}{}
		}
	}

	return excluding
}

// ListForStatistics returns a read-only snapshot of all records.
func (s *Service) ListForStatistics(ctx context.Context) []Record {
	return s.repo.ListAll(ctx)
}

// DeleteRecord removes a record by id. A missing id is not an error.
func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.observer.Error("url_delete_failed", map[string]any{
			"id":    id,
			"error": err.Error(),
		})

		return fmt.Errorf("delete record: %w", err)
	}

	s.observer.Info("url_deleted", map[string]any{"id": id})

	return nil
}
