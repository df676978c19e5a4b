// Package handlers exposes the shortener core over HTTP.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/pocketlink/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service  *shortener.Service
	resolver *shortener.Resolver
	baseURL  string
	logger   *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(service *shortener.Service, resolver *shortener.Resolver, baseURL string, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service:  service,
		resolver: resolver,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// ShortenBatch creates records for a batch of URLs. Batches are
// all-or-nothing: any invalid item rejects the whole submission with
// per-item messages.
func (h *URLHandler) ShortenBatch(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	items := make([]shortener.Submission, len(req.Body.URLs))
	for i, u := range req.Body.URLs {
		items[i] = shortener.Submission{
			OriginalURL:     u.OriginalURL,
			ValidityMinutes: u.ValidityMinutes,
			PreferredCode:   u.PreferredCode,
		}
	}

	records, fieldErrs, err := h.service.SubmitBatch(ctx, items)
	if err != nil {
		if errors.Is(err, shortener.ErrBatchTooLarge) {
			return nil, huma.Error422UnprocessableEntity(
				fmt.Sprintf("at most %d urls per submission", shortener.MaxBatchSize))
		}

		h.logger.Error("batch submission failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to save urls")
	}

	if fieldErrs != nil {
		details := make([]error, 0)

		for i, itemErrs := range fieldErrs {
			for field, message := range itemErrs {
				details = append(details, &huma.ErrorDetail{
					Message:  message,
					Location: fmt.Sprintf("body.urls[%d].%s", i, field),
				})
			}
		}

		if len(details) > 0 {
			return nil, huma.Error422UnprocessableEntity("validation failed", details...)
		}
	}

	resp := &ShortenResponse{Status: http.StatusCreated}
	resp.Body.Records = make([]RecordPayload, len(records))

	for i, record := range records {
		resp.Body.Records[i] = h.payload(record)
	}

	return resp, nil
}

// Redirect resolves a short code to its original URL. Expired and
// unknown codes are distinct terminal outcomes, mapped to 410 and 404.
func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	resolution := h.resolver.Resolve(ctx, req.Code)

	switch resolution.State {
	case shortener.StateExpired:
		return nil, huma.Error410Gone("short url expired")
	case shortener.StateNotFound:
		return nil, huma.Error404NotFound("short url not found")
	case shortener.StateRedirecting:
	}

	// 302, not 301: records expire, so the mapping must not be cached
	// by clients as permanent.
	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = resolution.TargetURL

	return resp, nil
}

// ListURLs returns the read-only statistics snapshot.
func (h *URLHandler) ListURLs(ctx context.Context, _ *struct{}) (*ListURLsResponse, error) {
	records := h.service.ListForStatistics(ctx)

	resp := &ListURLsResponse{}
	resp.Body.Records = make([]RecordPayload, len(records))

	for i, record := range records {
		resp.Body.Records[i] = h.payload(record)
	}

	return resp, nil
}

// DeleteURL removes a record by id.
func (h *URLHandler) DeleteURL(ctx context.Context, req *DeleteURLRequest) (*DeleteURLResponse, error) {
	if err := h.service.DeleteRecord(ctx, req.ID); err != nil {
		h.logger.Error("delete failed", zap.String("id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to delete url")
	}

	return &DeleteURLResponse{Status: http.StatusNoContent}, nil
}

func (h *URLHandler) payload(record shortener.Record) RecordPayload {
	clicks := make([]ClickPayload, len(record.Clicks))
	for i, click := range record.Clicks {
		clicks[i] = ClickPayload{
			Timestamp: click.Timestamp,
			Source:    click.Source,
			Geo:       click.Geo,
		}
	}

	return RecordPayload{
		ID:           record.ID,
		OriginalURL:  record.OriginalURL,
		ShortCode:    record.ShortCode,
		ShortURL:     fmt.Sprintf("%s/%s", h.baseURL, record.ShortCode),
		CreationDate: record.CreatedAt,
		ExpiryDate:   record.ExpiresAt,
		Clicks:       clicks,
	}
}
