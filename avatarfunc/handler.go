package avatarfunc

import (
	"context"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tasknest/tasknest/services/logging"
	"go.uber.org/zap"
)

type Result struct {
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Error     string `json:"error,omitempty"`
}

type Handler struct {
	cfg       *Config
	processor *Processor
	logger    *logging.Service

	store    ObjectStore
	newStore func(ctx context.Context) (ObjectStore, error)
}

func NewHandler(cfg *Config, logger *logging.Service) (*Handler, error) {
	processor, err := NewProcessor(cfg)
	if err != nil {
		return nil, err
	}

	return &Handler{
		cfg:       cfg,
		processor: processor,
		logger:    logger,
		newStore: func(ctx context.Context) (ObjectStore, error) {
			return NewS3Store(ctx, cfg.S3)
		},
	}, nil
}

// NewHandlerWithStore bypasses S3 client construction. Used in tests.
func NewHandlerWithStore(cfg *Config, logger *logging.Service, store ObjectStore) (*Handler, error) {
	h, err := NewHandler(cfg, logger)
	if err != nil {
		return nil, err
	}
	h.store = store
	return h, nil
}

// HandleS3Event processes every record in the batch independently: a record
// that cannot be processed is logged and counted as skipped, never failing
// the invocation.
func (h *Handler) HandleS3Event(ctx context.Context, event events.S3Event) (Result, error) {
	result := Result{}

	if h.store == nil {
		store, err := h.newStore(ctx)
		if err != nil {
			h.logger.Error("failed to create storage client", zap.Error(err))
			result.Skipped = len(event.Records)
			result.Error = "failed to create storage client"
			return result, nil
		}
		h.store = store
	}

	for _, record := range event.Records {
		if h.processRecord(ctx, record) {
			result.Processed++
		} else {
			result.Skipped++
		}
	}

	h.logger.Info("event batch handled",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

func (h *Handler) processRecord(ctx context.Context, record events.S3EventRecord) bool {
	bucket := record.S3.Bucket.Name

	// Event keys arrive URL-encoded.
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		h.logger.Warn("failed to decode object key",
			zap.String("key", record.S3.Object.Key), zap.Error(err))
		return false
	}

	if bucket == "" || key == "" {
		h.logger.Warn("record missing bucket or key")
		return false
	}
	if !strings.HasPrefix(key, h.cfg.Prefix) {
		h.logger.Debug("key outside avatar prefix", zap.String("key", key))
		return false
	}
	if strings.HasSuffix(key, h.cfg.Suffix) {
		h.logger.Debug("key already processed", zap.String("key", key))
		return false
	}

	data, err := h.store.Get(ctx, bucket, key)
	if err != nil {
		h.logger.Error("failed to fetch object", zap.String("key", key), zap.Error(err))
		return false
	}

	processed, err := h.processor.Process(data)
	if err != nil {
		h.logger.Error("failed to process image", zap.String("key", key), zap.Error(err))
		return false
	}

	target := key + h.cfg.Suffix
	if err := h.store.Put(ctx, bucket, target, processed, h.processor.ContentType()); err != nil {
		h.logger.Error("failed to store processed image", zap.String("key", target), zap.Error(err))
		return false
	}

	h.logger.Info("avatar processed",
		zap.String("source", key),
		zap.String("target", target),
		zap.Int("bytes", len(processed)))

	return true
}
