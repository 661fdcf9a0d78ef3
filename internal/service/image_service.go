package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/observability"
)

var (
	// ErrImageTooLarge indicates the payload exceeded the configured limit.
	ErrImageTooLarge = errors.New("image exceeds maximum allowed size")
	// ErrImageTypeNotAllowed indicates the extension or sniffed MIME type is not an accepted image.
	ErrImageTypeNotAllowed = errors.New("only jpeg, jpg, png, webp and gif images are allowed")
	// ErrTooManyImages indicates more files than allowed in one request.
	ErrTooManyImages = errors.New("too many images in one request")
)

var allowedImageExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var imageDirectories = map[models.Resource]string{
	models.ResourceEvents:    "events",
	models.ResourceNews:      "news",
	models.ResourceMembers:   "team",
	models.ResourceDonations: "donations",
	models.ResourceQuotes:    "quotes",
}

// ImageDirectory returns the storage directory for resource images.
func ImageDirectory(resource models.Resource) string {
	if dir, ok := imageDirectories[resource]; ok {
		return dir
	}
	return string(resource)
}

// FileStorage abstracts image destinations.
type FileStorage interface {
	Save(ctx context.Context, dir, name string, reader io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

// ImageService validates, stores and removes uploaded images.
type ImageService interface {
	Store(ctx context.Context, resource models.Resource, field string, files []*multipart.FileHeader) ([]string, error)
	Remove(ctx context.Context, paths []string) error
}

type imageService struct {
	storage  FileStorage
	logger   zerolog.Logger
	maxSize  int64
	maxFiles int
	tracer   trace.Tracer
	now      func() time.Time
}

// NewImageService constructs an image service.
func NewImageService(storage FileStorage, maxSizeMB, maxFiles int, logger zerolog.Logger) ImageService {
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}
	if maxFiles <= 0 {
		maxFiles = 10
	}
	return &imageService{
		storage:  storage,
		logger:   logger.With().Str("component", "image_service").Logger(),
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		maxFiles: maxFiles,
		tracer:   otel.Tracer("github.com/noah-isme/mosquee-go/internal/service/image"),
		now:      time.Now,
	}
}

// Store validates every file before writing any of them and returns the stored paths in order.
func (s *imageService) Store(ctx context.Context, resource models.Resource, field string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	if len(files) > s.maxFiles {
		observability.UploadRejected().WithLabelValues("count").Inc()
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyImages, len(files), s.maxFiles)
	}

	payloads := make([][]byte, len(files))
	for i, file := range files {
		payload, err := s.validate(file)
		if err != nil {
			return nil, err
		}
		payloads[i] = payload
	}

	dir := ImageDirectory(resource)
	stored := make([]string, 0, len(files))
	for i, file := range files {
		path, err := s.store(ctx, dir, field, file, payloads[i])
		if err != nil {
			if cleanupErr := s.Remove(ctx, stored); cleanupErr != nil {
				s.logger.Warn().Err(cleanupErr).Msg("failed to clean up partially stored images")
			}
			return nil, err
		}
		stored = append(stored, path)
	}

	return stored, nil
}

func (s *imageService) validate(file *multipart.FileHeader) ([]byte, error) {
	if file == nil {
		return nil, errors.New("file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		observability.UploadRejected().WithLabelValues("extension").Inc()
		return nil, ErrImageTypeNotAllowed
	}

	if file.Size > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		return nil, ErrImageTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		return nil, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		return nil, ErrImageTooLarge
	}

	detected := mimetype.Detect(buf.Bytes())
	if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
		observability.UploadRejected().WithLabelValues("type").Inc()
		return nil, ErrImageTypeNotAllowed
	}

	return buf.Bytes(), nil
}

func (s *imageService) store(ctx context.Context, dir, field string, file *multipart.FileHeader, payload []byte) (string, error) {
	ctx, span := s.tracer.Start(ctx, "image.store")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	name := s.fileName(field, file.Filename)
	span.SetAttributes(
		attribute.String("image.directory", dir),
		attribute.String("image.original_name", strings.TrimSpace(file.Filename)),
		attribute.String("image.stored_name", name),
		attribute.Int("image.size_bytes", len(payload)),
	)

	path, err := s.storage.Save(ctx, dir, name, bytes.NewReader(payload))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return "", err
	}

	observability.UploadRequests().WithLabelValues(dir).Inc()
	span.SetStatus(codes.Ok, "stored")
	return path, nil
}

// fileName builds <field>-<unix-ms>-<uuid><ext>.
func (s *imageService) fileName(field, original string) string {
	field = strings.TrimSpace(field)
	if field == "" {
		field = "image"
	}
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s-%d-%s%s", field, s.now().UnixMilli(), uuid.NewString(), ext)
}

// Remove deletes stored files. Paths that no longer exist are skipped.
func (s *imageService) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "image.remove")
	defer span.End()
	span.SetAttributes(attribute.Int("image.count", len(paths)))

	var errs []error
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := s.storage.Remove(ctx, path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove image")
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "remove failed")
		return err
	}
	return nil
}

// MergeImages keeps existing order, drops removed paths and appends added ones.
func MergeImages(existing, remove, added []string) []string {
	drop := make(map[string]struct{}, len(remove))
	for _, path := range remove {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			drop[trimmed] = struct{}{}
		}
	}

	merged := make([]string, 0, len(existing)+len(added))
	for _, path := range existing {
		if _, ok := drop[path]; ok {
			continue
		}
		merged = append(merged, path)
	}
	return append(merged, added...)
}

// removable returns the requested paths that the entity actually references.
func removable(existing, requested []string) []string {
	owned := make(map[string]struct{}, len(existing))
	for _, path := range existing {
		owned[path] = struct{}{}
	}
	result := make([]string, 0, len(requested))
	for _, path := range requested {
		path = strings.TrimSpace(path)
		if _, ok := owned[path]; ok {
			result = append(result, path)
		}
	}
	return result
}
