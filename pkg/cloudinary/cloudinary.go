package cloudinary

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service stores images in Cloudinary. Stored paths are secure delivery URLs.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Save uploads reader as <folder>/images/<dir>/<name> and returns its secure URL.
func (s *Service) Save(ctx context.Context, dir, name string, reader io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:       s.targetFolder(dir),
		PublicID:     PublicID(name),
		ResourceType: "image",
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", result.Error.Message)
	}

	s.logger.Info().Str("public_id", result.PublicID).Msg("image uploaded to cloudinary")
	return result.SecureURL, nil
}

// Remove destroys the asset behind a delivery URL. Paths that are not Cloudinary URLs, and assets
// that are already gone, are ignored.
func (s *Service) Remove(ctx context.Context, stored string) error {
	publicID, ok := PublicIDFromURL(stored)
	if !ok {
		s.logger.Debug().Str("path", stored).Msg("skipping removal of non cloudinary path")
		return nil
	}

	result, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID, ResourceType: "image"})
	if err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("failed to remove image %s: %s", publicID, result.Result)
	}
	return nil
}

func (s *Service) targetFolder(dir string) string {
	parts := make([]string, 0, 3)
	if s.folder != "" {
		parts = append(parts, s.folder)
	}
	parts = append(parts, "images")
	if dir = strings.Trim(dir, "/"); dir != "" {
		parts = append(parts, dir)
	}
	return strings.Join(parts, "/")
}

// PublicID strips the extension from a generated file name.
func PublicID(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
}

// PublicIDFromURL recovers "<folder>/<id>" from a delivery URL such as
// https://res.cloudinary.com/<cloud>/image/upload/v1700000000/<folder>/<id>.png.
func PublicIDFromURL(raw string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return "", false
	}

	_, rest, found := strings.Cut(parsed.Path, "/upload/")
	if !found || rest == "" {
		return "", false
	}

	segments := strings.Split(rest, "/")
	if first := segments[0]; len(first) > 1 && first[0] == 'v' && isDigits(first[1:]) {
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return "", false
	}

	id := strings.Join(segments, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", false
	}
	return id, true
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}
