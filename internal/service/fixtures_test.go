package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/mosquee-go/internal/database"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

var (
	pngPayload = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	gifPayload = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
	fail  bool
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (m *memoryStorage) Save(ctx context.Context, dir, name string, reader io.Reader) (string, error) {
	if m.fail {
		return "", errors.New("disk full")
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	path := "/images/" + dir + "/" + name
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = payload
	return path, nil
}

func (m *memoryStorage) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *memoryStorage) has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

type testFile struct {
	name    string
	payload []byte
}

func uploads(t *testing.T, field string, files ...testFile) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, file := range files {
		part, err := writer.CreateFormFile(field, file.name)
		require.NoError(t, err)
		_, err = part.Write(file.payload)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field]
}

func pngUploads(t *testing.T, field string, names ...string) []*multipart.FileHeader {
	files := make([]testFile, 0, len(names))
	for _, name := range names {
		files = append(files, testFile{name: name, payload: pngPayload})
	}
	return uploads(t, field, files...)
}

type failingAuditRepo struct{}

func (failingAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return errors.New("audit table unavailable")
}

func (failingAuditRepo) List(ctx context.Context, filter repository.AuditLogFilter) ([]models.AuditLog, int64, error) {
	return nil, 0, errors.New("audit table unavailable")
}

// serviceEnv wires every service against one sqlite database and in-memory storage.
type serviceEnv struct {
	db         *gorm.DB
	storage    *memoryStorage
	audit      AuditService
	auditRepo  repository.AuditLogRepository
	taxonomies TaxonomyService
	images     ImageService
	validator  *validator.Validate
	meta       RequestMeta
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	db := setupServiceDB(t)
	auditRepo := repository.NewAuditLogRepository(db)
	audit := NewAuditService(auditRepo, nil, "", testLogger())
	storage := newMemoryStorage()
	return &serviceEnv{
		db:         db,
		storage:    storage,
		audit:      audit,
		auditRepo:  auditRepo,
		taxonomies: NewTaxonomyService(repository.NewTaxonomyRepository(db), audit, testLogger()),
		images:     NewImageService(storage, 1, 3, testLogger()),
		validator:  validator.New(),
		meta:       RequestMeta{UserID: 1, Username: "admin", IPAddress: "203.0.113.7", UserAgent: "test-agent"},
	}
}

func (e *serviceEnv) auditEntries(t *testing.T) []models.AuditLog {
	t.Helper()
	logs, _, err := e.auditRepo.List(context.Background(), repository.AuditLogFilter{Limit: 200})
	require.NoError(t, err)
	return logs
}
