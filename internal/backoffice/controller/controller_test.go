package controller

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gartstein/backoffice/internal/backoffice/db"
	"github.com/gartstein/backoffice/internal/backoffice/events"
	"github.com/gartstein/backoffice/internal/backoffice/models"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
	"github.com/gartstein/backoffice/internal/backoffice/validation"
	"github.com/gartstein/backoffice/internal/pkg/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockProducer records produced events.
type MockProducer struct {
	mu     sync.Mutex
	events []events.EventType
	keys   []string
}

func (m *MockProducer) Produce(eventType events.EventType, key string, _ interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, eventType)
	m.keys = append(m.keys, key)
}

func (m *MockProducer) Produced() []events.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.EventType(nil), m.events...)
}

func setupRepo(t *testing.T) *db.Repository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := db.NewRepository(&db.Config{
		Driver: "sqlite",
		DBName: fmt.Sprintf("file:controller_%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func setupFiles(t *testing.T) (*storage.Files, string) {
	t.Helper()
	root := t.TempDir()
	local, err := storage.NewLocal(root, "/storage")
	require.NoError(t, err)
	return storage.NewFiles(local, storage.Options{MaxBytes: 2 * 1024 * 1024, MaxWidth: 1600}, zaptest.NewLogger(t)), root
}

func newValidator() Validator {
	return validation.New()
}

func pngUpload(t *testing.T, field, filename string) *storage.Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8))))
	return &storage.Upload{Field: field, Filename: filename, Data: buf.Bytes()}
}

// filesIn lists the regular files stored under root/bucket.
func filesIn(t *testing.T, root, bucket string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(bucket)))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var out []string
	for _, entry := range entries {
		if !entry.IsDir() {
			out = append(out, bucket+"/"+entry.Name())
		}
	}
	return out
}

func createParameter(t *testing.T, repo *db.Repository, group, name string, parent *models.Parameter) *models.Parameter {
	t.Helper()
	p := &models.Parameter{Group: group, Name: name, IsActive: true}
	if parent != nil {
		p.ParentID = utils.Ptr(parent.ID)
		p.Level = parent.Level + 1
	}
	require.NoError(t, repo.CreateParameter(context.Background(), p))
	return p
}

func createCompany(t *testing.T, repo *db.Repository, ruc, name string) *models.Company {
	t.Helper()
	c := &models.Company{RUC: ruc, Name: name}
	require.NoError(t, repo.CreateCompany(context.Background(), c))
	return c
}

// seedLima stores the Lima / Lima / Lima ubigeo chain.
func seedLima(t *testing.T, repo *db.Repository) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, []models.Department{{ID: "15", Name: "LIMA"}}))
	require.NoError(t, repo.Seed(ctx, []models.Province{{ID: "1501", Name: "LIMA", DepartmentID: "15"}}))
	require.NoError(t, repo.Seed(ctx, []models.District{
		{ID: "150101", Name: "LIMA", ProvinceID: "1501", DepartmentID: "15"},
		{ID: "150122", Name: "MIRAFLORES", ProvinceID: "1501", DepartmentID: "15"},
	}))
}
