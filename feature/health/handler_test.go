package health

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"shoplist/core/database"
	"shoplist/core/storage/mocks"
	"shoplist/feature/items"
	"shoplist/feature/lists"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var models = []any{lists.List{}, lists.HiddenList{}, items.Item{}}

func migratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, lists.NewStore(db).Migrate())
	require.NoError(t, items.NewStore(db).Migrate())
	return db
}

func setupTestApp(t *testing.T, client *mocks.Client, db *gorm.DB) *fiber.App {
	t.Helper()
	var svc *Service
	if client == nil {
		svc = NewService(nil, "shoplist", "catalog/products.yaml", db, zap.NewNop(), models...)
	} else {
		svc = NewService(client, "shoplist", "catalog/products.yaml", db, zap.NewNop(), models...)
	}

	app := fiber.New()
	require.NoError(t, NewFeature(svc).Load(app))
	return app
}

func getReport(t *testing.T, app *fiber.App, path string) (int, Report) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var report Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	return resp.StatusCode, report
}

func TestHandleHealth_AllGood(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "shoplist").Return(true, nil)
	client.On("StatObject", mock.Anything, "shoplist", "catalog/products.yaml", mock.Anything).Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	app := setupTestApp(t, client, migratedDB(t))
	status, report := getReport(t, app, "/health")

	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, report.Healthy)
	assert.Equal(t, StatusOK, report.Storage.Status)
	assert.Equal(t, StatusMissing, report.Catalog.Status)
	assert.Equal(t, StatusOK, report.SchemaStatus.Status)
	require.NotNil(t, report.Schema)
	assert.Contains(t, report.Schema.Tables, "lists")
	assert.Contains(t, report.Schema.Tables, "hidden_lists")
	assert.Contains(t, report.Schema.Tables, "items")
}

func TestHandleHealth_Unhealthy(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "shoplist").Return(false, errors.New("connection refused"))
	client.On("StatObject", mock.Anything, "shoplist", "catalog/products.yaml", mock.Anything).Return(minio.ObjectInfo{}, errors.New("connection refused"))

	app := setupTestApp(t, client, nil)
	status, report := getReport(t, app, "/health")

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.False(t, report.Healthy)
	assert.Equal(t, StatusError, report.Storage.Status)
	assert.Equal(t, StatusError, report.Catalog.Status)
	assert.Equal(t, StatusDisabled, report.SchemaStatus.Status)
}

func TestHandleHealth_NoBackends(t *testing.T) {
	app := setupTestApp(t, nil, nil)
	status, report := getReport(t, app, "/health")

	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, report.Healthy)
	assert.Equal(t, StatusDisabled, report.Storage.Status)
	assert.Equal(t, StatusDisabled, report.Catalog.Status)
}

func TestHandleSchema_Mismatch(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE lists (id TEXT, name TEXT)").Error)

	app := setupTestApp(t, nil, db)
	resp, err := app.Test(httptest.NewRequest("GET", "/health/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health/storage", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
