package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cookbook/internal/logging"
	"cookbook/internal/model"
	"cookbook/internal/service"
	serviceMocks "cookbook/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newApp(logs io.Writer) *fiber.App {
	if logs == nil {
		logs = io.Discard
	}
	return fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(logging.New(logs, time.UTC)),
	})
}

func decodeDetail(t *testing.T, resp *http.Response) any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["detail"]
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := newApp(nil)
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "Database unavailable", decodeDetail(t, resp))
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListRecipes(t *testing.T) {
	mockSvc := new(serviceMocks.MockRecipeService)
	app := newApp(nil)
	app.Get("/recipes", ListRecipes(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Recipe{
			{ID: 2, Title: "Popular", Views: 3, CookingTime: 20},
			{ID: 1, Title: "Quick", Views: 0, CookingTime: 5},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipes/", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result []model.Recipe
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.Len(t, result, 2)
		assert.Equal(t, int64(2), result[0].ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty catalog is an empty array", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Recipe{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipes", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `[]`, string(raw))
	})

	t.Run("service error", func(t *testing.T) {
		var logs bytes.Buffer
		app := newApp(&logs)
		app.Get("/recipes", ListRecipes(mockSvc))
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("list recipes: conn refused")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipes", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Internal Server Error", decodeDetail(t, resp))
		assert.Contains(t, logs.String(), "conn refused")
		mockSvc.AssertExpectations(t)
	})
}

func TestGetRecipe(t *testing.T) {
	mockSvc := new(serviceMocks.MockRecipeService)
	app := newApp(nil)
	app.Get("/recipes/:id", GetRecipe(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(7)).Return(&model.Recipe{ID: 7, Title: "Soup", Views: 1}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipes/7", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.Recipe
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, int64(7), result.ID)
		assert.Equal(t, 1, result.Views)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(9999)).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipes/9999", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"detail":"Recipe not found"}`, string(raw))
		mockSvc.AssertExpectations(t)
	})

	t.Run("non-integer id", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockRecipeService)
		app := newApp(nil)
		app.Get("/recipes/:id", GetRecipe(mockSvc))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipes/abc", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		detail, ok := decodeDetail(t, resp).([]any)
		require.True(t, ok)
		require.Len(t, detail, 1)
		assert.Equal(t, model.ErrTypeIntParsing, detail[0].(map[string]any)["type"])
		mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(3)).Return(nil, errors.New("db error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/recipes/3", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateRecipe(t *testing.T) {
	mockSvc := new(serviceMocks.MockRecipeService)
	app := newApp(nil)
	app.Post("/recipes", CreateRecipe(mockSvc))

	t.Run("success", func(t *testing.T) {
		in := model.RecipeCreate{
			Title:        "Test Recipe",
			CookingTime:  30,
			Ingredients:  "test ingredients",
			Instructions: "test instructions",
		}
		mockSvc.On("Create", mock.Anything, in).Return(&model.Recipe{
			ID:           1,
			Title:        in.Title,
			CookingTime:  in.CookingTime,
			Ingredients:  in.Ingredients,
			Instructions: in.Instructions,
		}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/recipes/",
			`{"title":"Test Recipe","cooking_time":30,"ingredients":"test ingredients","instructions":"test instructions"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "Test Recipe", result["title"])
		assert.Equal(t, float64(0), result["views"])
		assert.Contains(t, result, "id")
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing cooking_time", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockRecipeService)
		app := newApp(nil)
		app.Post("/recipes", CreateRecipe(mockSvc))

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/recipes/",
			`{"title":"Test Recipe","ingredients":"a","instructions":"b"}`))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		detail, ok := decodeDetail(t, resp).([]any)
		require.True(t, ok)
		require.Len(t, detail, 1)
		fe := detail[0].(map[string]any)
		assert.Equal(t, []any{"body", "cooking_time"}, fe["loc"])
		assert.Equal(t, model.ErrTypeMissing, fe["type"])
		mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/recipes/", `{"title":`))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("validation error from service", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, model.ValidationErrors{{Loc: []string{"body", "title"}, Msg: "String should have at least 1 character", Type: model.ErrTypeStringShort}}).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/recipes/",
			`{"title":"ok","cooking_time":1,"ingredients":"a","instructions":"b"}`))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("insert failed")).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/recipes/",
			`{"title":"ok","cooking_time":1,"ingredients":"a","instructions":"b"}`))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Internal Server Error", decodeDetail(t, resp))
		mockSvc.AssertExpectations(t)
	})
}

func TestExportRecipes(t *testing.T) {
	mockSvc := new(serviceMocks.MockRecipeService)
	app := newApp(nil)
	app.Post("/exports/recipes", ExportRecipes(mockSvc))

	t.Run("created", func(t *testing.T) {
		mockSvc.On("Export", mock.Anything).Return(&service.ExportResult{
			Key:   "exports/recipes.json",
			Count: 2,
			URL:   "https://minio.local/signed",
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/exports/recipes", nil))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result service.ExportResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "exports/recipes.json", result.Key)
	})

	t.Run("disabled", func(t *testing.T) {
		mockSvc.On("Export", mock.Anything).Return(nil, service.ErrExportDisabled).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/exports/recipes", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := newApp(nil)
	mockSvc := new(serviceMocks.MockRecipeService)
	reg := prometheus.NewRegistry()
	RegisterRoutes(app, nil, mockSvc, reg)

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Not Found", decodeDetail(t, resp))
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/recipes/1", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "Method Not Allowed", decodeDetail(t, resp))
	})

	t.Run("list with and without trailing slash", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Recipe{}, nil).Twice()

		for _, target := range []string{"/recipes", "/recipes/"} {
			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusOK, resp.StatusCode, target)
		}
		mockSvc.AssertExpectations(t)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
