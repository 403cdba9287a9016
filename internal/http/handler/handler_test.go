package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"galleryapi/internal/model"
	"galleryapi/internal/service"
	serviceMocks "galleryapi/internal/service/mocks"
	"galleryapi/internal/storage"
	"galleryapi/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListRugs(t *testing.T) {
	mockSvc := new(serviceMocks.MockEntityService[*model.Rug])
	app := fiber.New()
	app.Get("/rugs", ListEntities[*model.Rug](mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).
			Return([]*model.Rug{{ID: 1, Name: "Heriz"}, {ID: 2, Name: "Kashan"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/rugs", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result []model.Rug
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result, 2)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty list encodes as array", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/rugs", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
		mockSvc.AssertExpectations(t)
	})

	t.Run("store unavailable", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, store.ErrStoreUnavailable).Once()

		req := httptest.NewRequest(http.MethodGet, "/rugs", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetRug(t *testing.T) {
	mockSvc := new(serviceMocks.MockEntityService[*model.Rug])
	app := fiber.New()
	app.Get("/rugs/:id", GetEntity[*model.Rug](mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, 1).Return(&model.Rug{ID: 1, Name: "Heriz"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/rugs/1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Rug
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 1, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, 99).Return(nil, store.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/rugs/99", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/rugs/abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})
}

func TestCreateRug(t *testing.T) {
	mockSvc := new(serviceMocks.MockEntityService[*model.Rug])
	app := fiber.New()
	app.Post("/rugs", CreateEntity[model.Rug](mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Save", mock.Anything, mock.MatchedBy(func(r *model.Rug) bool {
			return r.Name == "Heriz" && r.ID == 0
		})).Return(&model.Rug{ID: 5, Name: "Heriz"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/rugs",
			strings.NewReader(`{"name":"Heriz","price":1200}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Rug
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 5, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("conflict on caller-chosen id", func(t *testing.T) {
		mockSvc.On("Save", mock.Anything, mock.Anything).Return(nil, store.ErrConflict).Once()

		req := httptest.NewRequest(http.MethodPost, "/rugs",
			strings.NewReader(`{"id":5,"name":"Heriz"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "CONFLICT", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rugs", strings.NewReader(`{invalid`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_BODY", res.Error.Code)
	})
}

func TestUpdateRug(t *testing.T) {
	mockSvc := new(serviceMocks.MockEntityService[*model.Rug])
	app := fiber.New()
	app.Put("/rugs/:id", UpdateEntity[model.Rug](mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, 1, mock.MatchedBy(func(r *model.Rug) bool {
			return r.Name == "Renamed"
		})).Return(&model.Rug{ID: 1, Name: "Renamed"}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/rugs/1",
			strings.NewReader(`{"name":"Renamed"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Rug
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "Renamed", result.Name)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, 99, mock.Anything).
			Return(nil, store.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/rugs/99",
			strings.NewReader(`{"name":"Renamed"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteRug(t *testing.T) {
	mockSvc := new(serviceMocks.MockEntityService[*model.Rug])
	app := fiber.New()
	app.Delete("/rugs/:id", DeleteEntity[*model.Rug](mockSvc))

	t.Run("returns deleted value", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, 1).
			Return(&model.Rug{ID: 1, Name: "Heriz"}, nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/rugs/1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Rug
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "Heriz", result.Name)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, 99).Return(nil, store.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/rugs/99", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUpdateUserRole(t *testing.T) {
	mockSvc := new(serviceMocks.MockEntityService[*model.User])
	app := fiber.New()
	app.Put("/users/:id/role", UpdateUserRole(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("UpdateFunc", mock.Anything, 1, mock.Anything).
			Return(&model.User{ID: 1, Email: "a@b.c", Role: model.RoleAdmin}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/users/1/role",
			strings.NewReader(`{"role":"admin"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.User
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, model.RoleAdmin, result.Role)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/users/1/role",
			strings.NewReader(`{"role":"superuser"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ROLE", res.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("UpdateFunc", mock.Anything, 99, mock.Anything).
			Return(nil, store.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/users/99/role",
			strings.NewReader(`{"role":"admin"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUploadAttachment(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := fiber.New()
	app.Post("/attachments", UploadAttachment(mockSvc))

	t.Run("success", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "rug.png")
		part.Write([]byte("hello world"))
		writer.Close()

		mockSvc.On("Upload", mock.Anything, mock.Anything, "rug.png", mock.Anything, mock.Anything).
			Return(service.Attachment{Key: "abc.png", OriginalFilename: "rug.png"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/attachments", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result service.Attachment
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "abc.png", result.Key)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/attachments", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_REQUIRED", res.Error.Code)
	})

	t.Run("key collision surfaces conflict", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "rug.png")
		part.Write([]byte("hello"))
		writer.Close()

		mockSvc.On("Upload", mock.Anything, mock.Anything, "rug.png", mock.Anything, mock.Anything).
			Return(service.Attachment{}, storage.ErrObjectExists).Once()

		req := httptest.NewRequest(http.MethodPost, "/attachments", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestListAttachments(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := fiber.New()
	app.Get("/attachments", ListAttachments(mockSvc))

	mockSvc.On("List", mock.Anything).Return([]string{"a.png", "b.jpg"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/attachments", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string][]string
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, []string{"a.png", "b.jpg"}, result["keys"])
	mockSvc.AssertExpectations(t)
}

func TestGetAttachmentURL(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := fiber.New()
	app.Get("/attachments/:key/url", GetAttachmentURL(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("GetURI", mock.Anything, "abc.png").
			Return("https://storage.example/abc.png?sig=1", nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/attachments/abc.png/url", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]string
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "https://storage.example/abc.png?sig=1", result["url"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("GetURI", mock.Anything, "missing.png").
			Return("", storage.ErrObjectNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/attachments/missing.png/url", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDownloadAttachment(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := fiber.New()
	app.Get("/attachments/:key", DownloadAttachment(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Download", mock.Anything, "abc.png").Return(
			io.NopCloser(strings.NewReader("payload")),
			service.Attachment{
				Key:              "abc.png",
				OriginalFilename: "rug.png",
				ContentType:      "image/png",
				Size:             7,
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/attachments/abc.png", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "rug.png")

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "payload", buf.String())
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Download", mock.Anything, "missing.png").
			Return(nil, service.Attachment{}, storage.ErrObjectNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/attachments/missing.png", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteAttachment(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := fiber.New()
	app.Delete("/attachments/:key", DeleteAttachment(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "abc.png").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/attachments/abc.png", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("storage unavailable", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "abc.png").
			Return(storage.ErrStorageUnavailable).Once()

		req := httptest.NewRequest(http.MethodDelete, "/attachments/abc.png", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	rugSvc := new(serviceMocks.MockEntityService[*model.Rug])
	userSvc := new(serviceMocks.MockEntityService[*model.User])
	attSvc := new(serviceMocks.MockAttachmentService)
	RegisterRoutes(app, nil, rugSvc, userSvc, attSvc)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("upload gate rejects mismatched file", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="payload.exe"`)
		header.Set("Content-Type", "application/octet-stream")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		part.Write([]byte("MZ"))
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/attachments", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_FILE_TYPE", res.Error.Code)
		assert.Contains(t, res.Error.Message, "image/.*")
	})
}
