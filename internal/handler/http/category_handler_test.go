package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"

	"github.com/olekhv/shoplift/internal/domain"
	"github.com/olekhv/shoplift/internal/dto"
)

type mockCategoryService struct {
	categories map[int64]*domain.Category
	nextID     int64
	createErr  error
}

func newMockCategoryService() *mockCategoryService {
	return &mockCategoryService{categories: make(map[int64]*domain.Category)}
}

func (m *mockCategoryService) Create(ctx context.Context, name string, image []byte) (*domain.Category, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	verr := domain.NewValidationError()
	if name == "" {
		verr.Add("name", "The name field is required.")
	}
	if len(image) == 0 {
		verr.Add("image", "The image field is required.")
	}
	if verr.HasErrors() {
		return nil, verr
	}
	m.nextID++
	c := &domain.Category{ID: m.nextID, Name: name, Image: fmt.Sprintf("%d.webp", m.nextID)}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryService) GetAll(ctx context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryService) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryService) Edit(ctx context.Context, id int64, name string, image []byte) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	if name != "" {
		c.Name = name
	}
	return c, nil
}

func (m *mockCategoryService) Delete(ctx context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func newCategoryTestEngine(service domain.CategoryService) *ginext.Engine {
	engine := ginext.New("test")
	NewCategoryHandler(service, 10).RegisterRoutes(engine)
	return engine
}

func categoryForm(t *testing.T, name string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	require.NoError(t, writer.WriteField("name", name))

	if withImage {
		part, err := writer.CreateFormFile("image", "photo.png")
		require.NoError(t, err)

		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		img.Set(0, 0, color.RGBA{R: 255, A: 255})
		require.NoError(t, png.Encode(part, img))
	}

	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestCategoryCreateEndpoint(t *testing.T) {
	engine := newCategoryTestEngine(newMockCategoryService())

	body, contentType := categoryForm(t, "Electronics", true)
	req := httptest.NewRequest(http.MethodPost, "/categories/create", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.CategoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Electronics", resp.Name)
	assert.NotZero(t, resp.ID)
	assert.NotEmpty(t, resp.Image)
}

func TestCategoryCreateValidationEndpoint(t *testing.T) {
	engine := newCategoryTestEngine(newMockCategoryService())

	body, contentType := categoryForm(t, "", false)
	req := httptest.NewRequest(http.MethodPost, "/categories/create", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Errors, "name")
	assert.Contains(t, resp.Errors, "image")
}

func TestCategoryGetAllEndpoint(t *testing.T) {
	service := newMockCategoryService()
	service.categories[1] = &domain.Category{ID: 1, Name: "Books", Image: "1.webp"}
	service.categories[2] = &domain.Category{ID: 2, Name: "Games", Image: "2.webp"}
	engine := newCategoryTestEngine(service)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.CategoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestCategoryGetByIDEndpoint(t *testing.T) {
	service := newMockCategoryService()
	service.categories[5] = &domain.Category{ID: 5, Name: "Books", Image: "5.webp"}
	engine := newCategoryTestEngine(service)

	testCases := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "found", path: "/categories/5", wantStatus: http.StatusOK},
		{name: "unknown id", path: "/categories/99", wantStatus: http.StatusNotFound},
		{name: "non-numeric id", path: "/categories/abc", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rec := httptest.NewRecorder()

			engine.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestCategoryDeleteEndpoint(t *testing.T) {
	service := newMockCategoryService()
	service.categories[3] = &domain.Category{ID: 3, Name: "Books", Image: "3.webp"}
	engine := newCategoryTestEngine(service)

	req := httptest.NewRequest(http.MethodDelete, "/categories/3", nil)
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, service.categories)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/categories/3", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryEditEndpoint(t *testing.T) {
	service := newMockCategoryService()
	service.categories[7] = &domain.Category{ID: 7, Name: "Old", Image: "7.webp"}
	engine := newCategoryTestEngine(service)

	body, contentType := categoryForm(t, "New", false)
	req := httptest.NewRequest(http.MethodPost, "/categories/edit/7", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.CategoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "New", resp.Name)
}

func TestCategoryEditPlainFormWithoutImage(t *testing.T) {
	service := newMockCategoryService()
	service.categories[9] = &domain.Category{ID: 9, Name: "Old", Image: "9.webp"}
	engine := newCategoryTestEngine(service)

	body := strings.NewReader("name=Renamed")
	req := httptest.NewRequest(http.MethodPost, "/categories/edit/9", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.CategoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Renamed", resp.Name)
	assert.Equal(t, "9.webp", resp.Image)
}

func TestCategoryCreateServiceError(t *testing.T) {
	service := newMockCategoryService()
	service.createErr = errors.New("db down")
	engine := newCategoryTestEngine(service)

	body, contentType := categoryForm(t, "Electronics", true)
	req := httptest.NewRequest(http.MethodPost, "/categories/create", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
