package handlers

import (
	"io"
	"testing"

	appErrors "rewards/internal/errors"
	"rewards/internal/models"
	"rewards/internal/services/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func catalogApp(m *MockCatalogService) *fiber.App {
	h := NewCatalogHandler(m)
	app := newTestApp()
	app.Get("/catalog", h.List)
	app.Post("/catalog/import", h.Import)
	return app
}

func TestCatalogHandler_List(t *testing.T) {
	m := new(MockCatalogService)
	m.On("List", mock.Anything).Return([]*models.CatalogCard{
		{ID: 1, Name: "Magnus", Bank: "Axis", RewardType: "points"},
	}, nil)

	status, body := call(t, catalogApp(m), "GET", "/catalog", "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)
	m.AssertExpectations(t)
}

func TestCatalogHandler_Import(t *testing.T) {
	const doc = `[{"name":"Magnus","bank":"Axis","reward_type":"points","categories":{"travel":12}}]`

	sameBody := mock.MatchedBy(func(r io.Reader) bool {
		b, err := io.ReadAll(r)
		return err == nil && string(b) == doc
	})

	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockCatalogService)
		wantStatus int
	}{
		{
			name: "imported",
			body: doc,
			setupMock: func(m *MockCatalogService) {
				m.On("Import", mock.Anything, sameBody).
					Return(&catalog.ImportResult{Batch: "b1", Imported: 1, Cards: []string{"Axis Magnus"}}, nil)
			},
			wantStatus: fiber.StatusOK,
		},
		{
			name: "rejected file",
			body: doc,
			setupMock: func(m *MockCatalogService) {
				m.On("Import", mock.Anything, sameBody).
					Return(nil, appErrors.Validation("INVALID_CATALOG", "catalog entry 1: unknown category"))
			},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "empty body",
			setupMock:  func(m *MockCatalogService) {},
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockCatalogService)
			tt.setupMock(m)

			status, _ := call(t, catalogApp(m), "POST", "/catalog/import", tt.body)

			assert.Equal(t, tt.wantStatus, status)
			m.AssertExpectations(t)
		})
	}
}
