package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mstavrou/epresent-backend/internal/app/model"
	"github.com/mstavrou/epresent-backend/internal/app/repository"
	"github.com/mstavrou/epresent-backend/internal/app/service"
	"github.com/mstavrou/epresent-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEnquiryControllerTest(t *testing.T) (*EnquiryController, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	enquiryRepo := repository.NewEnquiryRepository(testDB)
	enquiryService := service.NewEnquiryService(enquiryRepo, nil)
	controller := NewEnquiryController(enquiryService, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	return controller, router, testDB
}

func enquiryPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":  "Maria Papadopoulou",
		"email": "maria@example.com",
		"cart_snapshot": []map[string]interface{}{
			{
				"product_id": 1,
				"sku":        "BAG-001",
				"name_en":    "Leather Tote",
				"name_el":    "Δερμάτινη τσάντα",
				"qty":        12,
				"price":      24.5,
			},
		},
	}
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEnquiryController_Submit_Success(t *testing.T) {
	controller, router, testDB := setupEnquiryControllerTest(t)
	router.POST("/enquiries", controller.Submit)

	w := postJSON(t, router, "/enquiries", enquiryPayload())

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotZero(t, response["id"])

	var enquiry model.Enquiry
	require.NoError(t, testDB.First(&enquiry, uint(response["id"].(float64))).Error)
	require.Len(t, enquiry.CartSnapshot, 1)
	assert.Equal(t, "BAG-001", enquiry.CartSnapshot[0].SKU)
}

func TestEnquiryController_Submit_ValidationFieldsReported(t *testing.T) {
	controller, router, _ := setupEnquiryControllerTest(t)
	router.POST("/enquiries", controller.Submit)

	payload := enquiryPayload()
	payload["name"] = "M"
	payload["email"] = "nope"

	w := postJSON(t, router, "/enquiries", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Fields, "name")
	assert.Contains(t, response.Fields, "email")
}

func TestEnquiryController_Submit_MalformedBody(t *testing.T) {
	controller, router, _ := setupEnquiryControllerTest(t)
	router.POST("/enquiries", controller.Submit)

	req := httptest.NewRequest(http.MethodPost, "/enquiries", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnquiryController_List_FiltersByStatus(t *testing.T) {
	controller, router, _ := setupEnquiryControllerTest(t)
	router.POST("/enquiries", controller.Submit)
	router.GET("/admin/enquiries", controller.List)

	for i := 0; i < 3; i++ {
		payload := enquiryPayload()
		payload["email"] = fmt.Sprintf("buyer%d@example.com", i)
		w := postJSON(t, router, "/enquiries", payload)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/enquiries?status=new", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var list service.EnquiryList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(3), list.Total)
	assert.Len(t, list.Items, 3)

	req = httptest.NewRequest(http.MethodGet, "/admin/enquiries?status=bogus", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnquiryController_UpdateStatus(t *testing.T) {
	controller, router, _ := setupEnquiryControllerTest(t)
	router.POST("/enquiries", controller.Submit)
	router.PUT("/admin/enquiries/:id/status", controller.UpdateStatus)

	created := postJSON(t, router, "/enquiries", enquiryPayload())
	require.Equal(t, http.StatusCreated, created.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &response))
	id := int(response["id"].(float64))

	w := postPut(t, router, fmt.Sprintf("/admin/enquiries/%d/status", id), map[string]string{"status": "read"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = postPut(t, router, fmt.Sprintf("/admin/enquiries/%d/status", id), map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postPut(t, router, "/admin/enquiries/9999/status", map[string]string{"status": "read"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func postPut(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEnquiryController_Export(t *testing.T) {
	controller, router, _ := setupEnquiryControllerTest(t)
	router.POST("/enquiries", controller.Submit)
	router.GET("/admin/enquiries/export.xlsx", controller.Export)

	created := postJSON(t, router, "/enquiries", enquiryPayload())
	require.Equal(t, http.StatusCreated, created.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/enquiries/export.xlsx", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "enquiries-")
	// XLSX files are zip archives.
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestEnquiryController_Stats(t *testing.T) {
	controller, router, _ := setupEnquiryControllerTest(t)
	router.POST("/enquiries", controller.Submit)
	router.GET("/admin/enquiries/stats", controller.Stats)

	created := postJSON(t, router, "/enquiries", enquiryPayload())
	require.Equal(t, http.StatusCreated, created.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/enquiries/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats["total"])
	assert.Equal(t, int64(1), stats["unread"])
}
