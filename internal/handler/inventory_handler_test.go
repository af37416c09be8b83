package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/inventory_api/internal/database/dbtest"
	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/repository"
	"github.com/GTDGit/inventory_api/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"requestId"`
		Count     *int   `json:"count"`
	} `json:"meta"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.New(t)
	employees := NewEmployeeHandler(service.NewEmployeeService(repository.NewEmployeeRepository(db), nil))
	products := NewProductHandler(service.NewProductService(repository.NewProductRepository(db), nil))

	r := gin.New()
	r.GET("/health", NewHealthHandler(db).GetHealth)
	for path, h := range map[string]interface {
		List(*gin.Context)
		Search(*gin.Context)
		Get(*gin.Context)
		Create(*gin.Context)
		Update(*gin.Context)
		Delete(*gin.Context)
	}{"/employees": employees, "/products": products} {
		g := r.Group(path)
		g.GET("", h.List)
		g.POST("", h.Create)
		g.POST("/search", h.Search)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeEmployees(t *testing.T, raw json.RawMessage) []models.Employee {
	t.Helper()
	var out []models.Employee
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestEmployeeEndpointsScenario(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodPost, "/employees", `{"id": 50, "name": "Jana", "position": "Cashier"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Employee
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, uint32(1), *created.ID)

	w, _ = do(t, r, http.MethodPost, "/employees", `{"name": "Jan", "position": "Manager"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = do(t, r, http.MethodPost, "/employees/search", `{"name": "Jan"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeEmployees(t, env.Data), 2)
	require.NotNil(t, env.Meta.Count)
	assert.Equal(t, 2, *env.Meta.Count)

	w, env = do(t, r, http.MethodPost, "/employees/search", `{"name": "Jana"}`)
	require.Equal(t, http.StatusOK, w.Code)
	found := decodeEmployees(t, env.Data)
	require.Len(t, found, 1)
	assert.Equal(t, uint32(1), *found[0].ID)

	// The path id wins over the body.
	w, env = do(t, r, http.MethodPut, "/employees/2", `{"id": 1, "department": "Ops"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Employee
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Nil(t, env.Meta.Count, "single entities carry no count")
	assert.Equal(t, uint32(2), *updated.ID)
	assert.Equal(t, "Ops", *updated.Department)
	assert.Equal(t, "Manager", *updated.Position)

	w, _ = do(t, r, http.MethodDelete, "/employees/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, env = do(t, r, http.MethodGet, "/employees", "")
	require.Equal(t, http.StatusOK, w.Code)
	all := decodeEmployees(t, env.Data)
	require.Len(t, all, 1)
	require.NotNil(t, env.Meta.Count)
	assert.Equal(t, 1, *env.Meta.Count)
	assert.Equal(t, uint32(2), *all[0].ID)
	assert.Nil(t, all[0].Status)
}

func TestNotFoundAndBadInput(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		method, path, body string
		status             int
		code               string
	}{
		{http.MethodDelete, "/employees/9", "", http.StatusNotFound, "EMPLOYEE_NOT_FOUND"},
		{http.MethodPut, "/products/9", `{"brand": "Acme"}`, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{http.MethodGet, "/products/9", "", http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{http.MethodGet, "/employees/abc", "", http.StatusBadRequest, "INVALID_ID"},
		{http.MethodDelete, "/employees/4294967296", "", http.StatusBadRequest, "INVALID_ID"},
		{http.MethodPost, "/employees/search", `{"name": 5}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{http.MethodPost, "/products", `{"quantity": -1}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{http.MethodPost, "/products", `{"date_added": "01/02/2024"}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{http.MethodPost, "/employees", `{"name": "Eva"}`, http.StatusBadRequest, "VALIDATION_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w, env := do(t, r, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestUpdateWithoutFieldsIsNotFound(t *testing.T) {
	r := newTestRouter(t)
	w, _ := do(t, r, http.MethodPost, "/employees", `{"position": "Cashier"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = do(t, r, http.MethodPut, "/employees/1", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductCreateAndSearch(t *testing.T) {
	r := newTestRouter(t)

	body := `{"name": "Green tea", "category": "drinks", "quantity": 12, "status": false, "bar_code": 8586000000001,
		"cost_price": 0.8, "sell_price": 1.25, "employee_id": 1, "date_added": "2024-02-29"}`
	w, _ := do(t, r, http.MethodPost, "/products", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := do(t, r, http.MethodPost, "/products/search", `{"status": false, "date_added": "2024-02-29"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var found []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "2024-02-29", found[0].DateAdded.String())
	assert.False(t, *found[0].Status)

	w, env = do(t, r, http.MethodPost, "/products/search", `{"status": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
	require.NotNil(t, env.Meta.Count)
	assert.Zero(t, *env.Meta.Count)
}

type failingService struct{}

func (failingService) Create(context.Context, *models.Employee) error { return errors.New("disk I/O error") }
func (failingService) Update(context.Context, *models.Employee) (bool, error) {
	return false, errors.New("disk I/O error")
}
func (failingService) Delete(context.Context, uint32) (bool, error) {
	return false, errors.New("disk I/O error")
}
func (failingService) Query(context.Context, *models.Employee) ([]models.Employee, error) {
	return nil, errors.New("disk I/O error")
}
func (failingService) Get(context.Context, uint32) (*models.Employee, error) {
	return nil, errors.New("disk I/O error")
}

func TestStoreFailureDoesNotLeakDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEmployeeHandler(failingService{})
	r := gin.New()
	r.GET("/employees", h.List)
	r.POST("/employees", h.Create)
	r.DELETE("/employees/:id", h.Delete)

	for _, req := range [][3]string{
		{http.MethodGet, "/employees", ""},
		{http.MethodPost, "/employees", `{"position": "Cashier"}`},
		{http.MethodDelete, "/employees/1", ""},
	} {
		w, env := do(t, r, req[0], req[1], req[2])
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
		assert.NotContains(t, w.Body.String(), "disk")
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w, env := do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}
