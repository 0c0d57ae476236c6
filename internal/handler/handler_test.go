package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dan9191/mealmate/internal/metrics"
	"github.com/Dan9191/mealmate/internal/middleware"
	"github.com/Dan9191/mealmate/internal/repository"
	"github.com/Dan9191/mealmate/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devOrigin = "http://localhost:5173"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := service.NewService(repository.NewMemory(), log, nil)
	router := NewRouter(NewHandler(svc, log), metrics.New("test"))
	return middleware.NewCORSMiddleware([]string{devOrigin}).Handler(router)
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func seedUserAndRecipe(t *testing.T, h http.Handler) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/register", map[string]string{"username": "u1", "email": "e1@example.com", "password": "p1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/recipes", map[string]interface{}{"title": "Soup", "ingredients": "water", "user_id": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegisterAndLoginScenario(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/register", map[string]string{"username": "u1", "email": "e1", "password": "p1"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered successfully", decodeBody(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/register", map[string]string{"username": "u1", "email": "e2", "password": "p2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already exists", decodeBody(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/register", map[string]string{"username": "u2", "email": "e1", "password": "p2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists", decodeBody(t, rec)["message"])

	rec = do(t, h, http.MethodPost, "/login", map[string]string{"username_or_email": "u1", "password": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, float64(1), body["user_id"])
	assert.Equal(t, "u1", body["username"])
	assert.Equal(t, "e1", body["email"])
	assert.NotContains(t, body, "token")
}

func TestRegisterRequestErrors(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("username=u1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "Missing JSON in request", decodeBody(t, rec)["error"])

	rec = do(t, h, http.MethodPost, "/register", map[string]string{"username": "u1", "password": "p1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request data", decodeBody(t, rec)["message"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h := newTestServer(t)
	do(t, h, http.MethodPost, "/register", map[string]string{"username": "u1", "email": "e1", "password": "p1"})

	wrongPassword := do(t, h, http.MethodPost, "/login", map[string]string{"username": "u1", "password": "bad"})
	unknownUser := do(t, h, http.MethodPost, "/login", map[string]string{"email": "nobody", "password": "p1"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())

	rec := do(t, h, http.MethodPost, "/login", map[string]string{"password": "p1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/login", map[string]string{"username": "u1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password is required", decodeBody(t, rec)["error"])

	rec = do(t, h, http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login endpoint", decodeBody(t, rec)["message"])
}

func TestRecipeEndpoints(t *testing.T) {
	h := newTestServer(t)
	seedUserAndRecipe(t, h)

	rec := do(t, h, http.MethodPost, "/recipes", map[string]interface{}{"title": "Salad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", decodeBody(t, rec)["error"])

	rec = do(t, h, http.MethodPost, "/recipes", map[string]interface{}{
		"title": "Stew", "ingredients": "beef\ncarrot", "instructions": "simmer", "user_id": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Recipe added successfully", decodeBody(t, rec)["message"])

	rec = do(t, h, http.MethodGet, "/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recipes []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recipes))
	require.Len(t, recipes, 2)
	stew := recipes[1]
	assert.Equal(t, "Stew", stew["title"])
	assert.Equal(t, "beef\ncarrot", stew["ingredients"])
	assert.Equal(t, "simmer", stew["instructions"])
	assert.Equal(t, float64(1), stew["user_id"])

	rec = do(t, h, http.MethodPut, "/recipes/2", map[string]interface{}{"title": "Beef Stew", "user_id": 99})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/recipes/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Beef Stew", body["title"])
	assert.Equal(t, "beef\ncarrot", body["ingredients"])
	assert.Equal(t, "simmer", body["instructions"])
	assert.Equal(t, float64(1), body["user_id"])

	rec = do(t, h, http.MethodDelete, "/recipes/2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Recipe deleted successfully", decodeBody(t, rec)["message"])

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec = do(t, h, method, "/recipes/2", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
		assert.Equal(t, "Recipe not found", decodeBody(t, rec)["error"])
	}
	rec = do(t, h, http.MethodPut, "/recipes/2", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/recipes/soup", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = do(t, h, http.MethodPatch, "/recipes/1", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRecipeWithUnknownOwnerIsServerError(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/recipes", map[string]interface{}{"title": "a", "ingredients": "b", "user_id": 42})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["error"])
}

func TestMealEndpoints(t *testing.T) {
	h := newTestServer(t)
	seedUserAndRecipe(t, h)

	rec := do(t, h, http.MethodPost, "/meals", map[string]interface{}{"date": "13/02/2024", "user_id": 1, "recipe_id": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", decodeBody(t, rec)["error"])

	rec = do(t, h, http.MethodPost, "/meals", map[string]interface{}{"date": "2024-02-13", "user_id": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", decodeBody(t, rec)["error"])

	rec = do(t, h, http.MethodPost, "/meals", map[string]interface{}{
		"name": "Dinner", "date": "2024-02-13", "user_id": 1, "recipe_id": 1, "notes": "double portion",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Meal added successfully", decodeBody(t, rec)["message"])

	rec = do(t, h, http.MethodPut, "/meals/1", map[string]interface{}{"date": "2024-02-14", "user_id": 1, "recipe_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/meals/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"id":1,"name":"Dinner","date":"2024-02-14","user_id":1,"recipe_id":1,"notes":"double portion"}`,
		rec.Body.String())

	rec = do(t, h, http.MethodPut, "/meals/1", map[string]interface{}{"name": "Lunch"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/meals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`[{"id":1,"name":"Dinner","date":"2024-02-14","user_id":1,"recipe_id":1,"notes":"double portion"}]`,
		rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/recipes/1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodDelete, "/meals/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodDelete, "/meals/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Meal not found", decodeBody(t, rec)["error"])
}

func TestEmptyListsAreArrays(t *testing.T) {
	h := newTestServer(t)
	for _, path := range []string{"/recipes", "/meals"} {
		rec := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	}
}

func TestRecipeMLExportAndImport(t *testing.T) {
	h := newTestServer(t)
	seedUserAndRecipe(t, h)
	do(t, h, http.MethodPut, "/recipes/1", map[string]string{"instructions": "boil\nserve"})

	rec := do(t, h, http.MethodGet, "/recipes/1/recipeml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	doc := rec.Body.Bytes()

	req := httptest.NewRequest(http.MethodPost, "/recipes/import?user_id=1", bytes.NewReader(doc))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["id"])

	rec = do(t, h, http.MethodGet, "/recipes/2", nil)
	assert.JSONEq(t, `{"id":2,"title":"Soup","ingredients":"water","instructions":"boil\nserve","user_id":1}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/recipes/import", bytes.NewReader(doc))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/recipes/import?user_id=1", strings.NewReader("<recipeml/>"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/recipes/9/recipeml", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreflightReturnsEmptyOK(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", devOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, devOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestMetricsUseRouteTemplates(t *testing.T) {
	h := newTestServer(t)
	do(t, h, http.MethodGet, "/recipes/7", nil)

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/recipes/{id:[0-9]+}"`)
	assert.NotContains(t, rec.Body.String(), `path="/recipes/7"`)
}

func TestLongPasswordRegisterAndLogin(t *testing.T) {
	h := newTestServer(t)
	password := strings.Repeat("correct horse battery staple ", 5)
	require.Greater(t, len(password), 100)

	rec := do(t, h, http.MethodPost, "/register", map[string]string{"username": "u1", "email": "e1", "password": password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/login", map[string]string{"username": "u1", "password": password})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/login", map[string]string{"username": "u1", "password": password[:72]})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIDsOutsideSerialRangeAreNotFound(t *testing.T) {
	h := newTestServer(t)
	seedUserAndRecipe(t, h)

	tests := []struct {
		path    string
		message string
	}{
		{"/recipes/3000000000", "Recipe not found"},
		{"/recipes/0", "Recipe not found"},
		{"/meals/3000000000", "Meal not found"},
		{"/meals/99999999999999999999", "Meal not found"},
	}
	for _, tt := range tests {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			t.Run(method+" "+tt.path, func(t *testing.T) {
				var body interface{}
				if method == http.MethodPut {
					body = map[string]interface{}{"title": "x", "date": "2024-02-13", "user_id": 1, "recipe_id": 1}
				}
				rec := do(t, h, method, tt.path, body)
				assert.Equal(t, http.StatusNotFound, rec.Code)
				assert.Equal(t, tt.message, decodeBody(t, rec)["error"])
			})
		}
	}
}

func TestBodiesOverOneMebibyteAreRejected(t *testing.T) {
	h := newTestServer(t)
	seedUserAndRecipe(t, h)

	rec := do(t, h, http.MethodPost, "/recipes", map[string]interface{}{
		"title": "Huge", "ingredients": strings.Repeat("a", maxBodyBytes), "user_id": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", decodeBody(t, rec)["error"])

	rec = do(t, h, http.MethodPost, "/recipes", map[string]interface{}{
		"title": "Large", "ingredients": strings.Repeat("a", maxBodyBytes/2), "user_id": 1,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestMealUpdateWithDanglingReferenceIsServerError(t *testing.T) {
	h := newTestServer(t)
	seedUserAndRecipe(t, h)
	rec := do(t, h, http.MethodPost, "/meals", map[string]interface{}{"date": "2024-02-13", "user_id": 1, "recipe_id": 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPut, "/meals/1", map[string]interface{}{"date": "2024-02-13", "user_id": 1, "recipe_id": 77})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["error"])

	rec = do(t, h, http.MethodGet, "/meals/1", nil)
	assert.Equal(t, float64(1), decodeBody(t, rec)["recipe_id"])
}
