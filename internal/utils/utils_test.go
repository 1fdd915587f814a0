package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected PaginationParams
	}{
		{"defaults", "/items", PaginationParams{Page: 1, PageSize: 20}},
		{"explicit", "/items?page=3&page_size=5", PaginationParams{Page: 3, PageSize: 5}},
		{"capped", "/items?page_size=1000", PaginationParams{Page: 1, PageSize: 100}},
		{"garbage", "/items?page=-2&page_size=abc", PaginationParams{Page: 1, PageSize: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(tt.query)
			assert.Equal(t, tt.expected, GetPaginationParams(c, 20, 100))
		})
	}
}

func TestNewPageLinks(t *testing.T) {
	c, _ := newContext("http://example.com/api/products?search=tea&page=2&page_size=5")
	params := GetPaginationParams(c, 20, 100)

	page := NewPage(c, []string{"a"}, 12, params)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://example.com/api/products?page=3&page_size=5&search=tea", *page.Next)
	assert.Equal(t, "http://example.com/api/products?page=1&page_size=5&search=tea", *page.Previous)

	last := NewPage(c, nil, 10, params)
	assert.Nil(t, last.Next)
}

func TestPaginatedResponseHeaders(t *testing.T) {
	c, w := newContext("/api/orders?page=1&page_size=2")
	params := GetPaginationParams(c, 20, 100)

	PaginatedResponse(c, NewPage(c, []int{1, 2}, 5, params))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-Total-Count"))
	assert.Equal(t, "1", w.Header().Get("X-Page"))
	assert.Equal(t, "2", w.Header().Get("X-Per-Page"))
	assert.Equal(t, "3", w.Header().Get("X-Total-Pages"))
	assert.JSONEq(t, `{"count":5,"next":"http://example.com/api/orders?page=2&page_size=2","previous":null,"results":[1,2]}`, w.Body.String())
}

func TestErrorResponses(t *testing.T) {
	c, w := newContext("/")
	BadRequestResponse(c, "Cart is empty")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cart is empty"}`, w.Body.String())

	c, w = newContext("/")
	NotFoundResponse(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, w.Body.String())

	c, w = newContext("/")
	c.Set(ContextLang, "zh_TW")
	UnauthorizedResponse(c, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	assert.Contains(t, w.Body.String(), "未提供")
}

func TestParseIDParam(t *testing.T) {
	c, w := newContext("/")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok := ParseIDParam(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := uuid.New()
	c, _ = newContext("/")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	parsed, ok := ParseIDParam(c, "id")
	assert.True(t, ok)
	assert.Equal(t, id, parsed)
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("unit-test-secret")
	userID := uuid.New()

	token, issued, err := GenerateJWT(userID, "alice", true, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, issued.ID, claims.ID)

	parsed, err := claims.ParsedUserID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)

	// access and refresh tokens are not interchangeable
	refresh, _, err := GenerateRefreshToken(userID, "alice", true, 1)
	require.NoError(t, err)
	_, err = ValidateJWT(refresh)
	assert.Error(t, err)
	_, err = ValidateRefreshToken(token)
	assert.Error(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)
}

func TestGenerateTokenPairSharesSession(t *testing.T) {
	SetJWTSecret("unit-test-secret")
	userID := uuid.New()

	pair, err := GenerateTokenPair(userID, "alice", false, 1, 24)
	require.NoError(t, err)

	access, err := ValidateJWT(pair.Access)
	require.NoError(t, err)
	refresh, err := ValidateRefreshToken(pair.Refresh)
	require.NoError(t, err)

	assert.NotEmpty(t, access.SessionID)
	assert.Equal(t, access.SessionID, refresh.SessionID)
	assert.NotEqual(t, access.ID, refresh.ID)

	other, err := GenerateTokenPair(userID, "alice", false, 1, 24)
	require.NoError(t, err)
	assert.NotEqual(t, access.SessionID, other.AccessClaims.SessionID)
}

func TestExpiredJWT(t *testing.T) {
	SetJWTSecret("unit-test-secret")
	token, _, err := GenerateJWT(uuid.New(), "bob", false, -1)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

type signupForm struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=8"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(signupForm{Username: "bad name!", Password: "short", Rating: 6})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, map[string]string{"username": "username", "password": "min", "rating": "max"}, fields)

	assert.NoError(t, ValidateStruct(signupForm{Username: "alice.b+1", Password: "longenough", Rating: 5}))
}
