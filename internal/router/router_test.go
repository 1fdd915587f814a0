package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/router"
	"github.com/javajoker/storefront-api/internal/services"
	"github.com/javajoker/storefront-api/internal/testutil"
	"github.com/javajoker/storefront-api/internal/utils"
)

type APITestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	cancel context.CancelFunc

	user     *models.User
	token    string
	category *models.Category
	apple    *models.Product
	pear     *models.Product
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := testutil.NewTestConfig()
	cfg.Storage.LocalPath = s.T().TempDir()
	cfg.Storage.PublicBaseURL = "http://localhost/uploads"

	s.db = testutil.NewTestDB(s.T())
	storage, err := services.NewStorageService(cfg)
	s.Require().NoError(err)

	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	s.router = router.New(ctx, s.db, cfg, nil, storage)

	s.user = testutil.CreateUser(s.T(), s.db, "shopper")
	s.token = s.tokenFor(s.user)
	s.category = testutil.CreateCategory(s.T(), s.db, "Fruits")
	s.apple = testutil.CreateProduct(s.T(), s.db, s.category, "Apple", "2.99", 10)
	s.pear = testutil.CreateProduct(s.T(), s.db, s.category, "Pear", "3.49", 2)
}

func (s *APITestSuite) TearDownTest() {
	s.cancel()
}

func (s *APITestSuite) staffToken(username string) string {
	admin := testutil.CreateUser(s.T(), s.db, username)
	s.Require().NoError(s.db.Model(&models.User{}).Where("id = ?", admin.ID).Update("is_staff", true).Error)
	admin.IsStaff = true
	return s.tokenFor(admin)
}

func (s *APITestSuite) tokenFor(user *models.User) string {
	token, _, err := utils.GenerateJWT(user.ID, user.Username, user.IsStaff, 1)
	s.Require().NoError(err)
	return token
}

func (s *APITestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (s *APITestSuite) TestHealth() {
	w := s.request(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("healthy", s.decode(w)["status"])
}

func (s *APITestSuite) TestRegisterLoginLogout() {
	w := s.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         "newbie",
		"email":            "newbie@example.com",
		"password":         "longenough",
		"password_confirm": "longenough",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	registered := s.decode(w)
	s.NotEmpty(registered["token"])
	s.Equal("newbie", registered["user"].(map[string]interface{})["username"])
	s.NotContains(w.Body.String(), "password")

	w = s.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "newbie", "password": "longenough"})
	s.Require().Equal(http.StatusOK, w.Code)
	login := s.decode(w)
	s.Equal("newbie", login["username"])
	s.Equal("newbie@example.com", login["email"])
	s.NotEmpty(login["user_id"])
	token := login["token"].(string)

	w = s.request(http.MethodGet, "/api/profile", token, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodPost, "/api/auth/logout", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("Successfully logged out", s.decode(w)["message"])

	w = s.request(http.MethodGet, "/api/profile", token, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(s.decode(w), "detail")
}

func (s *APITestSuite) TestRefreshAfterLogout() {
	w := s.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "shopper", "password": "password123"})
	s.Require().Equal(http.StatusOK, w.Code)
	login := s.decode(w)
	token := login["token"].(string)
	refresh := login["refresh_token"].(string)

	w = s.request(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodPost, "/api/auth/logout", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestDeactivatedUserLosesAccess() {
	w := s.request(http.MethodPost, "/api/cart/add", s.token, map[string]interface{}{"product_id": s.apple.ID})
	s.Require().Equal(http.StatusCreated, w.Code)

	adminToken := s.staffToken("admin")
	w = s.request(http.MethodPut, "/api/admin/users/"+s.user.ID.String()+"/status", adminToken, map[string]bool{"is_active": false})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.request(http.MethodPost, "/api/cart/add", s.token, map[string]interface{}{"product_id": s.apple.ID})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("User inactive or deleted.", s.decode(w)["detail"])

	// anonymous endpoints still work, just without the account
	w = s.request(http.MethodGet, "/api/dashboard/stats", s.token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(s.decode(w), "cart_items")

	w = s.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "shopper", "password": "password123"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestDemotedStaffLosesAdminAccess() {
	token := s.staffToken("former-admin")
	w := s.request(http.MethodGet, "/api/admin/stats", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	s.Require().NoError(s.db.Model(&models.User{}).Where("username = ?", "former-admin").Update("is_staff", false).Error)

	w = s.request(http.MethodGet, "/api/admin/stats", token, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APITestSuite) TestLoginFailures() {
	w := s.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "shopper", "password": "nope"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Unable to log in with provided credentials.", s.decode(w)["error"])

	w = s.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "mismatch", "password": "longenough", "password_confirm": "different1",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Passwords don't match", s.decode(w)["error"])
}

func (s *APITestSuite) TestAuthSchemes() {
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Token "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodGet, "/api/cart", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestProductListing() {
	for i := 0; i < 3; i++ {
		testutil.CreateProduct(s.T(), s.db, s.category, "Filler", "1.00", 1)
	}

	w := s.request(http.MethodGet, "/api/products?page_size=2&page=2", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("5", w.Header().Get("X-Total-Count"))
	s.Equal("3", w.Header().Get("X-Total-Pages"))

	page := s.decode(w)
	s.EqualValues(5, page["count"])
	s.Len(page["results"], 2)
	s.Contains(page["next"], "page=3")
	s.Contains(page["previous"], "page=1")

	w = s.request(http.MethodGet, "/api/products?search=APP", "", nil)
	results := s.decode(w)["results"].([]interface{})
	s.Require().Len(results, 1)
	product := results[0].(map[string]interface{})
	s.Equal("2.99", product["price"])
	s.Equal(true, product["is_in_stock"])
	s.Equal("Fruits", product["category"].(map[string]interface{})["name"])
}

func (s *APITestSuite) TestProductDetail() {
	w := s.request(http.MethodGet, "/api/products/"+s.apple.ID.String(), "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Apple", s.decode(w)["name"])

	w = s.request(http.MethodGet, "/api/products/not-a-uuid", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Not found.", s.decode(w)["detail"])

	w = s.request(http.MethodGet, "/api/categories/"+s.category.ID.String(), "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestCartFlow() {
	w := s.request(http.MethodPost, "/api/cart/add", s.token, map[string]interface{}{"product_id": s.apple.ID})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	item := s.decode(w)
	s.EqualValues(1, item["quantity"])
	s.Equal("2.99", item["total_price"])
	itemID := item["id"].(string)

	w = s.request(http.MethodPost, "/api/cart/add", s.token, map[string]interface{}{"product_id": s.apple.ID, "quantity": 2})
	s.Require().Equal(http.StatusCreated, w.Code)
	s.EqualValues(3, s.decode(w)["quantity"])

	w = s.request(http.MethodPost, "/api/cart/add", s.token, map[string]interface{}{"product_id": s.pear.ID, "quantity": 3})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Only 2 items in stock", s.decode(w)["error"])

	w = s.request(http.MethodPatch, "/api/cart/"+itemID+"/update", s.token, map[string]int{"quantity": 4})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("11.96", s.decode(w)["total_price"])

	stranger := s.tokenFor(testutil.CreateUser(s.T(), s.db, "stranger"))
	w = s.request(http.MethodDelete, "/api/cart/"+itemID+"/delete", stranger, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodGet, "/api/cart", s.token, nil)
	s.EqualValues(1, s.decode(w)["count"])

	w = s.request(http.MethodDelete, "/api/cart/clear", s.token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("Cart cleared successfully", s.decode(w)["message"])
}

func (s *APITestSuite) TestOrderFlow() {
	w := s.request(http.MethodPost, "/api/orders/create", s.token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Cart is empty", s.decode(w)["error"])

	testutil.AddToCart(s.T(), s.db, s.user, s.apple, 3)

	w = s.request(http.MethodPost, "/api/orders/create", s.token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Shipping address required", s.decode(w)["error"])

	w = s.request(http.MethodPost, "/api/orders/create", s.token, map[string]string{"shipping_address": "1 Main St"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	order := s.decode(w)
	s.Equal("pending", order["status"])
	s.Equal("8.97", order["total_amount"])
	s.Len(order["items"], 1)
	s.Equal(7, testutil.Stock(s.T(), s.db, s.apple.ID))

	w = s.request(http.MethodGet, "/api/orders/"+order["id"].(string), s.token, nil)
	s.Equal(http.StatusOK, w.Code)

	stranger := s.tokenFor(testutil.CreateUser(s.T(), s.db, "stranger"))
	w = s.request(http.MethodGet, "/api/orders/"+order["id"].(string), stranger, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodGet, "/api/orders", s.token, nil)
	s.EqualValues(1, s.decode(w)["count"])

	w = s.request(http.MethodPost, "/api/orders/"+order["id"].(string)+"/payment-intent", s.token, nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *APITestSuite) TestOrderInsufficientStock() {
	testutil.AddToCart(s.T(), s.db, s.user, s.apple, 2)
	testutil.AddToCart(s.T(), s.db, s.user, s.pear, 5)

	w := s.request(http.MethodPost, "/api/orders/create", s.token, map[string]string{"shipping_address": "1 Main St"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Insufficient stock for Pear. Only 2 available.", s.decode(w)["error"])

	s.Equal(10, testutil.Stock(s.T(), s.db, s.apple.ID))
	var orders int64
	s.db.Model(&models.Order{}).Count(&orders)
	s.Zero(orders)
}

func (s *APITestSuite) TestReviews() {
	w := s.request(http.MethodPost, "/api/reviews/create", s.token, map[string]interface{}{
		"product_id": s.apple.ID, "rating": 6, "comment": "too good",
	})
	s.Require().Equal(http.StatusBadRequest, w.Code)
	details := s.decode(w)["details"].([]interface{})
	s.Equal("rating", details[0].(map[string]interface{})["field"])

	w = s.request(http.MethodPost, "/api/reviews/create", s.token, map[string]interface{}{
		"product_id": s.apple.ID, "rating": 4, "comment": "crisp",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.request(http.MethodGet, "/api/products/"+s.apple.ID.String()+"/reviews", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, s.decode(w)["count"])

	w = s.request(http.MethodGet, "/api/products/"+s.apple.ID.String(), "", nil)
	s.EqualValues(4, s.decode(w)["average_rating"])
}

func (s *APITestSuite) TestWishlist() {
	w := s.request(http.MethodPost, "/api/wishlist/add", s.token, map[string]interface{}{"product_id": s.apple.ID})
	s.Require().Equal(http.StatusCreated, w.Code)
	id := s.decode(w)["id"]

	w = s.request(http.MethodPost, "/api/wishlist/add", s.token, map[string]interface{}{"product_id": s.apple.ID})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(id, s.decode(w)["id"])

	w = s.request(http.MethodDelete, "/api/wishlist/"+id.(string)+"/delete", s.token, nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *APITestSuite) TestDashboard() {
	w := s.request(http.MethodGet, "/api/dashboard/stats", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	anonymous := s.decode(w)
	s.EqualValues(2, anonymous["total_products"])
	s.NotContains(anonymous, "cart_items")

	testutil.AddToCart(s.T(), s.db, s.user, s.apple, 1)
	w = s.request(http.MethodGet, "/api/dashboard/stats", s.token, nil)
	s.EqualValues(1, s.decode(w)["cart_items"])
}

func (s *APITestSuite) TestLocalizedMessages() {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/create", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.NotEqual("Cart is empty", s.decode(w)["error"])
}

func (s *APITestSuite) TestAdminRequiresStaff() {
	w := s.request(http.MethodPost, "/api/admin/categories", s.token, map[string]string{"name": "Tools"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodGet, "/api/admin/stats", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestAdminCatalogManagement() {
	token := s.staffToken("admin")

	w := s.request(http.MethodPost, "/api/admin/categories", token, map[string]string{"name": "Tools"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	categoryID := s.decode(w)["id"]

	w = s.request(http.MethodPost, "/api/admin/products", token, map[string]interface{}{
		"name": "Hammer", "description": "Steel", "price": "12.50", "stock": 4, "category_id": categoryID,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	product := s.decode(w)
	s.Equal("12.5", product["price"])

	w = s.request(http.MethodDelete, "/api/admin/categories/"+categoryID.(string), token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Category still has products", s.decode(w)["error"])

	w = s.request(http.MethodPut, "/api/admin/products/"+product["id"].(string), token, map[string]interface{}{"is_active": false})
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.request(http.MethodGet, "/api/products/"+product["id"].(string), "", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodGet, "/api/admin/products/export", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Type"), "spreadsheetml")
	s.Contains(w.Header().Get("Content-Disposition"), "products.xlsx")

	w = s.request(http.MethodGet, "/api/admin/stats", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(2, s.decode(w)["total_users"])
}

func (s *APITestSuite) TestAdminOrderStatus() {
	token := s.staffToken("admin")

	testutil.AddToCart(s.T(), s.db, s.user, s.apple, 1)
	w := s.request(http.MethodPost, "/api/orders/create", s.token, map[string]string{"shipping_address": "1 Main St"})
	s.Require().Equal(http.StatusCreated, w.Code)
	orderID := s.decode(w)["id"].(string)

	w = s.request(http.MethodPut, "/api/admin/orders/"+orderID+"/status", token, map[string]string{"status": "shipped"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("shipped", s.decode(w)["status"])

	w = s.request(http.MethodPut, "/api/admin/orders/"+orderID+"/status", token, map[string]string{"status": "lost"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request(http.MethodGet, "/api/admin/orders?status=shipped", token, nil)
	s.EqualValues(1, s.decode(w)["count"])
}

func (s *APITestSuite) TestAdminImageUpload() {
	token := s.staffToken("admin")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("image", "apple.png")
	s.Require().NoError(err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01"))
	s.Require().NoError(err)
	s.Require().NoError(form.WriteField("folder", "products"))
	s.Require().NoError(form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads/images", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	result := s.decode(w)
	s.Equal("image/png", result["mime_type"])
	s.Contains(result["url"], "http://localhost/uploads/products/")
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
