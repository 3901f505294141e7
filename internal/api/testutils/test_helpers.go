package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/eemerson/paybox-server/internal/api"
	"github.com/eemerson/paybox-server/internal/logger"
	"github.com/eemerson/paybox-server/internal/models"
	"github.com/eemerson/paybox-server/internal/ocr"
	"github.com/eemerson/paybox-server/internal/service"
	"github.com/eemerson/paybox-server/internal/storage"
)

const TestJWTSecret = "test-secret-key"

// StubService implements service.Service through overridable function
// fields. Unset methods fail the calling handler with a nil-pointer
// panic, which is what we want: a test touching an endpoint it did not
// stub is a test bug.
type StubService struct {
	LoginFn      func(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	RegisterFn   func(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	GetProfileFn func(ctx context.Context, userID string) (*models.UserProfile, error)

	ListUsersFn  func(ctx context.Context, actorID string) ([]models.UserProfile, error)
	CreateUserFn func(ctx context.Context, actorID string, req models.CreateUserRequest) (*models.UserProfile, error)
	UpdateUserFn func(ctx context.Context, actorID, targetID string, req models.UpdateUserRequest) (*models.UserProfile, error)

	ListCategoriesFn func(ctx context.Context) ([]models.Category, error)
	CreateCategoryFn func(ctx context.Context, actorID string, req models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategoryFn func(ctx context.Context, actorID string, id int64, req models.CreateCategoryRequest) (*models.Category, error)
	DeleteCategoryFn func(ctx context.Context, actorID string, id int64) error

	CreatePaymentFn func(ctx context.Context, actorID string, req models.CreatePaymentRequest) (*models.PaymentRecord, error)
	GetPaymentFn    func(ctx context.Context, id int64) (*models.PaymentRecord, error)
	ListPaymentsFn  func(ctx context.Context, exported *bool) ([]models.PaymentRecord, error)
	UpdatePaymentFn func(ctx context.Context, actorID string, id int64, req models.UpdatePaymentRequest) (*models.PaymentRecord, error)
	DeletePaymentFn func(ctx context.Context, actorID string, id int64) error

	AddAttachmentsFn   func(ctx context.Context, actorID string, paymentID int64, files []storage.File) ([]storage.FileResult, *models.PaymentRecord, error)
	RemoveAttachmentFn func(ctx context.Context, actorID string, paymentID int64, fileURL string) (*models.PaymentRecord, error)

	RunExportFn   func(ctx context.Context) (*service.ExportResult, error)
	ExportStatsFn func(ctx context.Context) (*models.ExportStats, error)

	ListTrailerServicesFn  func(ctx context.Context) ([]models.TrailerService, error)
	CreateTrailerServiceFn func(ctx context.Context, actorID string, req models.TrailerServiceRequest) (*models.TrailerService, error)
	UpdateTrailerServiceFn func(ctx context.Context, actorID string, id int64, req models.TrailerServiceRequest) (*models.TrailerService, error)
	DeleteTrailerServiceFn func(ctx context.Context, actorID string, id int64) error

	ListSystemUpdatesFn  func(ctx context.Context) ([]models.SystemUpdate, error)
	CreateSystemUpdateFn func(ctx context.Context, actorID string, req models.SystemUpdateRequest) (*models.SystemUpdate, error)
	UpdateSystemUpdateFn func(ctx context.Context, actorID, id string, req models.SystemUpdateRequest) (*models.SystemUpdate, error)
	DeleteSystemUpdateFn func(ctx context.Context, actorID, id string) error
}

func (s *StubService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return s.LoginFn(ctx, req)
}

func (s *StubService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return s.RegisterFn(ctx, req)
}

func (s *StubService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.GetProfileFn(ctx, userID)
}

func (s *StubService) ListUsers(ctx context.Context, actorID string) ([]models.UserProfile, error) {
	return s.ListUsersFn(ctx, actorID)
}

func (s *StubService) CreateUser(ctx context.Context, actorID string, req models.CreateUserRequest) (*models.UserProfile, error) {
	return s.CreateUserFn(ctx, actorID, req)
}

func (s *StubService) UpdateUser(ctx context.Context, actorID, targetID string, req models.UpdateUserRequest) (*models.UserProfile, error) {
	return s.UpdateUserFn(ctx, actorID, targetID, req)
}

func (s *StubService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.ListCategoriesFn(ctx)
}

func (s *StubService) CreateCategory(ctx context.Context, actorID string, req models.CreateCategoryRequest) (*models.Category, error) {
	return s.CreateCategoryFn(ctx, actorID, req)
}

func (s *StubService) UpdateCategory(ctx context.Context, actorID string, id int64, req models.CreateCategoryRequest) (*models.Category, error) {
	return s.UpdateCategoryFn(ctx, actorID, id, req)
}

func (s *StubService) DeleteCategory(ctx context.Context, actorID string, id int64) error {
	return s.DeleteCategoryFn(ctx, actorID, id)
}

func (s *StubService) CreatePayment(ctx context.Context, actorID string, req models.CreatePaymentRequest) (*models.PaymentRecord, error) {
	return s.CreatePaymentFn(ctx, actorID, req)
}

func (s *StubService) GetPayment(ctx context.Context, id int64) (*models.PaymentRecord, error) {
	return s.GetPaymentFn(ctx, id)
}

func (s *StubService) ListPayments(ctx context.Context, exported *bool) ([]models.PaymentRecord, error) {
	return s.ListPaymentsFn(ctx, exported)
}

func (s *StubService) UpdatePayment(ctx context.Context, actorID string, id int64, req models.UpdatePaymentRequest) (*models.PaymentRecord, error) {
	return s.UpdatePaymentFn(ctx, actorID, id, req)
}

func (s *StubService) DeletePayment(ctx context.Context, actorID string, id int64) error {
	return s.DeletePaymentFn(ctx, actorID, id)
}

func (s *StubService) AddAttachments(ctx context.Context, actorID string, paymentID int64, files []storage.File) ([]storage.FileResult, *models.PaymentRecord, error) {
	return s.AddAttachmentsFn(ctx, actorID, paymentID, files)
}

func (s *StubService) RemoveAttachment(ctx context.Context, actorID string, paymentID int64, fileURL string) (*models.PaymentRecord, error) {
	return s.RemoveAttachmentFn(ctx, actorID, paymentID, fileURL)
}

func (s *StubService) RunExport(ctx context.Context) (*service.ExportResult, error) {
	return s.RunExportFn(ctx)
}

func (s *StubService) ExportStats(ctx context.Context) (*models.ExportStats, error) {
	return s.ExportStatsFn(ctx)
}

func (s *StubService) ListTrailerServices(ctx context.Context) ([]models.TrailerService, error) {
	return s.ListTrailerServicesFn(ctx)
}

func (s *StubService) CreateTrailerService(ctx context.Context, actorID string, req models.TrailerServiceRequest) (*models.TrailerService, error) {
	return s.CreateTrailerServiceFn(ctx, actorID, req)
}

func (s *StubService) UpdateTrailerService(ctx context.Context, actorID string, id int64, req models.TrailerServiceRequest) (*models.TrailerService, error) {
	return s.UpdateTrailerServiceFn(ctx, actorID, id, req)
}

func (s *StubService) DeleteTrailerService(ctx context.Context, actorID string, id int64) error {
	return s.DeleteTrailerServiceFn(ctx, actorID, id)
}

func (s *StubService) ListSystemUpdates(ctx context.Context) ([]models.SystemUpdate, error) {
	return s.ListSystemUpdatesFn(ctx)
}

func (s *StubService) CreateSystemUpdate(ctx context.Context, actorID string, req models.SystemUpdateRequest) (*models.SystemUpdate, error) {
	return s.CreateSystemUpdateFn(ctx, actorID, req)
}

func (s *StubService) UpdateSystemUpdate(ctx context.Context, actorID, id string, req models.SystemUpdateRequest) (*models.SystemUpdate, error) {
	return s.UpdateSystemUpdateFn(ctx, actorID, id, req)
}

func (s *StubService) DeleteSystemUpdate(ctx context.Context, actorID, id string) error {
	return s.DeleteSystemUpdateFn(ctx, actorID, id)
}

// StubExtractor implements api.Extractor.
type StubExtractor struct {
	ExtractFn func(ctx context.Context, imageURL string) (*ocr.Extraction, error)
}

func (s *StubExtractor) Extract(ctx context.Context, imageURL string) (*ocr.Extraction, error) {
	return s.ExtractFn(ctx, imageURL)
}

// StubFleet implements api.FleetClient.
type StubFleet struct {
	VehiclesFn      func(ctx context.Context) ([]models.Vehicle, error)
	CreateGeolinkFn func(ctx context.Context, trackerID int64, label string) (int64, error)
	GeolinksFn      func(ctx context.Context) ([]models.Geolink, error)
}

func (s *StubFleet) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	return s.VehiclesFn(ctx)
}

func (s *StubFleet) CreateGeolink(ctx context.Context, trackerID int64, label string) (int64, error) {
	return s.CreateGeolinkFn(ctx, trackerID, label)
}

func (s *StubFleet) Geolinks(ctx context.Context) ([]models.Geolink, error) {
	return s.GeolinksFn(ctx)
}

// SetupRouter builds a router over the given stubs, wired the same way
// the server wires production dependencies.
func SetupRouter(svc service.Service, extractor api.Extractor, fleet api.FleetClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(TestJWTSecret))
		c.Next()
	})

	handler := api.NewHandler(svc, extractor, fleet, logger.NewWithWriter(&strings.Builder{}))
	handler.SetupRoutes(router)
	return router
}

// TokenFor signs a test JWT for the given user.
func TokenFor(t *testing.T, userID string, role models.Role) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(TestJWTSecret))
	require.NoError(t, err, "Failed to generate JWT token")
	return tokenString
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
