package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
	"github.com/eemerson/paybox-server/internal/repository"
	"github.com/eemerson/paybox-server/internal/storage"
)

// Service defines the business logic operations
type Service interface {
	// Auth operations
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)

	// User management operations
	ListUsers(ctx context.Context, actorID string) ([]models.UserProfile, error)
	CreateUser(ctx context.Context, actorID string, req models.CreateUserRequest) (*models.UserProfile, error)
	UpdateUser(ctx context.Context, actorID, targetID string, req models.UpdateUserRequest) (*models.UserProfile, error)

	// Category operations
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, actorID string, req models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, actorID string, id int64, req models.CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, actorID string, id int64) error

	// Payment record operations
	CreatePayment(ctx context.Context, actorID string, req models.CreatePaymentRequest) (*models.PaymentRecord, error)
	GetPayment(ctx context.Context, id int64) (*models.PaymentRecord, error)
	ListPayments(ctx context.Context, exported *bool) ([]models.PaymentRecord, error)
	UpdatePayment(ctx context.Context, actorID string, id int64, req models.UpdatePaymentRequest) (*models.PaymentRecord, error)
	DeletePayment(ctx context.Context, actorID string, id int64) error

	// Attachment operations
	AddAttachments(ctx context.Context, actorID string, paymentID int64, files []storage.File) ([]storage.FileResult, *models.PaymentRecord, error)
	RemoveAttachment(ctx context.Context, actorID string, paymentID int64, fileURL string) (*models.PaymentRecord, error)

	// Export operations
	RunExport(ctx context.Context) (*ExportResult, error)
	ExportStats(ctx context.Context) (*models.ExportStats, error)

	// Trailer service operations
	ListTrailerServices(ctx context.Context) ([]models.TrailerService, error)
	CreateTrailerService(ctx context.Context, actorID string, req models.TrailerServiceRequest) (*models.TrailerService, error)
	UpdateTrailerService(ctx context.Context, actorID string, id int64, req models.TrailerServiceRequest) (*models.TrailerService, error)
	DeleteTrailerService(ctx context.Context, actorID string, id int64) error

	// System update operations
	ListSystemUpdates(ctx context.Context) ([]models.SystemUpdate, error)
	CreateSystemUpdate(ctx context.Context, actorID string, req models.SystemUpdateRequest) (*models.SystemUpdate, error)
	UpdateSystemUpdate(ctx context.Context, actorID, id string, req models.SystemUpdateRequest) (*models.SystemUpdate, error)
	DeleteSystemUpdate(ctx context.Context, actorID, id string) error
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	ingestor      *storage.Ingestor
	jwtSecret     []byte
	tokenDuration time.Duration
	log           zerolog.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewDefaultService creates a new service with the given repository
func NewDefaultService(repo repository.Repository, ingestor *storage.Ingestor, jwtSecret string, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:          repo,
		ingestor:      ingestor,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour,
		log:           log,
		now:           time.Now,
	}
}

// actor loads the acting user, rejecting unknown ids outright.
func (s *DefaultService) actor(ctx context.Context, actorID string) (*models.UserProfile, error) {
	user, err := s.repo.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.KindAuthorization, "usuario no encontrado")
	}
	return user, nil
}
