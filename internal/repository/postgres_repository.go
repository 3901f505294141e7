package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/eemerson/paybox-server/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.UserProfile) error
	GetUserByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	GetUserByID(ctx context.Context, id string) (*models.UserProfile, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	UpdateUser(ctx context.Context, user *models.UserProfile) error

	// Category operations
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	// Payment record operations
	CreatePayment(ctx context.Context, record *models.PaymentRecord) error
	GetPayment(ctx context.Context, id int64) (*models.PaymentRecord, error)
	ListPayments(ctx context.Context, exported *bool) ([]models.PaymentRecord, error)
	UpdatePayment(ctx context.Context, record *models.PaymentRecord) error
	DeletePayment(ctx context.Context, id int64) error

	// Export operations
	ListPendingPayments(ctx context.Context) ([]models.PaymentRecord, error)
	MarkPaymentsExported(ctx context.Context, ids []int64, batchID int64, exportedAt time.Time) (int64, error)
	CountExportStates(ctx context.Context) (pending int, exported int, err error)

	// Trailer service operations
	CreateTrailerService(ctx context.Context, svc *models.TrailerService) error
	GetTrailerService(ctx context.Context, id int64) (*models.TrailerService, error)
	ListTrailerServices(ctx context.Context) ([]models.TrailerService, error)
	UpdateTrailerService(ctx context.Context, svc *models.TrailerService) error
	DeleteTrailerService(ctx context.Context, id int64) error

	// System update operations
	CreateSystemUpdate(ctx context.Context, upd *models.SystemUpdate) error
	GetSystemUpdate(ctx context.Context, id string) (*models.SystemUpdate, error)
	ListSystemUpdates(ctx context.Context) ([]models.SystemUpdate, error)
	UpdateSystemUpdate(ctx context.Context, upd *models.SystemUpdate) error
	DeleteSystemUpdate(ctx context.Context, id string) error
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (id, email, full_name, password, role, can_create, can_edit, can_delete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.FullName, user.Password, user.Role,
		user.CanCreate, user.CanEdit, user.CanDelete, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	query := `SELECT * FROM user_profiles WHERE email = $1`

	var user models.UserProfile
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.UserProfile, error) {
	query := `SELECT * FROM user_profiles WHERE id = $1`

	var user models.UserProfile
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	query := `SELECT * FROM user_profiles ORDER BY full_name`

	var users []models.UserProfile
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *models.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET full_name = $1, role = $2, can_create = $3, can_edit = $4, can_delete = $5, updated_at = $6
		WHERE id = $7
	`

	user.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		user.FullName, user.Role, user.CanCreate, user.CanEdit, user.CanDelete,
		user.UpdatedAt, user.ID)
	return err
}

// Category repository methods
func (r *PostgresRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (code, name, nature, subgroup, cost_center, required_fields, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	category.CreatedAt = time.Now().UTC()
	return r.db.QueryRowContext(ctx, query,
		category.Code, category.Name, category.Nature, category.Subgroup,
		category.CostCenter, category.RequiredFields, category.CreatedAt).Scan(&category.ID)
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT * FROM categories WHERE id = $1`

	var category models.Category
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Category not found
		}
		return nil, err
	}

	return &category, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT * FROM categories ORDER BY name`

	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET code = $1, name = $2, nature = $3, subgroup = $4, cost_center = $5, required_fields = $6
		WHERE id = $7
	`

	_, err := r.db.ExecContext(ctx, query,
		category.Code, category.Name, category.Nature, category.Subgroup,
		category.CostCenter, category.RequiredFields, category.ID)
	return err
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

// Payment record repository methods
func (r *PostgresRepository) CreatePayment(ctx context.Context, record *models.PaymentRecord) error {
	query := `
		INSERT INTO payment_records (
			paid_at, payee, amount, currency, payment_method, bank_account,
			document_type, tax_id, document_number, description,
			category_id, dynamic_fields, attachments, created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	record.CreatedAt = time.Now().UTC()
	if record.Attachments == nil {
		record.Attachments = pq.StringArray{}
	}
	if record.DynamicFields == nil {
		record.DynamicFields = models.DynamicFields{}
	}

	return r.db.QueryRowContext(ctx, query,
		record.PaidAt, record.Payee, record.Amount, record.Currency,
		record.PaymentMethod, record.BankAccount, record.DocumentType,
		record.TaxID, record.DocumentNumber, record.Description,
		record.CategoryID, record.DynamicFields, record.Attachments,
		record.CreatedBy, record.CreatedAt).Scan(&record.ID)
}

func (r *PostgresRepository) GetPayment(ctx context.Context, id int64) (*models.PaymentRecord, error) {
	query := `SELECT * FROM payment_records WHERE id = $1`

	var record models.PaymentRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Record not found
		}
		return nil, err
	}

	return &record, nil
}

func (r *PostgresRepository) ListPayments(ctx context.Context, exported *bool) ([]models.PaymentRecord, error) {
	query := `SELECT * FROM payment_records`
	args := []interface{}{}

	if exported != nil {
		query += ` WHERE exported = $1`
		args = append(args, *exported)
	}

	query += ` ORDER BY paid_at DESC`

	var records []models.PaymentRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, err
	}
	return records, nil
}

// UpdatePayment updates the editable columns of a record. The export
// state fields are deliberately excluded: they only change through
// MarkPaymentsExported.
func (r *PostgresRepository) UpdatePayment(ctx context.Context, record *models.PaymentRecord) error {
	query := `
		UPDATE payment_records
		SET paid_at = $1, payee = $2, amount = $3, currency = $4, payment_method = $5,
			bank_account = $6, document_type = $7, tax_id = $8, document_number = $9,
			description = $10, category_id = $11, dynamic_fields = $12, attachments = $13
		WHERE id = $14
	`

	if record.Attachments == nil {
		record.Attachments = pq.StringArray{}
	}

	_, err := r.db.ExecContext(ctx, query,
		record.PaidAt, record.Payee, record.Amount, record.Currency,
		record.PaymentMethod, record.BankAccount, record.DocumentType,
		record.TaxID, record.DocumentNumber, record.Description,
		record.CategoryID, record.DynamicFields, record.Attachments, record.ID)
	return err
}

func (r *PostgresRepository) DeletePayment(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payment_records WHERE id = $1`, id)
	return err
}

// Export repository methods

// ListPendingPayments returns all not-yet-exported records, oldest
// payment first, for deterministic spreadsheet ordering.
func (r *PostgresRepository) ListPendingPayments(ctx context.Context) ([]models.PaymentRecord, error) {
	query := `SELECT * FROM payment_records WHERE NOT exported ORDER BY paid_at ASC`

	var records []models.PaymentRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, err
	}
	return records, nil
}

// MarkPaymentsExported commits an export batch in one conditional
// statement. The update is keyed by the exact id set captured at read
// time, not by re-evaluating the pending predicate, so a record that
// became pending after the read stays pending for the next run. The
// extra `NOT exported` guard makes the transition one-directional even
// under a concurrent run.
func (r *PostgresRepository) MarkPaymentsExported(ctx context.Context, ids []int64, batchID int64, exportedAt time.Time) (int64, error) {
	query := `
		UPDATE payment_records
		SET exported = TRUE, exported_at = $1, export_batch_id = $2
		WHERE id = ANY($3) AND NOT exported
	`

	res, err := r.db.ExecContext(ctx, query, exportedAt, batchID, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) CountExportStates(ctx context.Context) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE NOT exported) AS pending,
			COUNT(*) FILTER (WHERE exported) AS exported
		FROM payment_records
	`

	var counts struct {
		Pending  int `db:"pending"`
		Exported int `db:"exported"`
	}
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return 0, 0, err
	}
	return counts.Pending, counts.Exported, nil
}

// Trailer service repository methods
func (r *PostgresRepository) CreateTrailerService(ctx context.Context, svc *models.TrailerService) error {
	query := `
		INSERT INTO trailer_services (service_date, plate, client, service_type, status, invoice_status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	now := time.Now().UTC()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	return r.db.QueryRowContext(ctx, query,
		svc.ServiceDate, svc.Plate, svc.Client, svc.ServiceType,
		svc.Status, svc.InvoiceStatus, svc.Notes, svc.CreatedBy,
		svc.CreatedAt, svc.UpdatedAt).Scan(&svc.ID)
}

func (r *PostgresRepository) GetTrailerService(ctx context.Context, id int64) (*models.TrailerService, error) {
	query := `SELECT * FROM trailer_services WHERE id = $1`

	var svc models.TrailerService
	err := r.db.GetContext(ctx, &svc, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Service not found
		}
		return nil, err
	}

	return &svc, nil
}

func (r *PostgresRepository) ListTrailerServices(ctx context.Context) ([]models.TrailerService, error) {
	query := `SELECT * FROM trailer_services ORDER BY service_date DESC, id DESC`

	var services []models.TrailerService
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *PostgresRepository) UpdateTrailerService(ctx context.Context, svc *models.TrailerService) error {
	query := `
		UPDATE trailer_services
		SET service_date = $1, plate = $2, client = $3, service_type = $4,
			status = $5, invoice_status = $6, notes = $7, updated_at = $8
		WHERE id = $9
	`

	svc.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		svc.ServiceDate, svc.Plate, svc.Client, svc.ServiceType,
		svc.Status, svc.InvoiceStatus, svc.Notes, svc.UpdatedAt, svc.ID)
	return err
}

func (r *PostgresRepository) DeleteTrailerService(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM trailer_services WHERE id = $1`, id)
	return err
}

// System update repository methods
func (r *PostgresRepository) CreateSystemUpdate(ctx context.Context, upd *models.SystemUpdate) error {
	query := `
		INSERT INTO system_updates (id, title, description, version, category, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if upd.ID == "" {
		upd.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	upd.CreatedAt = now
	upd.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		upd.ID, upd.Title, upd.Description, upd.Version, upd.Category,
		upd.CreatedBy, upd.CreatedAt, upd.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetSystemUpdate(ctx context.Context, id string) (*models.SystemUpdate, error) {
	query := `SELECT * FROM system_updates WHERE id = $1`

	var upd models.SystemUpdate
	err := r.db.GetContext(ctx, &upd, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Update not found
		}
		return nil, err
	}

	return &upd, nil
}

func (r *PostgresRepository) ListSystemUpdates(ctx context.Context) ([]models.SystemUpdate, error) {
	query := `SELECT * FROM system_updates ORDER BY created_at DESC`

	var updates []models.SystemUpdate
	if err := r.db.SelectContext(ctx, &updates, query); err != nil {
		return nil, err
	}
	return updates, nil
}

func (r *PostgresRepository) UpdateSystemUpdate(ctx context.Context, upd *models.SystemUpdate) error {
	query := `
		UPDATE system_updates
		SET title = $1, description = $2, version = $3, category = $4, updated_at = $5
		WHERE id = $6
	`

	upd.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		upd.Title, upd.Description, upd.Version, upd.Category, upd.UpdatedAt, upd.ID)
	return err
}

func (r *PostgresRepository) DeleteSystemUpdate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM system_updates WHERE id = $1`, id)
	return err
}
