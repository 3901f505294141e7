package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleViewer    Role = "viewer"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleDeveloper, RoleUser, RoleViewer:
		return true
	}
	return false
}

// Currency is one of the two recognized units.
type Currency string

const (
	CurrencySoles   Currency = "soles"
	CurrencyDolares Currency = "dolares"
)

// Document types produced by OCR classification.
const (
	DocumentTypeInvoice = "factura"
	DocumentTypeReceipt = "comprobante"
)

// Permissions are the three independent action gates.
type Permissions struct {
	CanCreate bool `db:"can_create" json:"canCreate"`
	CanEdit   bool `db:"can_edit" json:"canEdit"`
	CanDelete bool `db:"can_delete" json:"canDelete"`
}

// UserProfile represents a user in the system. The stored permission
// booleans are authoritative only for RoleUser; see service.EffectivePermissions.
type UserProfile struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"fullName"`
	Password  string    `db:"password" json:"-"` // Password hash, not returned in JSON
	Role      Role      `db:"role" json:"role"`
	Permissions
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Category defines which extra fields a payment record must carry.
type Category struct {
	ID             int64          `db:"id" json:"id"`
	Code           string         `db:"code" json:"code"`
	Name           string         `db:"name" json:"name"`
	Nature         string         `db:"nature" json:"nature"`
	Subgroup       string         `db:"subgroup" json:"subgroup"`
	CostCenter     string         `db:"cost_center" json:"costCenter"`
	RequiredFields pq.StringArray `db:"required_fields" json:"requiredFields"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
}

// DynamicFields is the per-category field-name -> value mapping, stored
// as a jsonb column.
type DynamicFields map[string]string

// Value implements driver.Valuer.
func (d DynamicFields) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *DynamicFields) Scan(src interface{}) error {
	if src == nil {
		*d = DynamicFields{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("dynamic fields: unsupported scan type")
	}
	return json.Unmarshal(data, d)
}

// PaymentRecord represents one expense entry.
type PaymentRecord struct {
	ID             int64          `db:"id" json:"id"`
	PaidAt         time.Time      `db:"paid_at" json:"paidAt"`
	Payee          string         `db:"payee" json:"payee"`
	Amount         float64        `db:"amount" json:"amount"`
	Currency       Currency       `db:"currency" json:"currency"`
	PaymentMethod  string         `db:"payment_method" json:"paymentMethod"`
	BankAccount    *string        `db:"bank_account" json:"bankAccount,omitempty"`
	DocumentType   *string        `db:"document_type" json:"documentType,omitempty"`
	TaxID          *string        `db:"tax_id" json:"taxId,omitempty"`
	DocumentNumber *string        `db:"document_number" json:"documentNumber,omitempty"`
	Description    *string        `db:"description" json:"description,omitempty"`
	CategoryID     int64          `db:"category_id" json:"categoryId"`
	DynamicFields  DynamicFields  `db:"dynamic_fields" json:"dynamicFields"`
	Attachments    pq.StringArray `db:"attachments" json:"attachments"`
	CreatedBy      string         `db:"created_by" json:"createdBy"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	Exported       bool           `db:"exported" json:"exported"`
	ExportedAt     *time.Time     `db:"exported_at" json:"exportedAt,omitempty"`
	ExportBatchID  *int64         `db:"export_batch_id" json:"exportBatchId,omitempty"`
}

// TrailerService represents one trailer/container logistics service.
type TrailerService struct {
	ID            int64     `db:"id" json:"id"`
	ServiceDate   time.Time `db:"service_date" json:"serviceDate"`
	Plate         string    `db:"plate" json:"plate"`
	Client        string    `db:"client" json:"client"`
	ServiceType   string    `db:"service_type" json:"serviceType"`
	Status        string    `db:"status" json:"status"`
	InvoiceStatus string    `db:"invoice_status" json:"invoiceStatus"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedBy     string    `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// SystemUpdate is an announcement shown to users.
type SystemUpdate struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Version     *string   `db:"version" json:"version,omitempty"`
	Category    string    `db:"category" json:"category"` // feature | bugfix | improvement | general
	CreatedBy   *string   `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
