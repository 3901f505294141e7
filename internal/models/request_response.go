package models

import "time"

// Request models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
}

type CreateUserRequest struct {
	Email       string       `json:"email" binding:"required,email"`
	Password    string       `json:"password" binding:"required,min=6"`
	FullName    string       `json:"fullName" binding:"required"`
	Role        Role         `json:"role" binding:"required,oneof=admin developer user viewer"`
	Permissions *Permissions `json:"permissions"`
}

type UpdateUserRequest struct {
	FullName    *string      `json:"fullName"`
	Role        *Role        `json:"role"`
	Permissions *Permissions `json:"permissions"`
}

type CreateCategoryRequest struct {
	Code           string   `json:"code"`
	Name           string   `json:"name" binding:"required"`
	Nature         string   `json:"nature"`
	Subgroup       string   `json:"subgroup"`
	CostCenter     string   `json:"costCenter"`
	RequiredFields []string `json:"requiredFields"`
}

type CreatePaymentRequest struct {
	PaidAt         time.Time         `json:"paidAt" binding:"required"`
	Payee          string            `json:"payee" binding:"required"`
	Amount         float64           `json:"amount" binding:"required"`
	Currency       Currency          `json:"currency"`
	PaymentMethod  string            `json:"paymentMethod"`
	BankAccount    string            `json:"bankAccount"`
	DocumentType   string            `json:"documentType"`
	TaxID          string            `json:"taxId"`
	DocumentNumber string            `json:"documentNumber"`
	Description    string            `json:"description"`
	CategoryID     int64             `json:"categoryId" binding:"required"`
	DynamicFields  map[string]string `json:"dynamicFields"`
	Attachments    []string          `json:"attachments"`
}

type UpdatePaymentRequest struct {
	PaidAt         *time.Time        `json:"paidAt"`
	Payee          *string           `json:"payee"`
	Amount         *float64          `json:"amount"`
	Currency       *Currency         `json:"currency"`
	PaymentMethod  *string           `json:"paymentMethod"`
	BankAccount    *string           `json:"bankAccount"`
	DocumentType   *string           `json:"documentType"`
	TaxID          *string           `json:"taxId"`
	DocumentNumber *string           `json:"documentNumber"`
	Description    *string           `json:"description"`
	CategoryID     *int64            `json:"categoryId"`
	DynamicFields  map[string]string `json:"dynamicFields"`
	Attachments    []string          `json:"attachments"`
}

type TrailerServiceRequest struct {
	ServiceDate   time.Time `json:"serviceDate" binding:"required"`
	Plate         string    `json:"plate"`
	Client        string    `json:"client"`
	ServiceType   string    `json:"serviceType"`
	Status        string    `json:"status"`
	InvoiceStatus string    `json:"invoiceStatus"`
	Notes         string    `json:"notes"`
}

type SystemUpdateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Version     string `json:"version"`
	Category    string `json:"category" binding:"omitempty,oneof=feature bugfix improvement general"`
}

type OCRRequest struct {
	ImageURL string `json:"imageUrl"`
}

type GeolinkRequest struct {
	TrackerID int64  `json:"trackerId" binding:"required"`
	Label     string `json:"label" binding:"required"`
}

// Response models

type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	Role      Role   `json:"role,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type ExportStats struct {
	Pending  int `json:"pending"`
	Exported int `json:"exported"`
	Total    int `json:"total"`
}

type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

type Vehicle struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type VehiclesResponse struct {
	Success  bool      `json:"success"`
	Vehicles []Vehicle `json:"vehicles"`
	Count    int       `json:"count"`
}

type Geolink struct {
	ID          int64  `json:"id"`
	Hash        string `json:"hash"`
	CreateDate  string `json:"createDate,omitempty"`
	ValidFrom   string `json:"validFrom"`
	ValidTo     string `json:"validTo"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	URL         string `json:"url"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
