package ocr

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
)

// Result is the normalized extraction. DocumentType tags which variant
// is populated: Invoice carries the issuer tax id, Receipt carries the
// operation time and wallet/transfer specifics. Payee, amount, currency,
// unified document number and description are common to both.
type Result struct {
	DocumentType   string          `json:"documentType"` // factura | comprobante
	Date           string          `json:"date,omitempty"`
	Payee          string          `json:"payee,omitempty"`
	Amount         float64         `json:"amount,omitempty"`
	Currency       models.Currency `json:"currency"`
	PaymentMethod  string          `json:"paymentMethod"`
	DocumentNumber string          `json:"documentNumber,omitempty"`
	Description    string          `json:"description,omitempty"`
	Invoice        *InvoiceFields  `json:"invoice,omitempty"`
	Receipt        *ReceiptFields  `json:"receipt,omitempty"`
	// Warning is set when the extracted tax id equals the organization's
	// own RUC: the model likely confused the bill-to party with the
	// issuer. Advisory only, never blocks submission.
	Warning string `json:"warning,omitempty"`
}

// InvoiceFields are the invoice-only fields.
type InvoiceFields struct {
	TaxID string `json:"taxId,omitempty"`
}

// ReceiptFields are the payment-receipt-only fields.
type ReceiptFields struct {
	Time string `json:"time,omitempty"`
}

// rawExtraction mirrors the JSON shape the model is instructed to return.
type rawExtraction struct {
	TipoDocumento   string     `json:"tipo_documento"`
	Fecha           string     `json:"fecha"`
	Hora            string     `json:"hora"`
	Beneficiario    string     `json:"beneficiario"`
	RUC             flexString `json:"ruc"`
	Monto           flexFloat  `json:"monto"`
	Moneda          string     `json:"moneda"`
	MetodoPago      string     `json:"metodo_pago"`
	NumeroFactura   flexString `json:"numero_factura"`
	NumeroOperacion flexString `json:"numero_operacion"`
	Descripcion     string     `json:"descripcion"`
}

// flexFloat accepts a JSON number, a numeric string or null.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexString accepts a JSON string, a bare number or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	*f = flexString(strings.Trim(s, `"`))
	return nil
}

// StripFences removes a Markdown code-block wrapper from a model reply,
// keeping only the JSON object between the first '{' and the last '}'.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

// Normalize parses a model reply (fenced or not) into a Result. orgTaxID
// is the organization's own RUC used for the misattribution warning.
func Normalize(raw string, orgTaxID string) (*Result, error) {
	clean := StripFences(raw)

	var ext rawExtraction
	if err := json.Unmarshal([]byte(clean), &ext); err != nil {
		return nil, apperr.Wrap(apperr.KindMalformedResponse,
			"la respuesta del modelo no es un JSON válido", err)
	}

	isInvoice := ext.TipoDocumento == models.DocumentTypeInvoice

	res := &Result{
		DocumentType:  models.DocumentTypeReceipt,
		Date:          ext.Fecha,
		Payee:         ext.Beneficiario,
		Amount:        float64(ext.Monto),
		Currency:      NormalizeCurrency(ext.Moneda),
		PaymentMethod: NormalizePaymentMethod(ext.MetodoPago),
		Description:   ext.Descripcion,
	}

	if isInvoice {
		res.DocumentType = models.DocumentTypeInvoice
		res.DocumentNumber = string(ext.NumeroFactura)
		res.Invoice = &InvoiceFields{TaxID: string(ext.RUC)}
		if orgTaxID != "" && string(ext.RUC) == orgTaxID {
			res.Warning = "el RUC detectado es el de la propia organización; " +
				"verifica que el beneficiario sea quien emite la factura, no el cliente"
		}
	} else {
		res.DocumentNumber = string(ext.NumeroOperacion)
		res.Receipt = &ReceiptFields{Time: ext.Hora}
	}

	return res, nil
}

// NormalizeCurrency maps a free-form currency string onto the two
// recognized units. Anything that is not exactly "dolares" defaults to
// soles.
func NormalizeCurrency(s string) models.Currency {
	if strings.EqualFold(strings.TrimSpace(s), string(models.CurrencyDolares)) {
		return models.CurrencyDolares
	}
	return models.CurrencySoles
}

// NormalizePaymentMethod maps free-text method strings case-insensitively
// onto the known vocabulary. Unrecognized strings pass through
// title-cased; empty defaults to Efectivo.
func NormalizePaymentMethod(method string) string {
	normalized := strings.ToLower(strings.TrimSpace(method))
	if normalized == "" {
		return "Efectivo"
	}

	switch {
	case strings.Contains(normalized, "yape"):
		return "Yape"
	case strings.Contains(normalized, "plin"):
		return "Plin"
	case strings.Contains(normalized, "transferencia"), strings.Contains(normalized, "transfer"):
		return "Transferencia"
	case strings.Contains(normalized, "tarjeta"), strings.Contains(normalized, "card"):
		return "Tarjeta"
	case strings.Contains(normalized, "efectivo"), strings.Contains(normalized, "cash"):
		return "Efectivo"
	}

	r := []rune(strings.TrimSpace(method))
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}
