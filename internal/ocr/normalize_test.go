package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
)

const orgTaxID = "20523380347"

func TestNormalizeInvoice(t *testing.T) {
	raw := `{
		"tipo_documento": "factura",
		"fecha": "2025-03-10",
		"hora": null,
		"beneficiario": "Transportes Andinos SAC",
		"ruc": "20100070970",
		"monto": 1250.50,
		"moneda": "soles",
		"metodo_pago": "Factura",
		"numero_factura": "F001-00001234",
		"numero_operacion": null,
		"descripcion": "Servicio de transporte de carga"
	}`

	res, err := Normalize(raw, orgTaxID)
	require.NoError(t, err)

	assert.Equal(t, models.DocumentTypeInvoice, res.DocumentType)
	assert.Equal(t, "2025-03-10", res.Date)
	assert.Equal(t, "Transportes Andinos SAC", res.Payee)
	assert.Equal(t, 1250.50, res.Amount)
	assert.Equal(t, models.CurrencySoles, res.Currency)
	assert.Equal(t, "F001-00001234", res.DocumentNumber)
	assert.Equal(t, "Servicio de transporte de carga", res.Description)
	require.NotNil(t, res.Invoice)
	assert.Equal(t, "20100070970", res.Invoice.TaxID)
	assert.Nil(t, res.Receipt)
	assert.Empty(t, res.Warning)
}

func TestNormalizeReceipt(t *testing.T) {
	raw := `{
		"tipo_documento": "comprobante",
		"fecha": "2025-03-11",
		"hora": "14:32",
		"beneficiario": "Juan Quispe",
		"ruc": null,
		"monto": "85.00",
		"moneda": "soles",
		"metodo_pago": "Pago por Yape",
		"numero_factura": null,
		"numero_operacion": "00734591",
		"descripcion": "Almuerzo de obra"
	}`

	res, err := Normalize(raw, orgTaxID)
	require.NoError(t, err)

	assert.Equal(t, models.DocumentTypeReceipt, res.DocumentType)
	assert.Equal(t, 85.00, res.Amount)
	assert.Equal(t, "Yape", res.PaymentMethod)
	assert.Equal(t, "00734591", res.DocumentNumber)
	require.NotNil(t, res.Receipt)
	assert.Equal(t, "14:32", res.Receipt.Time)
	assert.Nil(t, res.Invoice)
}

func TestNormalizeOwnTaxIDWarning(t *testing.T) {
	// The model confused the bill-to party with the issuer. This must be
	// flagged without failing, and every other field still populated.
	raw := `{"tipo_documento":"factura","fecha":"2025-01-05","beneficiario":"EEMERSON SAC",
		"ruc":"20523380347","monto":300,"moneda":"soles","numero_factura":"F003-001"}`

	res, err := Normalize(raw, orgTaxID)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Warning)
	assert.Equal(t, "EEMERSON SAC", res.Payee)
	assert.Equal(t, 300.0, res.Amount)
	require.NotNil(t, res.Invoice)
	assert.Equal(t, orgTaxID, res.Invoice.TaxID)
}

func TestNormalizeFencedResponse(t *testing.T) {
	raw := "```json\n{\"tipo_documento\":\"comprobante\",\"beneficiario\":\"Maria\",\"monto\":10,\"moneda\":\"soles\"}\n```"

	res, err := Normalize(raw, orgTaxID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", res.Payee)
}

func TestNormalizeUnparsable(t *testing.T) {
	_, err := Normalize("I could not read the document, sorry.", orgTaxID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindMalformedResponse))
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want models.Currency
	}{
		{"soles", models.CurrencySoles},
		{"dolares", models.CurrencyDolares},
		{"Dolares", models.CurrencyDolares},
		{"USD", models.CurrencySoles},
		{"euros", models.CurrencySoles},
		{"", models.CurrencySoles},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCurrency(tt.in), "input %q", tt.in)
	}
}

func TestNormalizePaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"YAPE", "Yape"},
		{"yape ", "Yape"},
		{"Pago por Yape", "Yape"},
		{"plin", "Plin"},
		{"transferencia bancaria", "Transferencia"},
		{"bank transfer", "Transferencia"},
		{"tarjeta de crédito", "Tarjeta"},
		{"cash", "Efectivo"},
		{"", "Efectivo"},
		{"Zelle", "Zelle"},
		{"ZELLE", "Zelle"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePaymentMethod(tt.in), "input %q", tt.in)
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, StripFences("Here you go:\n{\"a\":1}\nHope that helps."))
}
