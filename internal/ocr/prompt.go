package ocr

// extractionPrompt asks the vision model to classify the document and
// extract a type-specific field set as strict JSON. The organization's
// own RUC is spelled out so the model does not report the bill-to party
// as the issuer.
const extractionPrompt = `Analiza este documento y determina automáticamente si es:
1. FACTURA ELECTRÓNICA (contiene RUC, razón social, número de factura)
2. COMPROBANTE DE PAGO/TRANSFERENCIA (BCP, Yape, Plin, transferencias bancarias, etc.)

CONTEXTO IMPORTANTE:
- EEMERSON SAC (RUC: 20523380347) es el CLIENTE que recibe la factura/servicio
- El BENEFICIARIO es la empresa/persona que EMITE la factura

PARA FACTURAS:
- beneficiario: Razón Social de quien EMITE la factura (NO de EEMERSON SAC)
- ruc: RUC del emisor de la factura (NO 20523380347)
- monto: Total a pagar de la factura
- fecha: Fecha de emisión
- numero_factura: Número de la factura (Ej: F001-00001234)
- descripcion: Breve descripción de los servicios/productos
- metodo_pago: Dejar en null o "Factura"

PARA COMPROBANTES DE PAGO:
- beneficiario: Nombre de quien RECIBIÓ el dinero
- monto: Monto transferido/pagado
- fecha: Fecha de la operación
- hora: Hora de la operación
- metodo_pago: "Yape", "Plin", "Transferencia", "Efectivo", etc.
- numero_operacion: Número de operación/referencia
- descripcion: Concepto o glosa del pago si está disponible

FORMATO DE RESPUESTA (JSON):
{
  "tipo_documento": "factura" o "comprobante",
  "fecha": "YYYY-MM-DD",
  "hora": "HH:MM" (principalmente para comprobantes, null para facturas),
  "beneficiario": "Nombre completo",
  "ruc": "número RUC" (si está disponible),
  "monto": número sin símbolos,
  "moneda": "soles" o "dolares",
  "metodo_pago": "Yape/Plin/Transferencia/Efectivo" o "Factura",
  "numero_factura": "serie-número" (para facturas),
  "numero_operacion": "código" (para comprobantes),
  "descripcion": "concepto/glosa/descripción del pago" (para ambos tipos)
}

REGLAS:
- Si ves RUC y razón social prominente → es FACTURA
- Si ves logos de Yape/Plin/BCP → es COMPROBANTE
- Para facturas: busca quién EMITE (proveedor), no el cliente
- Para comprobantes: busca destinatario/beneficiario del pago
- Para moneda: S/ = "soles", $ o USD = "dolares"
- Si no encuentras un dato, usa null
- Responde SOLO con JSON válido, sin texto adicional`
