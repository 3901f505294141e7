package storage

import (
	"bytes"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"

	"github.com/eemerson/paybox-server/internal/apperr"
)

// The vision endpoint only accepts images, so PDFs are rasterized to a
// JPEG of their first page before upload. 144 DPI doubles the 72 DPI
// page size, enough for the model to read line items.
const renderDPI = 144

const jpegQuality = 95

// RenderFirstPage rasterizes page 1 of a PDF to JPEG bytes.
func RenderFirstPage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConversion, "no se pudo abrir el PDF", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, apperr.New(apperr.KindConversion, "el PDF no tiene páginas")
	}

	img, err := doc.ImageDPI(0, renderDPI)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConversion, "no se pudo convertir el PDF a imagen", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, apperr.Wrap(apperr.KindConversion, "no se pudo codificar la imagen", err)
	}
	return buf.Bytes(), nil
}
