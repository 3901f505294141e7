package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eemerson/paybox-server/internal/apperr"
)

// MaxAttachments is the per-record attachment limit. The first
// attachment is the primary one used for OCR.
const MaxAttachments = 4

// File is one incoming upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileResult reports the outcome for one file. Err is set when the file
// was skipped; the rest of the batch proceeds independently.
type FileResult struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
	Err  error  `json:"-"`
}

// Ingestor converts and uploads record attachments.
type Ingestor struct {
	uploader Uploader
	log      zerolog.Logger

	// renderPDF is swappable in tests.
	renderPDF func([]byte) ([]byte, error)
}

// NewIngestor creates an attachment ingestor over the given uploader.
func NewIngestor(uploader Uploader, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		uploader:  uploader,
		log:       log,
		renderPDF: RenderFirstPage,
	}
}

// Ingest uploads files, converting PDFs to a first-page image first.
// existingCount is the number of attachments already on the record; the
// batch is rejected before any upload if it would exceed MaxAttachments.
// Order is preserved: result i corresponds to files[i].
func (in *Ingestor) Ingest(ctx context.Context, existingCount int, files []File) ([]FileResult, error) {
	if len(files) == 0 {
		return nil, apperr.New(apperr.KindValidation, "no hay archivos para subir")
	}
	if existingCount+len(files) > MaxAttachments {
		return nil, apperr.Newf(apperr.KindValidation,
			"máximo %d comprobantes por registro (ya hay %d)", MaxAttachments, existingCount)
	}

	results := make([]FileResult, len(files))
	for i, f := range files {
		results[i] = in.ingestOne(ctx, f)
	}
	return results, nil
}

func (in *Ingestor) ingestOne(ctx context.Context, f File) FileResult {
	res := FileResult{Name: f.Name}

	data := f.Data
	contentType := f.ContentType
	ext := strings.ToLower(filepath.Ext(f.Name))

	switch {
	case isPDF(f):
		converted, err := in.renderPDF(f.Data)
		if err != nil {
			in.log.Error().Err(err).Str("file", f.Name).Msg("PDF conversion failed")
			res.Err = err
			return res
		}
		data = converted
		contentType = "image/jpeg"
		ext = ".jpg"
	case strings.HasPrefix(f.ContentType, "image/"):
		// Native images go straight through.
	default:
		res.Err = apperr.Newf(apperr.KindValidation,
			"tipo de archivo no soportado: %s", f.ContentType)
		return res
	}

	key := uuid.New().String() + ext
	url, err := in.uploader.Upload(ctx, key, data, contentType)
	if err != nil {
		res.Err = err
		return res
	}

	res.URL = url
	return res
}

// Remove deletes one attachment blob.
func (in *Ingestor) Remove(ctx context.Context, fileURL string) error {
	return in.uploader.Delete(ctx, fileURL)
}

func isPDF(f File) bool {
	return f.ContentType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(f.Name), ".pdf")
}
