package ocr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/config"
	"github.com/eemerson/paybox-server/internal/models"
)

// Extraction is the full OCR invocation result: the normalized fields
// plus the raw model text and token usage for observability.
type Extraction struct {
	Data   *Result          `json:"data"`
	Raw    string           `json:"rawResponse"`
	Tokens models.TokenUsage `json:"tokens"`
}

// Client calls the vision-completion endpoint with the classification
// and extraction instruction and normalizes the reply.
type Client struct {
	genai      *genai.Client
	model      string
	orgTaxID   string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a vision OCR client. Credentials are taken from the
// environment by the genai SDK. The external call is the dominant,
// most variable latency in the system, so the image fetch and the model
// call both run under an explicit timeout.
func NewClient(ctx context.Context, cfg config.OCRConfig, log zerolog.Logger) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{
		genai:      gc,
		model:      cfg.Model,
		orgTaxID:   cfg.OrgTaxID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}, nil
}

// Extract runs one OCR pass over the image at imageURL. The result is
// advisory pre-fill only; nothing is persisted here.
func (c *Client) Extract(ctx context.Context, imageURL string) (*Extraction, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, apperr.New(apperr.KindValidation, "se requiere una URL de imagen")
	}

	imageBytes, mimeType, err := c.fetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: extractionPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     imageBytes,
					},
				},
			},
		},
	}

	// Low-variance decoding keeps classification stable across retries.
	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.1),
		MaxOutputTokens: 1000,
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, genConfig)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExternalService, "error al procesar la imagen", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, apperr.New(apperr.KindMalformedResponse, "el modelo no devolvió contenido")
	}

	tokens := models.TokenUsage{}
	if resp.UsageMetadata != nil {
		tokens.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		tokens.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		tokens.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	result, err := Normalize(rawText, c.orgTaxID)
	if err != nil {
		c.log.Error().Err(err).Str("raw", rawText).Msg("OCR response did not parse")
		return nil, err
	}

	c.log.Info().
		Str("model", c.model).
		Str("documentType", result.DocumentType).
		Int("promptTokens", tokens.PromptTokens).
		Int("completionTokens", tokens.CompletionTokens).
		Int("totalTokens", tokens.TotalTokens).
		Msg("OCR analysis completed")

	return &Extraction{Data: result, Raw: rawText, Tokens: tokens}, nil
}

func (c *Client) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindValidation, "URL de imagen inválida", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindExternalService, "no se pudo descargar la imagen", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", apperr.Newf(apperr.KindExternalService,
			"no se pudo descargar la imagen: estado %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindExternalService, "no se pudo leer la imagen", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}

	return data, mimeType, nil
}
