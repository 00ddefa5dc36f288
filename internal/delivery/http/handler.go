package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/specforms/backend/internal/domain"
)

const serviceVersion = "1.0.0"

// SchemaProcessor is the use case the handlers drive
type SchemaProcessor interface {
	ProcessFile(ctx context.Context, path string) (*domain.ProcessResult, error)
	Lookup(ctx context.Context, key domain.BucketKey) ([]byte, error)
}

// HandlerConfig holds upload settings for the handlers
type HandlerConfig struct {
	UploadDir      string
	MaxUploadBytes int64
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	schemaService SchemaProcessor
	config        HandlerConfig
}

// NewHandler creates a new HTTP handler
func NewHandler(schemaService SchemaProcessor, config HandlerConfig) *Handler {
	if config.UploadDir == "" {
		config.UploadDir = os.TempDir()
	}
	return &Handler{
		schemaService: schemaService,
		config:        config,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "specforms-backend",
		"version": serviceVersion,
	})
}

// UploadSpreadsheet accepts a spreadsheet upload and regenerates the schemas it describes
func (h *Handler) UploadSpreadsheet(c *gin.Context) {
	if h.schemaService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Schema service not configured"})
		return
	}

	if h.config.MaxUploadBytes > 0 {
		if c.Request.ContentLength > h.config.MaxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLargeMessage(h.config.MaxUploadBytes)})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.MaxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLargeMessage(h.config.MaxUploadBytes)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded (expected multipart field 'file')"})
		return
	}

	if !domain.IsSupportedSpreadsheet(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Unsupported file type %q, expected one of %s",
				filepath.Ext(header.Filename), strings.Join(domain.SupportedSpreadsheetExtensions, ", ")),
		})
		return
	}

	if err := os.MkdirAll(h.config.UploadDir, 0o755); err != nil {
		log.Printf("[UPLOAD] Could not create upload dir %s: %v", h.config.UploadDir, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	dst := filepath.Join(h.config.UploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(header.Filename)))
	if err := c.SaveUploadedFile(header, dst); err != nil {
		log.Printf("[UPLOAD] Could not save %s: %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	defer func() {
		if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("[UPLOAD] Could not remove %s: %v", dst, err)
		}
	}()

	log.Printf("[UPLOAD] Processing %s (%d bytes)", header.Filename, header.Size)

	result, err := h.schemaService.ProcessFile(c.Request.Context(), dst)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response := gin.H{"data": result}
	if failed := len(result.Failed()); failed > 0 {
		response["warning"] = fmt.Sprintf("%d schema(s) could not be written", failed)
	}
	c.JSON(http.StatusOK, response)
}

// GetSchema returns the persisted document for one specification type and category
func (h *Handler) GetSchema(c *gin.Context) {
	if h.schemaService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Schema service not configured"})
		return
	}

	key := domain.BucketKey{
		Type:     domain.SpecificationType(strings.ToLower(c.Param("type"))),
		Category: c.Param("category"),
	}

	data, err := h.schemaService.Lookup(c.Request.Context(), key)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// handleError maps domain errors to HTTP status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	case errors.Is(err, domain.ErrUnknownSpecificationType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown specification type"})
	case errors.Is(err, domain.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported spreadsheet format"})
	case errors.Is(err, domain.ErrRowSourceUnreadable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Spreadsheet could not be read"})
	case errors.Is(err, domain.ErrSchemaNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Schema not found"})
	default:
		log.Printf("[HANDLER] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func tooLargeMessage(limit int64) string {
	return fmt.Sprintf("File exceeds the %d byte upload limit", limit)
}
