package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"kitabi-buddy/backend/internal/cover"
	"kitabi-buddy/backend/internal/model"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is the slack allowed on top of the file size for the
// multipart envelope
const multipartOverhead = 64 << 10

// Scan handles POST /api/book/scan: it admits and enhances the uploaded
// cover, then asks the recognizer for the title and author
func (h *Handler) Scan(c *gin.Context) {
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SCAN] Error processing book cover: %v", r)
			respondError(c, http.StatusInternalServerError,
				"Server error while processing the image", fmt.Sprint(r))
		}
	}()

	if h.recognizer == nil {
		respondError(c, http.StatusServiceUnavailable, "AI service is not available", "")
		return
	}

	limit := h.maxUploadBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		h.respondTooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondTooLarge(c)
			return
		}
		respondError(c, http.StatusBadRequest, "No image file provided", err.Error())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		log.Printf("[SCAN] Invalid file type: %s", contentType)
		respondError(c, http.StatusBadRequest, "Uploaded file is not an image",
			"Got content type: "+contentType)
		return
	}

	if fileHeader.Size > h.maxUploadBytes {
		h.respondTooLarge(c)
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read uploaded file", err.Error())
		return
	}

	img, format, err := cover.Decode(data)
	if err != nil {
		log.Printf("[SCAN] Failed to decode image: %v", err)
		respondError(c, http.StatusBadRequest, "Failed to decode image",
			"The image data could not be processed")
		return
	}
	log.Printf("[SCAN] Decoded %s image %v", format, img.Bounds().Size())

	admission := cover.Enhance(img)
	if !admission.Valid {
		log.Printf("[SCAN] Image not recognized as a valid book cover: %s", admission.Reason)
		respondError(c, http.StatusUnprocessableEntity, "Not a valid book cover",
			"The image does not appear to be a book cover or is too blurry ("+string(admission.Reason)+")")
		return
	}

	result := h.recognizer.Extract(c.Request.Context(), admission.Image)
	if result.Failed() {
		log.Printf("[SCAN] Gemini processing error: %s", result.Error)
		details := result.Error
		if details == "" {
			details = "Unknown error in AI processing"
		}
		respondError(c, http.StatusUnprocessableEntity, "Failed to extract book details", details)
		return
	}

	result.TotalProcessingTimeMs = int64(math.Round(float64(time.Since(startTime)) / float64(time.Millisecond)))
	log.Printf("[PERF] Scan total=%dms ai=%dms", result.TotalProcessingTimeMs, result.AIProcessingTimeMs)

	c.JSON(http.StatusOK, model.ScanResponse{
		Success: true,
		Data:    result,
	})
}

func (h *Handler) respondTooLarge(c *gin.Context) {
	respondError(c, http.StatusRequestEntityTooLarge, "Image file too large",
		"Maximum allowed size is "+formatSize(h.maxUploadBytes))
}

func formatSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}

func respondError(c *gin.Context, code int, message, details string) {
	c.AbortWithStatusJSON(code, model.ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
