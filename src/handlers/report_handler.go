package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/username/opodatkuvayco/backend/src/logger"
	"github.com/username/opodatkuvayco/backend/src/models"
	"github.com/username/opodatkuvayco/backend/src/security/validation"
	"github.com/username/opodatkuvayco/backend/src/services"
	"github.com/username/opodatkuvayco/backend/src/utils"
)

type ReportHandler struct {
	reportService  services.ReportService
	maxUploadBytes int64
}

func NewReportHandler(service services.ReportService, maxUploadBytes int64) *ReportHandler {
	return &ReportHandler{
		reportService:  service,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleShortReport answers POST /api/report with one line per ticker.
func (h *ReportHandler) HandleShortReport(w http.ResponseWriter, r *http.Request) {
	file, ok := readUpload(w, r, h.maxUploadBytes)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.reportService.ShortReport(r.Context(), file)
	if err != nil {
		sendReportError(w, r, err)
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}

// HandleExtendedReport answers POST /api/report/extended with every deal.
func (h *ReportHandler) HandleExtendedReport(w http.ResponseWriter, r *http.Request) {
	file, ok := readUpload(w, r, h.maxUploadBytes)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.reportService.FullReport(r.Context(), file)
	if err != nil {
		sendReportError(w, r, err)
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}

// HandlePreviousDeals answers POST /api/report/previous with the open lots.
func (h *ReportHandler) HandlePreviousDeals(w http.ResponseWriter, r *http.Request) {
	file, ok := readUpload(w, r, h.maxUploadBytes)
	if !ok {
		return
	}
	defer file.Close()

	lots, err := h.reportService.PreviousDeals(r.Context(), file)
	if err != nil {
		sendReportError(w, r, err)
		return
	}
	utils.SendJSON(w, lots, http.StatusOK)
}

// readUpload extracts and validates the "file" field of a multipart upload.
// On failure it has already written the error response.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) (multipart.File, bool) {
	log := logger.FromContext(r.Context())
	if subject, ok := GetSubjectFromContext(r.Context()); ok {
		log = log.With("subject", subject)
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", limit)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", limit/(1024*1024)), http.StatusBadRequest)
		return nil, false
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return nil, false
	}

	if fileHeader.Size > limit {
		file.Close()
		log.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", limit)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB (header check)", limit/(1024*1024)), http.StatusBadRequest)
		return nil, false
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		file.Close()
		log.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		file.Close()
		log.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	log.Info("Processing report upload", "filename", fileHeader.Filename, "size", fileHeader.Size, "clientType", clientContentType, "detectedType", detectedContentType)
	return file, true
}

// sendReportError maps an error kind to a status code. Rate failures are the
// upstream's fault and answer 502.
func sendReportError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	switch {
	case errors.Is(err, models.ErrInputMalformed):
		log.Warn("Report rejected: malformed input", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error reading report file: %v", err), http.StatusBadRequest)
	case errors.Is(err, models.ErrRateUnresolvable):
		log.Error("Report failed: exchange rate unavailable", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Exchange rate unavailable: %v", err), http.StatusBadGateway)
	default:
		log.Error("Internal error computing report", "error", err)
		utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
	}
}
