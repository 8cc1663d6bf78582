package handlers

import (
	"net/http"

	"github.com/username/opodatkuvayco/backend/src/services"
	"github.com/username/opodatkuvayco/backend/src/utils"
)

type DividendHandler struct {
	reportService  services.ReportService
	maxUploadBytes int64
}

func NewDividendHandler(service services.ReportService, maxUploadBytes int64) *DividendHandler {
	return &DividendHandler{
		reportService:  service,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleDividends answers POST /api/dividends.
func (h *DividendHandler) HandleDividends(w http.ResponseWriter, r *http.Request) {
	file, ok := readUpload(w, r, h.maxUploadBytes)
	if !ok {
		return
	}
	defer file.Close()

	report, err := h.reportService.Dividends(r.Context(), file)
	if err != nil {
		sendReportError(w, r, err)
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}
