package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/clientdesk/clientdesk/internal/customers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	logger  *slog.Logger
	service *customers.Service
}

func NewHandler(logger *slog.Logger, service *customers.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Export streams every customer as a downloadable file. The default format
// is a spreadsheet workbook; ?format=csv switches to CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ExportAll(r.Context())
	if err != nil {
		h.logger.Error("export customers failed", "error", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	stamp := time.Now().Format("2006-01-02")

	if r.URL.Query().Get("format") == "csv" {
		var buf bytes.Buffer
		if err := WriteCSV(&buf, list); err != nil {
			h.logger.Error("encode csv export failed", "error", err)
			http.Error(w, "Export failed", http.StatusInternalServerError)
			return
		}
		sendAttachment(w, &buf, fmt.Sprintf("customers_%s.csv", stamp), "text/csv; charset=utf-8")
		return
	}

	// The workbook is built in memory before any header is written, so a
	// serialization failure can still return a proper error status.
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, list); err != nil {
		h.logger.Error("encode xlsx export failed", "error", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	sendAttachment(w, &buf, fmt.Sprintf("customers_%s.xlsx", stamp), xlsxContentType)
}

func sendAttachment(w http.ResponseWriter, buf *bytes.Buffer, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
