package attendancehandler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"labourhub/internal/domain/attendance"
	"labourhub/internal/platform/logging"
	"labourhub/internal/transport/http/shared"
)

var exportHeader = []string{"id", "labourerId", "labourerName", "projectId", "projectName", "date", "shift", "status", "markedBy", "createdAt"}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.Export(r.Context(), filterFromQuery(r), h.ExportMax)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.csv", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	log := logging.WithComponent("attendance")
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		log.Warn().Err(err).Msg("attendance export header failed")
	}
	for _, a := range records {
		if err := writer.Write(exportRow(a)); err != nil {
			log.Warn().Err(err).Msg("attendance export row failed")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Warn().Err(err).Msg("attendance export flush failed")
	}
}

func exportRow(a attendance.Attendance) []string {
	markedBy := ""
	if a.MarkedBy != nil {
		markedBy = *a.MarkedBy
	}
	return []string{
		a.ID,
		a.LabourerID,
		a.LabourerName,
		a.ProjectID,
		a.ProjectName,
		a.Date.UTC().Format("2006-01-02"),
		a.Shift,
		a.Status,
		markedBy,
		a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
