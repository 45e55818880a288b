package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"fintrack-server/src/middleware"
	"fintrack-server/src/reports"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DownloadExcelReport streams the period's spending report as an .xlsx file.
// Date parsing is lenient here: bad parameters fall back to the default
// 30-day window instead of failing the download.
func DownloadExcelReport(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		start, end := util.DateRangeLenient(r.URL.Query(), time.Now().UTC())

		data, err := reports.Build(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to build excel report data for user %d: %v", userID, err)
			http.Error(w, "report generation failed", http.StatusInternalServerError)
			return
		}
		buf, err := reports.BuildExcel(data)
		if err != nil {
			log.Printf("ERROR: Failed to render excel report for user %d: %v", userID, err)
			http.Error(w, "report generation failed", http.StatusInternalServerError)
			return
		}

		middleware.LogPIIExport(pool, r, "excel", len(data.Transactions))
		log.Printf("INFO: Excel report generated for user %d (%s)", userID, data.PeriodLabel())

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", reportFilename("xlsx", start, end))
		w.Write(buf.Bytes())
	}
}

// DownloadPDFReport streams the period's spending report as a PDF.
func DownloadPDFReport(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int)
		start, end := util.DateRangeLenient(r.URL.Query(), time.Now().UTC())

		data, err := reports.Build(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to build pdf report data for user %d: %v", userID, err)
			http.Error(w, "report generation failed", http.StatusInternalServerError)
			return
		}
		buf, err := reports.BuildPDF(data)
		if err != nil {
			log.Printf("ERROR: Failed to render pdf report for user %d: %v", userID, err)
			http.Error(w, "report generation failed", http.StatusInternalServerError)
			return
		}

		middleware.LogPIIExport(pool, r, "pdf", len(data.Transactions))
		log.Printf("INFO: PDF report generated for user %d (%s)", userID, data.PeriodLabel())

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", reportFilename("pdf", start, end))
		w.Write(buf.Bytes())
	}
}

func reportFilename(ext string, start, end time.Time) string {
	return fmt.Sprintf(`attachment; filename="spending_report_%s_to_%s.%s"`,
		start.Format("2006-01-02"), end.Format("2006-01-02"), ext)
}
