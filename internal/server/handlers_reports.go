package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleSummaryReport(c *gin.Context) {
	from, to, ok := parseReportWindow(c)
	if !ok {
		return
	}

	summary, err := s.ledger.Summarize(c.Request.Context(), ownerID(c), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, summary)
}

func (s *Server) handleBalanceReport(c *gin.Context) {
	from, to, ok := parseReportWindow(c)
	if !ok {
		return
	}

	report, err := s.ledger.BalanceSeries(c.Request.Context(), ownerID(c), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, report)
}

func parseReportWindow(c *gin.Context) (*time.Time, *time.Time, bool) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "from must be YYYY-MM-DD or RFC 3339")
			return nil, nil, false
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "to must be YYYY-MM-DD or RFC 3339")
			return nil, nil, false
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		respondError(c, http.StatusBadRequest, "to must not be before from")
		return nil, nil, false
	}
	return from, to, true
}
