package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/ledger"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type createTransactionRequest struct {
	Date         string          `json:"date" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	Type         string          `json:"type" binding:"required,oneof=income expense"`
	Priority     string          `json:"priority" binding:"omitempty,oneof=high medium low"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"category"`
}

type updateTransactionRequest struct {
	Date         *string          `json:"date"`
	Amount       *decimal.Decimal `json:"amount"`
	Description  *string          `json:"description"`
	Type         *string          `json:"type" binding:"omitempty,oneof=income expense"`
	Priority     *string          `json:"priority" binding:"omitempty,oneof=high medium low"`
	CategoryID   string           `json:"categoryId"`
	CategoryName string           `json:"category"`
}

func (s *Server) handleCreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	date, ok := parseDate(req.Date)
	if !ok {
		respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD or RFC 3339")
		return
	}
	if req.Amount.IsNegative() {
		respondError(c, http.StatusBadRequest, "amount must not be negative")
		return
	}

	input := ledger.TransactionInput{
		Date:        date,
		Amount:      req.Amount,
		Description: req.Description,
		Type:        model.TransactionType(req.Type),
		Priority:    model.Priority(req.Priority),
		Category:    ledger.CategoryRef{ID: req.CategoryID, Name: req.CategoryName},
	}

	txn, err := s.ledger.CreateTransaction(c.Request.Context(), ownerID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, txn)
}

func (s *Server) handleGetTransaction(c *gin.Context) {
	txn, err := s.ledger.GetTransaction(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, txn)
}

func (s *Server) handleUpdateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	patch := ledger.TransactionPatch{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    ledger.CategoryRef{ID: req.CategoryID, Name: req.CategoryName},
	}
	if req.Date != nil {
		date, ok := parseDate(*req.Date)
		if !ok {
			respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD or RFC 3339")
			return
		}
		patch.Date = &date
	}
	if req.Type != nil {
		txnType := model.TransactionType(*req.Type)
		patch.Type = &txnType
	}
	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		patch.Priority = &priority
	}

	txn, err := s.ledger.UpdateTransaction(c.Request.Context(), ownerID(c), c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, txn)
}

func (s *Server) handleDeleteTransaction(c *gin.Context) {
	deleted, err := s.ledger.DeleteTransaction(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "transaction not found")
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handleListTransactions(c *gin.Context) {
	filter, ok := parseTransactionFilter(c)
	if !ok {
		return
	}

	sort := service.ParseSortOrder(c.Query("sort"))
	page := service.Page{
		Number: queryInt(c, "page", 1),
		Size:   queryInt(c, "limit", defaultPageSize),
	}
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Size < 1 {
		page.Size = defaultPageSize
	}
	if page.Size > maxPageSize {
		page.Size = maxPageSize
	}

	txns, total, err := s.ledger.ListTransactions(c.Request.Context(), ownerID(c), filter, sort, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondList(c, txns, pageMeta{
		Total:      total,
		Page:       page.Number,
		Limit:      page.Size,
		TotalPages: service.TotalPages(total, page.Size),
	})
}

// parseTransactionFilter reads filter query parameters. It writes the error
// response itself and reports false when a parameter is malformed.
func parseTransactionFilter(c *gin.Context) (service.TransactionFilter, bool) {
	filter := service.TransactionFilter{
		Type:     model.TransactionType(c.Query("type")),
		Category: c.Query("category"),
		Search:   c.Query("q"),
	}

	if raw := c.Query("from"); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "from must be YYYY-MM-DD or RFC 3339")
			return filter, false
		}
		filter.DateFrom = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "to must be YYYY-MM-DD or RFC 3339")
			return filter, false
		}
		filter.DateTo = &t
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		respondError(c, http.StatusBadRequest, "to must not be before from")
		return filter, false
	}
	return filter, true
}

func parseDate(raw string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
