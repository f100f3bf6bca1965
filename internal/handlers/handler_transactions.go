package handlers

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	reportingService   portssvc.ReportingService
	now                func() time.Time
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, rs portssvc.ReportingService) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		reportingService:   rs,
		now:                time.Now,
	}
}

func registerTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade, rs portssvc.ReportingService) {
	h := newTransactionHandler(ts, rs)

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.GET("/all", h.listAllTransactions)
		txns.GET("/summary", h.getSummary)
		txns.GET("/monthly", h.getMonthlyReport)
		txns.GET("/export", h.exportCSV)
		txns.POST("/reverse/:id", h.reverseTransaction)
	}
}

// listAllTransactions godoc
// @Summary List all transactions
// @Description Lists every transaction of the user, newest first.
// @Tags transactions
// @Produce json
// @Success 200 {array} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/all [get]
func (h *transactionHandler) listAllTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}

	txns, err := h.transactionService.ListAllTransactions(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// listTransactions godoc
// @Summary Search transactions
// @Description Filtered, paginated listing. Pass nextPageToken back as pageToken to continue.
// @Tags transactions
// @Produce json
// @Param person query string false "Person name"
// @Param type query string false "SEND or RECEIVE"
// @Param q query string false "Text in description or person name"
// @Param from query string false "Inclusive lower bound, YYYY-MM-DD or RFC 3339"
// @Param to query string false "Upper bound, YYYY-MM-DD (inclusive day) or RFC 3339 (exclusive)"
// @Param limit query int false "Page size (max 200)"
// @Param pageToken query string false "Token from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), ownerID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getSummary godoc
// @Summary Transaction summary
// @Description Totals over non-reversed transactions, optionally bounded by date.
// @Tags transactions
// @Produce json
// @Param from query string false "Inclusive lower bound"
// @Param to query string false "Upper bound"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/summary [get]
func (h *transactionHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}
	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	from, err := dto.ParseDateBound(params.From, false)
	if err != nil {
		respondWithError(c, logger, err, "Invalid date")
		return
	}
	to, err := dto.ParseDateBound(params.To, true)
	if err != nil {
		respondWithError(c, logger, err, "Invalid date")
		return
	}

	summary, err := h.reportingService.GetSummary(c.Request.Context(), ownerID, from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// getMonthlyReport godoc
// @Summary Monthly report
// @Description Sent/received/net for each month of a year. Defaults to the current year.
// @Tags transactions
// @Produce json
// @Param year query int false "Calendar year"
// @Success 200 {array} dto.MonthlyTotalsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/monthly [get]
func (h *transactionHandler) getMonthlyReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}
	var params dto.MonthlyReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	year := params.Year
	if year == 0 {
		year = h.now().UTC().Year()
	}

	months, err := h.reportingService.GetMonthlyReport(c.Request.Context(), ownerID, year)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build monthly report")
		return
	}
	c.JSON(http.StatusOK, dto.ToMonthlyTotalsResponses(months))
}

// exportCSV godoc
// @Summary Export transactions as CSV
// @Tags transactions
// @Produce text/csv
// @Param person query string false "Only this person's transactions"
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/export [get]
func (h *transactionHandler) exportCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}

	var person string
	if raw := strings.TrimSpace(c.Query("person")); raw != "" {
		var err error
		if person, err = domain.NormalizePersonName(raw); err != nil {
			respondWithError(c, logger, err, "Invalid person")
			return
		}
	}

	txns, err := h.transactionService.ListAllTransactions(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to export transactions")
		return
	}
	if person != "" {
		txns = filterByPerson(txns, person)
	}

	filename := fmt.Sprintf("transactions-%s.csv", h.now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(dto.TransactionCSVHeader)
	for _, t := range dto.ToTransactionResponses(txns) {
		_ = w.Write(t.CSVRecord())
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Error("Failed to write CSV export", slog.String("error", err.Error()))
	}
}

func filterByPerson(txns []domain.Transaction, person string) []domain.Transaction {
	out := txns[:0:0]
	for _, t := range txns {
		if t.PersonName == person {
			out = append(out, t)
		}
	}
	return out
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Marks the transaction reversed and restores the person's balance. A transaction can only be reversed once.
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reversed"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/reverse/{id} [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondWithError(c, logger, fmt.Errorf("%w: transaction id must be a number", apperrors.ErrValidation), "Invalid transaction id")
		return
	}

	txn, person, err := h.transactionService.ReverseTransaction(c.Request.Context(), ownerID, id)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reverse transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToMutationResponse(txn, person))
}
