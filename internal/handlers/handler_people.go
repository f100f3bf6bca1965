package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// peopleHandler serves the people a user tracks and the send/receive mutations on them.
type peopleHandler struct {
	personService      portssvc.PersonSvcFacade
	transactionService portssvc.TransactionSvcFacade
}

func newPeopleHandler(ps portssvc.PersonSvcFacade, ts portssvc.TransactionSvcFacade) *peopleHandler {
	return &peopleHandler{
		personService:      ps,
		transactionService: ts,
	}
}

func registerPeopleRoutes(rg *gin.RouterGroup, ps portssvc.PersonSvcFacade, ts portssvc.TransactionSvcFacade) {
	h := newPeopleHandler(ps, ts)

	people := rg.Group("/people")
	{
		people.GET("/all", h.listPeople)
		people.POST("/add", h.addPerson)
		people.POST("/send", h.send)
		people.POST("/receive", h.receive)
		people.GET("/:name", h.getPerson)
		people.DELETE("/:name", h.deletePerson)
	}
}

// ownerFromContext returns the authenticated user or writes a 401.
func ownerFromContext(c *gin.Context, logger *slog.Logger) (string, bool) {
	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return ownerID, true
}

// listPeople godoc
// @Summary List people
// @Description Lists every person the user tracks, ordered by name.
// @Tags people
// @Produce json
// @Success 200 {array} dto.PersonResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /people/all [get]
func (h *peopleHandler) listPeople(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}

	people, err := h.personService.ListPeople(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list people")
		return
	}
	c.JSON(http.StatusOK, dto.ToPersonResponses(people))
}

// getPerson godoc
// @Summary Get a person
// @Description Returns a person with sent/received totals over non-reversed transactions.
// @Tags people
// @Produce json
// @Param name path string true "Person name"
// @Success 200 {object} dto.PersonDetailResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /people/{name} [get]
func (h *peopleHandler) getPerson(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}

	person, totals, err := h.personService.GetPersonSummary(c.Request.Context(), ownerID, c.Param("name"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to get person")
		return
	}
	c.JSON(http.StatusOK, dto.PersonDetailResponse{
		PersonResponse: dto.ToPersonResponse(person),
		Summary:        dto.ToTotalsResponse(totals),
	})
}

// addPerson godoc
// @Summary Add a person
// @Tags people
// @Produce json
// @Param name query string true "Person name"
// @Success 201 {object} dto.PersonResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Person already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /people/add [post]
func (h *peopleHandler) addPerson(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.AddPersonRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	person, err := h.personService.AddPerson(c.Request.Context(), ownerID, req.Name)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add person")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPersonResponse(person))
}

// send godoc
// @Summary Send money to a person
// @Description Records a SEND transaction and lowers the person's balance.
// @Tags people
// @Produce json
// @Param name query string true "Person name"
// @Param amount query string true "Amount, at most two decimals"
// @Param description query string false "Description"
// @Success 200 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /people/send [post]
func (h *peopleHandler) send(c *gin.Context) {
	h.record(c, domain.TransactionTypeSend)
}

// receive godoc
// @Summary Receive money from a person
// @Description Records a RECEIVE transaction and raises the person's balance.
// @Tags people
// @Produce json
// @Param name query string true "Person name"
// @Param amount query string true "Amount, at most two decimals"
// @Param description query string false "Description"
// @Success 200 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /people/receive [post]
func (h *peopleHandler) receive(c *gin.Context) {
	h.record(c, domain.TransactionTypeReceive)
}

func (h *peopleHandler) record(c *gin.Context, txnType domain.TransactionType) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.RecordTransactionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	txn, person, err := h.transactionService.RecordTransaction(c.Request.Context(), ownerID, txnType, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToMutationResponse(txn, person))
}

// deletePerson godoc
// @Summary Delete a person
// @Description Deletes the person and their whole transaction history.
// @Tags people
// @Param name path string true "Person name"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /people/{name} [delete]
func (h *peopleHandler) deletePerson(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := ownerFromContext(c, logger)
	if !ok {
		return
	}

	name := c.Param("name")
	if name == "" {
		respondWithError(c, logger, apperrors.ErrValidation, "Invalid person name")
		return
	}
	if err := h.personService.DeletePerson(c.Request.Context(), ownerID, name); err != nil {
		respondWithError(c, logger, err, "Failed to delete person")
		return
	}
	c.Status(http.StatusNoContent)
}
