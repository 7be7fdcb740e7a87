package api

import (
	"net/http"

	"restaurant-booking/internal/domain/reservation"
	reqdto "restaurant-booking/internal/handler/dto/request"
	resdto "restaurant-booking/internal/handler/dto/response"
	"restaurant-booking/internal/handler/httperr"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/usecase/commands"
	"restaurant-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	NextCursorHeader     = "X-Next-Cursor"
)

type ReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// PartySizeRange is the error detail of a party_size_out_of_range rejection.
type PartySizeRange struct {
	MinPartySize int `json:"min_party_size"`
	MaxPartySize int `json:"max_party_size"`
}

// @Summary Create reservation
// @Description Validate and book a table. Retrying with the same Idempotency-Key replays the first result.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "UUID identifying this booking attempt"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := clientID(c)
	if !ok {
		return
	}

	keyStr := c.GetHeader(IdempotencyKeyHeader)
	if keyStr == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.ErrIdempotencyKeyRequired, "Idempotency-Key header is required", nil)
		return
	}
	key, err := uuid.Parse(keyStr)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid Idempotency-Key", nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	result, err := h.cmds.CreateReservation(c.Request.Context(), req, actor, key)
	if err != nil {
		h.abortCreate(c, err)
		return
	}

	res := resdto.FromReservationView(result.Reservation)
	if result.IsReplayed {
		res.Replayed = true
		c.JSON(http.StatusOK, res)
		return
	}
	c.Header("Location", "/api/reservations/"+res.ID.String())
	c.JSON(http.StatusCreated, res)
}

func (h *ReservationHandler) abortCreate(c *gin.Context, err error) {
	var ve *reservation.ValidationError
	switch {
	case errs.As(err, &ve):
		status := http.StatusUnprocessableEntity
		if ve.Reason == reservation.ReasonTableUnavailable {
			status = http.StatusConflict
		}
		var detail any
		if ve.Reason == reservation.ReasonPartySizeOutOfRange {
			detail = PartySizeRange{MinPartySize: ve.MinPartySize, MaxPartySize: ve.MaxPartySize}
		}
		httperr.AbortWithReason(c, status, err, ve.Reason.String(), ve.Message, detail)
	case errs.Is(err, errs.ErrIdempotencyMismatch):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Idempotency-Key was used with a different request", nil)
	case errs.Is(err, errs.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation request is already being processed", nil)
	case errs.Is(err, errs.ErrIdempotencyKeyRequired):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Idempotency-Key header is required", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
	}
}

// @Summary List upcoming reservations
// @Description Every table's reservations that have not ended, without guest details
// @Tags reservations
// @Security BearerAuth
// @Produce json
// @Success 200 {array} resdto.SlotResponse
// @Failure 401 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) ListUpcoming(c *gin.Context) {
	items, err := h.q.ListUpcoming(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservations(items))
}

// @Summary List my reservations
// @Description Reservations of the authenticated client in start order. The next page's cursor is sent in X-Next-Cursor.
// @Tags reservations
// @Security BearerAuth
// @Produce json
// @Param cursor query string false "cursor from X-Next-Cursor"
// @Param limit query int false "page size (1-100)"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /reservations/mine [get]
func (h *ReservationHandler) ListMine(c *gin.Context) {
	actor, ok := clientID(c)
	if !ok {
		return
	}
	var query reqdto.ListMineQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	views, next, err := h.q.ListByClient(c.Request.Context(), actor, queries.Page{Cursor: query.Cursor, Limit: query.Limit})
	if err != nil {
		if errs.Is(err, queries.ErrInvalidCursor) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	if next != "" {
		c.Header(NextCursorHeader, next)
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Get reservation
// @Description Get one of the authenticated client's reservations
// @Tags reservations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	actor, ok := clientID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		if errs.Is(err, queries.ErrReservationNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}
