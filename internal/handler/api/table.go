package api

import (
	"net/http"

	reqdto "restaurant-booking/internal/handler/dto/request"
	resdto "restaurant-booking/internal/handler/dto/response"
	"restaurant-booking/internal/handler/httperr"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	q queries.TableQueries
}

func NewTableHandler(q queries.TableQueries) *TableHandler {
	return &TableHandler{q: q}
}

// @Summary List tables
// @Description List every dining table with its capacity
// @Tags tables
// @Security BearerAuth
// @Produce json
// @Success 200 {array} resdto.TableResponse
// @Failure 401 {object} httperr.Response
// @Router /tables [get]
func (h *TableHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	res, err := resdto.FromTableViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Table availability
// @Description Mark each table available or busy for the window [start, end)
// @Tags tables
// @Security BearerAuth
// @Produce json
// @Param start query string true "Window start (RFC3339)"
// @Param end query string true "Window end (RFC3339)"
// @Success 200 {array} resdto.TableAvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /tables/availability [get]
func (h *TableHandler) Availability(c *gin.Context) {
	var query reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	views, err := h.q.Availability(c.Request.Context(), query.Start, query.End)
	if err != nil {
		if errs.Is(err, queries.ErrInvalidWindow) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Start must be before end", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	res, err := resdto.FromTableAvailability(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
