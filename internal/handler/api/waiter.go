package api

import (
	"net/http"

	"restaurant-booking/internal/domain/waiter"
	reqdto "restaurant-booking/internal/handler/dto/request"
	resdto "restaurant-booking/internal/handler/dto/response"
	"restaurant-booking/internal/handler/httperr"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type WaiterHandler struct {
	cmds commands.WaiterCommands
}

func NewWaiterHandler(cmds commands.WaiterCommands) *WaiterHandler {
	return &WaiterHandler{cmds: cmds}
}

// @Summary Call a waiter
// @Description Ask for a waiter at the given table
// @Tags waiter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CallWaiterRequest true "Waiter call"
// @Success 201 {object} resdto.WaiterCallResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /waiter-calls [post]
func (h *WaiterHandler) Call(c *gin.Context) {
	actor, ok := clientID(c)
	if !ok {
		return
	}

	var req reqdto.CallWaiterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	call, err := h.cmds.CallWaiter(c.Request.Context(), actor, req)
	if err != nil {
		switch {
		case errs.Is(err, waiter.ErrTableRequired):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Table number is required", nil)
		case errs.Is(err, errs.ErrTableNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Table not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.WaiterCallResponse{
		ID:        call.ID(),
		TableID:   call.TableID(),
		CreatedAt: call.CreatedAt(),
	})
}
