package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/tweetfeed/domain"
	"github.com/Guyuepp/tweetfeed/internal/rest/middleware"
	"github.com/Guyuepp/tweetfeed/internal/rest/request"
	"github.com/Guyuepp/tweetfeed/internal/rest/response"
)

type AccountHandler struct {
	Service domain.AccountUsecase
}

func NewAccountHandler(svc domain.AccountUsecase) *AccountHandler {
	return &AccountHandler{
		Service: svc,
	}
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req request.Account
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	a := req.ToDomain()
	if err := h.Service.Register(c.Request.Context(), &a); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, response.NewAccountFromDomain(&a))
}

// Me returns the account resolved by the identity middleware
func (h *AccountHandler) Me(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ResponseError{Message: domain.ErrUnauthorized.Error()})
		return
	}
	h.respondAccount(c, accountID)
}

func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}
	h.respondAccount(c, id)
}

func (h *AccountHandler) respondAccount(c *gin.Context, id int64) {
	a, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewAccountFromDomain(&a))
}
