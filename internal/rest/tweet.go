package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/tweetfeed/domain"
	"github.com/Guyuepp/tweetfeed/internal/rest/middleware"
	"github.com/Guyuepp/tweetfeed/internal/rest/request"
	"github.com/Guyuepp/tweetfeed/internal/rest/response"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// TweetHandler  represent the httphandler for tweet
type TweetHandler struct {
	Service domain.TweetUsecase
}

const (
	DefaultPageLimit = 20
	PageMaxLimit     = 100

	likeQueuedMessage = "like queued for aggregation"
)

func NewTweetHandler(svc domain.TweetUsecase) *TweetHandler {
	return &TweetHandler{
		Service: svc,
	}
}

// FetchTweets will fetch the most recent tweets based on skip/limit
func (h *TweetHandler) FetchTweets(c *gin.Context) {
	skip, err := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, ResponseError{Message: domain.ErrBadParamInput.Error()})
		return
	}
	limit, err := strconv.ParseInt(c.Query("limit"), 10, 64)
	if err != nil || limit < 1 || limit > PageMaxLimit {
		limit = DefaultPageLimit
	}

	list, err := h.Service.Fetch(c.Request.Context(), skip, limit)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.Tweet, len(list))
	for i := range list {
		res[i] = response.NewTweetFromDomain(&list[i])
	}
	c.JSON(http.StatusOK, res)
}

// GetByID will get tweet by given id
func (h *TweetHandler) GetByID(c *gin.Context) {
	id, ok := tweetIDParam(c)
	if !ok {
		return
	}

	t, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewTweetFromDomain(&t))
}

// Store will store the tweet by given request body
func (h *TweetHandler) Store(c *gin.Context) {
	var req request.Tweet
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ResponseError{Message: domain.ErrUnauthorized.Error()})
		return
	}

	t := req.ToDomain()
	t.Account.ID = accountID
	if err := h.Service.Store(c.Request.Context(), &t); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, response.NewTweetFromDomain(&t))
}

// Update replaces the content of a tweet owned by the caller
func (h *TweetHandler) Update(c *gin.Context) {
	id, ok := tweetIDParam(c)
	if !ok {
		return
	}
	var req request.Tweet
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ResponseError{Message: domain.ErrUnauthorized.Error()})
		return
	}

	t := req.ToDomain()
	t.ID = id
	t.Account.ID = accountID
	if err := h.Service.Update(c.Request.Context(), &t); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewTweetFromDomain(&t))
}

// Delete will delete the tweet by given param
func (h *TweetHandler) Delete(c *gin.Context) {
	id, ok := tweetIDParam(c)
	if !ok {
		return
	}
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ResponseError{Message: domain.ErrUnauthorized.Error()})
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id, accountID); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Like queues a like; the response only acknowledges acceptance, not persistence
func (h *TweetHandler) Like(c *gin.Context) {
	id, ok := tweetIDParam(c)
	if !ok {
		return
	}

	if err := h.Service.Like(c.Request.Context(), id); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, response.LikeAccepted{
		Message: likeQueuedMessage,
		TweetID: id,
	})
}

func tweetIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

// getStatusCode will get the code of the error from the usecases
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		logrus.Error(err)
		return http.StatusInternalServerError
	}
}
