package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/tweetfeed/domain"
)

const (
	HeaderAccountID = "X-Account-ID"

	contextKeyAccountID = "account_id"
)

// CurrentAccount resolves the caller from the X-Account-ID header.
// Requests without the header act as the default account.
func CurrentAccount(svc domain.AccountUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw := c.GetHeader(HeaderAccountID)
		if raw == "" {
			a, err := svc.Default(ctx)
			if err != nil {
				logrus.Errorf("failed to resolve default account: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": domain.ErrInternalServerError.Error()})
				return
			}
			c.Set(contextKeyAccountID, a.ID)
			c.Next()
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthorized.Error()})
			return
		}
		if _, err := svc.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthorized.Error()})
				return
			}
			logrus.Errorf("failed to resolve account %d: %v", id, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": domain.ErrInternalServerError.Error()})
			return
		}
		c.Set(contextKeyAccountID, id)
		c.Next()
	}
}

// AccountID returns the id stored by CurrentAccount.
func AccountID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(contextKeyAccountID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
