package handler

import (
	"fmt"
	"net/http"

	"expense-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// Profile greets the authenticated user.
func Profile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, http.StatusOK, util.Response{
		"message": fmt.Sprintf("hello there %s", user.Username),
	})
}
