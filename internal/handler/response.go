package handler

import (
	"errors"
	"net/http"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/middleware"
	"expense-ledger/internal/service"
	"expense-ledger/internal/store"
	"expense-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto HTTP statuses. Unknown errors are
// attached to the context for the request logger and reported as 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "That's not a valid amount!")
	case errors.Is(err, service.ErrInvalidRange):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please provide valid inputs!")
	case errors.Is(err, service.ErrInvalidInput):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, service.ErrAlreadyExists):
		util.Error(c, http.StatusConflict, util.CodeConflict, "Looks like this already exists!")
	case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "The account doesn't exist!")
	case errors.Is(err, service.ErrInsufficientBalance):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeInsufficientBalance, "Looks like you don't have enough balance!")
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrBadCredential),
		errors.Is(err, auth.ErrInvalidCredential):
		middleware.Unauthorized(c, "Unauthorized user!")
	default:
		_ = c.Error(err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Internal server error")
	}
}

func badRequest(c *gin.Context, msg string) {
	util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
}

// currentUser fetches the user set by AuthMiddleware, answering 401 when absent.
func currentUser(c *gin.Context) (service.ActiveUser, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Unauthorized(c, "Not authenticated")
	}
	return u, ok
}

type expenseResp struct {
	PaymentDate string      `json:"payment_date"`
	Amount      interface{} `json:"amount"`
	Note        string      `json:"note"`
	AccountName string      `json:"account_name,omitempty"`
}

// toExpenseResp renders records; the account name is dropped when the list is
// already filtered to a single account.
func toExpenseResp(records []store.ExpenseRecord, withAccount bool) []expenseResp {
	out := make([]expenseResp, 0, len(records))
	for _, r := range records {
		e := expenseResp{
			PaymentDate: r.PaymentDate.Local().Format(timeLayout),
			Amount:      util.AmountJSON(r.AmountCents),
			Note:        r.Note,
		}
		if withAccount {
			e.AccountName = r.AccountName
		}
		out = append(out, e)
	}
	return out
}
