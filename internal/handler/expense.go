package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expense-ledger/internal/forecast"
	"expense-ledger/internal/service"
	"expense-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const timeLayout = time.RFC3339

type newExpenseReq struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	AccountName string           `json:"account_name" binding:"required"`
	Notes       string           `json:"notes"`
}

func (h *LedgerHandler) NewExpense(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req newExpenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount and account_name are required")
		return
	}

	e, err := h.ledger.RecordExpense(c.Request.Context(), user.ID, req.AccountName, *req.Amount, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound,
				fmt.Sprintf("This account: %s doesn't exist!", req.AccountName))
			return
		}
		writeError(c, err)
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"status":     util.StatusSuccess,
		"message":    "Success!",
		"expense_id": e.ExpenseID,
	})
}

// ExpenseHistory lists the caller's expenses, optionally for ?account=.
func (h *LedgerHandler) ExpenseHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	account := strings.TrimSpace(c.Query("account"))
	records, err := h.ledger.ExpenseHistory(c.Request.Context(), user.ID, account)
	if err != nil {
		writeError(c, err)
		return
	}

	msg := "Your payment history"
	if account != "" {
		msg = fmt.Sprintf("%s payment history!", account)
	}
	util.Success(c, http.StatusOK, util.Response{
		"message": msg,
		"data":    toExpenseResp(records, account == ""),
	})
}

// ExpenseHistoryByDate lists expenses paid strictly between ?start= and ?end=.
func (h *LedgerHandler) ExpenseHistoryByDate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	start, err := util.ParseDateTime(c.Query("start"))
	if err != nil {
		badRequest(c, "start: "+err.Error())
		return
	}
	end, err := util.ParseDateTime(c.Query("end"))
	if err != nil {
		badRequest(c, "end: "+err.Error())
		return
	}

	records, err := h.ledger.ExpenseHistoryByDateRange(c.Request.Context(), user.ID, start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	msg := fmt.Sprintf("%d records", len(records))
	if len(records) == 0 {
		msg = "No Records!"
	}
	util.Success(c, http.StatusOK, util.Response{
		"status":  util.StatusSuccess,
		"message": msg,
		"data":    toExpenseResp(records, true),
	})
}

// TotalExpense sums the caller's spending over the last ?days= days.
func (h *LedgerHandler) TotalExpense(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	days, err := strconv.Atoi(c.Query("days"))
	if err != nil {
		badRequest(c, "Please provide valid input!")
		return
	}
	account := strings.TrimSpace(c.Query("accountName"))

	total, err := h.ledger.TotalExpense(c.Request.Context(), user.ID, days, account)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			badRequest(c, "Please provide valid input!")
		case errors.Is(err, service.ErrNotFound):
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "No expenses found for that account in this period")
		default:
			writeError(c, err)
		}
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"status":  util.StatusSuccess,
		"message": fmt.Sprintf("Your Total expense since last %d days!", days),
		"amount":  util.AmountJSON(total),
	})
}

// ExpenseRate projects when ?accountName= runs out of balance.
func (h *LedgerHandler) ExpenseRate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	account := strings.TrimSpace(c.Query("accountName"))
	if account == "" {
		badRequest(c, "accountName is required")
		return
	}

	date, err := h.ledger.EstimateDepletion(c.Request.Context(), user.ID, account)
	switch {
	case err == nil:
	case errors.Is(err, forecast.ErrInsufficientData):
		util.Success(c, http.StatusOK, util.Response{"status": util.StatusSuccess, "message": "Not enough data"})
		return
	case errors.Is(err, forecast.ErrNoDepletion):
		util.Success(c, http.StatusOK, util.Response{
			"status":  util.StatusSuccess,
			"message": "Spending rate too low to project a depletion date",
		})
		return
	case errors.Is(err, service.ErrAccountNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound,
			fmt.Sprintf("looks like %s account doesn't exist!", account))
		return
	default:
		writeError(c, err)
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"status":  util.StatusSuccess,
		"message": "You might run out of balance by The following date",
		"date":    date.Format(timeLayout),
	})
}
