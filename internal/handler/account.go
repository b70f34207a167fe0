package handler

import (
	"errors"
	"net/http"
	"strings"

	"expense-ledger/internal/service"
	"expense-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LedgerHandler serves account and expense endpoints.
type LedgerHandler struct {
	ledger *service.LedgerService
}

func NewLedgerHandler(ledger *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

type accountResp struct {
	AccountID   string      `json:"account_id"`
	AccountName string      `json:"account_name"`
	Balance     interface{} `json:"balance"`
}

func (h *LedgerHandler) ListAccounts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	accounts, err := h.ledger.ListAccounts(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	data := make([]accountResp, 0, len(accounts))
	for _, a := range accounts {
		data = append(data, accountResp{
			AccountID:   a.AccountID,
			AccountName: a.AccountName,
			Balance:     util.AmountJSON(a.BalanceCents),
		})
	}
	msg := "Your accounts"
	if len(data) == 0 {
		msg = "You have got no accounts yet"
	}
	util.Success(c, http.StatusOK, util.Response{"message": msg, "data": data})
}

type createAccountReq struct {
	AccountName string           `json:"account_name" binding:"required"`
	Balance     *decimal.Decimal `json:"balance" binding:"required"`
}

func (h *LedgerHandler) CreateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "account_name and balance are required")
		return
	}

	a, err := h.ledger.CreateAccount(c.Request.Context(), user.ID, req.AccountName, *req.Balance)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			badRequest(c, "Invalid input! balance must be a positive amount")
		case errors.Is(err, service.ErrAlreadyExists):
			util.Error(c, http.StatusConflict, util.CodeConflict, "Looks like this account already exists!")
		default:
			writeError(c, err)
		}
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"status":     util.StatusSuccess,
		"message":    "Account created successfully!",
		"account_id": a.AccountID,
	})
}

// UpdateBalance credits ?amount= to the caller's ?account_name=.
func (h *LedgerHandler) UpdateBalance(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	name := strings.TrimSpace(c.Query("account_name"))
	if name == "" {
		badRequest(c, "account_name is required")
		return
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		badRequest(c, "The amount you entered is invalid. Please try again!")
		return
	}

	if err := h.ledger.UpdateBalance(c.Request.Context(), user.ID, name, amount); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			badRequest(c, "The amount you entered is invalid. Please try again!")
		case errors.Is(err, service.ErrNotFound):
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "The input account doesn't exist!")
		default:
			writeError(c, err)
		}
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"status":  util.StatusSuccess,
		"message": "Balance updated successfully!",
	})
}
