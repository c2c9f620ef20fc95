// internal/handlers/account/account_handler.go
package account

import (
	"errors"
	"net/http"
	"strconv"

	"greenwell-service/internal/domain/account"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/pkg/response"
	accountsvc "greenwell-service/internal/service/account"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	service *accountsvc.AccountService
}

func NewAccountHandler(service *accountsvc.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// ListAccounts handles GET /accounts
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	result, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list accounts")
		return
	}

	response.OK(c, http.StatusOK, result)
}

// CreateAccount handles POST /accounts
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req account.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid account payload", nil)
		return
	}

	a, err := h.service.CreateAccount(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			response.Conflict(c, "an account with this name already exists")
			return
		}
		response.Internal(c, "failed to create account")
		return
	}

	response.OK(c, http.StatusCreated, a)
}

// RecordTransaction handles POST /accounts/:id/transactions
func (h *AccountHandler) RecordTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid account id", nil)
		return
	}

	var req account.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid transaction payload", nil)
		return
	}

	t, err := h.service.RecordTransaction(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.Internal(c, "failed to record transaction")
		return
	}

	response.OK(c, http.StatusCreated, t)
}

// RecentTransactions handles GET /accounts/transactions
func (h *AccountHandler) RecentTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	transactions, err := h.service.RecentTransactions(c.Request.Context(), limit)
	if err != nil {
		response.Internal(c, "failed to list transactions")
		return
	}

	response.OK(c, http.StatusOK, transactions)
}
