// internal/handlers/ledger/ledger_handler.go
package ledger

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"greenwell-service/internal/domain/ledger"
	xerrors "greenwell-service/internal/pkg/errors"
	"greenwell-service/internal/pkg/response"
	ledgersvc "greenwell-service/internal/service/ledger"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	service *ledgersvc.LedgerService
}

func NewLedgerHandler(service *ledgersvc.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// PostEntry handles POST /parties/:id/ledger
func (h *LedgerHandler) PostEntry(c *gin.Context) {
	partyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid party id", nil)
		return
	}

	var req ledger.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid ledger entry payload", nil)
		return
	}
	if req.Type != ledger.TypeDebit && req.Type != ledger.TypeCredit {
		response.ValidationError(c, "entry type must be debit or credit",
			map[string]string{"type": "must be debit or credit"})
		return
	}

	entry, err := h.service.PostEntry(c.Request.Context(), partyID, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "party not found")
			return
		}
		response.Internal(c, "failed to post ledger entry")
		return
	}

	response.OK(c, http.StatusCreated, entry)
}

// Statement handles GET /parties/:id/ledger
func (h *LedgerHandler) Statement(c *gin.Context) {
	partyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid party id", nil)
		return
	}

	var filters ledger.StatementFilters
	if from, ok := parseDate(c.Query("from")); ok {
		filters.From = from
	}
	if to, ok := parseDate(c.Query("to")); ok {
		filters.To = to
	}

	statement, err := h.service.Statement(c.Request.Context(), partyID, filters)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "party not found")
			return
		}
		response.Internal(c, "failed to load statement")
		return
	}

	response.OK(c, http.StatusOK, statement)
}

func parseDate(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
