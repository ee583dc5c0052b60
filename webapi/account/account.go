package account

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/middleware"
	"github.com/amirasaad/goldvault/pkg/repository"
	authsvc "github.com/amirasaad/goldvault/pkg/service/auth"
	"github.com/amirasaad/goldvault/pkg/service/ledger"
	"github.com/amirasaad/goldvault/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// Routes registers HTTP routes for account-related operations using the Fiber web framework.
// All routes are protected by authentication middleware and act on accounts owned by the caller.
//
// Routes:
//   - POST   /account                                    : Open an account for the authenticated user.
//   - GET    /account/:id                                : Retrieve the account and its balances.
//   - GET    /account/:id/transactions                   : List the transaction log, newest first by default.
//   - GET    /account/:id/reconcile                      : Rebuild balances from the log and compare.
//   - POST   /account/:id/invest                         : Buy gold with cash at the current price.
//   - POST   /account/:id/sell                           : Sell gold for cash at the current price.
//   - POST   /account/:id/deposit                        : Deposit cash.
//   - POST   /account/:id/withdraw                       : Request a cash withdrawal to a bank account.
//   - POST   /account/:id/withdrawals/:entryID/cancel    : Cancel a pending withdrawal.
func Routes(app *fiber.App, ledgerSvc *ledger.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/account", protected, OpenAccount(ledgerSvc, authSvc))
	app.Get("/account/:id", protected, GetAccount(ledgerSvc, authSvc))
	app.Get("/account/:id/transactions", protected, GetTransactions(ledgerSvc, authSvc))
	app.Get("/account/:id/reconcile", protected, Reconcile(ledgerSvc, authSvc))
	app.Post("/account/:id/invest", protected, Invest(ledgerSvc, authSvc))
	app.Post("/account/:id/sell", protected, Sell(ledgerSvc, authSvc))
	app.Post("/account/:id/deposit", protected, Deposit(ledgerSvc, authSvc))
	app.Post("/account/:id/withdraw", protected, Withdraw(ledgerSvc, authSvc))
	app.Post("/account/:id/withdrawals/:entryID/cancel", protected, CancelWithdrawal(ledgerSvc, authSvc))
}

// OpenAccount returns a Fiber handler that provisions an account with zero
// balances for the current user.
// @Summary Open a new account
// @Description Opens a gold account with zero cash and gold balances for the authenticated user.
// @Tags accounts
// @Produce json
// @Success 201 {object} common.Response "Account created"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 429 {object} common.ProblemDetails "Too many requests"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /account [post]
// @Security Bearer
func OpenAccount(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		acc, err := ledgerSvc.OpenAccount(c.UserContext(), userID)
		if err != nil {
			log.Errorf("Failed to open account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to open account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountDTO(acc))
	}
}

// GetAccount returns a Fiber handler for reading an account and its balances.
// @Summary Get an account
// @Description Returns the account's cash and gold balances.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response "Account fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid account ID"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /account/{id} [get]
// @Security Bearer
func GetAccount(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		acc, err := ledgerSvc.Account(c.UserContext(), accountID, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountDTO(acc))
	}
}

// TransactionPage is one page of the transaction log. Next is the entry ID to
// pass as "after" for the following page; empty when the log is exhausted.
type TransactionPage struct {
	Transactions []*TransactionDTO `json:"transactions"`
	Next         string            `json:"next,omitempty"`
}

// GetTransactions returns a Fiber handler for listing an account's log.
// @Summary List transactions
// @Description Lists the account's transaction log. Entries are newest first unless order=asc.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param order query string false "desc (default) or asc"
// @Param limit query int false "Page size, at most 500"
// @Param after query string false "Return entries after this entry ID"
// @Success 200 {object} common.Response "Transactions fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account or cursor entry not found"
// @Router /account/{id}/transactions [get]
// @Security Bearer
func GetTransactions(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		order, err := repository.ParseOrder(c.Query("order"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid order", err, fiber.StatusBadRequest)
		}
		limit, err := parseLimit(c.Query("limit"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid limit", err)
		}
		page := TransactionPage{Transactions: make([]*TransactionDTO, 0, limit)}
		entries := ledgerSvc.TransactionsAfter(c.UserContext(), accountID, userID, order, c.Query("after"))
		for tx, err := range entries {
			if err != nil {
				return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
			}
			if len(page.Transactions) == limit {
				page.Next = page.Transactions[limit-1].ID
				break
			}
			page.Transactions = append(page.Transactions, ToTransactionDTO(tx))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", page)
	}
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultPageLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", domain.ErrValidation)
	}
	return min(n, maxPageLimit), nil
}

// Reconcile returns a Fiber handler that rebuilds balances from the log.
// @Summary Reconcile balances
// @Description Replays the transaction log and compares the result with the stored balances.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response "Reconciliation result"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /account/{id}/reconcile [get]
// @Security Bearer
func Reconcile(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		if _, err := ledgerSvc.Account(c.UserContext(), accountID, userID); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to reconcile", err)
		}
		rec, err := ledgerSvc.Reconcile(c.UserContext(), accountID)
		if err != nil {
			log.Errorf("Failed to reconcile account %s: %v", accountID, err)
			return common.ProblemDetailsJSON(c, "Failed to reconcile", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Reconciliation complete", rec)
	}
}

// Invest returns a Fiber handler for buying gold.
// @Summary Invest cash in gold
// @Description Buys gold worth the given cash amount at the current price. With "recurring" set, also schedules the same investment.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body InvestRequest true "Investment details"
// @Success 200 {object} common.Response "Investment successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 429 {object} common.ProblemDetails "Too many requests"
// @Failure 500 {object} common.ProblemDetails "Price unavailable or internal error"
// @Router /account/{id}/invest [post]
// @Security Bearer
func Invest(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		input, err := common.BindAndValidate[InvestRequest](c)
		if input == nil {
			return err // error response already written
		}
		req := ledger.InvestRequest{AccountID: accountID, UserID: userID, Amount: *input.Amount}
		if input.Recurring != "" {
			freq, err := account.ParseFrequency(input.Recurring)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid frequency", err)
			}
			req.Recurring = &freq
		}
		res, err := ledgerSvc.Invest(c.UserContext(), req)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to invest", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Investment successful", ToOperationResponse(res))
	}
}

// Sell returns a Fiber handler for selling gold.
// @Summary Sell gold
// @Description Sells the given grams of gold at the current price and credits the proceeds.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body SellRequest true "Sale details"
// @Success 200 {object} common.Response "Sale successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request or insufficient gold"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 500 {object} common.ProblemDetails "Price unavailable or internal error"
// @Router /account/{id}/sell [post]
// @Security Bearer
func Sell(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		input, err := common.BindAndValidate[SellRequest](c)
		if input == nil {
			return err // error response already written
		}
		res, err := ledgerSvc.Sell(c.UserContext(), accountID, userID, *input.Grams)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to sell", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Sale successful", ToOperationResponse(res))
	}
}

// Deposit returns a Fiber handler for depositing cash.
// @Summary Deposit cash
// @Description Credits the given cash amount to the account.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body DepositRequest true "Deposit details"
// @Success 200 {object} common.Response "Deposit successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /account/{id}/deposit [post]
// @Security Bearer
func Deposit(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		input, err := common.BindAndValidate[DepositRequest](c)
		if input == nil {
			return err // error response already written
		}
		res, err := ledgerSvc.Deposit(c.UserContext(), accountID, userID, *input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to deposit", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit successful", ToOperationResponse(res))
	}
}

// Withdraw returns a Fiber handler for requesting a cash withdrawal. The cash
// is reserved immediately; the entry stays pending until settled.
// @Summary Withdraw cash
// @Description Reserves the amount and records a pending withdrawal to the given bank account.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body WithdrawRequest true "Withdrawal details"
// @Success 202 {object} common.Response "Withdrawal pending"
// @Failure 400 {object} common.ProblemDetails "Invalid request or insufficient funds"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /account/{id}/withdraw [post]
// @Security Bearer
func Withdraw(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		input, err := common.BindAndValidate[WithdrawRequest](c)
		if input == nil {
			return err // error response already written
		}
		res, err := ledgerSvc.Withdraw(c.UserContext(), accountID, userID, *input.Amount, input.Destination)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to withdraw", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusAccepted, "Withdrawal pending", ToOperationResponse(res))
	}
}

// CancelWithdrawal returns a Fiber handler for cancelling a pending withdrawal.
// @Summary Cancel a pending withdrawal
// @Description Cancels the withdrawal and releases the reserved cash.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param entryID path string true "Withdrawal entry ID"
// @Success 200 {object} common.Response "Withdrawal cancelled"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Withdrawal not found"
// @Failure 409 {object} common.ProblemDetails "Withdrawal already settled"
// @Router /account/{id}/withdrawals/{entryID}/cancel [post]
// @Security Bearer
func CancelWithdrawal(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		entryID := c.Params("entryID")
		res, err := ledgerSvc.CancelWithdrawal(c.UserContext(), accountID, userID, entryID)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidTransition) && !errors.Is(err, domain.ErrNotFound) {
				log.Errorf("Failed to cancel withdrawal %s: %v", entryID, err)
			}
			return common.ProblemDetailsJSON(c, "Failed to cancel withdrawal", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal cancelled", ToOperationResponse(res))
	}
}
