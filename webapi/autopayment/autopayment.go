// Package autopayment exposes the recurring investment rules of an account.
package autopayment

import (
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/middleware"
	authsvc "github.com/amirasaad/goldvault/pkg/service/auth"
	"github.com/amirasaad/goldvault/pkg/service/recurring"
	accountapi "github.com/amirasaad/goldvault/webapi/account"
	"github.com/amirasaad/goldvault/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// RuleRequest is the body of add and update requests.
type RuleRequest struct {
	Frequency string       `json:"frequency" validate:"required,max=16"`
	Amount    *money.Money `json:"amount" validate:"required"`
}

// Routes registers the recurring rule endpoints:
//   - GET    /account/:id/autopayments          : List rules, oldest first.
//   - POST   /account/:id/autopayments          : Add a rule; an identical rule is returned instead of duplicated.
//   - PUT    /account/:id/autopayments/:ruleID  : Change a rule's frequency and amount.
//   - DELETE /account/:id/autopayments/:ruleID  : Remove a rule.
func Routes(app *fiber.App, svc *recurring.Service, authSvc *authsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/account/:id/autopayments", protected, List(svc, authSvc))
	app.Post("/account/:id/autopayments", protected, Add(svc, authSvc))
	app.Put("/account/:id/autopayments/:ruleID", protected, Update(svc, authSvc))
	app.Delete("/account/:id/autopayments/:ruleID", protected, Remove(svc, authSvc))
}

// List returns a Fiber handler listing an account's rules.
// @Summary List recurring investments
// @Tags autopayments
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response "Rules fetched"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /account/{id}/autopayments [get]
// @Security Bearer
func List(svc *recurring.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		rules, err := svc.List(c.UserContext(), accountID, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list rules", err)
		}
		out := make([]*accountapi.RuleDTO, 0, len(rules))
		for _, r := range rules {
			out = append(out, accountapi.ToRuleDTO(r))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rules fetched", out)
	}
}

// Add returns a Fiber handler that schedules a recurring investment. It
// answers 201 for a new rule and 200 when an identical rule already existed.
// @Summary Add a recurring investment
// @Tags autopayments
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body RuleRequest true "Rule details"
// @Success 201 {object} common.Response "Rule created"
// @Success 200 {object} common.Response "Rule already exists"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /account/{id}/autopayments [post]
// @Security Bearer
func Add(svc *recurring.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		input, err := common.BindAndValidate[RuleRequest](c)
		if input == nil {
			return err // error response already written
		}
		freq, err := account.ParseFrequency(input.Frequency)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid frequency", err)
		}
		rule, created, err := svc.Add(c.UserContext(), accountID, userID, freq, *input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to add rule", err)
		}
		if !created {
			return common.SuccessResponseJSON(c, fiber.StatusOK, "Rule already exists", accountapi.ToRuleDTO(rule))
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Rule created", accountapi.ToRuleDTO(rule))
	}
}

// Update returns a Fiber handler that changes a rule.
// @Summary Update a recurring investment
// @Tags autopayments
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param ruleID path string true "Rule ID"
// @Param request body RuleRequest true "Rule details"
// @Success 200 {object} common.Response "Rule updated"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Rule not found"
// @Failure 409 {object} common.ProblemDetails "An identical rule exists"
// @Router /account/{id}/autopayments/{ruleID} [put]
// @Security Bearer
func Update(svc *recurring.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		ruleID, err := common.ParseUUIDParam(c, "ruleID")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid rule ID", err)
		}
		input, err := common.BindAndValidate[RuleRequest](c)
		if input == nil {
			return err // error response already written
		}
		freq, err := account.ParseFrequency(input.Frequency)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid frequency", err)
		}
		rule, err := svc.Update(c.UserContext(), accountID, userID, ruleID, freq, *input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update rule", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rule updated", accountapi.ToRuleDTO(rule))
	}
}

// Remove returns a Fiber handler that deletes a rule.
// @Summary Remove a recurring investment
// @Tags autopayments
// @Param id path string true "Account ID"
// @Param ruleID path string true "Rule ID"
// @Success 204 "Rule removed"
// @Failure 404 {object} common.ProblemDetails "Rule not found"
// @Router /account/{id}/autopayments/{ruleID} [delete]
// @Security Bearer
func Remove(svc *recurring.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		accountID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err)
		}
		ruleID, err := common.ParseUUIDParam(c, "ruleID")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid rule ID", err)
		}
		if err := svc.Remove(c.UserContext(), accountID, userID, ruleID); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to remove rule", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
