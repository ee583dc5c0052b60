// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/account": {
            "post": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Open a new account",
                "responses": {
                    "201": {"description": "Account created", "schema": {"$ref": "#/definitions/common.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/account/{id}": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Get an account",
                "parameters": [{"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Account fetched", "schema": {"$ref": "#/definitions/common.Response"}},
                    "404": {"description": "Account not found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/account/{id}/transactions": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "desc (default) or asc", "name": "order", "in": "query"},
                    {"type": "integer", "description": "Page size, at most 500", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Return entries after this entry ID", "name": "after", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Transactions fetched", "schema": {"$ref": "#/definitions/common.Response"}},
                    "404": {"description": "Account or cursor entry not found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/account/{id}/reconcile": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Reconcile balances",
                "parameters": [{"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Reconciliation result", "schema": {"$ref": "#/definitions/common.Response"}}
                }
            }
        },
        "/account/{id}/invest": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Invest cash in gold",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true},
                    {"description": "Investment details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/account.InvestRequest"}}
                ],
                "responses": {
                    "200": {"description": "Investment successful", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "500": {"description": "Price unavailable or internal error", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/account/{id}/sell": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Sell gold",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true},
                    {"description": "Sale details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/account.SellRequest"}}
                ],
                "responses": {
                    "200": {"description": "Sale successful", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Invalid request or insufficient gold", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/account/{id}/deposit": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Deposit cash",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true},
                    {"description": "Deposit details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/account.DepositRequest"}}
                ],
                "responses": {
                    "200": {"description": "Deposit successful", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/account/{id}/withdraw": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Withdraw cash",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true},
                    {"description": "Withdrawal details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/account.WithdrawRequest"}}
                ],
                "responses": {
                    "202": {"description": "Withdrawal pending", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Invalid request or insufficient funds", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/account/{id}/withdrawals/{entryID}/cancel": {
            "post": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Cancel a pending withdrawal",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Withdrawal entry ID", "name": "entryID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Withdrawal cancelled", "schema": {"$ref": "#/definitions/common.Response"}},
                    "409": {"description": "Withdrawal already settled", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/account/{id}/autopayments": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["autopayments"],
                "summary": "List recurring investments",
                "parameters": [{"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Rules fetched", "schema": {"$ref": "#/definitions/common.Response"}}
                }
            },
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["autopayments"],
                "summary": "Add a recurring investment",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true},
                    {"description": "Rule details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/autopayment.RuleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rule already exists", "schema": {"$ref": "#/definitions/common.Response"}},
                    "201": {"description": "Rule created", "schema": {"$ref": "#/definitions/common.Response"}}
                }
            }
        },
        "/account/{id}/autopayments/{ruleID}": {
            "put": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["autopayments"],
                "summary": "Update a recurring investment",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Rule ID", "name": "ruleID", "in": "path", "required": true},
                    {"description": "Rule details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/autopayment.RuleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rule updated", "schema": {"$ref": "#/definitions/common.Response"}},
                    "409": {"description": "An identical rule exists", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            },
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["autopayments"],
                "summary": "Remove a recurring investment",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Rule ID", "name": "ruleID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Rule removed"},
                    "404": {"description": "Rule not found", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        }
    },
    "definitions": {
        "account.InvestRequest": {
            "type": "object",
            "required": ["amount"],
            "properties": {
                "amount": {"type": "string", "example": "1500.00"},
                "recurring": {"type": "string", "enum": ["daily", "weekly", "monthly", "yearly"]}
            }
        },
        "account.SellRequest": {
            "type": "object",
            "required": ["grams"],
            "properties": {
                "grams": {"type": "string", "example": "0.250000"}
            }
        },
        "account.DepositRequest": {
            "type": "object",
            "required": ["amount"],
            "properties": {
                "amount": {"type": "string", "example": "5000.00"}
            }
        },
        "account.WithdrawRequest": {
            "type": "object",
            "required": ["amount", "destination"],
            "properties": {
                "amount": {"type": "string", "example": "2500.00"},
                "destination": {
                    "type": "object",
                    "required": ["bank_name", "account_number"],
                    "properties": {
                        "bank_name": {"type": "string"},
                        "account_number": {"type": "string"}
                    }
                }
            }
        },
        "autopayment.RuleRequest": {
            "type": "object",
            "required": ["amount", "frequency"],
            "properties": {
                "amount": {"type": "string", "example": "1000.00"},
                "frequency": {"type": "string", "enum": ["daily", "weekly", "monthly", "yearly"]}
            }
        },
        "common.ProblemDetails": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "errors": {},
                "instance": {"type": "string"},
                "status": {"type": "integer"},
                "title": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "common.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Enter your Bearer token in the format: Bearer {token}",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Goldvault API",
	Description:      "Digital gold ledger: cash and gold balances, investments, withdrawals and recurring investments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
