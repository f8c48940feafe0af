// Package docs holds the OpenAPI description of the payment API served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/admin/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Paged list of orders sorted by creation time",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List orders",
                "parameters": [
                    {"type": "string", "description": "CREATED, PAID or CANCELLED", "name": "status", "in": "query"},
                    {"type": "string", "description": "NONE, PENDING, ACCEPTED or FAILED", "name": "fiscalStatus", "in": "query"},
                    {"type": "string", "description": "RFC 3339 time", "name": "createdFrom", "in": "query"},
                    {"type": "string", "description": "RFC 3339 time", "name": "createdTo", "in": "query"},
                    {"type": "integer", "description": "Page size, 20 by default, at most 100", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Page number starting from 1", "name": "page", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "orderBy", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.OrdersResponse"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "No or invalid token", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/admin/orders/{id}/fiscal": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Receipt data",
                "parameters": [{"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.FiscalData"}},
                    "404": {"description": "Order or receipt not found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Order is not paid", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/admin/orders/{id}/fiscalize": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Submits the receipt of a paid order whose receipt was not accepted",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Repeat fiscalization",
                "parameters": [{"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "accepted is false when OFD rejected the items", "schema": {"$ref": "#/definitions/api.FiscalizeResponse"}},
                    "404": {"description": "Order not found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Receipt already accepted or being submitted", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Order is not paid", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Fiscalization failed", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/admin/telegram/setup": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Bot identity, chats that recently wrote to the bot and a test message to TELEGRAM_CHAT_ID when it is set",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Telegram bot setup",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.TelegramSetupResponse"}},
                    "401": {"description": "No or invalid token", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Bot is not configured or the token is rejected", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/click/complete": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["click"],
                "summary": "Click complete",
                "parameters": [{"description": "Click callback with action=1", "name": "ClickCallbackRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ClickCallbackRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ClickCallbackResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ClickCallbackResponse"}}
                }
            }
        },
        "/click/notify": {
            "post": {
                "description": "Prepare (action=0) or Complete (action=1) request from Click",
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["click"],
                "summary": "Click callback",
                "parameters": [{"description": "Click callback", "name": "ClickCallbackRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ClickCallbackRequest"}}],
                "responses": {
                    "200": {"description": "error 0, 4 or 5", "schema": {"$ref": "#/definitions/api.ClickCallbackResponse"}},
                    "400": {"description": "error 1, 2, 8 or 9", "schema": {"$ref": "#/definitions/api.ClickCallbackResponse"}},
                    "404": {"description": "error 3", "schema": {"$ref": "#/definitions/api.ClickCallbackResponse"}},
                    "500": {"description": "error 6 or 7", "schema": {"$ref": "#/definitions/api.ClickCallbackResponse"}}
                }
            }
        },
        "/click/prepare": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["click"],
                "summary": "Click prepare",
                "parameters": [{"description": "Click callback with action=0", "name": "ClickCallbackRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ClickCallbackRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ClickCallbackResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ClickCallbackResponse"}}
                }
            }
        },
        "/click/status": {
            "get": {
                "description": "Missing settings, reachability of Click hosts, order store state and a test payment link",
                "produces": ["application/json"],
                "tags": ["click"],
                "summary": "Click integration status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.DiagnosticsResponse"}}}
            }
        },
        "/health": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}}
            }
        },
        "/payments": {
            "post": {
                "description": "Stores a new order and returns the Click payment page link",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Create payment",
                "parameters": [{"description": "Tour and buyer", "name": "CreatePaymentRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CreatePaymentRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.CreatePaymentResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "413": {"description": "Request body is larger than 1 MiB", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Click is not configured or the order is not stored", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/payments/status": {
            "post": {
                "description": "Looks up a stored order by orderId or asks Click about transactionId",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Payment status",
                "parameters": [{"description": "Order or transaction id", "name": "StatusRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.StatusRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StatusResponse"}},
                    "400": {"description": "Neither id is given", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Order not found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Click lookup failed", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/payments/status/{orderId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Order status",
                "parameters": [{"type": "string", "description": "Order id", "name": "orderId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StatusResponse"}},
                    "404": {"description": "Order not found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ClickCallbackRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "amount": {"type": "string"},
                "click_paydoc_id": {"type": "string"},
                "click_trans_id": {"type": "string"},
                "error": {"type": "string"},
                "error_note": {"type": "string"},
                "merchant_prepare_id": {"type": "string"},
                "merchant_trans_id": {"type": "string"},
                "service_id": {"type": "string"},
                "sign_string": {"type": "string"},
                "sign_time": {"type": "string"}
            }
        },
        "api.ClickCallbackResponse": {
            "type": "object",
            "properties": {
                "click_trans_id": {"type": "string"},
                "error": {"type": "integer"},
                "error_note": {"type": "string"},
                "merchant_confirm_id": {"type": "string"},
                "merchant_prepare_id": {"type": "string"},
                "merchant_trans_id": {"type": "string"}
            }
        },
        "api.CreatePaymentRequest": {
            "type": "object",
            "properties": {
                "price": {"type": "string", "example": "1200000"},
                "tourId": {"type": "string"},
                "tourName": {"type": "string"},
                "userId": {"type": "string"},
                "userName": {"type": "string"},
                "userPhone": {"type": "string"}
            }
        },
        "api.CreatePaymentResponse": {
            "type": "object",
            "properties": {
                "orderId": {"type": "string"},
                "redirectUrl": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "api.Customer": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "api.DiagnosticsResponse": {
            "type": "object",
            "properties": {
                "checkedAt": {"type": "string"},
                "configured": {"type": "boolean"},
                "fiscalConfigured": {"type": "boolean"},
                "fiscalMissing": {"type": "array", "items": {"type": "string"}},
                "hosts": {"type": "array", "items": {"$ref": "#/definitions/api.HostCheck"}},
                "merchantId": {"type": "string"},
                "merchantUserId": {"type": "string"},
                "missing": {"type": "array", "items": {"type": "string"}},
                "serviceId": {"type": "string"},
                "storeError": {"type": "string"},
                "storeReachable": {"type": "boolean"},
                "testPaymentUrl": {"type": "string"},
                "vatPercent": {"type": "integer"}
            }
        },
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "api.FiscalizeResponse": {
            "type": "object",
            "properties": {
                "accepted": {"type": "boolean"},
                "note": {"type": "string"},
                "qrCodeUrl": {"type": "string"},
                "qrRegistered": {"type": "boolean"}
            }
        },
        "api.HostCheck": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "host": {"type": "string"},
                "reachable": {"type": "boolean"}
            }
        },
        "api.OrderEntity": {
            "type": "object",
            "properties": {
                "cancelledAt": {"type": "string"},
                "clickPaydocId": {"type": "string"},
                "clickTransId": {"type": "string"},
                "createdAt": {"type": "string"},
                "fiscalError": {"type": "string"},
                "fiscalQrCodeUrl": {"type": "string"},
                "fiscalStatus": {"type": "string"},
                "fiscalizedAt": {"type": "string"},
                "id": {"type": "string"},
                "paidAt": {"type": "string"},
                "preparedAt": {"type": "string"},
                "price": {"type": "string"},
                "status": {"type": "string"},
                "tourId": {"type": "string"},
                "tourName": {"type": "string"},
                "updatedAt": {"type": "string"},
                "userId": {"type": "string"},
                "userName": {"type": "string"},
                "userPhone": {"type": "string"}
            }
        },
        "api.OrderStatus": {
            "type": "object",
            "properties": {
                "customer": {"$ref": "#/definitions/api.Customer"},
                "orderId": {"type": "string"},
                "paidAt": {"type": "string"},
                "price": {"type": "string"},
                "status": {"type": "string"},
                "statusDescription": {"type": "string"},
                "tourName": {"type": "string"},
                "transactionId": {"type": "string"}
            }
        },
        "api.OrdersResponse": {
            "type": "object",
            "properties": {
                "orders": {"type": "array", "items": {"$ref": "#/definitions/api.OrderEntity"}},
                "totalCount": {"type": "integer"}
            }
        },
        "api.StatusRequest": {
            "type": "object",
            "properties": {
                "orderId": {"type": "string"},
                "transactionId": {"type": "string"}
            }
        },
        "api.StatusResponse": {
            "type": "object",
            "properties": {
                "order": {"$ref": "#/definitions/api.OrderStatus"},
                "success": {"type": "boolean"},
                "transaction": {"$ref": "#/definitions/api.TransactionStatus"}
            }
        },
        "api.TelegramBot": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "id": {"type": "integer"},
                "username": {"type": "string"}
            }
        },
        "api.TelegramChat": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "type": {"type": "string"},
                "userName": {"type": "string"}
            }
        },
        "api.TelegramSetupResponse": {
            "type": "object",
            "properties": {
                "bot": {"$ref": "#/definitions/api.TelegramBot"},
                "chatConfigured": {"type": "boolean"},
                "chatIds": {"type": "array", "items": {"$ref": "#/definitions/api.TelegramChat"}},
                "instructions": {"type": "array", "items": {"type": "string"}},
                "testMessageError": {"type": "string"},
                "testMessageSent": {"type": "boolean"},
                "updatesError": {"type": "string"}
            }
        },
        "api.TransactionStatus": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "createTime": {"type": "string"},
                "merchantTransId": {"type": "string"},
                "payTime": {"type": "string"},
                "paymentStatus": {"type": "integer"},
                "status": {"type": "string"},
                "statusDescription": {"type": "string"},
                "transactionId": {"type": "string"}
            }
        },
        "entity.FiscalData": {
            "type": "object",
            "properties": {
                "paymentId": {"type": "string"},
                "qrCodeURL": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Hadiya Travel Payment API",
	Description:      "Click payments for tour bookings: payment sessions, Prepare/Complete callbacks and receipts",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
