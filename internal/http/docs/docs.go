// Package docs holds the OpenAPI document served at /swagger. It follows the
// layout `swag init -g internal/http/router.go -o internal/http/docs` emits.
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
        "/orders/{id}": {
            "get": {
                "description": "Returns the claim and ticket link of an order. The id is normalized (case-insensitive).",
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "Get order status",
                "operationId": "getOrder",
                "parameters": [
                    {"type": "string", "example": "TD-8FJ2K1", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/registry.OrderStatus"}},
                    "400": {"description": "Invalid order id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Unknown order", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/claims": {
            "get": {
                "description": "Returns claims ordered by claim position. Supports weak ETag via If-None-Match and may return 304.",
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "List claims (paginated)",
                "operationId": "listClaims",
                "parameters": [
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListClaimsResponse"}},
                    "304": {"description": "Not Modified", "schema": {"type": "string"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/links": {
            "get": {
                "description": "Returns ticket links in creation order. Supports weak ETag via If-None-Match and may return 304.",
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "List ticket links (paginated)",
                "operationId": "listLinks",
                "parameters": [
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListLinksResponse"}},
                    "304": {"description": "Not Modified", "schema": {"type": "string"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recovery": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Log"],
                "summary": "Startup replay summary",
                "operationId": "getRecovery",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/recovery.Stats"}}
                }
            }
        },
        "/log/stats": {
            "get": {
                "description": "Available only when the event log is kept in SQLite.",
                "produces": ["application/json"],
                "tags": ["Log"],
                "summary": "Event-log statistics",
                "operationId": "getLogStats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/repo.LogStats"}},
                    "404": {"description": "Not available for this log backend", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/log/entries": {
            "get": {
                "description": "Available only when the event log is kept in SQLite. Rows are ordered by sequence.",
                "produces": ["application/json"],
                "tags": ["Log"],
                "summary": "Raw event-log rows (paginated)",
                "operationId": "listLogEntries",
                "parameters": [
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListLogEntriesResponse"}},
                    "404": {"description": "Not available for this log backend", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ClaimRecord": {
            "type": "object",
            "properties": {
                "claimant_id": {"type": "string"},
                "claimed_at": {"type": "integer"},
                "order_id": {"type": "string"}
            }
        },
        "domain.LogEntry": {
            "type": "object",
            "properties": {
                "author_id": {"type": "string"},
                "created_at": {"type": "string"},
                "line": {"type": "string"},
                "seq": {"type": "integer"}
            }
        },
        "domain.TicketLink": {
            "type": "object",
            "properties": {
                "customer_id": {"type": "string"},
                "order_id": {"type": "string"},
                "ticket_channel_id": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "not_found"},
                "message": {"type": "string", "example": "order not found"},
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"}
            }
        },
        "handlers.ListClaimsResponse": {
            "type": "object",
            "properties": {
                "claims": {"type": "array", "items": {"$ref": "#/definitions/domain.ClaimRecord"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.ListLinksResponse": {
            "type": "object",
            "properties": {
                "links": {"type": "array", "items": {"$ref": "#/definitions/domain.TicketLink"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.ListLogEntriesResponse": {
            "type": "object",
            "properties": {
                "entries": {"type": "array", "items": {"$ref": "#/definitions/domain.LogEntry"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"}
            }
        },
        "handlers.Pagination": {
            "type": "object",
            "properties": {
                "has_next": {"type": "boolean"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "recovery.Stats": {
            "type": "object",
            "properties": {
                "applied": {"type": "integer"},
                "cold_start": {"type": "boolean"},
                "duplicates": {"type": "integer"},
                "entries": {"type": "integer"},
                "skipped": {"type": "integer"},
                "took": {"type": "integer"},
                "window": {"type": "integer"}
            }
        },
        "registry.OrderStatus": {
            "type": "object",
            "properties": {
                "claim": {"$ref": "#/definitions/domain.ClaimRecord"},
                "link": {"$ref": "#/definitions/domain.TicketLink"},
                "order_id": {"type": "string"}
            }
        },
        "repo.LogStats": {
            "type": "object",
            "properties": {
                "by_tag": {"type": "object", "additionalProperties": {"type": "integer"}},
                "first_seq": {"type": "integer"},
                "last_seq": {"type": "integer"},
                "newest": {"type": "string"},
                "oldest": {"type": "string"},
                "total": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Booster Bot Status API",
	Description:      "Read-only view of order claims, ticket links and the event log.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
