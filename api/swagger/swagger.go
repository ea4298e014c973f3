package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Guide Roster API",
        "description": "Shift scheduling and validation for residential facility guides",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Coordinator login and identity"},
        {"name": "Guides", "description": "Guide profiles"},
        {"name": "Constraints", "description": "Single-date and recurring weekday blocks"},
        {"name": "Vacations", "description": "Absence requests and review"},
        {"name": "Rules", "description": "Coordinator scheduling rules"},
        {"name": "Weekends", "description": "Closed weekend flags"},
        {"name": "Roster", "description": "Scheduling runs, stored months, balance, exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate coordinator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guides": {
            "get": {
                "tags": ["Guides"],
                "summary": "List guides",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Guides"],
                "summary": "Create guide",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGuideRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guides/{id}": {
            "get": {
                "tags": ["Guides"],
                "summary": "Get guide detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Guides"],
                "summary": "Update guide",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateGuideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Guides"],
                "summary": "Deactivate guide",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No content"}
                }
            }
        },
        "/guides/{id}/constraints": {
            "get": {
                "tags": ["Constraints"],
                "summary": "List a guide's single-date blocks",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/guides/{id}/vacations": {
            "get": {
                "tags": ["Vacations"],
                "summary": "List a guide's vacation requests",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/constraints/personal": {
            "post": {
                "tags": ["Constraints"],
                "summary": "Block a guide on one date",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePersonalConstraintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/constraints/personal/{id}": {
            "delete": {
                "tags": ["Constraints"],
                "summary": "Lift a single-date block",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No content"}
                }
            }
        },
        "/constraints/fixed": {
            "get": {
                "tags": ["Constraints"],
                "summary": "List recurring weekday blocks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Constraints"],
                "summary": "Block a guide on a recurring weekday",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFixedConstraintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/constraints/fixed/{id}": {
            "delete": {
                "tags": ["Constraints"],
                "summary": "Lift a recurring weekday block",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No content"}
                }
            }
        },
        "/vacations": {
            "post": {
                "tags": ["Vacations"],
                "summary": "Open a vacation request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateVacationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/vacations/{id}/status": {
            "put": {
                "tags": ["Vacations"],
                "summary": "Approve or reject a vacation request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateVacationStatusRequest"}}
                ],
                "responses": {
                    "204": {"description": "No content"}
                }
            }
        },
        "/rules": {
            "get": {
                "tags": ["Rules"],
                "summary": "List coordinator rules",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Rules"],
                "summary": "Add a coordinator rule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRuleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rules/{id}/active": {
            "put": {
                "tags": ["Rules"],
                "summary": "Toggle a coordinator rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No content"}
                }
            }
        },
        "/weekends/{year}/{month}": {
            "get": {
                "tags": ["Weekends"],
                "summary": "List weekend flags for a month",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/weekends": {
            "put": {
                "tags": ["Weekends"],
                "summary": "Flag a weekend as closed or open",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetWeekendStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/{year}/{month}": {
            "get": {
                "tags": ["Roster"],
                "summary": "Get the stored schedule for a month",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not scheduled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/{year}/{month}/assemble": {
            "post": {
                "tags": ["Roster"],
                "summary": "Assemble a month with the built-in engine",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"},
                    {"name": "persist", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/{year}/{month}/validate": {
            "post": {
                "tags": ["Roster"],
                "summary": "Validate and sanitize an external proposal",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateProposalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unparseable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/{year}/{month}/generate": {
            "post": {
                "tags": ["Roster"],
                "summary": "Generate a month through the external generator",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"},
                    {"name": "persist", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Generator unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/{year}/{month}/balance": {
            "get": {
                "tags": ["Roster"],
                "summary": "Get the salary-factor fairness report",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/{year}/{month}/export/csv": {
            "get": {
                "tags": ["Roster"],
                "summary": "Download a stored month as CSV",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/roster/{year}/{month}/export/pdf": {
            "get": {
                "tags": ["Roster"],
                "summary": "Download a stored month as PDF",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/roster/manual": {
            "put": {
                "tags": ["Roster"],
                "summary": "Pin a manual assignment onto a date",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ManualAssignmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/manual/{date}": {
            "delete": {
                "tags": ["Roster"],
                "summary": "Release a pinned date back to the engine",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateGuideRequest": {
            "type": "object",
            "required": ["name", "email"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "UpdateGuideRequest": {
            "type": "object",
            "required": ["name", "email", "active"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "CreatePersonalConstraintRequest": {
            "type": "object",
            "required": ["guide_id", "date"],
            "properties": {
                "guide_id": {"type": "integer"},
                "date": {"type": "string", "format": "date"},
                "note": {"type": "string"}
            }
        },
        "CreateFixedConstraintRequest": {
            "type": "object",
            "required": ["guide_id", "weekday"],
            "properties": {
                "guide_id": {"type": "integer"},
                "weekday": {"type": "integer", "minimum": 0, "maximum": 6},
                "note": {"type": "string"}
            }
        },
        "CreateVacationRequest": {
            "type": "object",
            "required": ["guide_id", "start_date", "end_date"],
            "properties": {
                "guide_id": {"type": "integer"},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"},
                "note": {"type": "string"}
            }
        },
        "UpdateVacationStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]}
            }
        },
        "CreateRuleRequest": {
            "type": "object",
            "required": ["kind", "guide_id"],
            "properties": {
                "kind": {"type": "string"},
                "guide_id": {"type": "integer"},
                "second_guide_id": {"type": "integer"},
                "note": {"type": "string"}
            }
        },
        "SetWeekendStatusRequest": {
            "type": "object",
            "required": ["friday_date", "closed"],
            "properties": {
                "friday_date": {"type": "string", "format": "date"},
                "closed": {"type": "boolean"}
            }
        },
        "ValidateProposalRequest": {
            "type": "object",
            "properties": {
                "days": {"type": "array", "items": {"type": "object"}},
                "raw_payload": {"type": "string"},
                "persist": {"type": "boolean"}
            }
        },
        "ManualAssignmentRequest": {
            "type": "object",
            "required": ["date", "assignments"],
            "properties": {
                "date": {"type": "string", "format": "date"},
                "assignments": {"type": "array", "items": {"type": "object"}},
                "rationale": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
