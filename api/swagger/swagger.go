package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CampusGrid Scheduler API",
        "description": "Scheduling conflict detection, resolution, and feasibility engine",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Conflicts", "description": "Conflict detection and resolution"},
        {"name": "ConflictMatrix", "description": "Course pair co-request analysis"},
        {"name": "Feasibility", "description": "Multi-room assignment validation"}
    ],
    "paths": {
        "/schedules/{id}/conflicts": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "Detect all conflicts in a schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/conflicts/priority": {
            "get": {
                "tags": ["Conflicts"],
                "summary": "Detect and rank conflicts by urgency",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/auto-resolve": {
            "post": {
                "tags": ["Conflicts"],
                "summary": "Run one automatic resolution pass",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/slots/{id}/check-move": {
            "post": {
                "tags": ["Conflicts"],
                "summary": "Check whether moving a slot would cause conflicts",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckMoveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conflicts/suggestions": {
            "post": {
                "tags": ["Conflicts"],
                "summary": "Generate ranked resolution suggestions",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SuggestionsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conflicts/apply": {
            "post": {
                "tags": ["Conflicts"],
                "summary": "Apply a resolution suggestion",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplySuggestionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conflict-matrix/{year}/rebuild": {
            "post": {
                "tags": ["ConflictMatrix"],
                "summary": "Rebuild the conflict matrix for a year",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "async", "in": "query", "required": false, "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Rebuild queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conflict-matrix/{year}/heatmap": {
            "get": {
                "tags": ["ConflictMatrix"],
                "summary": "Get the course pair co-request heatmap",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Matrix not built"}
                }
            }
        },
        "/conflict-matrix/{year}/singletons": {
            "get": {
                "tags": ["ConflictMatrix"],
                "summary": "List conflicting pairs involving single-section courses",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Matrix not built"}
                }
            }
        },
        "/conflict-matrix/pair": {
            "get": {
                "tags": ["ConflictMatrix"],
                "summary": "Get co-request stats for a course pair",
                "parameters": [
                    {"name": "courseA", "in": "query", "required": true, "type": "string"},
                    {"name": "courseB", "in": "query", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/rooms/validate": {
            "post": {
                "tags": ["Feasibility"],
                "summary": "Validate a multi-room assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateRoomsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/rooms/effective": {
            "get": {
                "tags": ["Feasibility"],
                "summary": "List rooms effective for a course on a date",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}/rooms/{roomId}/compatibility": {
            "get": {
                "tags": ["Feasibility"],
                "summary": "Score room-course equipment compatibility",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "roomId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "IntervalPayload": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "string"},
                "dayType": {"type": "string"},
                "periodNumber": {"type": "integer"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"}
            },
            "required": ["startTime", "endTime"]
        },
        "CheckMoveRequest": {
            "type": "object",
            "properties": {
                "interval": {"$ref": "#/definitions/IntervalPayload"}
            },
            "required": ["interval"]
        },
        "ConflictPayload": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "severity": {"type": "string"},
                "slotIds": {"type": "array", "items": {"type": "string"}},
                "teacherId": {"type": "string"},
                "roomId": {"type": "string"},
                "enrollment": {"type": "integer"},
                "detectedAt": {"type": "string"}
            },
            "required": ["kind", "slotIds"]
        },
        "SuggestionsRequest": {
            "type": "object",
            "properties": {
                "conflict": {"$ref": "#/definitions/ConflictPayload"}
            },
            "required": ["conflict"]
        },
        "ApplySuggestionRequest": {
            "type": "object",
            "properties": {
                "conflict": {"$ref": "#/definitions/ConflictPayload"},
                "suggestion": {"type": "object"}
            },
            "required": ["conflict", "suggestion"]
        },
        "ValidateRoomsRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "interval": {"$ref": "#/definitions/IntervalPayload"}
            },
            "required": ["date", "interval"]
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
