package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AcadHub API",
        "description": "Personal academic ledger: attendance tracking, bunk-guard projections, grades and timetable reconciliation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Attendance", "description": "Attendance event ledger and streaks"},
        {"name": "Subjects", "description": "Subject enrollment and progress"},
        {"name": "Dashboard", "description": "Attendance overview with bunk-guard projections"},
        {"name": "Results", "description": "Semester grades, SGPA and CGPA"},
        {"name": "Timetable", "description": "Weekly schedule and date reconciliation"},
        {"name": "Holidays", "description": "Personal holiday calendar"},
        {"name": "Ledger", "description": "Counter audits against event history"},
        {"name": "Exports", "description": "Downloadable reports"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/attendance/events": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance events",
                "parameters": [
                    {"name": "subject_id", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Log an attendance event",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Counter guard rejected the update", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/events/{id}": {
            "patch": {
                "tags": ["Attendance"],
                "summary": "Edit an attendance event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EditEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Attendance"],
                "summary": "Delete an attendance event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/attendance/streak": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Current perfect-attendance streak",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List enrolled subjects",
                "parameters": [
                    {"name": "semester", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Enroll a subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Get subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Subjects"],
                "summary": "Update subject metadata",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSubjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete subject and its events",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects/{id}/progress": {
            "patch": {
                "tags": ["Subjects"],
                "summary": "Update practical or assignment progress",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProgressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Semester dashboard with bunk-guard projections",
                "parameters": [
                    {"name": "semester", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/overview": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Attendance aggregates across semesters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results": {
            "get": {
                "tags": ["Results"],
                "summary": "All semester results with CGPA",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Results"],
                "summary": "Save a semester's graded subjects",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveSemesterResultRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/{semester}": {
            "get": {
                "tags": ["Results"],
                "summary": "One semester's result with CGPA",
                "parameters": [
                    {"name": "semester", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Results"],
                "summary": "Delete one semester's result",
                "parameters": [
                    {"name": "semester", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Weekly schedule for a semester",
                "parameters": [
                    {"name": "semester", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Timetable"],
                "summary": "Replace the weekly schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/classes": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Scheduled classes for a date with marked statuses",
                "parameters": [
                    {"name": "semester", "in": "query", "required": true, "type": "integer"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/holidays": {
            "get": {
                "tags": ["Holidays"],
                "summary": "List registered holidays",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Holidays"],
                "summary": "Register a holiday",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddHolidayRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/holidays/{id}": {
            "delete": {
                "tags": ["Holidays"],
                "summary": "Remove a holiday",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/ledger/audit": {
            "post": {
                "tags": ["Ledger"],
                "summary": "Recompute every subject's counters from event history",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ledger/audit/{id}": {
            "post": {
                "tags": ["Ledger"],
                "summary": "Recompute one subject's counters from event history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/attendance": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the attendance report",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        },
        "/exports/results": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the semester results report",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        }
    },
    "definitions": {
        "MarkEventRequest": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "status": {"type": "string", "enum": ["present", "absent", "late", "approved_medical", "pending_medical", "substituted", "cancelled"]},
                "date": {"type": "string", "example": "2026-03-10"},
                "note": {"type": "string"},
                "substitute_id": {"type": "string"}
            },
            "required": ["subject_id", "status", "date"]
        },
        "EditEventRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "date": {"type": "string"},
                "note": {"type": "string"}
            }
        },
        "CreateSubjectRequest": {
            "type": "object",
            "properties": {
                "semester": {"type": "integer"},
                "name": {"type": "string"},
                "code": {"type": "string"},
                "categories": {"type": "array", "items": {"type": "string", "enum": ["theory", "practical", "assignment"]}},
                "professor": {"type": "string"},
                "classroom": {"type": "string"}
            },
            "required": ["semester", "name", "code", "categories"]
        },
        "UpdateSubjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"},
                "categories": {"type": "array", "items": {"type": "string"}},
                "professor": {"type": "string"},
                "classroom": {"type": "string"}
            }
        },
        "UpdateProgressRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["practicals", "assignments"]},
                "total": {"type": "integer"},
                "completed": {"type": "integer"},
                "hardcopy": {"type": "boolean"}
            },
            "required": ["kind"]
        },
        "SaveSemesterResultRequest": {
            "type": "object",
            "properties": {
                "semester": {"type": "integer"},
                "subjects": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SubjectResultInput"}
                }
            },
            "required": ["semester", "subjects"]
        },
        "SubjectResultInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "code": {"type": "string"},
                "credits": {"type": "integer"},
                "type": {"type": "string", "enum": ["theory", "practical", "nues"]},
                "marks": {"$ref": "#/definitions/SubjectMarks"}
            },
            "required": ["name", "code", "type"]
        },
        "SubjectMarks": {
            "type": "object",
            "properties": {
                "internal_theory": {"type": "number"},
                "external_theory": {"type": "number"},
                "internal_practical": {"type": "number"},
                "external_practical": {"type": "number"}
            }
        },
        "SaveScheduleRequest": {
            "type": "object",
            "properties": {
                "semester": {"type": "integer"},
                "schedule": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {"$ref": "#/definitions/ScheduleSlot"}
                    }
                }
            },
            "required": ["semester", "schedule"]
        },
        "ScheduleSlot": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "example": "09:00"},
                "end": {"type": "string", "example": "10:00"},
                "subject_id": {"type": "string"},
                "type": {"type": "string", "enum": ["lecture", "lab", "break", "free"]}
            },
            "required": ["start", "end", "type"]
        },
        "AddHolidayRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2026-03-10"},
                "label": {"type": "string"}
            },
            "required": ["date", "label"]
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
