package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "HU Tech Train Portal API",
        "description": "Portal gateway for the Hashemite University training platform",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Portal sign in and session lifecycle"},
        {"name": "Student", "description": "Training post browser, applications and selection"},
        {"name": "Company", "description": "Posts, request review, trainee reports and profile"},
        {"name": "Department", "description": "Student oversight, official documents and roster export"},
        {"name": "Downloads", "description": "Signed report downloads"}
    ],
    "paths": {
        "/auth/login/{role}": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in to a portal",
                "parameters": [
                    {"name": "role", "in": "path", "required": true, "type": "string", "enum": ["student", "company", "department-head"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Credentials"}}
                ],
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/register/company": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a company account",
                "responses": {"201": {"description": "Registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/auth/verify-company/{nationalId}": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Look up a company by national id",
                "parameters": [{"name": "nationalId", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/auth/forgot-password": {
            "post": {"tags": ["Authentication"], "summary": "Request a password reset mail", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/reset-password/{token}": {
            "put": {
                "tags": ["Authentication"],
                "summary": "Set a new password with a reset token",
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current session",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/logout": {
            "post": {"tags": ["Authentication"], "summary": "Sign out", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Signed out"}}}
        },
        "/student/posts": {
            "get": {
                "tags": ["Student"],
                "summary": "Browse training posts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "sort", "in": "query", "type": "string", "enum": ["latest", "duration-asc", "duration-desc"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/student/posts/{id}/apply": {
            "post": {
                "tags": ["Student"],
                "summary": "Apply to a training post",
                "consumes": ["multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "cv", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {"201": {"description": "Submitted"}, "409": {"description": "Already applied"}}
            }
        },
        "/student/posts/{id}/retry": {
            "post": {
                "tags": ["Student"],
                "summary": "Retry a failed application",
                "consumes": ["multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "cv", "in": "formData", "type": "file"}
                ],
                "responses": {"201": {"description": "Submitted"}}
            }
        },
        "/student/applications": {
            "get": {"tags": ["Student"], "summary": "List my applications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/student/applications/{id}/select": {
            "put": {
                "tags": ["Student"],
                "summary": "Select an approved training position",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Selected"}, "409": {"description": "Not selectable"}}
            }
        },
        "/student/training/report": {
            "post": {
                "tags": ["Student"],
                "summary": "Submit the student training report",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Submitted"}, "422": {"description": "Training period incomplete, fallback download attached"}}
            }
        },
        "/company/posts": {
            "get": {"tags": ["Company"], "summary": "List my training posts", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Company"], "summary": "Publish a training post", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/company/posts/{id}": {
            "put": {
                "tags": ["Company"],
                "summary": "Edit a training post",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Updated"}}
            },
            "delete": {
                "tags": ["Company"],
                "summary": "Delete a training post",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "confirm", "in": "query", "required": true, "type": "boolean"}
                ],
                "responses": {"200": {"description": "Deleted"}, "412": {"description": "Not confirmed"}}
            }
        },
        "/company/applications": {
            "get": {
                "tags": ["Company"],
                "summary": "List student requests",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "filter", "in": "query", "type": "string", "enum": ["all", "pending", "approved", "rejected"]}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/company/applications/{id}": {
            "put": {
                "tags": ["Company"],
                "summary": "Approve or reject a request",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Reviewed"}}
            }
        },
        "/company/applications/{id}/activity": {
            "post": {
                "tags": ["Company"],
                "summary": "Submit a weekly activity report",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"201": {"description": "Submitted"}}
            }
        },
        "/company/applications/{id}/final-report": {
            "post": {
                "tags": ["Company"],
                "summary": "Upload the company final report",
                "consumes": ["multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "finalReport", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {"201": {"description": "Submitted"}}
            }
        },
        "/company/trainees": {
            "get": {"tags": ["Company"], "summary": "List students available for reporting", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/company/trainees/{id}": {
            "get": {
                "tags": ["Company"],
                "summary": "Show one trainee's application",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/company/profile": {
            "get": {"tags": ["Company"], "summary": "Show the company profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Company"], "summary": "Update the company profile", "consumes": ["multipart/form-data"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Updated"}}}
        },
        "/department/students": {
            "get": {"tags": ["Department"], "summary": "List department students", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/department/students/{id}": {
            "get": {
                "tags": ["Department"],
                "summary": "Show a student's training documents",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/department/applications/pending": {
            "get": {"tags": ["Department"], "summary": "List selections awaiting an official document", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/department/applications/{id}/document": {
            "post": {
                "tags": ["Department"],
                "summary": "Upload the official training document",
                "consumes": ["multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "officialDocument", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {"201": {"description": "Uploaded"}}
            }
        },
        "/department/roster": {
            "get": {
                "tags": ["Department"],
                "summary": "Export students in training",
                "produces": ["application/pdf", "text/csv"],
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}],
                "responses": {"200": {"description": "File"}, "412": {"description": "No Students to Print"}}
            }
        },
        "/department/audit-logs": {
            "get": {"tags": ["Department"], "summary": "List recorded portal actions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/downloads/{token}": {
            "get": {
                "tags": ["Downloads"],
                "summary": "Download a kept report",
                "produces": ["application/pdf"],
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "PDF"}, "404": {"description": "Invalid or expired"}}
            }
        }
    },
    "definitions": {
        "Credentials": {
            "type": "object",
            "properties": {
                "universityId": {"type": "string"},
                "nationalId": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
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
                "message": {"type": "string"},
                "error": {"$ref": "#/definitions/APIError"},
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
