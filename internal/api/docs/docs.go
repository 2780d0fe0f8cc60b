// Package docs registers the OpenAPI document served under /swagger.
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
        "/health": {"get": {"tags": ["health"], "summary": "Liveness check", "responses": {"200": {"description": "OK"}}}},
        "/api/sessions": {"post": {"tags": ["launch"], "summary": "Register a host session", "responses": {"204": {"description": "No Content"}}}},
        "/api/launch": {"post": {"tags": ["launch"], "summary": "Launch a popup window", "responses": {"200": {"description": "OK"}}}},
        "/api/window": {"get": {"tags": ["window"], "security": [{"BearerAuth": []}], "summary": "Current window", "responses": {"200": {"description": "OK"}}}},
        "/api/users/suggestions": {"post": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "Suggest identity values", "responses": {"200": {"description": "OK"}}}},
        "/api/users": {"post": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "Create a user", "responses": {"201": {"description": "Created"}}}},
        "/api/profiles": {"get": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "List profiles", "responses": {"200": {"description": "OK"}}}},
        "/api/roles": {"get": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "List roles", "responses": {"200": {"description": "OK"}}}},
        "/api/users/clone": {"post": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "Clone a user", "responses": {"201": {"description": "Created"}}}},
        "/api/users/{id}/permission-set-assignments/clone": {"post": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "Clone permission set assignments", "responses": {"200": {"description": "OK"}}}},
        "/api/users/{id}/group-memberships/clone": {"post": {"tags": ["users"], "security": [{"BearerAuth": []}], "summary": "Clone group memberships", "responses": {"200": {"description": "OK"}}}},
        "/api/groups": {"get": {"tags": ["memberships"], "security": [{"BearerAuth": []}], "summary": "List public groups or queues", "responses": {"200": {"description": "OK"}}}},
        "/api/users/{id}/group-memberships": {
            "get": {"tags": ["memberships"], "security": [{"BearerAuth": []}], "summary": "List group memberships", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["memberships"], "security": [{"BearerAuth": []}], "summary": "Add group memberships", "responses": {"200": {"description": "OK"}}}
        },
        "/api/users/{id}/group-memberships/{membershipId}": {"delete": {"tags": ["memberships"], "security": [{"BearerAuth": []}], "summary": "Remove a group membership", "responses": {"204": {"description": "No Content"}}}},
        "/api/permission-sets": {"get": {"tags": ["permissions"], "security": [{"BearerAuth": []}], "summary": "List permission sets", "responses": {"200": {"description": "OK"}}}},
        "/api/permission-sets/{id}/object-settings": {"get": {"tags": ["permissions"], "security": [{"BearerAuth": []}], "summary": "Object settings page of a permission set", "responses": {"200": {"description": "OK"}}}},
        "/api/permission-sets/fls": {"get": {"tags": ["permissions"], "security": [{"BearerAuth": []}], "summary": "Field level security report", "responses": {"200": {"description": "OK"}}}},
        "/api/audit-log": {"get": {"tags": ["audit"], "security": [{"BearerAuth": []}], "summary": "Setup audit trail", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "niknax API",
	Description:      "Companion service for the CRM setup pages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
