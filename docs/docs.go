// Package docs holds the OpenAPI description served at /swagger. Regenerate
// the template with `swag init` after changing handler annotations.
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
        "/clubs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["clubs"],
                "summary": "List clubs",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/docs.ClubResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/docs.ErrorResponse"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "List notifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/docs.NotificationResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/docs.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "docs.ClubResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "robotics-society"},
                "name": {"type": "string", "example": "Robotics Society"},
                "description": {"type": "string"},
                "memberCount": {"type": "integer", "example": 42},
                "category": {"type": "string", "example": "academic"}
            }
        },
        "docs.NotificationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "type": {"type": "string", "example": "friend_request"},
                "read": {"type": "boolean"},
                "senderName": {"type": "string"},
                "message": {"type": "string"},
                "requestId": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "docs.ErrorResponse": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "VALIDATION_ERROR"},
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Campus Connect API",
	Description:      "Clubs, events, lost and found, notifications and settings for the campus app.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
