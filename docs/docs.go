// Package docs содержит OpenAPI-описание API.
// Описание ведётся вручную: при изменении маршрутов в internal/server
// обновляйте docTemplate вместе со swag-аннотациями обработчиков.
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
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Вход в систему",
                "parameters": [
                    {"description": "Учётные данные", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Список пользователей",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/user.UserResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Регистрация",
                "parameters": [
                    {"description": "Данные пользователя", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/user.SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.IDResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Пользователь по id",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["users"],
                "summary": "Обновление пользователя",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Изменения", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/user.UpdateRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Удаление пользователя",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            }
        },
        "/users/{userId}/exercises": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["assignments"],
                "summary": "Упражнения пользователя",
                "parameters": [{"type": "string", "description": "User ID", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/exercise.Response"}}}
                }
            }
        },
        "/users/{userId}/exercises/{exerciseId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["assignments"],
                "summary": "Назначение",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userId", "in": "path", "required": true},
                    {"type": "string", "description": "Exercise ID", "name": "exerciseId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/assignment.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["assignments"],
                "summary": "Назначить упражнение",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userId", "in": "path", "required": true},
                    {"type": "string", "description": "Exercise ID", "name": "exerciseId", "in": "path", "required": true},
                    {"description": "Цели", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/assignment.AssignRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["assignments"],
                "summary": "Снять назначение",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "userId", "in": "path", "required": true},
                    {"type": "string", "description": "Exercise ID", "name": "exerciseId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            }
        },
        "/exercises": {
            "get": {
                "produces": ["application/json"],
                "tags": ["exercises"],
                "summary": "Список упражнений",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/exercise.Response"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["exercises"],
                "summary": "Создание упражнения",
                "parameters": [
                    {"description": "Упражнение", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/exercise.Request"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.IDResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            }
        },
        "/exercises/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["exercises"],
                "summary": "Упражнение по id",
                "parameters": [{"type": "string", "description": "Exercise ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/exercise.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["exercises"],
                "summary": "Обновление упражнения",
                "parameters": [
                    {"type": "string", "description": "Exercise ID", "name": "id", "in": "path", "required": true},
                    {"description": "Упражнение", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/exercise.Request"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["exercises"],
                "summary": "Удаление упражнения",
                "parameters": [{"type": "string", "description": "Exercise ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorEnvelope"}}
                }
            }
        },
        "/exercises/{exerciseId}/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["assignments"],
                "summary": "Пользователи упражнения",
                "parameters": [{"type": "string", "description": "Exercise ID", "name": "exerciseId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/user.UserResponse"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.HealthResponse"}}
                }
            }
        },
        "/health/db": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Доступность БД",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/health.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "assignment.AssignRequest": {
            "type": "object",
            "properties": {
                "notes": {"type": "string", "maxLength": 500},
                "targetReps": {"type": "integer", "minimum": 1},
                "targetSets": {"type": "integer", "minimum": 1}
            }
        },
        "assignment.Response": {
            "type": "object",
            "properties": {
                "dateAssigned": {"type": "string"},
                "exerciseId": {"type": "string"},
                "notes": {"type": "string"},
                "targetReps": {"type": "integer"},
                "targetSets": {"type": "integer"},
                "userId": {"type": "string"}
            }
        },
        "auth.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string", "maxLength": 100}
            }
        },
        "auth.LoginResponse": {
            "type": "object",
            "properties": {
                "expiration": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "exercise.Request": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "description": {"type": "string", "maxLength": 500},
                "name": {"type": "string", "maxLength": 100},
                "targetMuscleGroup": {"type": "string", "maxLength": 100}
            }
        },
        "exercise.Response": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "targetMuscleGroup": {"type": "string"}
            }
        },
        "health.HealthResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "response.ErrorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {},
                "message": {"type": "string"}
            }
        },
        "response.ErrorEnvelope": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/response.ErrorBody"}
            }
        },
        "response.IDResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}
            }
        },
        "user.SignupRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 100},
                "isTrainer": {"type": "boolean"},
                "name": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "maxLength": 72},
                "username": {"type": "string", "maxLength": 100}
            }
        },
        "user.UpdateRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "maxLength": 100},
                "name": {"type": "string", "maxLength": 100}
            }
        },
        "user.UserResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "username": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer <token>",
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fitness Tracker API",
	Description:      "Каталог упражнений, пользователи и назначение упражнений пользователям.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
