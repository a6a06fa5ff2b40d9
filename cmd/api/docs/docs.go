// Package docs registers the OpenAPI document served at /swagger.
// Keep it in step with the godoc annotations on the handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/session": {
            "post": {
                "tags": ["session"],
                "summary": "Start a practice session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "session", "required": false, "schema": {"$ref": "#/definitions/dto.StartSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}}
                }
            }
        },
        "/report": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["session"],
                "summary": "Session performance report",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ReportResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quiz": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["quiz"],
                "summary": "Start a grammar quiz",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Number of questions", "name": "count", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizStartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quiz/submit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["quiz"],
                "summary": "Submit quiz answers",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "submission", "required": true, "schema": {"$ref": "#/definitions/dto.QuizSubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizSubmitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/{module}/item": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["exercise"],
                "summary": "Get a random reference item",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "enum": ["reading", "repeat", "topic"], "name": "module", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ItemResponse"}}
                }
            }
        },
        "/{module}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["exercise"],
                "summary": "Score a recorded attempt",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "enum": ["reading", "repeat", "topic"], "name": "module", "in": "path", "required": true},
                    {"type": "integer", "description": "Reference item id", "name": "id", "in": "formData", "required": true},
                    {"type": "file", "description": "Recorded audio", "name": "audio", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SpeechScoreResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.StartSessionRequest": {
            "type": "object",
            "properties": {"user_id": {"type": "string"}}
        },
        "dto.SessionResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "token": {"type": "string"},
                "user_id": {"type": "string"},
                "session_id": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "dto.ItemResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "module": {"type": "string"},
                "id": {"type": "integer"},
                "text": {"type": "string"}
            }
        },
        "domain.RubricEvaluation": {
            "type": "object",
            "properties": {
                "relevance_score": {"type": "integer"},
                "grammar_score": {"type": "integer"},
                "vocabulary_score": {"type": "integer"},
                "coherence_score": {"type": "integer"},
                "total_score": {"type": "integer"},
                "feedback": {"type": "string"},
                "strengths": {"type": "array", "items": {"type": "string"}},
                "improvements": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.SpeechScoreResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "module": {"type": "string"},
                "id": {"type": "integer"},
                "expected": {"type": "string"},
                "transcription": {"type": "string"},
                "score": {"type": "number"},
                "pronunciation_score": {"type": "number"},
                "fluency_score": {"type": "number"},
                "duration_sec": {"type": "number"},
                "wps": {"type": "number"},
                "feedback": {"type": "string"},
                "rubric": {"$ref": "#/definitions/domain.RubricEvaluation"},
                "rubric_sub_score_sum": {"type": "integer"},
                "tracking_saved": {"type": "boolean"},
                "warning": {"type": "string"}
            }
        },
        "domain.PublicQuestion": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "number": {"type": "integer"},
                "sentence": {"type": "string"},
                "category": {"type": "string"}
            }
        },
        "dto.QuizStartResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "quiz_id": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/domain.PublicQuestion"}},
                "total_questions": {"type": "integer"}
            }
        },
        "dto.QuizSubmitRequest": {
            "type": "object",
            "required": ["answers"],
            "properties": {
                "quiz_id": {"type": "string"},
                "answers": {"description": "Array of answers in question order, or an object keyed by 0-based index"}
            }
        },
        "domain.QuestionReview": {
            "type": "object",
            "properties": {
                "question_number": {"type": "integer"},
                "sentence": {"type": "string"},
                "user_answer": {"type": "string"},
                "correct_answer": {"type": "string"},
                "correct": {"type": "boolean"}
            }
        },
        "dto.QuizSubmitResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "quiz_id": {"type": "string"},
                "correct_count": {"type": "integer"},
                "total": {"type": "integer"},
                "percentage": {"type": "number"},
                "feedback": {"type": "string"},
                "review": {"type": "array", "items": {"$ref": "#/definitions/domain.QuestionReview"}},
                "tracking_saved": {"type": "boolean"},
                "warning": {"type": "string"}
            }
        },
        "domain.ModuleReport": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "average_score": {"type": "number"},
                "max_score": {"type": "number"},
                "percentage": {"type": "number"},
                "questions_completed": {"type": "integer"}
            }
        },
        "dto.ReportResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "modules": {"type": "array", "items": {"$ref": "#/definitions/domain.ModuleReport"}},
                "overall_score": {"type": "number"},
                "total_questions": {"type": "integer"}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "SpeakScore API",
	Description:      "Speech scoring, grammar quizzes and session reports for language practice.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
