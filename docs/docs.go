// Package docs holds the OpenAPI description served at /swagger. Keep it in
// step with the swag annotations on the handlers.
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
        "/api/v1/crawls": {
            "get": {
                "produces": ["application/json"],
                "tags": ["crawls"],
                "summary": "List crawl sessions (paginated, newest first)",
                "parameters": [
                    {"type": "integer", "description": "page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page_size", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["crawls"],
                "summary": "Start a crawl session",
                "parameters": [
                    {
                        "description": "Seed URL and limits",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.StartCrawlInput"}
                    }
                ],
                "responses": {
                    "202": {"description": "{id, status}", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "429": {"description": "error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/crawls/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["crawls"],
                "summary": "Session progress with pages and stats",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.CrawlProgress"}},
                    "404": {"description": "error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/crawls/{id}/pages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["crawls"],
                "summary": "Crawled pages of a session (paginated)",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "page_size", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "error"}}
            }
        },
        "/api/v1/crawls/{id}/duplicates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["crawls"],
                "summary": "Groups of URLs sharing the same content",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.DuplicateGroup"}}},
                    "404": {"description": "error"}
                }
            }
        },
        "/api/v1/crawls/{id}/stop": {
            "patch": {
                "produces": ["application/json"],
                "tags": ["crawls"],
                "summary": "Stop a crawl",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"202": {"description": "stopped"}, "404": {"description": "error"}}
            }
        },
        "/api/v1/crawls/{id}/export": {
            "get": {
                "produces": ["text/csv"],
                "tags": ["crawls"],
                "summary": "Export pages and PDF links as CSV",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "error"}}
            }
        }
    },
    "definitions": {
        "model.StartCrawlInput": {
            "type": "object",
            "required": ["max_depth", "url"],
            "properties": {
                "max_depth": {"type": "integer"},
                "max_pages": {"type": "integer"},
                "url": {"type": "string"}
            }
        },
        "model.CrawlSession": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "url": {"type": "string"},
                "max_pages": {"type": "integer"},
                "max_depth": {"type": "integer"},
                "status": {"type": "string"},
                "total_pages": {"type": "integer"},
                "successful_pages": {"type": "integer"},
                "error_pages": {"type": "integer"},
                "current_url": {"type": "string"},
                "started_at": {"type": "string"},
                "completed_at": {"type": "string"},
                "error": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "model.CrawledPage": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "session_id": {"type": "string"},
                "url": {"type": "string"},
                "status_code": {"type": "integer"},
                "content_type": {"type": "string"},
                "size": {"type": "integer"},
                "load_time": {"type": "integer"},
                "depth": {"type": "integer"},
                "content_hash": {"type": "string"},
                "discovered_at": {"type": "string"}
            }
        },
        "model.CrawlStats": {
            "type": "object",
            "properties": {
                "totalFound": {"type": "integer"},
                "successful": {"type": "integer"},
                "errors": {"type": "integer"},
                "uniquePages": {"type": "integer"},
                "duplicateUrls": {"type": "integer"},
                "pdfLinks": {"type": "integer"},
                "statusCodes": {"type": "object", "additionalProperties": {"type": "integer"}},
                "pageTypes": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "model.CrawlProgress": {
            "type": "object",
            "properties": {
                "session": {"$ref": "#/definitions/model.CrawlSession"},
                "pages": {"type": "array", "items": {"$ref": "#/definitions/model.CrawledPage"}},
                "stats": {"$ref": "#/definitions/model.CrawlStats"}
            }
        },
        "model.DuplicateGroup": {
            "type": "object",
            "properties": {
                "content_hash": {"type": "string"},
                "urls": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SiteScope API",
	Description:      "Single-site crawler: page inventory, duplicate content and PDF discovery.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
