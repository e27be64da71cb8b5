package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the recipe API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>recipebox API - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "recipebox", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "RecipeInput": {
        "type": "object",
        "required": ["title", "description", "ingredients", "steps"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"},
          "image": {"type": "string"},
          "ingredients": {"type": "array", "items": {"type": "string"}},
          "steps": {"type": "array", "items": {"type": "string"}},
          "tags": {"type": "array", "items": {"type": "string"}}
        }
      },
      "Recipe": {
        "allOf": [
          {"$ref": "#/components/schemas/RecipeInput"},
          {"type": "object", "properties": {"id": {"type": "string"}, "createdAt": {"type": "string", "format": "date-time"}, "updatedAt": {"type": "string", "format": "date-time"}}}
        ]
      },
      "Message": {"type": "object", "properties": {"message": {"type": "string"}}}
    }
  },
  "paths": {
    "/api/recipes": {
      "get": { "summary": "List recipes, newest first", "responses": { "200": { "description": "all recipes" }, "500": { "description": "store failure" } } },
      "post": {
        "summary": "Create a recipe",
        "requestBody": { "content": { "application/json": { "schema": {"$ref": "#/components/schemas/RecipeInput"} } } },
        "responses": { "201": { "description": "created recipe" }, "400": { "description": "missing required fields" }, "500": { "description": "store failure" } }
      }
    },
    "/api/recipes/{id}": {
      "get": { "summary": "Get a recipe", "responses": { "200": { "description": "recipe" }, "404": { "description": "not found" } } },
      "put": {
        "summary": "Replace a recipe's editable fields",
        "requestBody": { "content": { "application/json": { "schema": {"$ref": "#/components/schemas/RecipeInput"} } } },
        "responses": { "200": { "description": "updated recipe" }, "404": { "description": "not found" }, "500": { "description": "store failure" } }
      },
      "delete": { "summary": "Delete a recipe", "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/images": {
      "post": { "summary": "Upload a recipe image (multipart field 'image')", "responses": { "201": { "description": "image url" }, "400": { "description": "invalid upload" }, "503": { "description": "image storage disabled" } } }
    },
    "/api/images/{key}": {
      "get": { "summary": "Download an uploaded image", "responses": { "200": { "description": "image bytes" }, "404": { "description": "not found" } } }
    },
    "/": { "get": { "summary": "Liveness banner", "responses": { "200": { "description": "welcome message" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
