package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a small Swagger UI page and the OpenAPI document for the intake API.
// - GET /swagger/index.html  -> HTML page that loads the OpenAPI JSON
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
    <title>healthcheck-intake - Swagger</title>
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
  "info": { "title": "healthcheck-intake", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "CreateSubmission": {
        "type": "object",
        "required": ["accountantName","accountantEmail","accountantPhone","clientEmail","clientPhone","propertyType","hasHelocOrLiens","totalMonthlyDebt","goalLowerPayment","goalPayOffDebt","goalAccessEquity","goalShortenTerm","goalOther"],
        "properties": {
          "accountantName": {"type":"string"}, "accountantEmail": {"type":"string","format":"email"}, "accountantPhone": {"type":"string"},
          "clientEmail": {"type":"string","format":"email"}, "clientPhone": {"type":"string"},
          "propertyType": {"type":"string","enum":["primary","investment"]},
          "currentPayment": {"type":"string"}, "currentRate": {"type":"string"}, "remainingBalance": {"type":"string"}, "yearsRemaining": {"type":"string"},
          "hasHelocOrLiens": {"type":"string","enum":["yes","no"]},
          "creditCardPayments": {"type":"string"}, "autoLoans": {"type":"string"}, "personalLoans": {"type":"string"}, "studentLoans": {"type":"string"}, "otherDebts": {"type":"string"},
          "totalMonthlyDebt": {"type":"string"},
          "goalLowerPayment": {"type":"boolean"}, "goalPayOffDebt": {"type":"boolean"}, "goalAccessEquity": {"type":"boolean"}, "goalShortenTerm": {"type":"boolean"}, "goalOther": {"type":"boolean"},
          "goalOtherText": {"type":"string"},
          "mortgageStatementData": {"type":"string","description":"base64 or data URL"},
          "mortgageStatementFilename": {"type":"string"},
          "mortgageStatementMimeType": {"type":"string","default":"application/pdf"}
        }
      },
      "SubmissionResult": {
        "type": "object",
        "properties": {"success":{"type":"boolean"},"submissionId":{"type":"integer","format":"int64"},"emailSent":{"type":"boolean"}}
      },
      "ValidationFailure": {
        "type": "object",
        "properties": {"error":{"type":"string"},"fields":{"type":"array","items":{"type":"object","properties":{"field":{"type":"string"},"message":{"type":"string"}}}}}
      },
      "Failure": {
        "type": "object",
        "properties": {"error":{"type":"string"},"code":{"type":"string","enum":["upload_failed","persist_failed","status_update_failed","internal_error"]}}
      }
    }
  },
  "paths": {
    "/api/submissions": {
      "post": {
        "summary": "Submit a Financial Health Check-Up",
        "requestBody": { "required": true, "content": { "application/json": { "schema": {"$ref":"#/components/schemas/CreateSubmission"} } } },
        "responses": {
          "200": { "description": "stored", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/SubmissionResult"} } } },
          "400": { "description": "validation failed", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/ValidationFailure"} } } },
          "413": { "description": "request body too large" },
          "429": { "description": "rate limited" },
          "500": { "description": "upstream failure", "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Failure"} } } }
        }
      }
    },
    "/api/submissions/{id}": {
      "get": {
        "summary": "Fetch a stored submission (requires X-API-Key; only enabled when ADMIN_API_KEY is set)",
        "parameters": [
          {"name":"id","in":"path","required":true,"schema":{"type":"integer","format":"int64"}},
          {"name":"X-API-Key","in":"header","required":true,"schema":{"type":"string"}}
        ],
        "responses": { "200": { "description": "submission" }, "401": { "description": "missing or invalid key" }, "404": { "description": "not found" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
