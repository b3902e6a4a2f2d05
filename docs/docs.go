// Package docs holds the swagger document for the routes annotated in
// internal/http/handlers. Regenerate with swag init after changing them.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "CivicResolve API",
    "description": "Civic complaint intake, lifecycle tracking and contractor accountability",
    "version": "1.0"
  },
  "basePath": "/",
  "securityDefinitions": {
    "AdminKey": {
      "type": "apiKey",
      "in": "header",
      "name": "X-Admin-Key"
    }
  },
  "paths": {
    "/api/health": {
      "get": {
        "tags": [
          "health"
        ],
        "summary": "Health check",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints": {
      "post": {
        "tags": [
          "complaints"
        ],
        "summary": "Register a complaint",
        "consumes": [
          "multipart/form-data"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "title",
            "in": "formData",
            "type": "string",
            "required": false,
            "description": "Title"
          },
          {
            "name": "description",
            "in": "formData",
            "type": "string",
            "required": false,
            "description": "Description"
          },
          {
            "name": "category",
            "in": "formData",
            "type": "string",
            "required": false,
            "description": "Category"
          },
          {
            "name": "priority",
            "in": "formData",
            "type": "string",
            "required": false,
            "description": "low, medium or high"
          },
          {
            "name": "lat",
            "in": "formData",
            "type": "number",
            "required": false,
            "description": "Latitude"
          },
          {
            "name": "lng",
            "in": "formData",
            "type": "number",
            "required": false,
            "description": "Longitude"
          },
          {
            "name": "address",
            "in": "formData",
            "type": "string",
            "required": false,
            "description": "Address"
          },
          {
            "name": "photo",
            "in": "formData",
            "type": "file",
            "required": false,
            "description": "Photo"
          }
        ],
        "responses": {
          "201": {
            "description": "Created"
          },
          "400": {
            "description": "Validation error"
          }
        }
      },
      "get": {
        "tags": [
          "complaints"
        ],
        "summary": "List complaints",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "category",
            "in": "query",
            "type": "string",
            "required": false,
            "description": "Category or all"
          },
          {
            "name": "status",
            "in": "query",
            "type": "string",
            "required": false,
            "description": "Status or all"
          },
          {
            "name": "priority",
            "in": "query",
            "type": "string",
            "required": false,
            "description": "Priority or all"
          },
          {
            "name": "search",
            "in": "query",
            "type": "string",
            "required": false,
            "description": "Case-insensitive search"
          },
          {
            "name": "sort",
            "in": "query",
            "type": "string",
            "required": false,
            "description": "votes, priority or newest"
          },
          {
            "name": "lat",
            "in": "query",
            "type": "number",
            "required": false,
            "description": "Center latitude"
          },
          {
            "name": "lng",
            "in": "query",
            "type": "number",
            "required": false,
            "description": "Center longitude"
          },
          {
            "name": "radiusKm",
            "in": "query",
            "type": "number",
            "required": false,
            "description": "Radius around the center"
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/track/{trackingId}": {
      "get": {
        "tags": [
          "complaints"
        ],
        "summary": "Track a complaint",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "trackingId",
            "in": "path",
            "type": "string",
            "required": true,
            "description": "Tracking ID"
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/analytics/stats": {
      "get": {
        "tags": [
          "complaints"
        ],
        "summary": "Complaint statistics",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/roads/list": {
      "get": {
        "tags": [
          "complaints"
        ],
        "summary": "Road projects",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "status",
            "in": "query",
            "type": "string",
            "required": false,
            "description": "Project status or all"
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/{id}/vote": {
      "put": {
        "tags": [
          "complaints"
        ],
        "summary": "Vote on a complaint",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "type": "string",
            "required": true,
            "description": "Complaint ID"
          },
          {
            "name": "X-Voter-Id",
            "in": "header",
            "type": "string",
            "required": false,
            "description": "Stable voter identifier"
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/{id}/status": {
      "put": {
        "tags": [
          "admin"
        ],
        "summary": "Update complaint status",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "type": "string",
            "required": true,
            "description": "Complaint ID"
          },
          {
            "name": "body",
            "in": "body",
            "required": true,
            "description": "Status update",
            "schema": {
              "type": "object"
            }
          }
        ],
        "security": [
          {
            "AdminKey": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/{id}/evaluate": {
      "post": {
        "tags": [
          "admin"
        ],
        "summary": "Evaluate the assigned contractor",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "type": "string",
            "required": true,
            "description": "Complaint ID"
          },
          {
            "name": "body",
            "in": "body",
            "required": true,
            "description": "Evaluation",
            "schema": {
              "type": "object"
            }
          }
        ],
        "security": [
          {
            "AdminKey": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/{id}/reopen": {
      "put": {
        "tags": [
          "complaints"
        ],
        "summary": "Reopen a complaint",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "type": "string",
            "required": true,
            "description": "Complaint ID"
          },
          {
            "name": "body",
            "in": "body",
            "required": false,
            "description": "Reason",
            "schema": {
              "type": "object"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/{id}/analysis": {
      "put": {
        "tags": [
          "complaints"
        ],
        "summary": "Attach an analysis",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "type": "string",
            "required": true,
            "description": "Complaint ID"
          },
          {
            "name": "body",
            "in": "body",
            "required": true,
            "description": "Analysis",
            "schema": {
              "type": "object"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/{id}/analyze": {
      "post": {
        "tags": [
          "complaints"
        ],
        "summary": "Analyze a stored complaint and attach the result",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "type": "string",
            "required": true,
            "description": "Complaint ID"
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/latest": {
      "delete": {
        "tags": [
          "admin"
        ],
        "summary": "Delete the newest complaint",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "security": [
          {
            "AdminKey": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/complaints/{id}": {
      "delete": {
        "tags": [
          "admin"
        ],
        "summary": "Delete a complaint",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "type": "string",
            "required": true,
            "description": "Complaint ID"
          }
        ],
        "security": [
          {
            "AdminKey": []
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/contractors": {
      "get": {
        "tags": [
          "contractors"
        ],
        "summary": "Contractors ranked by points",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/user/wallet": {
      "get": {
        "tags": [
          "user"
        ],
        "summary": "Wallet balance",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "userId",
            "in": "query",
            "type": "string",
            "required": true,
            "description": "User ID"
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/user/wallet/add": {
      "post": {
        "tags": [
          "user"
        ],
        "summary": "Add wallet points",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "body",
            "in": "body",
            "required": true,
            "description": "Points to add",
            "schema": {
              "type": "object"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    },
    "/api/analyze": {
      "post": {
        "tags": [
          "analysis"
        ],
        "summary": "Analyze a complaint draft",
        "consumes": [
          "application/json"
        ],
        "produces": [
          "application/json"
        ],
        "parameters": [
          {
            "name": "body",
            "in": "body",
            "required": true,
            "description": "Complaint draft",
            "schema": {
              "type": "object"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    }
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
