// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g main.go
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
    "paths": {
        "/recommendations/extract": {
            "post": {
                "description": "Parses free text, a shared link, or text with a known city and country into candidate places.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Extract places from recommendation text",
                "parameters": [
                    {"description": "Recommendation text", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ExtractRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ExtractionResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/suggestions": {
            "post": {
                "description": "Suggests places that complement the saved places for a city. Results are cached per city until the saved places change.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Suggestions"],
                "summary": "Suggest places for a city",
                "parameters": [
                    {"description": "City and saved places", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.SuggestionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SuggestionResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/suggestions/cache": {
            "delete": {
                "tags": ["Suggestions"],
                "summary": "Clear the suggestion cache",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/suggestions/cache/{country}/{city}": {
            "delete": {
                "tags": ["Suggestions"],
                "summary": "Clear cached suggestions for one city",
                "parameters": [
                    {"type": "string", "description": "Country name", "name": "country", "in": "path", "required": true},
                    {"type": "string", "description": "City name", "name": "city", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/trips/plan": {
            "post": {
                "description": "Schedules the given places into days, with time slots and walking estimates, and suggests a few additions.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Trips"],
                "summary": "Plan a trip from saved places",
                "parameters": [
                    {"description": "Trip to plan", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.TripPlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TripPlanResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/places/describe": {
            "post": {
                "description": "Returns a short description of a place. Descriptions are cached for 30 days.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Places"],
                "summary": "Describe a saved place",
                "parameters": [
                    {"description": "Place to describe", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PlaceDescriptionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PlaceDescriptionResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/llm/interactions": {
            "get": {
                "description": "Returns the most recent gateway invocations for one purpose, newest first.",
                "produces": ["application/json"],
                "tags": ["LLM"],
                "summary": "List recent model interactions",
                "parameters": [
                    {"type": "string", "description": "Invocation purpose (extract, suggestions, itinerary, describe)", "name": "purpose", "in": "query", "required": true},
                    {"type": "integer", "description": "Max rows, default 20", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.LlmInteraction"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "types.ExtractionContext": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "country": {"type": "string"},
                "sourceType": {"type": "string"}
            }
        },
        "types.ExtractRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "context": {"$ref": "#/definitions/types.ExtractionContext"}
            }
        },
        "types.SourceAttribution": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "displayName": {"type": "string"},
                "relationship": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "types.CandidatePlace": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string"},
                "confidence": {"type": "number"},
                "originSnippet": {"type": "string"},
                "description": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "source": {"$ref": "#/definitions/types.SourceAttribution"}
            }
        },
        "types.ExtractionResult": {
            "type": "object",
            "properties": {
                "places": {"type": "array", "items": {"$ref": "#/definitions/types.CandidatePlace"}},
                "error": {"type": "string"},
                "modelId": {"type": "string"},
                "groundingSources": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.SavedPlaceContext": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "visited": {"type": "boolean"}
            }
        },
        "types.SuggestionRequest": {
            "type": "object",
            "properties": {
                "cityName": {"type": "string"},
                "countryName": {"type": "string"},
                "savedPlaces": {"type": "array", "items": {"$ref": "#/definitions/types.SavedPlaceContext"}},
                "maxSuggestions": {"type": "integer"},
                "excludeCategories": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.Suggestion": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "whyRecommended": {"type": "string"},
                "priceRange": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.SuggestionResult": {
            "type": "object",
            "properties": {
                "suggestions": {"type": "array", "items": {"$ref": "#/definitions/types.Suggestion"}},
                "cityName": {"type": "string"},
                "countryName": {"type": "string"},
                "generatedAt": {"type": "string"},
                "basedOnPlaces": {"type": "array", "items": {"type": "string"}},
                "modelId": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "types.TripPlace": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "visited": {"type": "boolean"},
                "description": {"type": "string"}
            }
        },
        "types.TripPlanRequest": {
            "type": "object",
            "properties": {
                "city": {"type": "string"},
                "country": {"type": "string"},
                "durationDays": {"type": "integer"},
                "places": {"type": "array", "items": {"$ref": "#/definitions/types.TripPlace"}},
                "placesPerDay": {"type": "integer"},
                "pace": {"type": "string", "enum": ["relaxed", "packed"]}
            }
        },
        "types.PlaceReference": {
            "type": "object",
            "properties": {
                "placeId": {"type": "string"},
                "order": {"type": "integer"},
                "timeSlot": {"type": "string"},
                "suggestedTime": {"type": "string"},
                "travelToNextMinutes": {"type": "integer"}
            }
        },
        "types.TripDay": {
            "type": "object",
            "properties": {
                "dayNumber": {"type": "integer"},
                "theme": {"type": "string"},
                "neighborhood": {"type": "string"},
                "estimatedWalkingMinutes": {"type": "integer"},
                "places": {"type": "array", "items": {"$ref": "#/definitions/types.PlaceReference"}}
            }
        },
        "types.SuggestedAddition": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "whyItFits": {"type": "string"},
                "suggestedDay": {"type": "integer"},
                "priceRange": {"type": "string"}
            }
        },
        "types.TripPlanResult": {
            "type": "object",
            "properties": {
                "days": {"type": "array", "items": {"$ref": "#/definitions/types.TripDay"}},
                "suggestedAdditions": {"type": "array", "items": {"$ref": "#/definitions/types.SuggestedAddition"}},
                "generatedAt": {"type": "string"},
                "modelId": {"type": "string"}
            }
        },
        "types.PlaceDescriptionRequest": {
            "type": "object",
            "properties": {
                "placeName": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "category": {"type": "string"}
            }
        },
        "types.PlaceDescriptionResult": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "groundingSources": {"type": "array", "items": {"type": "string"}},
                "modelId": {"type": "string"},
                "cached": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "types.LlmInteraction": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "purpose": {"type": "string"},
                "prompt": {"type": "string"},
                "response_text": {"type": "string"},
                "model_used": {"type": "string"},
                "prompt_tokens": {"type": "integer"},
                "completion_tokens": {"type": "integer"},
                "total_tokens": {"type": "integer"},
                "latency_ms": {"type": "integer"},
                "fallback_phase": {"type": "string"},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Travelist AI API",
	Description:      "Recommendation extraction, place suggestions, trip planning and place descriptions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
