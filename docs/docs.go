// Package docs registers the OpenAPI document served under /swagger/.
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
    "tags": [
        {"name": "auth", "description": "Sign up and log in"},
        {"name": "accounts", "description": "Accounts and personal schedules"},
        {"name": "rooms", "description": "Room catalogue"},
        {"name": "events", "description": "Scheduling protocols"},
        {"name": "attendees", "description": "Signing up and dropping"},
        {"name": "schedule", "description": "Read-only schedule views"},
        {"name": "session", "description": "Snapshots and imports"}
    ],
    "paths": {
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Register an attendee account",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.SignUpRequest"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "400": {"description": "bad_request"}, "409": {"description": "conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.LoginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}, "401": {"description": "unauthorized"}}}},
        "/accounts": {"post": {"tags": ["accounts"], "summary": "Create an account of any type", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateAccountRequest"}}],
            "responses": {"201": {"description": "Created"}, "403": {"description": "forbidden"}, "409": {"description": "conflict"}}}},
        "/me/schedule": {"get": {"tags": ["accounts"], "summary": "The caller's calendar, hosting and organized entries", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}}}},
        "/rooms": {
            "get": {"tags": ["rooms"], "summary": "List rooms with their bookings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["rooms"], "summary": "Add a room", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.AddRoomRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "bad_request"}, "409": {"description": "conflict"}}}},
        "/rooms/{room}": {"get": {"tags": ["rooms"], "summary": "Get a room and its booked entries", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "room", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}}}},
        "/rooms/{room}/events": {"get": {"tags": ["rooms"], "summary": "Events held in a room", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "room", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}}}},
        "/events": {
            "get": {"tags": ["schedule"], "summary": "List the schedule", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string"}, {"in": "query", "name": "to", "type": "string"},
                    {"in": "query", "name": "date", "type": "string"}, {"in": "query", "name": "room", "type": "string"},
                    {"in": "query", "name": "kind", "type": "string"}, {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "bad_request"}}},
            "post": {"tags": ["events"], "summary": "Create an event", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "event", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateEventRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.ProtocolResponse"}},
                    "403": {"description": "forbidden"}, "409": {"description": "conflict or capacity_exceeded"}, "422": {"description": "invalid_slot or type_mismatch"}}}},
        "/events/{eventID}": {
            "get": {"tags": ["schedule"], "summary": "Get an event", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "eventID", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}}},
            "delete": {"tags": ["events"], "summary": "Cancel an event", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "eventID", "required": true, "type": "string"}, {"in": "query", "name": "only_if_empty", "type": "boolean"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}, "409": {"description": "conflict"}}}},
        "/events/{eventID}/schedule": {"patch": {"tags": ["events"], "summary": "Move an event to a new interval", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "eventID", "required": true, "type": "string"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RescheduleRequest"}}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "conflict or no_op"}, "422": {"description": "invalid_slot"}}}},
        "/events/{eventID}/capacity": {"patch": {"tags": ["events"], "summary": "Change an event's capacity", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "eventID", "required": true, "type": "string"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ChangeCapacityRequest"}}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "capacity_exceeded or no_op"}}}},
        "/events/{eventID}/hosts": {"post": {"tags": ["events"], "summary": "Assign a speaker", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "eventID", "required": true, "type": "string"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.AssignHostRequest"}}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "conflict"}, "422": {"description": "type_mismatch"}}}},
        "/events/{eventID}/attendees": {"post": {"tags": ["attendees"], "summary": "Sign the caller up for an event", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "eventID", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "conflict or capacity_exceeded"}}}},
        "/events/{eventID}/attendees/me": {"delete": {"tags": ["attendees"], "summary": "Drop the caller from an event", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "eventID", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}}}},
        "/events/empty": {"get": {"tags": ["schedule"], "summary": "Events nobody has signed up for", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/events/attendable": {"get": {"tags": ["schedule"], "summary": "Events the caller could still attend", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/events/attendance": {"get": {"tags": ["schedule"], "summary": "Events ranked by attendance rate", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "query", "name": "top", "type": "integer"}], "responses": {"200": {"description": "OK"}}}},
        "/speakers/{username}/events": {"get": {"tags": ["schedule"], "summary": "Events a speaker hosts", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "username", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}}}},
        "/events/import/sessionize/{sessionizeID}": {"post": {"tags": ["session"], "summary": "Import a Sessionize schedule", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "sessionizeID", "required": true, "type": "string"}],
            "responses": {"200": {"description": "OK"}, "403": {"description": "forbidden"}, "404": {"description": "not_found"}}}},
        "/session/save": {"post": {"tags": ["session"], "summary": "Save the whole schedule", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}, "500": {"description": "internal_error"}}}}
    },
    "definitions": {
        "helpers.APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}},
        "helpers.APIResponse": {"type": "object", "properties": {"data": {}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "controllers.ProtocolResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.ProtocolResult"}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "domain.Step": {"type": "object", "properties": {"name": {"type": "string"}, "ok": {"type": "boolean"}, "error": {"type": "string"}}},
        "domain.ProtocolResult": {"type": "object", "properties": {
            "protocol": {"type": "string"}, "event_id": {"type": "string"},
            "outcome": {"type": "string", "enum": ["committed", "aborted", "rejected"]},
            "steps": {"type": "array", "items": {"$ref": "#/definitions/domain.Step"}}}},
        "controllers.SignUpRequest": {"type": "object", "required": ["username", "password"], "properties": {
            "username": {"type": "string"}, "password": {"type": "string", "minLength": 8}, "email": {"type": "string"}}},
        "controllers.LoginRequest": {"type": "object", "required": ["username", "password"], "properties": {
            "username": {"type": "string"}, "password": {"type": "string"}}},
        "controllers.CreateAccountRequest": {"type": "object", "required": ["username", "password", "type"], "properties": {
            "username": {"type": "string"}, "password": {"type": "string", "minLength": 8}, "email": {"type": "string"},
            "type": {"type": "string", "enum": ["attendee", "speaker", "organizer", "admin"]}}},
        "controllers.HourRangeRequest": {"type": "object", "properties": {"start": {"type": "integer"}, "end": {"type": "integer"}}},
        "controllers.AddRoomRequest": {"type": "object", "required": ["name", "available_hours"], "properties": {
            "name": {"type": "string"}, "capacity": {"type": "integer"},
            "available_hours": {"type": "array", "items": {"$ref": "#/definitions/controllers.HourRangeRequest"}}}},
        "controllers.CreateEventRequest": {"type": "object", "required": ["name", "room", "start", "end", "capacity"], "properties": {
            "name": {"type": "string"}, "kind": {"type": "string", "enum": ["talk", "party", "panel"]}, "room": {"type": "string"},
            "description": {"type": "string"}, "start": {"type": "string", "example": "2024-05-01 09:00"},
            "end": {"type": "string", "example": "2024-05-01 10:00"}, "capacity": {"type": "integer"},
            "hosts": {"type": "array", "items": {"type": "string"}}}},
        "controllers.RescheduleRequest": {"type": "object", "required": ["start", "end"], "properties": {
            "start": {"type": "string"}, "end": {"type": "string"}}},
        "controllers.ChangeCapacityRequest": {"type": "object", "required": ["capacity"], "properties": {"capacity": {"type": "integer"}}},
        "controllers.AssignHostRequest": {"type": "object", "required": ["username"], "properties": {"username": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Conference Scheduler API",
	Description:      "Rooms, speakers and attendees booked together, or not at all.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
