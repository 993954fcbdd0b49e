package rules

// JSON Schemas for the stored rule blobs. They check structure only; the
// deeper semantic checks (operator spelling, per-action required fields) live
// in Validate.

const conditionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$ref": "#/definitions/node",
  "definitions": {
    "node": {
      "oneOf": [
        {"$ref": "#/definitions/logical"},
        {"$ref": "#/definitions/leaf"}
      ]
    },
    "logical": {
      "type": "object",
      "required": ["operator", "conditions"],
      "properties": {
        "operator": {"type": "string", "enum": ["AND", "OR", "NOT", "and", "or", "not"]},
        "conditions": {
          "type": "array",
          "items": {"$ref": "#/definitions/node"}
        }
      },
      "additionalProperties": false
    },
    "leaf": {
      "type": "object",
      "required": ["field", "operator"],
      "properties": {
        "field": {"type": "string", "minLength": 1},
        "operator": {"type": "string"},
        "value": {}
      },
      "additionalProperties": false
    }
  }
}`

const actionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {"type": "string"},
    "category": {"type": "string"},
    "message": {"type": "string"},
    "modifier": {
      "type": "object",
      "required": ["type", "value"],
      "properties": {
        "type": {"type": "string"},
        "value": {"type": "number"}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`
