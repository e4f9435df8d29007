package clients

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// text-classification answers either a flat list of label/score pairs or one
// list per input.
const scoreListSchema = `{
	"$defs": {
		"scores": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["label", "score"],
				"properties": {
					"label": {"type": "string"},
					"score": {"type": "number", "minimum": 0, "maximum": 1}
				}
			}
		}
	},
	"oneOf": [
		{"$ref": "#/$defs/scores"},
		{"type": "array", "minItems": 1, "items": {"$ref": "#/$defs/scores"}}
	]
}`

const summarySchema = `{
	"type": "array",
	"minItems": 1,
	"prefixItems": [
		{
			"type": "object",
			"required": ["summary_text"],
			"properties": {
				"summary_text": {"type": "string"}
			}
		}
	]
}`

var (
	scoreListValidator = jsonschema.MustCompileString("score_list.json", scoreListSchema)
	summaryValidator   = jsonschema.MustCompileString("summary.json", summarySchema)
)
