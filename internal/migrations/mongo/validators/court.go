package validators

import "go.mongodb.org/mongo-driver/bson"

const clockPattern = "^([01][0-9]|2[0-3]):[0-5][0-9]$"

var CourtValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"category",
			"status",
			"version",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"pattern":   "^[A-Za-z0-9][A-Za-z0-9_-]*$",
				"maxLength": 32,
			},

			"category": bson.M{
				"bsonType": "string",
				"enum":     []string{"singles", "doubles"},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"available", "unavailable"},
			},

			"version": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
