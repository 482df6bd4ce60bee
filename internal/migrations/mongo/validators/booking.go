package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"student_id",
			"court_id",
			"date",
			"start",
			"end",
			"state",
			"fee",
			"created_at",
			"updated_at",
			"version",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  "^BK[0-9A-F]{8}$",
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"court_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 32,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"start": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},

			"end": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},

			"state": bson.M{
				"bsonType": "string",
				"enum": []string{
					"PENDING",
					"COMPLETED",
					"CANCELLED",
				},
			},

			"fee": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"rating": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  5,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},

			"version": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},
		},
	},
}
