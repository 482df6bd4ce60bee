package model

// Student is owned by the external student directory. Bookings only keep
// the ID; the record is exposed here so persistence and UI layers share one shape.
type Student struct {
	ID      string `json:"id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	Contact string `json:"contact" bson:"contact"`
}
