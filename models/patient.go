package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
)

// Patient is the durable profile document. HeartRate, Spo2 and Temperature
// are the values captured at creation; live readings are kept in Vitals.
type Patient struct {
	ID          string  `json:"id" bson:"_id"`
	FullName    string  `json:"fullName" bson:"fullName"`
	Age         string  `json:"age" bson:"age"`
	Gender      *string `json:"gender" bson:"gender"`
	Email       string  `json:"email" bson:"email"`
	Mobile      string  `json:"mobile" bson:"mobile"`
	Dob         string  `json:"dob" bson:"dob"`
	HeartRate   string  `json:"heartRate" bson:"heartRate"`
	Spo2        string  `json:"spo2" bson:"spo2"`
	Temperature string  `json:"temperature" bson:"temperature"`
	CreatedAt   string  `json:"createdAt" bson:"createdAt"`

	// Extra holds fields added through profile updates that have no
	// dedicated column.
	Extra bson.M `json:"-" bson:",inline"`
}

// StringFields are the profile fields stored as strings. Gender is the only
// one that may be null.
var StringFields = []string{
	"fullName", "age", "gender", "email", "mobile", "dob",
	"heartRate", "spo2", "temperature", "createdAt",
}

func (p Patient) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Extra)+11)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["id"] = p.ID
	out["fullName"] = p.FullName
	out["age"] = p.Age
	out["gender"] = p.Gender
	out["email"] = p.Email
	out["mobile"] = p.Mobile
	out["dob"] = p.Dob
	out["heartRate"] = p.HeartRate
	out["spo2"] = p.Spo2
	out["temperature"] = p.Temperature
	out["createdAt"] = p.CreatedAt
	return json.Marshal(out)
}
