package models

import "VitalsHub/util"

const ZeroReading = "0"

// Vitals is the live record held in the real-time store.
type Vitals struct {
	Spo2        string `json:"spo2"`
	HeartRate   string `json:"heartRate"`
	Temperature string `json:"temperature"`
}

func ZeroVitals() Vitals {
	return Vitals{Spo2: ZeroReading, HeartRate: ZeroReading, Temperature: ZeroReading}
}

// Reading is a vital sign that may or may not have been supplied.
type Reading struct {
	Value   string
	Present bool
}

// ReadingFrom extracts key from a decoded JSON body. Missing keys and falsy
// values (null, "", 0, false) are absent; numbers are present in their
// decimal form.
func ReadingFrom(data map[string]interface{}, key string) Reading {
	v := data[key]
	if util.IsFalsy(v) {
		return Reading{}
	}
	return Reading{Value: util.ToString(v), Present: true}
}

// Or returns the supplied value, or prev when the reading is absent or empty.
func (r Reading) Or(prev string) string {
	if r.Present && r.Value != "" {
		return r.Value
	}
	return prev
}

type VitalsUpdate struct {
	Spo2        Reading
	HeartRate   Reading
	Temperature Reading
}

// Merge applies the update over prev field by field.
func (u VitalsUpdate) Merge(prev Vitals) Vitals {
	return Vitals{
		Spo2:        u.Spo2.Or(prev.Spo2),
		HeartRate:   u.HeartRate.Or(prev.HeartRate),
		Temperature: u.Temperature.Or(prev.Temperature),
	}
}
