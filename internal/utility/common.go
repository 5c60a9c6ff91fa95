package utility

import (
	"fmt"
	"math"
	"time"

	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToMap converts a struct into a map via BSON marshalling, preserving the
// bson tags so the result matches the stored document shape.
func ToMap(data interface{}) (map[string]interface{}, error) {
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}

	var result map[string]interface{}
	if err := bson.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return result, nil
}

// String2ObjectID converts a hex string into an ObjectID. Invalid input
// yields the zero ObjectID; callers validate with primitive.IsValidObjectID
// beforehand.
func String2ObjectID(s string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(s)
	return id
}

// PrettyPrint renders an interface as indented JSON (debugging helper).
func PrettyPrint(i interface{}) string {
	s, _ := json.MarshalIndent(i, "", "\t")
	return string(s)
}

// UnixMilli returns the millisecond timestamp of the given time.
func UnixMilli(t time.Time) int64 {
	return t.UnixMilli()
}

// CurrentTimeInMilli returns the current timestamp in milliseconds.
func CurrentTimeInMilli() int64 {
	return time.Now().UnixMilli()
}

// RoundPercent rounds a ratio expressed as numerator/denominator to the
// nearest whole percent. A zero denominator yields 0, not an error.
func RoundPercent(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(100 * float64(numerator) / float64(denominator)))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
