package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// encodeColumn never fails the write: a value that cannot be encoded is
// stored as an empty object.
func encodeColumn(v interface{}) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil || string(raw) == "null" {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}

// decodeColumn leaves target at its zero value when the stored JSON is
// empty or unreadable.
func decodeColumn(raw datatypes.JSON, target interface{}) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, target)
}
