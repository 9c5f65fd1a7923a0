package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// RecordID is an opaque record identifier. The server assigns sequential
// integers and the local store assigns strings; both decode into RecordID.
type RecordID string

func (id RecordID) String() string {
	return string(id)
}

// Numeric reports the id as a server id when it is one.
func (id RecordID) Numeric() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = RecordID(n.String())
	return nil
}

func (id RecordID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func RecordIDFromInt(n int64) RecordID {
	return RecordID(strconv.FormatInt(n, 10))
}
