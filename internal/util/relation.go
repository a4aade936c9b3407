package util

import (
	"encoding/json"
	"strconv"
)

// ExtractRelationID normalizes every wrapper shape a referenced entity can
// arrive in — a bare id string, a number, a {"documentId"|"id"} object, a
// {"data": ...} container, or an array of any of those — into one canonical
// scalar id. It is total over decoded JSON: unrecognized shapes yield "",
// never a panic. documentId wins over id, matching the records migrated from
// the legacy CMS.
func ExtractRelationID(relation interface{}) string {
	switch v := relation.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case []interface{}:
		if len(v) == 0 {
			return ""
		}
		return ExtractRelationID(v[0])
	case map[string]interface{}:
		if id, ok := v["documentId"]; ok {
			if s := ExtractRelationID(id); s != "" {
				return s
			}
		}
		if id, ok := v["id"]; ok {
			if s := ExtractRelationID(id); s != "" {
				return s
			}
		}
		if data, ok := v["data"]; ok {
			return ExtractRelationID(data)
		}
		return ""
	default:
		return ""
	}
}

// ExtractRelationRaw decodes a raw relation column and normalizes it.
func ExtractRelationRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return ExtractRelationID(v)
}

// RelationFromID encodes a canonical scalar id as a relation column value.
func RelationFromID(id string) json.RawMessage {
	if id == "" {
		return nil
	}
	data, _ := json.Marshal(id)
	return data
}
