package dfx

import "encoding/json"

// candidHashNames maps candid field hashes to field names for canisters
// that ship without a .did file. Covers the non-standard mint result.
var candidHashNames = map[string]string{
	"3_092_129_219": "success",
	"624_086_880":   "block_index",
	"2_825_987_837": "new_balance",
	"1_932_118_984": "error",
}

// normalizeCandid recursively replaces candid hash keys with field names.
// Output that is not JSON passes through untouched.
func normalizeCandid(raw []byte) json.RawMessage {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return raw
	}

	normalized, err := json.Marshal(renameHashKeys(value))
	if err != nil {
		return raw
	}
	return normalized
}

func renameHashKeys(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, inner := range v {
			if name, ok := candidHashNames[key]; ok {
				key = name
			}
			out[key] = renameHashKeys(inner)
		}
		return out
	case []interface{}:
		for i := range v {
			v[i] = renameHashKeys(v[i])
		}
		return v
	default:
		return value
	}
}
