package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// canisterNameMap maps common dfx project canister names to token keys.
var canisterNameMap = map[string]string{
	"ckbtc_ledger":  "ckbtc",
	"ckbtc-ledger":  "ckbtc",
	"ckbtc":         "ckbtc",
	"cketh_ledger":  "cketh",
	"cketh-ledger":  "cketh",
	"cketh":         "cketh",
	"icp_ledger":    "icp",
	"icp-ledger":    "icp",
	"ledger":        "icp",
	"ckusdc_ledger": "ckusdc",
	"ckusdc-ledger": "ckusdc",
	"ckusdc":        "ckusdc",
	"ckusdt_ledger": "ckusdt",
	"ckusdt-ledger": "ckusdt",
	"ckusdt":        "ckusdt",
	"realms_ledger": "realms",
	"realms-ledger": "realms",
	"realms":        "realms",
	"token_backend": "realms",
}

// DetectLocalCanisters maps token keys to canister IDs declared by a dfx
// project in dir. Detection is best-effort: malformed files are skipped,
// and an empty map just means the registry defaults apply.
func DetectLocalCanisters(dir string) map[string]string {
	canisters := make(map[string]string)

	for _, name := range []string{"canister_ids.json", filepath.Join(".dfx", "local", "canister_ids.json")} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}

		var entries map[string]json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			continue
		}

		for canisterName, raw := range entries {
			token, ok := canisterNameMap[strings.ToLower(canisterName)]
			if !ok {
				continue
			}
			if id := canisterID(raw); id != "" {
				canisters[token] = id
			}
		}
	}

	return canisters
}

// canisterID extracts a canister ID from either a bare string entry or a
// {"local"|"ic"|"canister_id": "..."} object.
func canisterID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj map[string]string
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"local", "ic", "canister_id"} {
		if obj[key] != "" {
			return obj[key]
		}
	}
	return ""
}
