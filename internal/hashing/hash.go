package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/akopylov/chfill/internal/domain"
)

// HashFillConfig fingerprints everything that determines a fill's output, so
// a recorded run can be reproduced: the effective schema, hints, row counts
// and seed. Map keys are canonicalized before hashing.
func HashFillConfig(p *domain.Profile, schema domain.Schema, seed int64) (string, error) {
	payload := map[string]interface{}{
		"table":      p.Table,
		"rows":       p.Rows,
		"batch_size": p.BatchSize,
		"seed":       seed,
	}

	cols := make([]map[string]string, len(schema))
	for i, col := range schema {
		cols[i] = map[string]string{"name": col.Name, "type": col.Type}
	}
	payload["columns"] = cols

	if len(p.Hints) > 0 {
		payload["hints"] = canonicalize(p.Hints)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalize rebuilds nested maps with sorted keys. encoding/json already
// sorts map keys, but nested interface{} trees from YAML can hold
// map[string]interface{} values whose traversal order still matters for
// equality of the marshalled form; rebuilding keeps the result stable.
func canonicalize(m map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]interface{}:
			result[k] = canonicalize(v)
		default:
			result[k] = v
		}
	}
	return result
}
