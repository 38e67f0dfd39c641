package payment

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

const (
	// TokenField carries the signature inside gateway payloads.
	TokenField = "Token"
	// passwordField is the name under which the shared secret joins the
	// signed field set.
	passwordField = "Password"
)

// Sign computes the gateway signature over fields: the shared secret is
// added under Password, any existing Token is excluded, field names are
// sorted in byte order, values are stringified and concatenated without
// separators, and the result is SHA-256 hashed and hex encoded. The
// algorithm must stay bit-exact for interoperability with the gateway.
func Sign(fields map[string]any, secret string) string {
	signed := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		if k == TokenField {
			continue
		}
		signed[k] = v
	}
	signed[passwordField] = secret

	keys := make([]string, 0, len(signed))
	for k := range signed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(stringify(signed[k]))
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// VerifySignature recomputes the signature over fields and compares it
// case-insensitively against the embedded Token value.
func VerifySignature(fields map[string]any, secret string) bool {
	provided, ok := fields[TokenField].(string)
	if !ok || provided == "" {
		return false
	}
	return strings.EqualFold(Sign(fields, secret), provided)
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
