package payments

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FallbackPrefix marks synthesized order ids produced when no known payload
// shape matched. Verification skips the provider lookup for these: the
// checkout SDK's payload shape is not contractually fixed, and losing the
// order reference must not lose the sale.
const FallbackPrefix = "ls_"

// extractor attempts to pull an order id out of one known payload shape.
type extractor func(payload map[string]any) (string, bool)

// extractors is the ordered compatibility shim over the card-checkout SDK
// payload. First hit wins.
var extractors = []extractor{
	func(p map[string]any) (string, bool) { return stringAt(p, "id") },
	func(p map[string]any) (string, bool) { return stringAt(p, "order_id") },
	func(p map[string]any) (string, bool) { return stringAt(p, "attributes", "order_id") },
	func(p map[string]any) (string, bool) { return stringAt(p, "data", "attributes", "order_id") },
	func(p map[string]any) (string, bool) { return stringAt(p, "custom_data", "order_id") },
}

// ExtractOrderID searches the known payload shapes in order and, failing
// all of them, synthesizes a non-empty placeholder rather than aborting
// the flow.
func ExtractOrderID(payload []byte, now time.Time) string {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err == nil {
		for _, ex := range extractors {
			if id, ok := ex(doc); ok {
				return id
			}
		}
	}
	return fmt.Sprintf("%s%d", FallbackPrefix, now.Unix())
}

// IsFallbackOrderID reports whether the id was synthesized locally.
func IsFallbackOrderID(id string) bool {
	return strings.HasPrefix(id, FallbackPrefix)
}

// stringAt walks nested maps along path and returns a non-empty string or
// numeric id at the leaf.
func stringAt(doc map[string]any, path ...string) (string, bool) {
	cur := doc
	for i, key := range path {
		v, ok := cur[key]
		if !ok {
			return "", false
		}
		if i == len(path)-1 {
			switch t := v.(type) {
			case string:
				if strings.TrimSpace(t) != "" {
					return t, true
				}
			case float64:
				// json numbers arrive as float64; ids are integral
				return fmt.Sprintf("%.0f", t), true
			}
			return "", false
		}
		next, ok := v.(map[string]any)
		if !ok {
			return "", false
		}
		cur = next
	}
	return "", false
}
