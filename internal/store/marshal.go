package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cowlicks/gruph/internal/node"
)

// marshalState serializes a node's binding state for storage.
//
// Bindings are an ordinary JSON string array. Values are NOT standard
// JSON: binding values are IEEE-754 doubles and may legitimately be
// NaN or an infinity (e.g. fed from a node that evaluated 1/0), which
// encoding/json rejects. Each value is therefore formatted with
// strconv and the array assembled by hand; ParseFloat round-trips the
// special values.
func marshalState(st node.State) (bindings, vals string, err error) {
	b, err := json.Marshal(emptyNotNil(st.Bindings))
	if err != nil {
		return "", "", fmt.Errorf("marshal bindings: %w", err)
	}

	parts := make([]string, len(st.Values))
	for i, v := range st.Values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return string(b), "[" + strings.Join(parts, ",") + "]", nil
}

// unmarshalState is the inverse of marshalState.
func unmarshalState(text, bindings, vals string) (node.State, error) {
	st := node.State{Text: text}

	if err := json.Unmarshal([]byte(bindings), &st.Bindings); err != nil {
		return node.State{}, fmt.Errorf("unmarshal bindings: %w", err)
	}

	trimmed := strings.TrimSpace(vals)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return node.State{}, fmt.Errorf("unmarshal values: malformed array %q", vals)
	}
	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	st.Values = []float64{}
	if inner != "" {
		for _, part := range strings.Split(inner, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return node.State{}, fmt.Errorf("unmarshal values: %w", err)
			}
			st.Values = append(st.Values, v)
		}
	}
	return st, nil
}

// emptyNotNil keeps the on-disk form "[]" rather than "null" for nodes
// without bindings.
func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
