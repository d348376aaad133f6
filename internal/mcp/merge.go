// Package mcp implements the shared per-user context store: persistence,
// the deep-merge update protocol, and the derived-state rules every bot
// relies on.
package mcp

// Merge combines a partial update document into the current document and
// returns the new full document. Nested maps are merged key-by-key; every
// other value type, arrays included, is replaced wholesale by the update.
// Keys present only in current are preserved, keys present only in update
// are added. Pure: neither input is mutated.
func Merge(current, update map[string]any) map[string]any {
	out := make(map[string]any, len(current)+len(update))
	for k, v := range current {
		out[k] = v
	}

	for k, v := range update {
		srcMap, srcIsMap := v.(map[string]any)
		if !srcIsMap {
			out[k] = v
			continue
		}
		dstMap, dstIsMap := out[k].(map[string]any)
		if !dstIsMap {
			dstMap = map[string]any{}
		}
		out[k] = Merge(dstMap, srcMap)
	}

	return out
}
