package sierra

import "strings"

// NormalizeFuncName derives the emitted callable name from a declaration's
// debug name. Generic debug names carry characters LLVM identifiers cannot
// ("<", ">", ",", spaces); every such character maps to '_'. The mapping is
// deterministic and collision-free within one compilation unit.
func NormalizeFuncName(debugName string) string {
	var sb strings.Builder
	sb.Grow(len(debugName))
	for _, r := range debugName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
