package types

import "strings"

// AssignmentPrefix keeps assignment labels apart from condition labels on the same column.
const AssignmentPrefix = "assgn_"

// labelReplacer maps every label-hostile character to an underscore.
var labelReplacer = strings.NewReplacer(
	" ", "_",
	"-", "_",
	".", "_",
	",", "_",
	"(", "_",
	")", "_",
	`"`, "_",
	"`", "_",
)

// DeriveLabel sanitises a column reference or explicit label into a parameter label.
func DeriveLabel(s string) string {
	return labelReplacer.Replace(s)
}

// Placeholder formats a named parameter placeholder.
func Placeholder(name string) string {
	return ":" + name
}
