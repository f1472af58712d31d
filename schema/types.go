// Package schema describes tables and columns in the framework's semantic types
// and compares desired table shapes against live ones.
package schema

import "strings"

// Type is a dialect independent column type.
type Type string

const (
	Integer  Type = "INTEGER"
	Float    Type = "FLOAT"
	String   Type = "STRING"
	Text     Type = "TEXT"
	Blob     Type = "BLOB"
	Boolean  Type = "BOOLEAN"
	Date     Type = "DATE"
	Time     Type = "TIME"
	DateTime Type = "DATETIME"
	Point    Type = "POINT"
	Box      Type = "BOX"
)

// Types lists every semantic type.
var Types = []Type{Integer, Float, String, Text, Blob, Boolean, Date, Time, DateTime, Point, Box}

// ParseType parses a semantic type name, case-insensitively.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Temporal reports whether values of the type travel as epoch seconds.
func (t Type) Temporal() bool {
	return t == Date || t == Time || t == DateTime
}
