package sqlite

import "github.com/zoobzio/critql/schema"

// typeMap follows SQLite's declared column types, which are free text.
var typeMap = schema.NewTypeMap(
	map[string]schema.Type{
		"varchar":   schema.String,
		"char":      schema.String,
		"character": schema.String,
		"nvarchar":  schema.String,
		"numeric":   schema.String,
		"decimal":   schema.String,

		"text": schema.Text,
		"clob": schema.Text,

		"blob": schema.Blob,

		"int":      schema.Integer,
		"integer":  schema.Integer,
		"tinyint":  schema.Integer,
		"smallint": schema.Integer,
		"bigint":   schema.Integer,

		"bool":    schema.Boolean,
		"boolean": schema.Boolean,

		"real":   schema.Float,
		"float":  schema.Float,
		"double": schema.Float,

		"date":      schema.Date,
		"datetime":  schema.DateTime,
		"timestamp": schema.DateTime,
		"time":      schema.Time,
	},
	map[schema.Type]string{
		schema.Blob:     "BLOB",
		schema.Boolean:  "BOOLEAN",
		schema.Date:     "DATE",
		schema.DateTime: "DATETIME",
		schema.Float:    "REAL",
		schema.Integer:  "INTEGER",
		schema.String:   "VARCHAR(255)",
		schema.Text:     "TEXT",
		schema.Time:     "TIME",
	},
)

// Types returns the SQLite type map.
func Types() *schema.TypeMap {
	return typeMap
}
