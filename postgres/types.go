package postgres

import "github.com/zoobzio/critql/schema"

// typeMap is shared by every catalog.
var typeMap = schema.NewTypeMap(
	map[string]schema.Type{
		"enum":      schema.String,
		"binary":    schema.String,
		"varbinary": schema.String,
		"varchar":   schema.String,
		"character": schema.String,
		"char":      schema.String,
		"bpchar":    schema.String,
		"national":  schema.String,
		"decimal":   schema.String,
		"dec":       schema.String,
		"numeric":   schema.String,
		"uuid":      schema.String,

		"text":       schema.Text,
		"tinytext":   schema.Text,
		"mediumtext": schema.Text,
		"longtext":   schema.Text,
		"set":        schema.Text,

		"blob":       schema.Blob,
		"tinyblob":   schema.Blob,
		"mediumblob": schema.Blob,
		"longblob":   schema.Blob,
		"bytea":      schema.Blob,

		"int":       schema.Integer,
		"integer":   schema.Integer,
		"tinyint":   schema.Integer,
		"smallint":  schema.Integer,
		"mediumint": schema.Integer,
		"bigint":    schema.Integer,
		"bit":       schema.Integer,
		"year":      schema.Integer,
		"int2":      schema.Integer,
		"int4":      schema.Integer,
		"int8":      schema.Integer,
		"serial":    schema.Integer,
		"bigserial": schema.Integer,

		"bool":    schema.Boolean,
		"boolean": schema.Boolean,

		"float":  schema.Float,
		"double": schema.Float,
		"real":   schema.Float,
		"float4": schema.Float,
		"float8": schema.Float,

		"date":        schema.Date,
		"timestamp":   schema.DateTime,
		"timestamptz": schema.DateTime,
		"time":        schema.Time,
		"timetz":      schema.Time,

		"point": schema.Point,
		"box":   schema.Box,
	},
	map[schema.Type]string{
		schema.Blob:     "BYTEA",
		schema.Boolean:  "BOOLEAN",
		schema.Date:     "DATE",
		schema.DateTime: "timestamp",
		schema.Float:    "FLOAT",
		schema.Integer:  "INTEGER",
		schema.String:   "VARCHAR(255)",
		schema.Text:     "TEXT",
		schema.Time:     "TIME",
		schema.Point:    "POINT",
		schema.Box:      "BOX",
	},
)

// Types returns the PostgreSQL type map.
func Types() *schema.TypeMap {
	return typeMap
}
