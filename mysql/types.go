package mysql

import "github.com/zoobzio/critql/schema"

var typeMap = schema.NewTypeMap(
	map[string]schema.Type{
		"enum":      schema.String,
		"binary":    schema.String,
		"varbinary": schema.String,
		"varchar":   schema.String,
		"char":      schema.String,
		"national":  schema.String,
		"decimal":   schema.String,
		"dec":       schema.String,

		"text":       schema.Text,
		"tinytext":   schema.Text,
		"mediumtext": schema.Text,
		"longtext":   schema.Text,
		"set":        schema.Text,

		"blob":       schema.Blob,
		"tinyblob":   schema.Blob,
		"mediumblob": schema.Blob,
		"longblob":   schema.Blob,

		"int":       schema.Integer,
		"integer":   schema.Integer,
		"tinyint":   schema.Integer,
		"smallint":  schema.Integer,
		"mediumint": schema.Integer,
		"bigint":    schema.Integer,
		"bit":       schema.Integer,
		"year":      schema.Integer,

		"bool":    schema.Boolean,
		"boolean": schema.Boolean,

		"float":  schema.Float,
		"double": schema.Float,
		"real":   schema.Float,

		"date":      schema.Date,
		"datetime":  schema.DateTime,
		"timestamp": schema.DateTime,
		"time":      schema.Time,

		"point": schema.Point,
	},
	map[schema.Type]string{
		schema.Blob:     "BLOB",
		schema.Boolean:  "TINYINT(1)",
		schema.Date:     "DATE",
		schema.DateTime: "DATETIME",
		schema.Float:    "DOUBLE",
		schema.Integer:  "INTEGER",
		schema.String:   "VARCHAR(255)",
		schema.Text:     "TEXT",
		schema.Time:     "TIME",
		schema.Point:    "POINT",
	},
	"tinyint(1)",
)

// Types returns the MySQL type map. TINYINT(1) reads as BOOLEAN.
func Types() *schema.TypeMap {
	return typeMap
}
