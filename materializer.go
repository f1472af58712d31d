package critql

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jmoiron/sqlx"

	"github.com/zoobzio/critql/schema"
)

// Layouts tried, in order, when a driver returns a temporal column as text.
var temporalLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

const timeOfDayLayout = "15:04:05.999999999"

// Row is one fetched row keyed by column name.
type Row map[string]any

// Point is a fetched geometric point.
type Point struct {
	Raw       string
	Latitude  float64
	Longitude float64
}

// Box is a fetched geometric box given by its north-east and south-west corners.
type Box struct {
	Raw         string
	NELatitude  float64
	NELongitude float64
	SWLatitude  float64
	SWLongitude float64
}

type conversion int

const (
	keepValue conversion = iota
	toEpoch
	toTimeOfDay
	toPoint
	toBox
	toBool
	toText
)

// Materializer converts fetched native values into semantic values.
type Materializer struct {
	types    *schema.TypeMap
	location *time.Location
}

// NewMaterializer creates a materializer that classifies result columns with
// types. A nil location means UTC.
func NewMaterializer(types *schema.TypeMap, location *time.Location) *Materializer {
	if location == nil {
		location = time.UTC
	}
	return &Materializer{types: types, location: location}
}

// FetchAll reads every row and closes rows. Temporal columns become epoch
// seconds, boolean columns become bool, and point and box columns become Point
// and Box. Character columns read as bytes become strings. A value that does
// not parse is returned unchanged.
func (m *Materializer) FetchAll(rows *sqlx.Rows) ([]Row, error) {
	defer rows.Close()

	columns, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	plan, convert := m.plan(columns)

	var out []Row
	for rows.Next() {
		row := make(map[string]any, len(columns))
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if convert {
			for i, c := range columns {
				if plan[i] != keepValue {
					row[c.Name()] = m.convert(plan[i], row[c.Name()])
				}
			}
		}
		out = append(out, Row(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// plan classifies each column once. convert is false when no column needs work.
func (m *Materializer) plan(columns []*sql.ColumnType) (plan []conversion, convert bool) {
	plan = make([]conversion, len(columns))
	for i, c := range columns {
		switch m.types.Semantic(c.DatabaseTypeName()) {
		case schema.DateTime, schema.Date:
			plan[i] = toEpoch
		case schema.Time:
			plan[i] = toTimeOfDay
		case schema.Point:
			plan[i] = toPoint
		case schema.Box:
			plan[i] = toBox
		case schema.Boolean:
			plan[i] = toBool
		case schema.String, schema.Text:
			plan[i] = toText
		case schema.Integer:
			if length, ok := c.Length(); ok && length == 1 {
				plan[i] = toBool
			}
		}
		if plan[i] != keepValue {
			convert = true
		}
	}
	return plan, convert
}

func (m *Materializer) convert(c conversion, v any) any {
	if v == nil {
		return nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch c {
	case toEpoch:
		return m.epoch(v)
	case toTimeOfDay:
		return m.timeOfDay(v)
	case toPoint:
		return parsePoint(v)
	case toBox:
		return parseBox(v)
	case toBool:
		return parseBool(v)
	}
	return v
}

func (m *Materializer) epoch(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.Unix()
	case string:
		for _, layout := range temporalLayouts {
			if t, err := time.ParseInLocation(layout, x, m.location); err == nil {
				return t.Unix()
			}
		}
	}
	return v
}

// timeOfDay returns the epoch seconds of the time on 1970-01-01.
func (m *Materializer) timeOfDay(v any) any {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x.In(m.location)
	case string:
		parsed, err := time.ParseInLocation(timeOfDayLayout, x, m.location)
		if err != nil {
			return v
		}
		t = parsed
	default:
		return v
	}
	return time.Date(1970, time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, m.location).Unix()
}

// parsePoint reads the text form (x,y).
func parsePoint(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var p pgtype.Point
	if err := p.Scan(strings.TrimSpace(s)); err != nil || !p.Valid {
		return v
	}
	return Point{Raw: s, Latitude: p.P.X, Longitude: p.P.Y}
}

// parseBox reads the text form (x1,y1),(x2,y2), north-east corner first.
func parseBox(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var b pgtype.Box
	if err := b.Scan(strings.TrimSpace(s)); err != nil || !b.Valid {
		return v
	}
	return Box{
		Raw:         s,
		NELatitude:  b.P[0].X,
		NELongitude: b.P[0].Y,
		SWLatitude:  b.P[1].X,
		SWLongitude: b.P[1].Y,
	}
}

func parseBool(v any) any {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x == 1
	case int32:
		return x == 1
	case int:
		return x == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "t", "true":
			return true
		case "0", "f", "false":
			return false
		}
	}
	return v
}
