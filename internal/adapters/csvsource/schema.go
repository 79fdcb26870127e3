package csvsource

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the conversion applied to one positional column.
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindInt
	// KindTruthy is true for any non-empty value, so "False" reads as true.
	KindTruthy
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindTruthy:
		return "truthy"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field is one positional column.
type Field struct {
	Name string
	Kind Kind
}

// Schema is the ordered column list of one file. Columns past the last
// field are ignored.
type Schema struct {
	File   string
	Fields []Field
}

// TaskSchema describes taskScores.csv.
var TaskSchema = Schema{
	File: DefaultTaskFile,
	Fields: []Field{
		{Name: "name", Kind: KindString},
		{Name: "max_score", Kind: KindFloat},
		{Name: "score", Kind: KindFloat},
		{Name: "completion", Kind: KindFloat},
	},
}

// SubtaskSchema describes subtaskScores.csv.
var SubtaskSchema = Schema{
	File: DefaultSubtaskFile,
	Fields: []Field{
		{Name: "parent_task", Kind: KindString},
		{Name: "freq", Kind: KindFloat},
		{Name: "n_looks", Kind: KindInt},
		{Name: "score", Kind: KindFloat},
		{Name: "winner", Kind: KindString},
		{Name: "lat_location", Kind: KindFloat},
		{Name: "lon_location", Kind: KindFloat},
		{Name: "lat_measurement", Kind: KindFloat},
		{Name: "lon_measurement", Kind: KindFloat},
		{Name: "time_measurement", Kind: KindString},
		{Name: "completion", Kind: KindTruthy},
	},
}

// Value is one converted column.
type Value struct {
	Str   string
	Float float64
	Int   int
	Bool  bool
}

// Record is a decoded row, one Value per schema field.
type Record []Value

// Decode converts row according to the schema. Numeric columns tolerate
// surrounding whitespace. line is the 1-based line in the file and only feeds
// error messages.
func (s Schema) Decode(line int, row []string) (Record, error) {
	if len(row) < len(s.Fields) {
		return nil, fmt.Errorf("%s:%d: %w: got %d, want %d", s.File, line, ErrShortRow, len(row), len(s.Fields))
	}
	rec := make(Record, len(s.Fields))
	for i, f := range s.Fields {
		v, err := convert(f.Kind, row[i])
		if err != nil {
			return nil, &FieldError{File: s.File, Line: line, Column: i, Field: f.Name, Value: row[i], Err: err}
		}
		rec[i] = v
	}
	return rec, nil
}

func convert(kind Kind, raw string) (Value, error) {
	switch kind {
	case KindString:
		return Value{Str: raw}, nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, err
		}
		return Value{Str: raw, Float: f}, nil
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, err
		}
		return Value{Str: raw, Int: n}, nil
	case KindTruthy:
		return Value{Str: raw, Bool: raw != ""}, nil
	default:
		return Value{}, fmt.Errorf("unsupported kind %s", kind)
	}
}
