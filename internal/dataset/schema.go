package dataset

// Kind is the declared type of a column.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindDecimal
	KindTimestamp
)

// Field declares one column and its type.
type Field struct {
	Name string
	Kind Kind
}

// Schema is the declared column set of a raw dataset. Columns not listed are
// carried through Coerce untouched.
type Schema []Field

// Temporal returns the names of the timestamp columns.
func (s Schema) Temporal() []string {
	var names []string
	for _, f := range s {
		if f.Kind == KindTimestamp {
			names = append(names, f.Name)
		}
	}
	return names
}

// Coerce returns a new record where every declared column holds its typed
// value or nil. Unparseable values become nil; Coerce never fails.
//
//	KindString    -> string (trimmed, empty becomes nil)
//	KindInteger   -> int32
//	KindDecimal   -> decimal.Decimal
//	KindTimestamp -> time.Time (UTC)
func (s Schema) Coerce(r Record) Record {
	out := make(Record, len(r)+len(s))
	for k, v := range r {
		out[k] = v
	}
	for _, f := range s {
		raw := r[f.Name]
		switch f.Kind {
		case KindInteger:
			if v, ok := ParseInt32(raw); ok {
				out[f.Name] = v
			} else {
				out[f.Name] = nil
			}
		case KindDecimal:
			if v := ParseDecimal(raw); v.Valid {
				out[f.Name] = v.Decimal
			} else {
				out[f.Name] = nil
			}
		case KindTimestamp:
			if v := ParseTimestamp(raw); v != nil {
				out[f.Name] = *v
			} else {
				out[f.Name] = nil
			}
		default:
			if v := ParseString(raw); v != nil {
				out[f.Name] = *v
			} else {
				out[f.Name] = nil
			}
		}
	}
	return out
}
