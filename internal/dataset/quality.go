package dataset

import "fmt"

// QualitySpec describes the fruit-quality table: numeric measurements plus a label.
type QualitySpec struct {
	Label string
	// Features lists measurement columns; empty means every header except Label and Exclude.
	Features []string
	Exclude  []string
}

// Schema resolves the quality schema against a file header.
func (q QualitySpec) Schema(header []string) (Schema, error) {
	if q.Label == "" {
		return Schema{}, fmt.Errorf("%w: quality label column not set", ErrSchema)
	}
	features := q.Features
	if len(features) == 0 {
		skip := map[string]bool{normName(q.Label): true}
		for _, e := range q.Exclude {
			skip[normName(e)] = true
		}
		for _, h := range header {
			if !skip[normName(h)] {
				features = append(features, h)
			}
		}
	}
	if len(features) == 0 {
		return Schema{}, fmt.Errorf("%w: no feature columns", ErrSchema)
	}
	fields := make([]Field, 0, len(features)+1)
	for _, f := range features {
		fields = append(fields, Num(f))
	}
	fields = append(fields, Cat(q.Label))
	return NewSchema(fields...), nil
}

// FeatureNames returns the numeric fields of a schema built by Schema.
func (q QualitySpec) FeatureNames(s Schema) []string {
	var out []string
	for _, f := range s.Fields {
		if f.Kind == Numeric {
			out = append(out, f.Name)
		}
	}
	return out
}

// LoadQuality loads the quality table. Rows with an unparseable or missing
// measurement, or an empty label, are dropped and counted.
func LoadQuality(path string, spec QualitySpec, opt Options) (*Table, LoadStats, error) {
	raw, err := Open(path, opt)
	if err != nil {
		return nil, LoadStats{}, err
	}
	schema, err := spec.Schema(raw.Header)
	if err != nil {
		return nil, LoadStats{}, err
	}
	return raw.Table(schema, DropInvalid, opt)
}
