package artifacts

import "sort"

// BoundEncoder is the categorical encoder fitted at training time and
// persisted inside the artifact. Using it at inference guarantees the same
// value→code mapping the estimator was trained against.
type BoundEncoder struct {
	// Columns maps column name → categorical value → numeric code.
	Columns map[string]map[string]float64 `json:"columns"`
}

// Has reports whether the encoder was fitted for the given column.
func (e *BoundEncoder) Has(column string) bool {
	_, ok := e.Columns[column]
	return ok
}

// Encode returns the trained code for a categorical value. The second
// return is false for values never seen at training time.
func (e *BoundEncoder) Encode(column, value string) (float64, bool) {
	values, ok := e.Columns[column]
	if !ok {
		return 0, false
	}
	code, ok := values[value]
	return code, ok
}

// ColumnNames returns the fitted column names in stable order.
func (e *BoundEncoder) ColumnNames() []string {
	names := make([]string, 0, len(e.Columns))
	for name := range e.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
