package report

import "encoding/json"

// EncodeJSON emits the per-record objects as a 2-space indented array.
// Reports built without Records fall back to header keyed objects.
func EncodeJSON(t *Tabular) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	records := t.Records
	if records == nil {
		objects := make([]map[string]any, 0, len(t.Rows))
		for _, row := range t.Rows {
			obj := make(map[string]any, len(t.Headers))
			for i, h := range t.Headers {
				obj[h] = row[i]
			}
			objects = append(objects, obj)
		}
		records = objects
	}
	return json.MarshalIndent(records, "", "  ")
}
