package vector

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/transcriptqa/internal/db"
)

func buildIndex(cfg Config, dim int) (*db.IndexDefinition, error) {
	def, err := db.NewIndex(cfg.IndexName).
		Prefix(cfg.KeyPrefix).
		Vector(FieldVector, db.VectorSpec{
			Dim:            dim,
			Metric:         db.DistanceCosine,
			M:              cfg.HNSWM,
			EFConstruction: cfg.HNSWEFConstruction,
		}).
		Text(FieldContent).
		Text(FieldMetadata).
		Build()
	if err != nil {
		return nil, fmt.Errorf("index definition: %w", err)
	}
	return def, nil
}

func encodeMetadata(md map[string]string) (string, error) {
	data, err := json.Marshal(md)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeMetadata tolerates records written by other clients: scalars are
// stringified, nested values are kept as raw JSON. Unparsable metadata yields nil.
func decodeMetadata(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	md := make(map[string]string, len(m))
	for k, v := range m {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			md[k] = s
			continue
		}
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			md[k] = strconv.FormatFloat(n, 'f', -1, 64)
			continue
		}
		md[k] = string(v)
	}
	return md
}
