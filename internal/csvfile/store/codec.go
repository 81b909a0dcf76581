package store

import (
	"encoding/json"
	"fmt"

	"github.com/shandysiswandi/gocsv/internal/csvfile/entity"
)

func encodeRow(row entity.Row) ([]byte, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return data, nil
}

func decodeRow(data []byte) (entity.Row, error) {
	var row entity.Row
	if err := json.Unmarshal(data, &row); err != nil {
		return entity.Row{}, fmt.Errorf("decode row: %w", err)
	}
	return row, nil
}
