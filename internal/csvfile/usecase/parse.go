package usecase

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/shandysiswandi/gocsv/internal/csvfile/entity"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgerror"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseCSV reads the first record as headers and every following non-blank
// record as a row. Ragged records are kept, see entity.NewRow.
func parseCSV(content []byte) ([]string, []entity.Row, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	if len(firstLine(content)) == 0 {
		return nil, nil, pkgerror.NewValidation(MsgNoHeaders)
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) || (err == nil && len(headers) == 0) {
		return nil, nil, pkgerror.NewValidation(MsgNoHeaders)
	}
	if err != nil {
		return nil, nil, malformed(err)
	}

	rows := make([]entity.Row, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, malformed(err)
		}

		rows = append(rows, entity.NewRow(headers, record))
	}

	return headers, rows, nil
}

func firstLine(content []byte) []byte {
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	return bytes.TrimSuffix(content, []byte{'\r'})
}

func malformed(err error) error {
	return pkgerror.NewValidation(msgMalformedPrefix + err.Error())
}
