package usecase

const (
	MsgUploaded        = "CSV file uploaded successfully"
	MsgNotCSV          = "File must be a CSV"
	MsgNotUTF8         = "CSV file is not valid UTF-8"
	MsgNoHeaders       = "CSV file has no headers"
	MsgFileNotFound    = "File not found"
	msgProcessing      = "Error processing CSV"
	msgRetrieving      = "Error retrieving CSV data"
	msgMalformedPrefix = "malformed CSV: "
)

type UploadResult struct {
	ID      string
	Message string
}

// CursorResult describes the stored cursor of one file. Position is only
// meaningful when Started is true.
type CursorResult struct {
	FileID   string
	Position int64
	Started  bool
}
