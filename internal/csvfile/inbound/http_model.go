package inbound

type MessageResponse struct {
	Message string `json:"message"`
}

type UploadResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type CursorResponse struct {
	FileID   string `json:"file_id"`
	Position *int64 `json:"position"`
	Started  bool   `json:"started"`
}
