package model

const (
	DocumentStateNormal  = 1
	DocumentStateDeleted = 2
)

// Document is an uploaded PDF. Rows are never edited in place; a new upload
// replaces an old one by delete + create.
type Document struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FilePath     string `json:"file_path"`
	FileSize     int64  `json:"file_size"`
	MimeType     string `json:"mime_type"`
	State        int    `json:"state"`
	UploadedAt   int64  `json:"uploaded_at"`
	Mtime        int64  `json:"mtime"`
}
