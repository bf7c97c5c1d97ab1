package model

type WebLink struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Favicon     string `json:"favicon"`
	Ctime       int64  `json:"ctime"`
	Mtime       int64  `json:"mtime"`
}
