package model

type ItemType string

const (
	ItemTypeDocument ItemType = "document"
	ItemTypeTable    ItemType = "table"
	ItemTypeLink     ItemType = "link"
)

// SearchResult is the normalized view of one knowledge item, shared by search
// results and dashboard activity.
type SearchResult struct {
	ID          string   `json:"id"`
	Type        ItemType `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	CreatedAt   int64    `json:"created_at"`
}
