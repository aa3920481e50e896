package schema

// CanonChapterTable represents the 'canon.chapter' table
type CanonChapterTable struct {
	Table     string
	ID        string
	Number    string
	Title     string
	Summary   string
	ArcID     string
	CreatedAt string
	UpdatedAt string
}

// CanonChapter is the schema definition for canon.chapter
var CanonChapter = CanonChapterTable{
	Table:     "canon.chapter",
	ID:        "id",
	Number:    "number",
	Title:     "title",
	Summary:   "summary",
	ArcID:     "arcid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
