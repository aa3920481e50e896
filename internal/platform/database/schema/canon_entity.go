package schema

// CanonEntityTable represents the 'canon.entity' table
type CanonEntityTable struct {
	Table          string
	ID             string
	Kind           string
	Slug           string
	Name           string
	Summary        string
	Body           string
	IsSpoiler      string
	SpoilerChapter string
	CreatedAt      string
	UpdatedAt      string
	DeletedAt      string
}

// CanonEntity is the schema definition for canon.entity
var CanonEntity = CanonEntityTable{
	Table:          "canon.entity",
	ID:             "id",
	Kind:           "kind",
	Slug:           "slug",
	Name:           "name",
	Summary:        "summary",
	Body:           "body",
	IsSpoiler:      "isspoiler",
	SpoilerChapter: "spoilerchapter",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	DeletedAt:      "deletedat",
}
