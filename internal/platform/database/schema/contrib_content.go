package schema

// ContribContentTable represents the 'contrib.content' table
type ContribContentTable struct {
	Table           string
	ID              string
	ContentType     string
	EntityKind      string
	EntityID        string
	AuthorID        string
	Title           string
	Body            string
	MediaURL        string
	Status          string
	RejectionReason string
	IsSpoiler       string
	SpoilerChapter  string
	ViewCount       string
	LikeCount       string
	CreatedAt       string
	UpdatedAt       string
}

// ContribContent is the schema definition for contrib.content
var ContribContent = ContribContentTable{
	Table:           "contrib.content",
	ID:              "id",
	ContentType:     "contenttype",
	EntityKind:      "entitykind",
	EntityID:        "entityid",
	AuthorID:        "authorid",
	Title:           "title",
	Body:            "body",
	MediaURL:        "mediaurl",
	Status:          "status",
	RejectionReason: "rejectionreason",
	IsSpoiler:       "isspoiler",
	SpoilerChapter:  "spoilerchapter",
	ViewCount:       "viewcount",
	LikeCount:       "likecount",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}
