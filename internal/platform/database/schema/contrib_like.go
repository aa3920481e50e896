package schema

// ContribLikeTable represents the 'contrib.like' table
type ContribLikeTable struct {
	Table     string
	ContentID string
	UserID    string
	CreatedAt string
}

// ContribLike is the schema definition for contrib.like
var ContribLike = ContribLikeTable{
	Table:     "contrib.like",
	ContentID: "contentid",
	UserID:    "userid",
	CreatedAt: "createdat",
}
