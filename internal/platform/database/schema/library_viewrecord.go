package schema

// LibraryViewRecordTable represents the 'library.viewrecord' table
type LibraryViewRecordTable struct {
	Table       string
	ID          string
	ContentType string
	ContentID   string
	SessionID   string
	UserID      string
	ViewedAt    string
}

// LibraryViewRecord is the schema definition for library.viewrecord
var LibraryViewRecord = LibraryViewRecordTable{
	Table:       "library.viewrecord",
	ID:          "id",
	ContentType: "contenttype",
	ContentID:   "contentid",
	SessionID:   "sessionid",
	UserID:      "userid",
	ViewedAt:    "viewedat",
}
