package schema

// CanonEntityEditTable represents the 'canon.entityedit' table
type CanonEntityEditTable struct {
	Table      string
	ID         string
	EntityID   string
	EntityKind string
	EditorID   string
	Note       string
	CreatedAt  string
}

// CanonEntityEdit is the schema definition for canon.entityedit
var CanonEntityEdit = CanonEntityEditTable{
	Table:      "canon.entityedit",
	ID:         "id",
	EntityID:   "entityid",
	EntityKind: "entitykind",
	EditorID:   "editorid",
	Note:       "note",
	CreatedAt:  "createdat",
}
