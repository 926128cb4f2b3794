package model

// Capability names a boolean permission flag.
type Capability string

const (
	CanCreateDB         Capability = "can_create_db"
	CanDeleteDB         Capability = "can_delete_db"
	CanCreateCollection Capability = "can_create_collection"
	CanDeleteCollection Capability = "can_delete_collection"
	CanImport           Capability = "can_import"
	CanExport           Capability = "can_export"
)

// Capabilities lists every known flag.
var Capabilities = []Capability{
	CanCreateDB,
	CanDeleteDB,
	CanCreateCollection,
	CanDeleteCollection,
	CanImport,
	CanExport,
}

type Permissions struct {
	Databases           DatabaseAccess `bson:"databases" json:"databases"`
	CanCreateDB         bool           `bson:"can_create_db" json:"can_create_db"`
	CanDeleteDB         bool           `bson:"can_delete_db" json:"can_delete_db"`
	CanCreateCollection bool           `bson:"can_create_collection" json:"can_create_collection"`
	CanDeleteCollection bool           `bson:"can_delete_collection" json:"can_delete_collection"`
	CanImport           bool           `bson:"can_import" json:"can_import"`
	CanExport           bool           `bson:"can_export" json:"can_export"`
}

// Flag returns the value of capability c. known is false when c is not one
// of the six capability flags.
func (p *Permissions) Flag(c Capability) (value, known bool) {
	switch c {
	case CanCreateDB:
		return p.CanCreateDB, true
	case CanDeleteDB:
		return p.CanDeleteDB, true
	case CanCreateCollection:
		return p.CanCreateCollection, true
	case CanDeleteCollection:
		return p.CanDeleteCollection, true
	case CanImport:
		return p.CanImport, true
	case CanExport:
		return p.CanExport, true
	}
	return false, false
}

// DefaultPermissions is granted to accounts created through signup.
// Databases is a wildcard; namespace filtering still narrows what is visible.
func DefaultPermissions() *Permissions {
	return &Permissions{
		Databases:           AllDatabases(),
		CanCreateDB:         true,
		CanDeleteDB:         false,
		CanCreateCollection: true,
		CanDeleteCollection: true,
		CanImport:           true,
		CanExport:           true,
	}
}

// AdminPermissions is stored on the bootstrap admin. The admin role bypasses
// the flags anyway.
func AdminPermissions() *Permissions {
	return DefaultPermissions()
}
