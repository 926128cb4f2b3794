package core

import (
	"github.com/edvin/mongoadmin/internal/authz"
	"github.com/edvin/mongoadmin/internal/model"
	"github.com/edvin/mongoadmin/internal/validation"
)

const msgNoDatabaseAccess = "you don't have access to this database"

// authorizeDatabase validates db and checks namespace ownership. The
// denial does not reveal whether db exists.
func authorizeDatabase(engine *authz.Engine, u *model.User, db string) (string, error) {
	name, err := validation.DatabaseName(db)
	if err != nil {
		return "", Invalid("%s", err.Error())
	}
	if !engine.CanAccessDatabase(u, name) {
		return "", Forbidden(msgNoDatabaseAccess)
	}
	return name, nil
}

func authorizeCollection(engine *authz.Engine, u *model.User, db, coll string) (string, string, error) {
	dbName, err := authorizeDatabase(engine, u, db)
	if err != nil {
		return "", "", err
	}
	collName, err := validation.CollectionName(coll)
	if err != nil {
		return "", "", Invalid("%s", err.Error())
	}
	return dbName, collName, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
