package core

import (
	"time"

	"github.com/edvin/mongoadmin/internal/authz"
	"github.com/edvin/mongoadmin/internal/session"
)

// Services groups every service the API layer calls.
type Services struct {
	Users       *UserService
	Auth        *AuthService
	Databases   *DatabaseService
	Collections *CollectionService
	Documents   *DocumentService
	Transfer    *TransferService
	Diagnostics *DiagnosticsService
	Engine      *authz.Engine
}

// Deps are the collaborators NewServices wires together.
type Deps struct {
	Store      Store
	Users      UserRepository
	Hasher     PasswordHasher
	Sessions   session.Store
	Engine     *authz.Engine
	SessionTTL time.Duration
	MongoURI   string
}

func NewServices(d Deps) *Services {
	users := NewUserService(d.Users, d.Hasher)
	return &Services{
		Users:       users,
		Auth:        NewAuthService(users, d.Sessions, d.SessionTTL),
		Databases:   NewDatabaseService(d.Store, d.Engine),
		Collections: NewCollectionService(d.Store, d.Engine),
		Documents:   NewDocumentService(d.Store, d.Engine),
		Transfer:    NewTransferService(d.Store, d.Engine),
		Diagnostics: NewDiagnosticsService(d.Store, d.Engine, d.MongoURI),
		Engine:      d.Engine,
	}
}
