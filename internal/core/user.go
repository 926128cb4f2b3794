package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/edvin/mongoadmin/internal/authz"
	"github.com/edvin/mongoadmin/internal/model"
	"github.com/edvin/mongoadmin/internal/validation"
)

// NewUser is the input for UserService.Create. Exactly one of Email and
// Username is expected; email accounts are the default path.
type NewUser struct {
	Email       string
	Username    string
	Password    string
	Role        model.Role
	Permissions *model.Permissions
}

type UserService struct {
	repo   UserRepository
	hasher PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(repo UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{repo: repo, hasher: hasher}
}

func (s *UserService) Create(ctx context.Context, in NewUser) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	switch {
	case email == "" && username == "":
		return nil, Invalid("an email or username is required")
	case email != "" && !validation.IsEmail(email):
		return nil, Invalid("invalid email address")
	case email == "" && !validation.IsUsername(username):
		return nil, Invalid("invalid username")
	}
	if err := validation.Password(in.Password); err != nil {
		return nil, Invalid("%s", err.Error())
	}

	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		return nil, Invalid("unknown role %q", role)
	}
	perms := in.Permissions
	if perms == nil {
		perms = model.DefaultPermissions()
	}

	u := &model.User{
		Email:       email,
		Role:        role,
		Permissions: perms,
		CreatedAt:   time.Now().UTC(),
	}
	if email == "" {
		u.Username = username
	}

	if err := s.ensureUnique(ctx, u); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	u.Namespace = authz.Namespace(u.Identity())

	if err := s.repo.Insert(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, Conflict("an account with this identity already exists")
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u.Sanitized(), nil
}

func (s *UserService) ensureUnique(ctx context.Context, u *model.User) error {
	var err error
	if u.Email != "" {
		_, err = s.repo.FindByEmail(ctx, u.Email)
	} else {
		_, err = s.repo.FindByUsername(ctx, u.Username)
	}
	switch {
	case err == nil:
		return Conflict("an account with this identity already exists")
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("check identity: %w", err)
	}

	taken, err := s.repo.NamespaceTaken(ctx, authz.Namespace(u.Identity()))
	if err != nil {
		return fmt.Errorf("check namespace: %w", err)
	}
	if taken {
		return Conflict("this identity maps to a namespace that is already in use")
	}
	return nil
}

// Signup creates a regular email account with default permissions.
func (s *UserService) Signup(ctx context.Context, email, password string) (*model.User, error) {
	return s.Create(ctx, NewUser{
		Email:       email,
		Password:    password,
		Role:        model.RoleUser,
		Permissions: model.DefaultPermissions(),
	})
}

// Authenticate checks identity and password. The returned user is sanitized.
func (s *UserService) Authenticate(ctx context.Context, identity, password string) (*model.User, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" || password == "" {
		return nil, Invalid("identity and password are required")
	}

	u, err := s.find(ctx, identity)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		// Keep the timing of unknown identities close to a real mismatch.
		s.hasher.Verify(s.dummy(), password)
		return nil, Unauthorized("invalid credentials")
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, Unauthorized("invalid credentials")
	}
	return u.Sanitized(), nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("mongoadmin-dummy-password")
	})
	return s.dummyHash
}

func (s *UserService) find(ctx context.Context, identity string) (*model.User, error) {
	if strings.Contains(identity, "@") {
		return s.repo.FindByEmail(ctx, strings.ToLower(identity))
	}
	return s.repo.FindByUsername(ctx, identity)
}

func (s *UserService) LookupByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, lookupError(err)
	}
	return u.Sanitized(), nil
}

func (s *UserService) LookupByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, lookupError(err)
	}
	return u.Sanitized(), nil
}

// Lookup resolves an identity the same way Authenticate does.
func (s *UserService) Lookup(ctx context.Context, identity string) (*model.User, error) {
	if strings.Contains(identity, "@") {
		return s.LookupByEmail(ctx, identity)
	}
	return s.LookupByUsername(ctx, identity)
}

func lookupError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return NotFound("user not found")
	}
	return fmt.Errorf("find user: %w", err)
}

// EnsureDefaultAdmin creates the legacy admin account if it does not exist.
// created is false when the account was already there.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("find admin: %w", err)
	}

	_, err = s.Create(ctx, NewUser{
		Username:    username,
		Password:    password,
		Role:        model.RoleAdmin,
		Permissions: model.AdminPermissions(),
	})
	if KindOf(err) == KindConflict {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
