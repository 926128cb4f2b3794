// Package validation holds the naming rules for databases, collections,
// emails and documents. All checks run before any store access.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxDatabaseNameLength   = 63
	MaxCollectionNameLength = 255
	MinPasswordLength       = 6
)

var (
	databaseNamePattern   = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,63}$`)
	collectionNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]{1,255}$`)
	emailPattern          = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	usernamePattern       = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)
)

var reservedDatabaseNames = map[string]struct{}{
	"admin":  {},
	"local":  {},
	"config": {},
	"system": {},
}

// DatabaseName checks name and returns it trimmed.
func DatabaseName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("database name cannot be empty")
	}
	if len(name) > MaxDatabaseNameLength {
		return "", fmt.Errorf("database name cannot exceed %d characters", MaxDatabaseNameLength)
	}
	if _, reserved := reservedDatabaseNames[strings.ToLower(name)]; reserved {
		return "", fmt.Errorf("database name %q is reserved and cannot be used", name)
	}
	if !databaseNamePattern.MatchString(name) {
		return "", errors.New("database name can only contain letters, numbers, underscores, and hyphens")
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") {
		return "", errors.New("database name cannot start with '-' or '_'")
	}
	return name, nil
}

// CollectionName checks name and returns it trimmed.
func CollectionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("collection name cannot be empty")
	}
	if len(name) > MaxCollectionNameLength {
		return "", fmt.Errorf("collection name cannot exceed %d characters", MaxCollectionNameLength)
	}
	if strings.HasPrefix(name, "system.") {
		return "", errors.New("collection name cannot start with 'system.'")
	}
	if !collectionNamePattern.MatchString(name) {
		return "", errors.New("collection name can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return name, nil
}

func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsUsername reports whether s is an acceptable legacy username.
func IsUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

func Password(pw string) error {
	if len(pw) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// DocumentKeys rejects empty documents and top-level operator keys.
// $oid and $date are tolerated for Extended JSON input.
func DocumentKeys(keys []string) error {
	if len(keys) == 0 {
		return errors.New("document cannot be empty")
	}
	for _, k := range keys {
		if strings.HasPrefix(k, "$") && k != "$oid" && k != "$date" {
			return fmt.Errorf("invalid key %q: operators are not allowed in document fields", k)
		}
	}
	return nil
}
