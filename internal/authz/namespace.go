package authz

import (
	"regexp"
	"strings"
)

// DefaultNamespace is used for an empty identity.
const DefaultNamespace = "ns_default__"

const (
	namespacePrefix = "ns_"
	namespaceSuffix = "__"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Namespace derives the database-name prefix owned by an identity (email or
// legacy username). Distinct identities may normalize to the same namespace.
func Namespace(identity string) string {
	if identity == "" {
		return DefaultNamespace
	}
	normalized := nonAlphanumeric.ReplaceAllString(strings.ToLower(identity), "_")
	return namespacePrefix + normalized + namespaceSuffix
}

// Qualify prefixes name with ns unless it already carries it.
func Qualify(ns, name string) string {
	if strings.HasPrefix(name, ns) {
		return name
	}
	return ns + name
}
