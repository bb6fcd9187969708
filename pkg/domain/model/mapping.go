package model

import "strings"

// AuthorMapping resolves authors from raw commit identity signals. Keys are
// matched case-insensitively.
type AuthorMapping struct {
	byEmail map[string]string
	byName  map[string]string
}

// NewAuthorMapping creates a mapping from email->author and name->author tables.
// Either table may be nil.
func NewAuthorMapping(emailToAuthor, nameToAuthor map[string]string) *AuthorMapping {
	return &AuthorMapping{
		byEmail: lowerKeys(emailToAuthor),
		byName:  lowerKeys(nameToAuthor),
	}
}

// ByEmail looks up an author by email
func (m *AuthorMapping) ByEmail(email string) (string, bool) {
	return lookup(m.byEmail, email)
}

// ByName looks up an author by name
func (m *AuthorMapping) ByName(name string) (string, bool) {
	return lookup(m.byName, name)
}

func lookup(table map[string]string, key string) (string, bool) {
	if key == "" || table == nil {
		return "", false
	}
	author, ok := table[strings.ToLower(key)]
	if !ok || author == "" {
		return "", false
	}
	return author, true
}

func lowerKeys(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[strings.ToLower(k)] = v
	}
	return dst
}
