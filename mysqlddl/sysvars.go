package mysqlddl

import "strings"

// Scope identifies the visibility tier of a system variable assignment.
// SESSION and LOCAL are synonyms in this dialect: setting either satisfies
// lookups under both.
type Scope int

const (
	// ScopeDefault means no scope was given; assignments land in SESSION.
	ScopeDefault Scope = iota
	ScopeGlobal
	ScopeSession
	ScopeLocal
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "GLOBAL"
	case ScopeSession:
		return "SESSION"
	case ScopeLocal:
		return "LOCAL"
	}
	return "DEFAULT"
}

// SystemVariables is the scoped key-value store of server/session variables
// whose values influence DDL interpretation. Names are case-insensitive.
// Variables persist for the lifetime of the store; one store belongs to one
// interpreter instance and callers must serialize access.
type SystemVariables struct {
	global  map[string]string
	session map[string]string // shared by SESSION and LOCAL
}

// NewSystemVariables returns an empty store with no built-in defaults.
func NewSystemVariables() *SystemVariables {
	return &SystemVariables{
		global:  make(map[string]string),
		session: make(map[string]string),
	}
}

// Set records a variable value under the given scope. ScopeDefault behaves
// as SESSION and never touches GLOBAL.
func (v *SystemVariables) Set(name, value string, scope Scope) {
	var key = strings.ToLower(name)
	if scope == ScopeGlobal {
		v.global[key] = value
	} else {
		v.session[key] = value
	}
}

// Get looks a variable up without an explicit scope: SESSION/LOCAL first,
// then GLOBAL. The second return reports whether the name was set at all.
func (v *SystemVariables) Get(name string) (string, bool) {
	var key = strings.ToLower(name)
	if value, ok := v.session[key]; ok {
		return value, true
	}
	value, ok := v.global[key]
	return value, ok
}

// GetScoped looks a variable up under one specific scope. ScopeDefault falls
// back to the scope-free Get behavior.
func (v *SystemVariables) GetScoped(name string, scope Scope) (string, bool) {
	var key = strings.ToLower(name)
	switch scope {
	case ScopeGlobal:
		value, ok := v.global[key]
		return value, ok
	case ScopeSession, ScopeLocal:
		value, ok := v.session[key]
		return value, ok
	}
	return v.Get(name)
}

// Unset removes a variable from every scope it was set under.
func (v *SystemVariables) Unset(name string) {
	var key = strings.ToLower(name)
	delete(v.global, key)
	delete(v.session, key)
}
