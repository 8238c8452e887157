package typeobj

import "github.com/chazu/extclass/arena"

// DefaultModule is the host runtime's canonical "no module" name, used when
// a descriptor declares no module.
const DefaultModule = "builtins"

// qualifiedName formats the host-visible type name.
func qualifiedName(module, name string) string {
	if module == "" {
		module = DefaultModule
	}
	return module + "." + name
}

// classDoc converts a descriptor doc string into a host-owned
// NUL-terminated buffer, or nil when the descriptor declares none. The
// buffer's ownership transfers to the host for the life of the process.
func classDoc(doc string) []byte {
	if doc == "" || doc == NoDoc {
		return nil
	}
	// CString panics on an interior NUL byte: doc strings come from the
	// descriptor producer, so that is a defect upstream, not a runtime
	// condition.
	return arena.Global.CString(doc)
}
