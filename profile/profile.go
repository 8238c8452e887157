// Package profile resolves host-runtime capability profiles.
//
// Which construction mechanisms a host build supports is a property of the
// host version, decided once at startup: either a builtin preset named
// after the host release, or a hostabi.toml file shipped alongside an
// embedding. The resolved hostabi.Capabilities is then threaded explicitly
// into type construction; no code path consults a version number at
// runtime.
package profile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/chazu/extclass/hostabi"
)

// Profile is a named host runtime build plus its capability set.
type Profile struct {
	Host         Host         `toml:"host"`
	Capabilities Capabilities `toml:"capabilities"`
}

// Host identifies the runtime build the profile describes.
type Host struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Capabilities is the TOML shape of hostabi.Capabilities.
type Capabilities struct {
	SlotMembers          bool `toml:"slot-members"`
	ManualBufferPatch    bool `toml:"manual-buffer-patch"`
	ManualDocPatch       bool `toml:"manual-doc-patch"`
	GenericDictAccessors bool `toml:"generic-dict-accessors"`
}

// Resolve converts the profile to the capability set type construction
// consumes.
func (p *Profile) Resolve() hostabi.Capabilities {
	return hostabi.Capabilities{
		SlotMembers:          p.Capabilities.SlotMembers,
		ManualBufferPatch:    p.Capabilities.ManualBufferPatch,
		ManualDocPatch:       p.Capabilities.ManualDocPatch,
		GenericDictAccessors: p.Capabilities.GenericDictAccessors,
	}
}

// Load parses a capability profile from a TOML file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if p.Host.Name == "" {
		return nil, fmt.Errorf("%s: missing host.name", path)
	}
	return &p, nil
}

// builtins encodes the capability boundaries of the host releases we know:
// slot-based member registration arrived in 3.9, buffer-protocol slots
// started working in 3.9, doc buffers stopped being stripped in 3.10, and
// the alternate GC-incompatible implementation ("pypy") has no generic
// dict accessors and must never take the manual doc patch.
var builtins = map[string]Profile{
	"cpython36": cpythonLegacy("3.6"),
	"cpython37": cpythonLegacy("3.7"),
	"cpython38": cpythonLegacy("3.8"),
	"cpython39": {
		Host: Host{Name: "cpython", Version: "3.9"},
		Capabilities: Capabilities{
			SlotMembers:          true,
			ManualDocPatch:       true,
			GenericDictAccessors: true,
		},
	},
	"cpython310": cpythonModern("3.10"),
	"cpython311": cpythonModern("3.11"),
	"cpython312": cpythonModern("3.12"),
	"pypy37": {
		Host: Host{Name: "pypy", Version: "3.7"},
		Capabilities: Capabilities{
			ManualBufferPatch: true,
		},
	},
	"pypy39": {
		Host: Host{Name: "pypy", Version: "3.9"},
		Capabilities: Capabilities{
			SlotMembers: true,
		},
	},
}

func cpythonLegacy(version string) Profile {
	return Profile{
		Host: Host{Name: "cpython", Version: version},
		Capabilities: Capabilities{
			ManualBufferPatch:    true,
			ManualDocPatch:       true,
			GenericDictAccessors: true,
		},
	}
}

func cpythonModern(version string) Profile {
	return Profile{
		Host: Host{Name: "cpython", Version: version},
		Capabilities: Capabilities{
			SlotMembers:          true,
			GenericDictAccessors: true,
		},
	}
}

// Builtin returns a copy of the named builtin profile.
func Builtin(name string) (*Profile, error) {
	p, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("profile: unknown builtin profile %q", name)
	}
	return &p, nil
}

// Default returns the newest builtin profile.
func Default() *Profile {
	p := builtins["cpython312"]
	return &p
}
