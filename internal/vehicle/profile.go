package vehicle

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ProfileFor returns the built-in tuning for a named vehicle variant.
func ProfileFor(variant string) (Options, error) {
	switch variant {
	case "", "coupe":
		return DefaultOptions(), nil
	case "truck":
		return TruckOptions(), nil
	}
	return Options{}, fmt.Errorf("unknown vehicle variant %q", variant)
}

// LoadProfile reads a TOML tuning file over the given base options. Keys
// absent from the file keep their base values, so profiles only carry the
// constants they change.
func LoadProfile(path string, base Options) (Options, error) {
	opts := base
	meta, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, fmt.Errorf("load profile %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Options{}, fmt.Errorf("profile %s has unknown keys: %v", path, undecoded)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return opts, nil
}
