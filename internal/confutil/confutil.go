// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package confutil loads TOML configuration files.
package confutil

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// DecodeFile decodes a TOML file into v. Keys, which are not present in v, are an error.
// Values missing in the file are left unchanged, so v may be filled with defaults beforehand.
func DecodeFile(path string, v interface{}) error {
	meta, err := toml.DecodeFile(path, v)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}
