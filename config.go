// This file is part of Patchpoint project, available at https://github.com/almkvist/patchpoint
// Copyright (c) 2025-2026 Patchpoint authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at https://www.apache.org/licenses/LICENSE-2.0
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package patchpoint

import (
	"fmt"

	"github.com/caarlos0/env/v8"
)

type toggleEnv struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`
}

/*
EnvToggle returns a [Toggle] backed by the <prefix>ENABLED environment
variable, e.g. EnvToggle("RECOIL_") reads RECOIL_ENABLED. Suppression
defaults to enabled when the variable is unset.

The environment is re-read on every call, so changing the variable between
two invocations changes the very next decision. A value that does not parse
as a boolean falls back to the default.
*/
func EnvToggle(prefix string) (Toggle, error) {
	read := func() (bool, error) {
		cfg := toggleEnv{}
		err := env.ParseWithOptions(&cfg, env.Options{Prefix: prefix})
		if err != nil {
			return true, err
		}
		return cfg.Enabled, nil
	}

	if _, err := read(); err != nil {
		return nil, fmt.Errorf("parse %sENABLED: %w", prefix, err)
	}
	return func() bool {
		v, _ := read()
		return v
	}, nil
}
