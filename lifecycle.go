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

//go:build ((linux || freebsd || netbsd || openbsd || dragonfly) && (amd64 || arm64)) || (windows && amd64)

package patchpoint

import (
	"fmt"
	"reflect"

	"github.com/apex/log"
)

// State is the lifecycle state of a Controller.
type State uint8

const (
	Unloaded State = iota
	Resolving
	Installing
	Active
	Uninstalling
	// Failed is terminal: the feature is unavailable for this load, there is
	// no partial or degraded mode.
	Failed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Resolving:
		return "resolving"
	case Installing:
		return "installing"
	case Active:
		return "active"
	case Uninstalling:
		return "uninstalling"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Config wires a Controller to its collaborators. All fields except Logger
// are required.
type Config struct {
	// Signatures holds the per-platform patterns for the one target function.
	Signatures Store
	// Image provides the code region to scan. It is called once per load.
	Image func() (Region, error)
	// Replacement is the callback the detour branches to: a top-level,
	// non-capturing function with the exact signature of the target.
	Replacement any
	// Toggle is the read accessor of the externally owned suppression
	// setting. The controller reads it, it never writes it.
	Toggle Toggle
	// Logger receives stage transitions and failure causes. Defaults to the
	// process logger.
	Logger log.Interface
}

/*
Controller orchestrates the load and unload of the interception:

	Unloaded -> Resolving -> Installing -> Active -> Uninstalling -> Unloaded

with Failed reachable from Resolving, Installing and Uninstalling. A failure
during load aborts the whole load; nothing stays half-installed.
*/
type Controller struct {
	cfg    Config
	log    log.Interface
	state  State
	policy *Policy
	addr   Address
	handle *Handle
}

// NewController validates the wiring and returns a Controller in the
// Unloaded state. Nothing is resolved or installed yet.
func NewController(cfg Config) (*Controller, error) {
	if len(cfg.Signatures) == 0 {
		return nil, fmt.Errorf("controller config: no signatures")
	}
	if cfg.Image == nil {
		return nil, fmt.Errorf("controller config: no image source")
	}
	if reflect.ValueOf(cfg.Replacement).Kind() != reflect.Func {
		return nil, fmt.Errorf("controller config: replacement: %w", ErrNotFunction)
	}
	if cfg.Toggle == nil {
		return nil, fmt.Errorf("controller config: no toggle")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Log
	}
	return &Controller{
		cfg:    cfg,
		log:    logger,
		state:  Unloaded,
		policy: NewPolicy(cfg.Toggle),
	}, nil
}

/*
OnLoad is the host load hook: resolve the signature, install the detour,
enter Active. The host must call it exactly once, before OnUnload.

Any stage failure moves the Controller to Failed and returns an error naming
the stage and cause; the returned error wraps one of [ErrSignatureNotFound],
[ErrSignatureAmbiguous], [ErrPlatformMismatch], [ErrBadPattern],
[ErrAlreadyInstalled] or [ErrDetourInstall].
*/
func (c *Controller) OnLoad() error {
	if c.state != Unloaded {
		return fmt.Errorf("%w: OnLoad in state %s", ErrBadState, c.state)
	}

	c.state = Resolving
	c.log.WithField("platform", HostPlatform()).Debug("resolving target signature")
	addr, err := c.resolve()
	if err != nil {
		return c.fail("resolve", err)
	}
	c.addr = addr
	c.log.WithField("address", addr.String()).Debug("target resolved")

	c.state = Installing
	h, err := Install(addr, FuncEntry(c.cfg.Replacement))
	if err != nil {
		return c.fail("install", err)
	}
	c.handle = h
	c.state = Active
	c.log.WithField("address", addr.String()).Info("interception active")
	return nil
}

func (c *Controller) resolve() (Address, error) {
	sig, err := c.cfg.Signatures.ForHost()
	if err != nil {
		return 0, err
	}
	region, err := c.cfg.Image()
	if err != nil {
		return 0, fmt.Errorf("%w: image unavailable: %v", ErrSignatureNotFound, err)
	}
	return sig.Resolve(region)
}

/*
OnUnload is the host unload hook: remove the detour and return to Unloaded.
An uninstall failure is escalated, not swallowed - the Controller moves to
Failed and the error wraps [ErrDetourUninstall], since a dangling redirect in
an unloading process is unsafe.
*/
func (c *Controller) OnUnload() error {
	if c.state != Active {
		return fmt.Errorf("%w: OnUnload in state %s", ErrBadState, c.state)
	}

	c.state = Uninstalling
	if err := c.handle.Uninstall(); err != nil {
		return c.fail("uninstall", err)
	}
	c.handle = nil
	c.addr = 0
	c.state = Unloaded
	c.log.Info("interception removed, original behaviour restored")
	return nil
}

func (c *Controller) fail(stage string, err error) error {
	c.state = Failed
	wrapped := fmt.Errorf("%s stage: %w", stage, err)
	c.log.WithError(wrapped).Error("interception unavailable")
	return wrapped
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Target returns the resolved target address, zero before a successful load.
func (c *Controller) Target() Address {
	return c.addr
}

// Decide consults the interception policy for the current call. The toggle
// is re-read, so the decision always reflects the setting at this moment.
func (c *Controller) Decide() Decision {
	return c.policy.Decide()
}

// Original runs call with the detour lifted, for replacements that decided
// to Continue. Outside the Active state the call runs directly.
func (c *Controller) Original(call func()) {
	c.handle.Original(call)
}

// Handle returns the installed detour handle, nil unless Active.
func (c *Controller) Handle() *Handle {
	return c.handle
}
