// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"sync"

	"github.com/luxfi/math/set"

	"github.com/luxfi/teleport"
)

// AccessList is the registry of controllers permitted to perform
// privileged operations. Membership is growth-only through Authorize:
// only an existing controller may add another, so the trust root is
// self-perpetuating and must be seeded at construction time.
type AccessList struct {
	mu      sync.RWMutex
	order   []teleport.Address
	members set.Set[teleport.Address]
}

// NewAccessList builds an access list seeded with the bootstrap
// controllers from deployment configuration.
func NewAccessList(bootstrap ...teleport.Address) *AccessList {
	l := &AccessList{
		members: set.NewSet[teleport.Address](len(bootstrap)),
	}
	for _, controller := range bootstrap {
		l.add(controller)
	}
	return l
}

// Authorize adds controller to the set. It fails with an unauthorized
// error when the caller is not itself a controller; a duplicate add by an
// authorized caller is a no-op.
func (l *AccessList) Authorize(caller, controller teleport.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.members.Contains(caller) {
		return teleport.Errorf(teleport.CodeUnauthorized, "caller %s is not a controller", caller)
	}
	l.add(controller)
	return nil
}

// IsAuthorized reports whether caller is a current controller.
func (l *AccessList) IsAuthorized(caller teleport.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.members.Contains(caller)
}

// Controllers returns the controllers in the order they were added.
func (l *AccessList) Controllers() []teleport.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]teleport.Address(nil), l.order...)
}

func (l *AccessList) add(controller teleport.Address) {
	if l.members.Contains(controller) {
		return
	}
	l.members.Add(controller)
	l.order = append(l.order, controller)
}

// take drains the list for a snapshot export.
func (l *AccessList) take() []teleport.Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	order := l.order
	l.order = nil
	l.members.Clear()
	return order
}

func (l *AccessList) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = nil
	l.members.Clear()
}

// replace installs a previously exported controller list.
func (l *AccessList) replace(controllers []teleport.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = nil
	l.members.Clear()
	for _, controller := range controllers {
		l.add(controller)
	}
}
