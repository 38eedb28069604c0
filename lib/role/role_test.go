// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package role

import (
	"testing"

	"github.com/parlor-foundation/parlor/lib/ref"
)

var (
	host    = ref.MustIdentity("host-aaaaa-cai")
	creator = ref.MustIdentity("creator-bbbbb-cai")
	other   = ref.MustIdentity("other-ccccc-cai")
)

func TestForChannel(t *testing.T) {
	if c := ForChannel(host, host); !c.Rename || !c.Delete {
		t.Errorf("host capabilities = %+v", c)
	}
	if c := ForChannel(other, host); c.Rename || c.Delete {
		t.Errorf("non-host capabilities = %+v", c)
	}
	if c := ForChannel(ref.Identity{}, ref.Identity{}); c.Rename {
		t.Errorf("zero identities granted rename: %+v", c)
	}
}

func TestForMembersChannel(t *testing.T) {
	if c := ForMembersChannel(creator, host, creator); !c.Rename {
		t.Errorf("creator capabilities = %+v", c)
	}
	if c := ForMembersChannel(host, host, creator); !c.Delete {
		t.Errorf("host moderation capabilities = %+v", c)
	}
	if c := ForMembersChannel(other, host, creator); c.Rename || c.Delete {
		t.Errorf("bystander capabilities = %+v", c)
	}
}

func TestForDocument(t *testing.T) {
	c := ForDocument(creator, host, creator)
	if !c.Edit || !c.Rename || !c.Delete {
		t.Errorf("creator capabilities = %+v", c)
	}
	if c.ToggleLock {
		t.Error("creator granted lock toggle; that belongs to the host")
	}

	c = ForDocument(host, host, creator)
	if !c.ToggleLock || !c.Rename {
		t.Errorf("host capabilities = %+v", c)
	}

	c = ForDocument(other, host, creator)
	if !c.Edit {
		t.Error("ordinary member denied edit")
	}
	if c.Rename || c.Delete || c.ToggleLock {
		t.Errorf("ordinary member over-granted: %+v", c)
	}

	if c := ForDocument(ref.Identity{}, host, creator); c.Edit {
		t.Error("zero caller granted edit")
	}
}

func TestForPlayerDocument(t *testing.T) {
	owner := creator

	c := ForPlayerDocument(owner, host, owner)
	if !c.Edit || !c.ViewPrivate {
		t.Errorf("owner capabilities = %+v", c)
	}

	c = ForPlayerDocument(host, host, owner)
	if c.Edit {
		t.Error("host granted edit on a player document")
	}
	if !c.ViewPrivate {
		t.Error("host denied moderation view of a private player document")
	}

	c = ForPlayerDocument(other, host, owner)
	if c.Edit || c.ViewPrivate {
		t.Errorf("bystander capabilities = %+v", c)
	}
}
