package validator

import "github.com/sonic-net/sai-redis-go/internal/sai/metadata"

// unitTestTarget names exactly the (object type, attribute) pair a
// single permitted flag-bypassing set is armed for (spec.md §4.4.5).
type unitTestTarget struct {
	ot   metadata.ObjectType
	attr metadata.AttrID
}

// unitTestState holds the opt-in unit-test mode toggle and the
// one-shot armed override. This is the only construct allowed to
// bypass the normal schema checks (spec.md §4.4.5).
type unitTestState struct {
	enabled bool
	armed   *unitTestTarget
}

// EnableUnitTestMode flips on the escape-hatch mode. Until this is
// called, ArmReadOnlySet has no effect and every set still enforces
// READ_ONLY/CREATE_ONLY/KEY normally.
func (c *Core) EnableUnitTestMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ut.enabled = true
}

// UnitTestModeEnabled reports the current toggle state.
func (c *Core) UnitTestModeEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ut.enabled
}

// ArmReadOnlySet arms exactly one permitted override of the normal
// flag check on the next set call against (ot, attr). A no-op unless
// unit-test mode is enabled.
func (c *Core) ArmReadOnlySet(ot metadata.ObjectType, attr metadata.AttrID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ut.enabled {
		return
	}
	c.ut.armed = &unitTestTarget{ot: ot, attr: attr}
}

// consumeUnitTestReadOnlyOverride reports whether (ot, attr) currently
// matches the armed override, consuming it if so. Caller must hold
// c.mu.
func (c *Core) consumeUnitTestReadOnlyOverride(ot metadata.ObjectType, attr metadata.AttrID) bool {
	if c.ut.armed == nil || c.ut.armed.ot != ot || c.ut.armed.attr != attr {
		return false
	}
	c.ut.armed = nil
	return true
}
