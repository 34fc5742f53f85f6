package metadata

import (
	"testing"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryObjectTypesRegistered(t *testing.T) {
	for _, ot := range []ObjectType{
		"switch", "port", "vlan", "vlan_member", "bridge", "bridge_port", "stp",
		"virtual_router", "router_interface", "next_hop", "next_hop_group",
		"next_hop_group_member", "route_entry", "neighbor_entry", "fdb_entry",
		"acl_table", "acl_entry", "tunnel", "qos_map", "scheduler", "wred",
		"hostif_trap_group", "hostif_trap", "mirror_session",
	} {
		_, ok := Registry.ObjectTypeMeta(ot)
		assert.True(t, ok, "object type %q must be registered", ot)
	}
}

func TestPortHWLaneListIsKey(t *testing.T) {
	m, ok := Registry.AttrMeta("port", 2)
	require.True(t, ok)
	assert.Equal(t, "HW_LANE_LIST", m.Name)
	assert.True(t, m.Flags.Has(Key))
	assert.True(t, m.Flags.Has(MandatoryOnCreate))
	assert.True(t, m.Flags.Has(CreateOnly))
}

func TestVlanSTPInstanceIsMandatoryOID(t *testing.T) {
	m, ok := Registry.AttrMeta("vlan", 3)
	require.True(t, ok)
	assert.Equal(t, "STP_INSTANCE", m.Name)
	assert.True(t, m.Flags.Has(MandatoryOnCreate))
	require.NotNil(t, m.OIDConstraint)
	assert.Equal(t, []ObjectType{"stp"}, m.OIDConstraint.AllowedTypes)
	assert.False(t, m.OIDConstraint.AllowNull)
}

func TestTunnelEncapGREKeyConditionalOnValidFlag(t *testing.T) {
	otMeta, ok := Registry.ObjectTypeMeta("tunnel")
	require.True(t, ok)
	key, ok := otMeta.AttrMeta(4)
	require.True(t, ok)
	assert.True(t, key.IsConditional())

	valid := codec.Value{Type: codec.Bool, B: true}
	invalid := codec.Value{Type: codec.Bool, B: false}

	assert.True(t, Registry.ConditionActive("tunnel", key, map[AttrID]codec.Value{3: valid}))
	assert.False(t, Registry.ConditionActive("tunnel", key, map[AttrID]codec.Value{3: invalid}))

	// Omitted entirely: falls back to the sibling's default (false), so
	// the condition is inactive.
	assert.False(t, Registry.ConditionActive("tunnel", key, map[AttrID]codec.Value{}))
}

func TestRouterInterfacePortIDConditionalOnType(t *testing.T) {
	otMeta, ok := Registry.ObjectTypeMeta("router_interface")
	require.True(t, ok)
	portID, ok := otMeta.AttrMeta(4)
	require.True(t, ok)

	active := Registry.ConditionActive("router_interface", portID, map[AttrID]codec.Value{
		3: {Type: codec.Int32, I: RIFTypePort},
	})
	assert.True(t, active)

	inactive := Registry.ConditionActive("router_interface", portID, map[AttrID]codec.Value{
		3: {Type: codec.Int32, I: RIFTypeVlan},
	})
	assert.False(t, inactive)
}

func TestRouteEntryEntryKeyShape(t *testing.T) {
	m, ok := Registry.ObjectTypeMeta("route_entry")
	require.True(t, ok)
	assert.True(t, m.IsEntry)
	require.Len(t, m.EntryKey, 3)
	assert.Equal(t, "vr", m.EntryKey[1].Name)
	assert.Equal(t, ObjectType("virtual_router"), m.EntryKey[1].ParentType)
	assert.Equal(t, EntryFieldIPPrefix, m.EntryKey[2].Kind)
}

func TestEnumDomainMembership(t *testing.T) {
	d, ok := Registry.EnumDomain("tunnel_type")
	require.True(t, ok)
	assert.True(t, d.Contains(TunnelTypeIPInIPGRE))
	assert.False(t, d.Contains(99))
}

func TestKeyAttrsSorted(t *testing.T) {
	m, ok := Registry.ObjectTypeMeta("port")
	require.True(t, ok)
	assert.Equal(t, []AttrID{2}, m.KeyAttrs())
}

func TestScalarAsInt64BoolCoercion(t *testing.T) {
	v, ok := ScalarAsInt64(codec.Value{Type: codec.Bool, B: true})
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
}
