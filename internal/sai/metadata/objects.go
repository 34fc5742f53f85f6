package metadata

import "github.com/sonic-net/sai-redis-go/internal/sai/codec"

// SwitchIDAttr is the attribute id every OID-identified, non-switch
// object type reserves for its owning switch handle (mandatory,
// create-only, OID-constrained to "switch"). Real SAI assigns each
// object type's SWITCH_ID attribute a type-specific numeric id; this
// shim gives it the same id everywhere for simplicity, since attribute
// ids are only ever compared within a single object type's namespace.
const SwitchIDAttr AttrID = 1

func oidAttr(id AttrID, name string, flags AttrFlag, allowed []ObjectType, allowNull bool) AttrMeta {
	return AttrMeta{
		ID:    id,
		Name:  name,
		Value: codec.OIDVal,
		Flags: flags,
		OIDConstraint: &OIDConstraint{
			AllowedTypes: allowed,
			AllowNull:    allowNull,
		},
	}
}

func switchIDAttr() AttrMeta {
	return oidAttr(SwitchIDAttr, "SWITCH_ID", MandatoryOnCreate|CreateOnly, []ObjectType{"switch"}, false)
}

func constBool(b bool) DefaultStrategy {
	return DefaultStrategy{Kind: DefaultConst, Const: codec.Value{Type: codec.Bool, B: b}}
}

func constU32(v uint32) DefaultStrategy {
	return DefaultStrategy{Kind: DefaultConst, Const: codec.Value{Type: codec.Uint32, U: uint64(v)}}
}

func constEnum(v int32) DefaultStrategy {
	return DefaultStrategy{Kind: DefaultConst, Const: codec.Value{Type: codec.Int32, I: int64(v)}}
}

// Enum domain member values, named the way spec.md's GLOSSARY and
// original_source/meta/sai_meta.h name their SAI counterparts.
const (
	PacketActionForward = 0
	PacketActionDrop    = 1
	PacketActionTrap    = 2
	PacketActionCopy    = 3
)

const (
	AdminStateDown = 0
	AdminStateUp   = 1
)

const (
	RIFTypePort = 0
	RIFTypeVlan = 1
)

const (
	NextHopTypeIP = 0
)

const (
	NextHopGroupTypeECMP = 0
)

const (
	TunnelTypeIPInIP    = 0
	TunnelTypeIPInIPGRE = 1
)

const (
	ACLStageIngress = 0
	ACLStageEgress  = 1
)

const (
	BindPointPort = 0
	BindPointLAG  = 1
	BindPointVLAN = 2
)

const (
	BridgePortTypePort = 0
)

const (
	BridgeType1Q = 0
)

const (
	VlanTaggingModeTagged   = 0
	VlanTaggingModeUntagged = 1
)

const (
	SchedulerTypeStrict = 0
	SchedulerTypeWRR    = 1
)

const (
	MirrorTypeLocal  = 0
	MirrorTypeRemote = 1
)

const (
	HostifTrapActionDrop = 0
	HostifTrapActionTrap = 1
)

func buildEnums() map[string]EnumDomain {
	mk := func(name string, members map[int64]string) EnumDomain {
		return EnumDomain{Name: name, Members: members}
	}
	return map[string]EnumDomain{
		"packet_action": mk("packet_action", map[int64]string{
			PacketActionForward: "FORWARD",
			PacketActionDrop:    "DROP",
			PacketActionTrap:    "TRAP",
			PacketActionCopy:    "COPY",
		}),
		"rif_type": mk("rif_type", map[int64]string{
			RIFTypePort: "PORT",
			RIFTypeVlan: "VLAN",
		}),
		"next_hop_type": mk("next_hop_type", map[int64]string{
			NextHopTypeIP: "IP",
		}),
		"next_hop_group_type": mk("next_hop_group_type", map[int64]string{
			NextHopGroupTypeECMP: "ECMP",
		}),
		"tunnel_type": mk("tunnel_type", map[int64]string{
			TunnelTypeIPInIP:    "IPINIP",
			TunnelTypeIPInIPGRE: "IPINIP_GRE",
		}),
		"acl_stage": mk("acl_stage", map[int64]string{
			ACLStageIngress: "INGRESS",
			ACLStageEgress:  "EGRESS",
		}),
		"bind_point_type": mk("bind_point_type", map[int64]string{
			BindPointPort: "PORT",
			BindPointLAG:  "LAG",
			BindPointVLAN: "VLAN",
		}),
		"bridge_port_type": mk("bridge_port_type", map[int64]string{
			BridgePortTypePort: "PORT",
		}),
		"bridge_type": mk("bridge_type", map[int64]string{
			BridgeType1Q: "1Q",
		}),
		"vlan_tagging_mode": mk("vlan_tagging_mode", map[int64]string{
			VlanTaggingModeTagged:   "TAGGED",
			VlanTaggingModeUntagged: "UNTAGGED",
		}),
		"scheduler_type": mk("scheduler_type", map[int64]string{
			SchedulerTypeStrict: "STRICT",
			SchedulerTypeWRR:    "WRR",
		}),
		"mirror_type": mk("mirror_type", map[int64]string{
			MirrorTypeLocal:  "LOCAL",
			MirrorTypeRemote: "REMOTE",
		}),
		"hostif_trap_action": mk("hostif_trap_action", map[int64]string{
			HostifTrapActionDrop: "DROP",
			HostifTrapActionTrap: "TRAP",
		}),
	}
}

// buildRegistry constructs the process-wide Schema. The tables below
// hand-author, for a representative slice of SAI object types, exactly
// the shape spec.md §3–§4 generalizes: identity (OID vs. structured
// key), per-attribute flags, default strategy, OID-referent
// constraints, enum domains, and disjunctive conditions. The original
// implementation's equivalent tables are machine-generated from SAI's
// XML attribute definitions (original_source/meta/gen.cpp); that
// generation step is out of this shim's scope (spec.md §1), so these
// are hand-written literals playing the generator's role.
func buildRegistry() *Schema {
	s := &Schema{
		objectTypes: make(map[ObjectType]ObjectTypeMeta),
		enums:       buildEnums(),
	}

	attrs := func(ms ...AttrMeta) map[AttrID]AttrMeta {
		out := make(map[AttrID]AttrMeta, len(ms))
		for _, m := range ms {
			out[m.ID] = m
		}
		return out
	}

	// switch: the root singleton. No SWITCH_ID attribute — it has no
	// owner. INIT_SWITCH is the boolean that brings it into existence;
	// PORT_NUMBER/PORT_LIST/CPU_PORT/DEFAULT_TRAP_GROUP are read-only; the
	// vswitch backend populates nothing on init and answers a get of one
	// with its zero value unless it has stored a value. PORT_MAX_MTU
	// is read-only under normal operation; S6's unit-test escape hatch is
	// the only path that can ever SET it (spec.md §4.4.3, §8 S6).
	s.objectTypes["switch"] = ObjectTypeMeta{
		Type:        "switch",
		IsSingleton: true,
		Unremovable: true,
		Attrs: attrs(
			AttrMeta{ID: 1, Name: "INIT_SWITCH", Value: codec.Bool, Flags: MandatoryOnCreate | CreateOnly},
			AttrMeta{ID: 2, Name: "PORT_NUMBER", Value: codec.Uint32, Flags: ReadOnly},
			func() AttrMeta {
				m := oidAttr(3, "PORT_LIST", ReadOnly, []ObjectType{"port"}, false)
				m.Value = codec.OIDListVal
				return m
			}(),
			oidAttr(4, "CPU_PORT", ReadOnly, []ObjectType{"port"}, false),
			oidAttr(5, "DEFAULT_TRAP_GROUP", ReadOnly, []ObjectType{"hostif_trap_group"}, true),
			AttrMeta{ID: 6, Name: "PORT_MAX_MTU", Value: codec.Uint32, Flags: ReadOnly},
		),
		Stats: []StatsCounter{
			{ID: 1, Name: "SAI_SWITCH_STAT_IN_PACKETS"},
			{ID: 2, Name: "SAI_SWITCH_STAT_OUT_PACKETS"},
		},
	}

	// port: HW_LANE_LIST is the KEY attribute (S3's uniqueness check).
	s.objectTypes["port"] = ObjectTypeMeta{
		Type: "port",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "HW_LANE_LIST", Value: codec.Uint32ListVal, Flags: MandatoryOnCreate | CreateOnly | Key},
			AttrMeta{ID: 3, Name: "SPEED", Value: codec.Uint32, Flags: MandatoryOnCreate | CreateAndSet},
			AttrMeta{ID: 4, Name: "ADMIN_STATE", Value: codec.Bool, Flags: CreateAndSet, Default: constBool(true)},
			AttrMeta{ID: 5, Name: "MTU", Value: codec.Uint32, Flags: CreateAndSet, Default: constU32(1514)},
			AttrMeta{ID: 6, Name: "OPER_STATUS", Value: codec.Int32, Flags: ReadOnly},
		),
		Stats: []StatsCounter{
			{ID: 1, Name: "SAI_PORT_STAT_IF_IN_OCTETS"},
			{ID: 2, Name: "SAI_PORT_STAT_IF_OUT_OCTETS"},
		},
	}

	// stp: minimal, exists only so vlan.STP_INSTANCE (S2) has a referent
	// object type to point at.
	s.objectTypes["stp"] = ObjectTypeMeta{
		Type:  "stp",
		Attrs: attrs(switchIDAttr()),
	}

	// vlan: VLAN_ID is the KEY attribute; the validator does not
	// range-check its value. STP_INSTANCE is the
	// mandatory-on-create OID that S2's scenario omits.
	s.objectTypes["vlan"] = ObjectTypeMeta{
		Type: "vlan",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "VLAN_ID", Value: codec.Uint16, Flags: MandatoryOnCreate | CreateOnly | Key},
			oidAttr(3, "STP_INSTANCE", MandatoryOnCreate|CreateAndSet, []ObjectType{"stp"}, false),
		),
	}

	s.objectTypes["vlan_member"] = ObjectTypeMeta{
		Type: "vlan_member",
		Attrs: attrs(
			switchIDAttr(),
			oidAttr(2, "VLAN_ID", MandatoryOnCreate|CreateOnly, []ObjectType{"vlan"}, false),
			oidAttr(3, "BRIDGE_PORT_ID", MandatoryOnCreate|CreateOnly, []ObjectType{"bridge_port"}, false),
			AttrMeta{ID: 4, Name: "TAGGING_MODE", Value: codec.Int32, Flags: CreateAndSet, Default: constEnum(VlanTaggingModeTagged), EnumDomain: "vlan_tagging_mode"},
		),
	}

	s.objectTypes["bridge"] = ObjectTypeMeta{
		Type: "bridge",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "TYPE", Value: codec.Int32, Flags: MandatoryOnCreate | CreateOnly, Default: constEnum(BridgeType1Q), EnumDomain: "bridge_type"},
		),
	}

	s.objectTypes["bridge_port"] = ObjectTypeMeta{
		Type: "bridge_port",
		Attrs: attrs(
			switchIDAttr(),
			oidAttr(2, "PORT_ID", MandatoryOnCreate|CreateOnly, []ObjectType{"port"}, false),
			AttrMeta{ID: 3, Name: "TYPE", Value: codec.Int32, Flags: CreateAndSet, Default: constEnum(BridgePortTypePort), EnumDomain: "bridge_port_type"},
		),
	}

	s.objectTypes["virtual_router"] = ObjectTypeMeta{
		Type: "virtual_router",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "ADMIN_V4_STATE", Value: codec.Bool, Flags: CreateAndSet, Default: constBool(true)},
		),
	}

	// router_interface: PORT_ID is conditional, active (and mandatory)
	// only when TYPE == PORT — the same disjunctive-condition shape S4
	// exercises for tunnel.ENCAP_GRE_KEY, one layer simpler (single
	// disjunct instead of needing a second sibling).
	s.objectTypes["router_interface"] = ObjectTypeMeta{
		Type: "router_interface",
		Attrs: attrs(
			switchIDAttr(),
			oidAttr(2, "VIRTUAL_ROUTER_ID", MandatoryOnCreate|CreateOnly, []ObjectType{"virtual_router"}, false),
			AttrMeta{ID: 3, Name: "TYPE", Value: codec.Int32, Flags: MandatoryOnCreate | CreateOnly, EnumDomain: "rif_type"},
			func() AttrMeta {
				m := oidAttr(4, "PORT_ID", MandatoryOnCreate|CreateOnly, []ObjectType{"port"}, false)
				m.Conditions = []Condition{{AttrID: 3, Literal: RIFTypePort}}
				return m
			}(),
			AttrMeta{ID: 5, Name: "MTU", Value: codec.Uint32, Flags: CreateAndSet, Default: constU32(1500)},
		),
	}

	s.objectTypes["next_hop"] = ObjectTypeMeta{
		Type: "next_hop",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "TYPE", Value: codec.Int32, Flags: MandatoryOnCreate | CreateOnly, EnumDomain: "next_hop_type", Default: constEnum(NextHopTypeIP)},
			oidAttr(3, "ROUTER_INTERFACE_ID", MandatoryOnCreate|CreateOnly, []ObjectType{"router_interface"}, false),
			AttrMeta{ID: 4, Name: "IP", Value: codec.IPAddr, Flags: MandatoryOnCreate | CreateOnly},
		),
	}

	s.objectTypes["next_hop_group"] = ObjectTypeMeta{
		Type: "next_hop_group",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "TYPE", Value: codec.Int32, Flags: MandatoryOnCreate | CreateOnly, EnumDomain: "next_hop_group_type", Default: constEnum(NextHopGroupTypeECMP)},
		),
	}

	s.objectTypes["next_hop_group_member"] = ObjectTypeMeta{
		Type: "next_hop_group_member",
		Attrs: attrs(
			switchIDAttr(),
			oidAttr(2, "NEXT_HOP_GROUP_ID", MandatoryOnCreate|CreateOnly, []ObjectType{"next_hop_group"}, false),
			oidAttr(3, "NEXT_HOP_ID", MandatoryOnCreate|CreateOnly, []ObjectType{"next_hop"}, false),
			AttrMeta{ID: 4, Name: "WEIGHT", Value: codec.Uint32, Flags: CreateAndSet, Default: constU32(1)},
		),
	}

	// route_entry: structured key (switch, virtual_router, ip_prefix).
	// NEXT_HOP_ID may reference either a next_hop or a next_hop_group,
	// and is nullable (a DROP route has no next hop).
	s.objectTypes["route_entry"] = ObjectTypeMeta{
		Type:    "route_entry",
		IsEntry: true,
		EntryKey: []EntryKeyField{
			{Name: "switch", Kind: EntryFieldOID, ParentType: "switch"},
			{Name: "vr", Kind: EntryFieldOID, ParentType: "virtual_router"},
			{Name: "prefix", Kind: EntryFieldIPPrefix},
		},
		Attrs: attrs(
			oidAttr(1, "NEXT_HOP_ID", CreateAndSet, []ObjectType{"next_hop", "next_hop_group"}, true),
			AttrMeta{ID: 2, Name: "PACKET_ACTION", Value: codec.Int32, Flags: CreateAndSet, EnumDomain: "packet_action", Default: constEnum(PacketActionForward)},
		),
	}

	// neighbor_entry: structured key (switch, router_interface, ip).
	s.objectTypes["neighbor_entry"] = ObjectTypeMeta{
		Type:    "neighbor_entry",
		IsEntry: true,
		EntryKey: []EntryKeyField{
			{Name: "switch", Kind: EntryFieldOID, ParentType: "switch"},
			{Name: "rif", Kind: EntryFieldOID, ParentType: "router_interface"},
			{Name: "ip", Kind: EntryFieldIPAddr},
		},
		Attrs: attrs(
			AttrMeta{ID: 1, Name: "DST_MAC_ADDRESS", Value: codec.MACAddr, Flags: MandatoryOnCreate | CreateAndSet},
		),
	}

	// fdb_entry: structured key (switch, bridge ["bv"], mac) — the
	// canonical key grammar's own worked example (spec.md §3).
	s.objectTypes["fdb_entry"] = ObjectTypeMeta{
		Type:    "fdb_entry",
		IsEntry: true,
		EntryKey: []EntryKeyField{
			{Name: "switch", Kind: EntryFieldOID, ParentType: "switch"},
			{Name: "bv", Kind: EntryFieldOID, ParentType: "bridge"},
			{Name: "mac", Kind: EntryFieldMAC},
		},
		Attrs: attrs(
			oidAttr(1, "BRIDGE_PORT_ID", MandatoryOnCreate|CreateAndSet, []ObjectType{"bridge_port"}, false),
			AttrMeta{ID: 2, Name: "PACKET_ACTION", Value: codec.Int32, Flags: CreateAndSet, EnumDomain: "packet_action", Default: constEnum(PacketActionForward)},
		),
	}

	s.objectTypes["acl_table"] = ObjectTypeMeta{
		Type: "acl_table",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "ACL_STAGE", Value: codec.Int32, Flags: MandatoryOnCreate | CreateOnly, EnumDomain: "acl_stage"},
			AttrMeta{ID: 3, Name: "ACL_BIND_POINT_TYPES", Value: codec.Int32ListVal, Flags: MandatoryOnCreate | CreateOnly, EnumDomain: "bind_point_type"},
		),
	}

	s.objectTypes["acl_entry"] = ObjectTypeMeta{
		Type: "acl_entry",
		Attrs: attrs(
			switchIDAttr(),
			oidAttr(2, "TABLE_ID", MandatoryOnCreate|CreateOnly, []ObjectType{"acl_table"}, false),
			AttrMeta{ID: 3, Name: "PRIORITY", Value: codec.Uint32, Flags: CreateAndSet, Default: constU32(0)},
			AttrMeta{ID: 4, Name: "FIELD_SRC_IP", Value: codec.ACLFieldVal, Flags: CreateAndSet},
			func() AttrMeta {
				m := oidAttr(5, "ACTION_REDIRECT", CreateAndSet, []ObjectType{"port"}, true)
				m.Value = codec.ACLActionVal
				return m
			}(),
		),
	}

	// tunnel: ENCAP_GRE_KEY is conditional on ENCAP_GRE_KEY_VALID, the
	// exact scenario S4 (spec.md §8) exercises end to end.
	s.objectTypes["tunnel"] = ObjectTypeMeta{
		Type: "tunnel",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "TYPE", Value: codec.Int32, Flags: MandatoryOnCreate | CreateOnly, EnumDomain: "tunnel_type"},
			AttrMeta{ID: 3, Name: "ENCAP_GRE_KEY_VALID", Value: codec.Bool, Flags: CreateAndSet, Default: constBool(false)},
			func() AttrMeta {
				return AttrMeta{
					ID: 4, Name: "ENCAP_GRE_KEY", Value: codec.Uint32, Flags: MandatoryOnCreate | CreateAndSet,
					Conditions: []Condition{{AttrID: 3, Literal: 1}},
				}
			}(),
		),
	}

	s.objectTypes["qos_map"] = ObjectTypeMeta{
		Type: "qos_map",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "TYPE", Value: codec.Int32, Flags: MandatoryOnCreate | CreateOnly},
			AttrMeta{ID: 3, Name: "MAP_TO_VALUE_LIST", Value: codec.QosMapListVal, Flags: CreateAndSet, Default: DefaultStrategy{Kind: DefaultEmptyList}},
		),
	}

	s.objectTypes["scheduler"] = ObjectTypeMeta{
		Type: "scheduler",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "SCHEDULING_TYPE", Value: codec.Int32, Flags: CreateAndSet, EnumDomain: "scheduler_type", Default: constEnum(SchedulerTypeWRR)},
			AttrMeta{ID: 3, Name: "WEIGHT", Value: codec.Uint32, Flags: CreateAndSet, Default: constU32(1)},
		),
	}

	// wred: GREEN_MIN_THRESHOLD is conditional on GREEN_ENABLE, same
	// shape as tunnel's ENCAP_GRE_KEY.
	s.objectTypes["wred"] = ObjectTypeMeta{
		Type: "wred",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "GREEN_ENABLE", Value: codec.Bool, Flags: CreateAndSet, Default: constBool(false)},
			AttrMeta{
				ID: 3, Name: "GREEN_MIN_THRESHOLD", Value: codec.Uint32, Flags: MandatoryOnCreate | CreateAndSet,
				Conditions: []Condition{{AttrID: 2, Literal: 1}},
			},
		),
	}

	s.objectTypes["hostif_trap_group"] = ObjectTypeMeta{
		Type: "hostif_trap_group",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "QUEUE", Value: codec.Uint32, Flags: CreateAndSet, Default: constU32(0)},
		),
	}

	// hostif_trap: TRAP_TYPE is KEY-flagged, same as vlan's VLAN_ID, so
	// the create path's KEY-tuple uniqueness check (pre-check 10) also
	// enforces pre-check 9's "trap identity must not already exist"
	// (spec.md §4.4.1 names switch/vlan/trap as the three objects that
	// require it).
	s.objectTypes["hostif_trap"] = ObjectTypeMeta{
		Type:        "hostif_trap",
		Unremovable: true,
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "TRAP_TYPE", Value: codec.Int32, Flags: MandatoryOnCreate | CreateOnly | Key},
			AttrMeta{ID: 3, Name: "PACKET_ACTION", Value: codec.Int32, Flags: CreateAndSet, EnumDomain: "hostif_trap_action", Default: constEnum(HostifTrapActionTrap)},
			oidAttr(4, "TRAP_GROUP", CreateAndSet, []ObjectType{"hostif_trap_group"}, true),
		),
	}

	s.objectTypes["mirror_session"] = ObjectTypeMeta{
		Type: "mirror_session",
		Attrs: attrs(
			switchIDAttr(),
			AttrMeta{ID: 2, Name: "TYPE", Value: codec.Int32, Flags: MandatoryOnCreate | CreateOnly, EnumDomain: "mirror_type"},
			oidAttr(3, "MONITOR_PORT", MandatoryOnCreate|CreateOnly, []ObjectType{"port"}, false),
		),
	}

	return s
}
