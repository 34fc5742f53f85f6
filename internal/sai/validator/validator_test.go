package validator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/graph"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/pipeline"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
)

// fakeExecutor is a channel-backed stand-in for the remote executor:
// mutating calls are recorded but never block (matching spec.md §5's
// "mutating calls do not wait"); synchronous calls consume whatever
// response the test has queued ahead of time.
type fakeExecutor struct {
	mu        sync.Mutex
	pushed    []pipeline.Message
	responses chan pipeline.Message
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{responses: make(chan pipeline.Message, 32)}
}

func (f *fakeExecutor) Push(ctx context.Context, msg pipeline.Message) error {
	f.mu.Lock()
	f.pushed = append(f.pushed, msg)
	f.mu.Unlock()
	return nil
}

func (f *fakeExecutor) Del(ctx context.Context, key string, op pipeline.Op) error {
	return f.Push(ctx, pipeline.Message{Key: key, Op: op})
}

func (f *fakeExecutor) WaitResponse(ctx context.Context) (pipeline.Message, error) {
	select {
	case m := <-f.responses:
		return m, nil
	case <-ctx.Done():
		return pipeline.Message{}, ctx.Err()
	}
}

func (f *fakeExecutor) lastPush() pipeline.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushed[len(f.pushed)-1]
}

// queueSuccess stages a "getresponse" the next synchronous call will
// consume.
func (f *fakeExecutor) queueSuccess(fields pipeline.Fields) {
	if fields == nil {
		fields = pipeline.Fields{}
	}
	fields[pipeline.StatusFieldKey] = status.Success.Text()
	f.responses <- pipeline.Message{Op: pipeline.OpGetResponse, Fields: fields}
}

func newTestCore(t *testing.T) (*Core, *fakeExecutor) {
	t.Helper()
	ex := newFakeExecutor()
	return NewCore(metadata.Registry, graph.NewStore(), ex, zap.NewNop()), ex
}

func oidVal(oid uint64) codec.Value    { return codec.Value{Type: codec.OIDVal, U: oid} }
func boolVal(b bool) codec.Value       { return codec.Value{Type: codec.Bool, B: b} }
func u32Val(v uint32) codec.Value      { return codec.Value{Type: codec.Uint32, U: uint64(v)} }
func u16Val(v uint16) codec.Value      { return codec.Value{Type: codec.Uint16, U: uint64(v)} }
func enumVal(v int32) codec.Value      { return codec.Value{Type: codec.Int32, I: int64(v)} }
func u32ListVal(vs ...uint32) codec.Value {
	return codec.Value{Type: codec.Uint32ListVal, U32s: vs}
}
func ipv4Val(a, b, c, d byte) codec.Value {
	v := codec.Value{Type: codec.IPAddr}
	v.IP[0], v.IP[1], v.IP[2], v.IP[3] = a, b, c, d
	return v
}
func ipv4Prefix(a, b, c, d byte, prefixLen int) codec.Value {
	v := codec.Value{Type: codec.IPPrefixVal, PrefixLen: prefixLen}
	v.IP[0], v.IP[1], v.IP[2], v.IP[3] = a, b, c, d
	return v
}

func TestScenarioS1_SwitchAndPortList(t *testing.T) {
	c, ex := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	var portOIDs []uint64
	for i := uint32(0); i < 32; i++ {
		res := c.CreateOID(ctx, "port", map[metadata.AttrID]codec.Value{
			metadata.SwitchIDAttr: oidVal(sw.OID),
			2:                     u32ListVal(i, i + 1000),
			3:                     u32Val(40000),
		})
		require.Equal(t, status.Success, res.Status)
		portOIDs = append(portOIDs, res.OID)
	}

	ex.queueSuccess(pipeline.Fields{"2": "32"})
	got := c.GetOID(ctx, "switch", sw.OID, []metadata.AttrID{2})
	require.Equal(t, status.Success, got.Status)
	assert.Equal(t, uint64(32), got.Values[2].U)

	portListFields, err := pipeline.EncodeAttrs(map[metadata.AttrID]codec.Value{
		3: {Type: codec.OIDListVal, OIDs: portOIDs},
	})
	require.NoError(t, err)
	ex.queueSuccess(portListFields)
	got = c.GetOID(ctx, "switch", sw.OID, []metadata.AttrID{3})
	require.Equal(t, status.Success, got.Status)
	assert.ElementsMatch(t, portOIDs, got.Values[3].OIDs)
	assert.Len(t, got.Values[3].OIDs, 32)

	for _, oid := range portOIDs {
		owner, ok := c.OwningSwitchOf("port", oid)
		require.True(t, ok)
		assert.Equal(t, sw.OID, owner)
	}
}

func TestScenarioS2_VlanMandatoryMissing(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	res := c.CreateOID(ctx, "vlan", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     u16Val(10),
	})
	assert.Equal(t, status.MandatoryAttributeMissing, res.Status)
	assert.False(t, c.store.Exists(graph.ObjectKey("vlan", 1)))
}

func TestScenarioS3_PortKeyUniqueness(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	first := c.CreateOID(ctx, "port", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     u32ListVal(1, 2, 3, 4),
		3:                     u32Val(40000),
	})
	require.Equal(t, status.Success, first.Status)

	second := c.CreateOID(ctx, "port", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     u32ListVal(1, 2, 3, 4),
		3:                     u32Val(100000),
	})
	assert.Equal(t, status.InvalidParameter, second.Status)
}

func TestScenarioS4_TunnelConditionalActivation(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	ok := c.CreateOID(ctx, "tunnel", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     enumVal(metadata.TunnelTypeIPInIPGRE),
		3:                     boolVal(true),
		4:                     u32Val(0x1234),
	})
	assert.Equal(t, status.Success, ok.Status)

	bad := c.CreateOID(ctx, "tunnel", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     enumVal(metadata.TunnelTypeIPInIPGRE),
		3:                     boolVal(false),
		4:                     u32Val(0x1234),
	})
	assert.Equal(t, status.InvalidParameter, bad.Status)
}

func TestScenarioS5_RefCountDiscipline(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	vr := c.CreateOID(ctx, "virtual_router", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
	})
	require.Equal(t, status.Success, vr.Status)

	rif := c.CreateOID(ctx, "router_interface", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     oidVal(vr.OID),
		3:                     enumVal(metadata.RIFTypeVlan),
	})
	require.Equal(t, status.Success, rif.Status)
	assert.Equal(t, int64(0), c.store.RefCount(rif.OID))

	nh := c.CreateOID(ctx, "next_hop", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     enumVal(metadata.NextHopTypeIP),
		3:                     oidVal(rif.OID),
		4:                     ipv4Val(10, 0, 0, 1),
	})
	require.Equal(t, status.Success, nh.Status)
	assert.Equal(t, int64(1), c.store.RefCount(rif.OID))

	route := c.CreateEntry(ctx, "route_entry", []graph.EntryKeyValue{
		{Field: metadata.EntryKeyField{Name: "switch", Kind: metadata.EntryFieldOID, ParentType: "switch"}, Value: oidVal(sw.OID)},
		{Field: metadata.EntryKeyField{Name: "vr", Kind: metadata.EntryFieldOID, ParentType: "virtual_router"}, Value: oidVal(vr.OID)},
		{Field: metadata.EntryKeyField{Name: "prefix", Kind: metadata.EntryFieldIPPrefix}, Value: ipv4Prefix(10, 1, 0, 0, 24)},
	}, map[metadata.AttrID]codec.Value{
		1: oidVal(nh.OID),
	})
	require.Equal(t, status.Success, route.Status)
	assert.Equal(t, int64(1), c.store.RefCount(nh.OID))

	blocked := c.RemoveOID(ctx, "next_hop", nh.OID)
	assert.Equal(t, status.InvalidParameter, blocked, "next_hop is still referenced by route_entry")

	removeRoute := c.RemoveEntry(ctx, "route_entry", []graph.EntryKeyValue{
		{Field: metadata.EntryKeyField{Name: "switch", Kind: metadata.EntryFieldOID, ParentType: "switch"}, Value: oidVal(sw.OID)},
		{Field: metadata.EntryKeyField{Name: "vr", Kind: metadata.EntryFieldOID, ParentType: "virtual_router"}, Value: oidVal(vr.OID)},
		{Field: metadata.EntryKeyField{Name: "prefix", Kind: metadata.EntryFieldIPPrefix}, Value: ipv4Prefix(10, 1, 0, 0, 24)},
	})
	require.Equal(t, status.Success, removeRoute)
	assert.Equal(t, int64(0), c.store.RefCount(nh.OID))

	removeNH := c.RemoveOID(ctx, "next_hop", nh.OID)
	require.Equal(t, status.Success, removeNH)
	assert.Equal(t, int64(0), c.store.RefCount(rif.OID))
}

func TestScenarioS6_ReadOnlyEscapeHatch(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	first := c.SetOID(ctx, "switch", sw.OID, 6, u32Val(42))
	assert.Equal(t, status.InvalidParameter, first)

	c.EnableUnitTestMode()
	c.ArmReadOnlySet("switch", 6)

	armed := c.SetOID(ctx, "switch", sw.OID, 6, u32Val(42))
	assert.Equal(t, status.Success, armed)

	stored, ok := c.store.Attrs(graph.ObjectKey("switch", sw.OID))
	require.True(t, ok)
	assert.Equal(t, uint64(42), stored[6].U)

	second := c.SetOID(ctx, "switch", sw.OID, 6, u32Val(99))
	assert.Equal(t, status.InvalidParameter, second)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	c, ex := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	supplied := map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     u32ListVal(5, 6, 7, 8),
		3:                     u32Val(100000),
	}
	created := c.CreateOID(ctx, "port", supplied)
	require.Equal(t, status.Success, created.Status)
	assert.Equal(t, int64(0), c.store.RefCount(created.OID))

	fields, err := pipeline.EncodeAttrs(supplied)
	require.NoError(t, err)
	ex.queueSuccess(fields)

	got := c.GetOID(ctx, "port", created.OID, []metadata.AttrID{metadata.SwitchIDAttr, 2, 3})
	require.Equal(t, status.Success, got.Status)
	assert.Equal(t, supplied[2], got.Values[2])
	assert.Equal(t, supplied[3], got.Values[3])
}

func TestRemoveFailsForUnremovableSwitch(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	res := c.RemoveOID(ctx, "switch", sw.OID)
	assert.Equal(t, status.InvalidParameter, res, "switch is Unremovable regardless of ref count")
}

func TestSwitchIsSingleton(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	first := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, first.Status)

	second := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	assert.Equal(t, status.ItemAlreadyExists, second.Status)
}

func TestSetConditionalAttributeNotActive(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	tun := c.CreateOID(ctx, "tunnel", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     enumVal(metadata.TunnelTypeIPInIPGRE),
		3:                     boolVal(false),
	})
	require.Equal(t, status.Success, tun.Status)

	res := c.SetOID(ctx, "tunnel", tun.OID, 4, u32Val(0x99))
	assert.Equal(t, status.InvalidParameter, res, "ENCAP_GRE_KEY is not active while ENCAP_GRE_KEY_VALID is false")
}

func TestHostifTrapIdentityUniqueness(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	first := c.CreateOID(ctx, "hostif_trap", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     enumVal(5),
	})
	require.Equal(t, status.Success, first.Status)

	second := c.CreateOID(ctx, "hostif_trap", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     enumVal(5),
	})
	assert.Equal(t, status.InvalidParameter, second.Status, "a second trap with the same TRAP_TYPE must be rejected")

	other := c.CreateOID(ctx, "hostif_trap", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     enumVal(6),
	})
	assert.Equal(t, status.Success, other.Status, "a different TRAP_TYPE is a distinct identity")
}

func TestCreateBulkOID_PartialAcceptanceAndOneWireMessage(t *testing.T) {
	c, ex := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	results := c.CreateBulkOID(ctx, "port", []map[metadata.AttrID]codec.Value{
		{metadata.SwitchIDAttr: oidVal(sw.OID), 2: u32ListVal(1, 2), 3: u32Val(40000)},
		{metadata.SwitchIDAttr: oidVal(sw.OID), 2: u32ListVal(1, 2), 3: u32Val(50000)}, // key collision with the first
		{metadata.SwitchIDAttr: oidVal(sw.OID), 2: u32ListVal(3, 4), 3: u32Val(60000)},
	})
	require.Len(t, results, 3)
	assert.Equal(t, status.Success, results[0].Status)
	assert.Equal(t, status.InvalidParameter, results[1].Status)
	assert.Equal(t, status.Success, results[2].Status)
	assert.NotZero(t, results[0].OID)
	assert.NotZero(t, results[2].OID)

	last := ex.lastPush()
	assert.Equal(t, pipeline.OpBulkCreate, last.Op)
	assert.Len(t, last.Fields, 2, "only the two accepted elements travel on the wire")

	assert.Equal(t, int64(0), c.store.RefCount(results[0].OID))
}

func TestRemoveBulkOID_SkipsUnknownOID(t *testing.T) {
	c, ex := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	vr := c.CreateOID(ctx, "virtual_router", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
	})
	require.Equal(t, status.Success, vr.Status)

	rif := c.CreateOID(ctx, "router_interface", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     oidVal(vr.OID),
		3:                     enumVal(metadata.RIFTypeVlan),
	})
	require.Equal(t, status.Success, rif.Status)

	nh := c.CreateOID(ctx, "next_hop", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     enumVal(metadata.NextHopTypeIP),
		3:                     oidVal(rif.OID),
		4:                     ipv4Val(10, 0, 0, 1),
	})
	require.Equal(t, status.Success, nh.Status)

	results := c.RemoveBulkOID(ctx, "next_hop", []uint64{nh.OID, 0xdead})
	require.Len(t, results, 2)
	assert.Equal(t, status.Success, results[0])
	assert.Equal(t, status.InvalidParameter, results[1])
	assert.False(t, c.store.Exists(graph.ObjectKey("next_hop", nh.OID)))

	last := ex.lastPush()
	assert.Equal(t, pipeline.OpBulkRemove, last.Op)
	assert.Len(t, last.Fields, 1)
}

func TestSetBulkOID_OneAttrPerObject(t *testing.T) {
	c, ex := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)

	grp := c.CreateOID(ctx, "hostif_trap_group", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
	})
	require.Equal(t, status.Success, grp.Status)

	trap := c.CreateOID(ctx, "hostif_trap", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     enumVal(5),
	})
	require.Equal(t, status.Success, trap.Status)
	assert.Equal(t, int64(0), c.store.RefCount(grp.OID))

	results := c.SetBulkOID(ctx, "hostif_trap", []BulkSetOIDElement{
		{OID: trap.OID, Attr: 4, Value: oidVal(grp.OID)},
		{OID: 0xdead, Attr: 4, Value: oidVal(grp.OID)},
	})
	require.Len(t, results, 2)
	assert.Equal(t, status.Success, results[0])
	assert.Equal(t, status.InvalidParameter, results[1])
	assert.Equal(t, int64(1), c.store.RefCount(grp.OID))

	last := ex.lastPush()
	assert.Equal(t, pipeline.OpBulkSet, last.Op)
	assert.Len(t, last.Fields, 1)
}

func TestFlushFDB(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	sw := c.CreateOID(ctx, "switch", map[metadata.AttrID]codec.Value{1: boolVal(true)})
	require.Equal(t, status.Success, sw.Status)
	br := c.CreateOID(ctx, "bridge", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     enumVal(metadata.BridgeType1Q),
	})
	require.Equal(t, status.Success, br.Status)
	port := c.CreateOID(ctx, "port", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     u32ListVal(20, 21),
		3:                     u32Val(25000),
	})
	require.Equal(t, status.Success, port.Status)
	bp := c.CreateOID(ctx, "bridge_port", map[metadata.AttrID]codec.Value{
		metadata.SwitchIDAttr: oidVal(sw.OID),
		2:                     oidVal(port.OID),
	})
	require.Equal(t, status.Success, bp.Status)

	mac := codec.Value{Type: codec.MACAddr, MAC: [6]byte{0, 1, 2, 3, 4, 5}}
	entry := c.CreateEntry(ctx, "fdb_entry", []graph.EntryKeyValue{
		{Field: metadata.EntryKeyField{Name: "switch", Kind: metadata.EntryFieldOID, ParentType: "switch"}, Value: oidVal(sw.OID)},
		{Field: metadata.EntryKeyField{Name: "bv", Kind: metadata.EntryFieldOID, ParentType: "bridge"}, Value: oidVal(br.OID)},
		{Field: metadata.EntryKeyField{Name: "mac", Kind: metadata.EntryFieldMAC}, Value: mac},
	}, map[metadata.AttrID]codec.Value{1: oidVal(bp.OID)})
	require.Equal(t, status.Success, entry.Status)
	assert.Equal(t, int64(1), c.store.RefCount(br.OID))

	code := c.FlushFDB(ctx, FDBFlushFilter{Switch: sw.OID, HasBridge: true, Bridge: br.OID})
	assert.Equal(t, status.Success, code)
	assert.Equal(t, int64(0), c.store.RefCount(br.OID))
	assert.Empty(t, c.store.KeysByType("fdb_entry"))
}
