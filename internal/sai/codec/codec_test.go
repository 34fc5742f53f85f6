package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, v Value) string {
	t.Helper()
	s, err := Serialize(v)
	require.NoError(t, err)

	got, err := Deserialize(v.Type, s)
	require.NoError(t, err)
	assert.Equal(t, v, got, "deserialize(serialize(v)) must equal v")

	s2, err := Serialize(got)
	require.NoError(t, err)
	assert.Equal(t, s, s2, "serialize(deserialize(s)) must equal s for canonical s")
	return s
}

func TestRoundTripScalars(t *testing.T) {
	roundTrip(t, Value{Type: Bool, B: true})
	roundTrip(t, Value{Type: Bool, B: false})
	roundTrip(t, Value{Type: Uint32, U: 4294967295})
	roundTrip(t, Value{Type: Int32, I: -12345})
	roundTrip(t, Value{Type: Uint64, U: 18446744073709551615})
	roundTrip(t, Value{Type: Int64, I: -9223372036854775808})
}

func TestRoundTripMAC(t *testing.T) {
	v := Value{Type: MACAddr, MAC: [6]byte{0xaa, 0xbb, 0xcc, 0x00, 0x11, 0x22}}
	s := roundTrip(t, v)
	assert.Equal(t, "aa:bb:cc:00:11:22", s)
}

func TestRoundTripIPv4(t *testing.T) {
	var v Value
	v.Type = IPv4Addr
	copy(v.IP[:4], []byte{192, 168, 1, 1})
	s := roundTrip(t, v)
	assert.Equal(t, "192.168.1.1", s)
}

func TestRoundTripIPv6(t *testing.T) {
	v, err := Deserialize(IPv6Addr, "2001:db8::1")
	require.NoError(t, err)
	roundTrip(t, v)
}

func TestRoundTripIPv4Prefix(t *testing.T) {
	v, err := Deserialize(IPPrefixVal, "10.0.0.0/8")
	require.NoError(t, err)
	assert.False(t, v.IsV6)
	assert.Equal(t, 8, v.PrefixLen)
	roundTrip(t, v)
}

func TestRoundTripIPv6Prefix(t *testing.T) {
	v, err := Deserialize(IPPrefixVal, "2001:db8::/32")
	require.NoError(t, err)
	assert.True(t, v.IsV6)
	assert.Equal(t, 32, v.PrefixLen)
	roundTrip(t, v)
}

func TestRoundTripOID(t *testing.T) {
	v := Value{Type: OIDVal, U: 0x1122334455}
	s := roundTrip(t, v)
	assert.Equal(t, "0x0000001122334455", s)
}

func TestRoundTripOIDList(t *testing.T) {
	v := Value{Type: OIDListVal, OIDs: []uint64{1, 2, 3}}
	roundTrip(t, v)

	empty := Value{Type: OIDListVal}
	s, err := Serialize(empty)
	require.NoError(t, err)
	assert.Equal(t, "0:", s)
}

func TestRoundTripU32List(t *testing.T) {
	v := Value{Type: Uint32ListVal, U32s: []uint32{1, 2, 3, 4}}
	roundTrip(t, v)
}

func TestRoundTripQosMapList(t *testing.T) {
	v := Value{Type: QosMapListVal, QosMaps: []QosMapEntry{{Key: 0, Value: 1}, {Key: 2, Value: 3}}}
	roundTrip(t, v)
}

func TestRoundTripACLField(t *testing.T) {
	v := Value{Type: ACLFieldVal, ACLField: &ACLFieldValue{Enable: true, Data: 42, Mask: 0xff}}
	roundTrip(t, v)

	v2 := Value{Type: ACLFieldVal, ACLField: &ACLFieldValue{Enable: false, Data: 0}}
	roundTrip(t, v2)
}

func TestRoundTripACLAction(t *testing.T) {
	v := Value{Type: ACLActionVal, ACLAction: &ACLActionValue{Enable: true, OID: 0x99}}
	roundTrip(t, v)
}

func TestRoundTripRange(t *testing.T) {
	v := Value{Type: RangeVal, RangeMin: 10, RangeMax: 20}
	roundTrip(t, v)

	_, err := Serialize(Value{Type: RangeVal, RangeMin: 20, RangeMax: 10})
	assert.Error(t, err)
}

func TestRoundTripTunnelMapList(t *testing.T) {
	v := Value{Type: TunnelMapListVal, TunnelMaps: []TunnelMapEntry{{MapType: 1, MapOID: 0x10}}}
	roundTrip(t, v)
}

func TestRoundTripSegmentList(t *testing.T) {
	a, err := Deserialize(IPv6Addr, "2001:db8::1")
	require.NoError(t, err)
	b, err := Deserialize(IPv6Addr, "2001:db8::2")
	require.NoError(t, err)
	v := Value{Type: SegmentListVal, Segments: [][16]byte{a.IP, b.IP}}
	roundTrip(t, v)
}

func TestRoundTripCharData(t *testing.T) {
	v := Value{Type: CharDataVal, Str: "Ethernet0"}
	roundTrip(t, v)
}

func TestIPv6MaskPrefixLen(t *testing.T) {
	tests := []struct {
		name    string
		mask    [16]byte
		wantLen int
		wantOK  bool
	}{
		{"all zero", [16]byte{}, 0, true},
		{"all ones", [16]byte{
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		}, 128, true},
		{"/64", [16]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 64, true},
		{"/1", [16]byte{0x80}, 1, true},
		{"non-contiguous", [16]byte{0xff, 0x00, 0xff}, 0, false},
		{"trailing one bit", [16]byte{0xff, 0xf0, 0x00, 0x01}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := IPv6MaskPrefixLen(tt.mask)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantLen, n)
			}
		})
	}
}

func TestIPv6PrefixLenToMaskRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 63, 64, 65, 127, 128} {
		mask := IPv6PrefixLenToMask(n)
		got, ok := IPv6MaskPrefixLen(mask)
		require.True(t, ok)
		assert.Equal(t, n, got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	v := Value{Type: OIDListVal, OIDs: []uint64{1, 2, 3}}
	c := v.Clone()
	c.OIDs[0] = 99
	assert.Equal(t, uint64(1), v.OIDs[0], "mutating the clone must not affect the original")
}

func TestOIDRefs(t *testing.T) {
	v := Value{Type: OIDListVal, OIDs: []uint64{5, 6}}
	assert.Equal(t, []uint64{5, 6}, v.OIDRefs())

	a := Value{Type: ACLActionVal, ACLAction: &ACLActionValue{Enable: false, OID: 42}}
	assert.Nil(t, a.OIDRefs())

	a2 := Value{Type: ACLActionVal, ACLAction: &ACLActionValue{Enable: true, OID: 42}}
	assert.Equal(t, []uint64{42}, a2.OIDRefs())
}
