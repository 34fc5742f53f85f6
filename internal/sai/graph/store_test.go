package graph

import (
	"testing"

	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeyAndEntryKeyRendering(t *testing.T) {
	assert.Equal(t, "port:0x0000000000000005", ObjectKey("port", 5))

	mac := codec.Value{Type: codec.MACAddr, MAC: [6]byte{0xaa, 0xbb, 0xcc, 0, 0x11, 0x22}}
	bv := codec.Value{Type: codec.OIDVal, U: 0x10}
	key, err := EntryKey("fdb_entry", []EntryKeyValue{
		{Field: metadata.EntryKeyField{Name: "bv"}, Value: bv},
		{Field: metadata.EntryKeyField{Name: "mac"}, Value: mac},
	})
	require.NoError(t, err)
	assert.Equal(t, "fdb_entry:bv:0x0000000000000010;mac:aa:bb:cc:00:11:22", key)
}

func TestCreateExistsRemove(t *testing.T) {
	s := NewStore()
	k := ObjectKey("port", 1)
	assert.False(t, s.Exists(k))
	require.NoError(t, s.Create(k))
	assert.True(t, s.Exists(k))

	err := s.Create(k)
	assert.ErrorIs(t, err, ErrKeyExists)

	s.Remove(k)
	assert.False(t, s.Exists(k))
}

func TestSetAttrAndGetPreviousAttr(t *testing.T) {
	s := NewStore()
	k := ObjectKey("port", 1)
	require.NoError(t, s.Create(k))

	_, ok := s.GetPreviousAttr(k, 3)
	assert.False(t, ok)

	v := codec.Value{Type: codec.Uint32, U: 100}
	require.NoError(t, s.SetAttr(k, 3, v))

	got, ok := s.GetPreviousAttr(k, 3)
	require.True(t, ok)
	assert.Equal(t, v, got)
}

func TestSetAttrDeepCopies(t *testing.T) {
	s := NewStore()
	k := ObjectKey("port", 1)
	require.NoError(t, s.Create(k))

	v := codec.Value{Type: codec.OIDListVal, OIDs: []uint64{1, 2, 3}}
	require.NoError(t, s.SetAttr(k, 2, v))
	v.OIDs[0] = 99

	got, _ := s.GetPreviousAttr(k, 2)
	assert.Equal(t, uint64(1), got.OIDs[0], "store must not alias caller's slice")
}

func TestRefCountLifecycle(t *testing.T) {
	s := NewStore()
	s.RefInsert(0x10)
	assert.Equal(t, int64(0), s.RefCount(0x10))

	s.RefInc(0x10)
	s.RefInc(0x10)
	assert.Equal(t, int64(2), s.RefCount(0x10))

	require.NoError(t, s.RefDec(0x10))
	assert.Equal(t, int64(1), s.RefCount(0x10))

	require.NoError(t, s.RefDec(0x10))
	err := s.RefDec(0x10)
	assert.ErrorIs(t, err, ErrNegativeRefCount)

	s.RefRemove(0x10)
	assert.Equal(t, int64(0), s.RefCount(0x10))
}

func TestRefIncDecList(t *testing.T) {
	s := NewStore()
	s.RefInsert(1)
	s.RefInsert(2)
	s.RefIncList([]uint64{1, 2, 1})
	assert.Equal(t, int64(2), s.RefCount(1))
	assert.Equal(t, int64(1), s.RefCount(2))

	require.NoError(t, s.RefDecList([]uint64{1, 2}))
	assert.Equal(t, int64(1), s.RefCount(1))
	assert.Equal(t, int64(0), s.RefCount(2))
}

func TestKeyTupleUniqueness(t *testing.T) {
	s := NewStore()
	k1 := ObjectKey("port", 1)
	k2 := ObjectKey("port", 2)
	require.NoError(t, s.Create(k1))
	require.NoError(t, s.Create(k2))

	require.NoError(t, s.SetKeyTuple("port", k1, "2=1,2,3"))
	err := s.SetKeyTuple("port", k2, "2=1,2,3")
	assert.ErrorIs(t, err, ErrKeyTupleExists)

	// re-setting the same key with the same tuple is not a collision
	require.NoError(t, s.SetKeyTuple("port", k1, "2=1,2,3"))

	tuple, ok := s.KeyTupleOf(k1)
	require.True(t, ok)
	assert.Equal(t, "2=1,2,3", tuple)

	s.RemoveKeyTuple("port", k1)
	_, ok = s.KeyTupleOf(k1)
	assert.False(t, ok)

	// tuple is now free for reuse
	require.NoError(t, s.SetKeyTuple("port", k2, "2=1,2,3"))
}

func TestOIDTypeRegistration(t *testing.T) {
	s := NewStore()
	s.RefInsert(7)
	_, ok := s.OIDType(7)
	assert.False(t, ok, "snooped OIDs have no registered type")

	s.RegisterOIDType(7, "port")
	ot, ok := s.OIDType(7)
	require.True(t, ok)
	assert.Equal(t, metadata.ObjectType("port"), ot)

	s.RefRemove(7)
	_, ok = s.OIDType(7)
	assert.False(t, ok)
}

func TestRefExists(t *testing.T) {
	s := NewStore()
	assert.False(t, s.RefExists(42))
	s.RefInsert(42)
	assert.True(t, s.RefExists(42))
}

func TestTupleExists(t *testing.T) {
	s := NewStore()
	assert.False(t, s.TupleExists("port", "2=1,2,3"))
	assert.False(t, s.TupleExists("port", ""))

	k := ObjectKey("port", 1)
	require.NoError(t, s.Create(k))
	require.NoError(t, s.SetKeyTuple("port", k, "2=1,2,3"))
	assert.True(t, s.TupleExists("port", "2=1,2,3"))
	assert.False(t, s.TupleExists("vlan", "2=1,2,3"))
}

func TestSingleton(t *testing.T) {
	s := NewStore()
	assert.False(t, s.HasSingleton("switch"))
	s.MarkSingleton("switch")
	assert.True(t, s.HasSingleton("switch"))
	assert.False(t, s.HasSingleton("port"))
}

func TestKeysByType(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Create(ObjectKey("port", 1)))
	require.NoError(t, s.Create(ObjectKey("port", 2)))
	require.NoError(t, s.Create(ObjectKey("vlan", 1)))

	keys := s.KeysByType("port")
	assert.ElementsMatch(t, []string{ObjectKey("port", 1), ObjectKey("port", 2)}, keys)
	assert.Empty(t, s.KeysByType("bridge"))
}

func TestKeyTupleBuilder(t *testing.T) {
	attrs := map[metadata.AttrID]codec.Value{
		2: {Type: codec.Uint32ListVal, U32s: []uint32{7, 8, 9}},
	}
	tuple, err := KeyTuple(attrs, []metadata.AttrID{2})
	require.NoError(t, err)
	assert.Equal(t, "2=3:7,8,9", tuple)
}
