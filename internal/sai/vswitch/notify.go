package vswitch

import (
	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/graph"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/status"
	"github.com/sonic-net/sai-redis-go/internal/sai/validator"
)

// FDBNotifier delivers a dynamically learned FDB entry into a
// validator.Core the same way a GET-triggered snoop backfills an
// unknown OID (spec.md §4.4.4), generalized to structured-key objects.
// Grounded on original_source/meta/sai_meta.h's meta_sai_on_fdb_event
// notification path, which spec.md's distillation dropped (see
// DESIGN.md "Supplemented from original_source/").
type FDBNotifier struct {
	core *validator.Core
}

// NewFDBNotifier wraps the validator.Core that owns the object graph
// fdb_entry notifications should land in.
func NewFDBNotifier(core *validator.Core) *FDBNotifier {
	return &FDBNotifier{core: core}
}

// Notify tells core a fdb_entry identified by keyValues now exists with
// attrs, as if the ASIC had just learned it off the wire rather than a
// caller issuing create_entry for it.
func (n *FDBNotifier) Notify(keyValues []graph.EntryKeyValue, attrs map[metadata.AttrID]codec.Value) status.Code {
	return n.core.SnoopEntry("fdb_entry", keyValues, attrs)
}

// SimulateLearn is the Simulator-side hook a test drives to pretend the
// fixture just observed a new MAC on the wire: it records the entry so
// a later "get" on it echoes the learned attributes, and, if notifier
// is non-nil, pushes the same entry into the validator's object graph.
func (s *Simulator) SimulateLearn(notifier *FDBNotifier, key string, keyValues []graph.EntryKeyValue, attrs map[metadata.AttrID]codec.Value) status.Code {
	s.mu.Lock()
	s.attrs[key] = attrs
	if _, ok := s.counters[key]; !ok {
		s.counters[key] = make(map[int32]int64)
	}
	s.mu.Unlock()

	if notifier == nil {
		return status.Success
	}
	return notifier.Notify(keyValues, attrs)
}
