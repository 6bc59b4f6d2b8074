package input

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mapping"
	"github.com/dshills/vimkeys/internal/input/mode"
)

// tryResolve offers the key to the mapping table. It reports whether the
// key was consumed: held back as a mapping prefix, expanded as a
// mapping, or replayed after an abandoned prefix.
func (d *Dispatcher) tryResolve(it item) bool {
	b := d.builder
	k := it.key

	// "0" can be mapped, but not while it extends a count.
	if b.IsAwaitingCharOrDigraph() || b.IsBuildingMultiKey() || d.state.RegisterPending ||
		d.state.Digraph.Active() ||
		(k == key.Char('0') && b.Count() > 0) {
		return false
	}

	d.mapState.StopTimer()
	d.mapState.Add(k)
	mm := d.state.MappingMode()

	return d.resolvePrefix(mm, it) ||
		d.resolveComplete(mm, it) ||
		d.resolveAbandoned(it)
}

// resolvePrefix holds the keys back while they start a longer mapping.
func (d *Dispatcher) resolvePrefix(mm mode.MappingMode, it item) bool {
	if it.mappingCompleted || !d.table.IsPrefix(mm, d.mapState.Keys()) {
		return false
	}
	if d.config.Timeout {
		d.mapState.StartTimer(d.sched, d.config.TimeoutLen, d.mappingTimeout)
	}
	return true
}

// mappingTimeout replays held keys once the user stopped typing. A
// <Plug> sequence is dropped; it is never typed by the user.
func (d *Dispatcher) mappingTimeout() {
	keys := d.mapState.Detach()
	d.metrics.RecordSequenceTimeout()
	if len(keys) == 0 {
		return
	}
	if keys.IsPlug() {
		d.log.WithField("keys", keys.String()).Debug("dropping <Plug> sequence on timeout")
		return
	}

	d.log.WithField("keys", keys.String()).Trace("mapping timeout, replaying keys")
	for _, k := range keys {
		d.enqueue(item{key: k, allowMappings: true, mappingCompleted: true, noRecord: true})
	}
	if !d.running {
		d.run()
	}
}

// resolveComplete runs the mapping named by the held keys. When the held
// keys name nothing but all but the last one do, that shorter mapping
// runs and the last key is dispatched again afterwards.
func (d *Dispatcher) resolveComplete(mm mode.MappingMode, it item) bool {
	keys := d.mapState.Keys()
	exact := d.table.Lookup(mm, keys)
	e := exact
	if e == nil && len(keys) > 1 {
		e = d.table.Lookup(mm, keys[:len(keys)-1])
	}
	if e == nil {
		return false
	}

	d.mapState.Reset()
	d.applyMapping(e, it)

	if e != exact {
		d.enqueue(item{key: it.key, allowMappings: true, depth: it.depth + 1})
	}
	return true
}

// applyMapping expands e one level below it.
func (d *Dispatcher) applyMapping(e *mapping.Entry, it item) {
	d.metrics.RecordMapping()
	log := d.log.WithFields(logrus.Fields{
		"from":  e.From.String(),
		"owner": e.Owner.String(),
		"depth": it.depth,
	})

	d.mapState.StartExecution()
	if e.Handler != nil {
		log.Debug("running mapping handler")
		if err := d.callHandler(e); err != nil {
			d.messages.ShowMessage(err.Error())
			d.messages.SignalError()
			log.WithError(err).Warn("mapping handler failed")
			d.reset()
		}
	} else {
		log.WithField("to", e.To.String()).Debug("expanding mapping")
		for i, k := range e.To {
			// The first key of a mapping that starts with its own
			// left-hand side is not mapped again, as in "nmap x xy".
			remap := e.Recursive && !(i == 0 && e.To.HasPrefix(e.From))
			d.enqueue(item{key: k, allowMappings: remap, depth: it.depth + 1})
		}
	}
	d.enqueue(item{kind: itemEndMapping, depth: it.depth + 1})
}

func (d *Dispatcher) callHandler(e *mapping.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, e.From, r)
		}
	}()
	return e.Handler(d.newContext())
}

// resolveAbandoned replays held keys that turned out not to be a
// mapping. The first key is replayed unmapped so that the prefix does
// not match again; the rest may start new mappings.
func (d *Dispatcher) resolveAbandoned(it item) bool {
	keys := d.mapState.Detach()
	if len(keys) <= 1 {
		return false
	}

	// A <Plug> sequence that failed to map is not replayed; only the key
	// that broke it is.
	if keys.IsPlug() {
		d.enqueue(item{key: keys[len(keys)-1], allowMappings: true, depth: it.depth + 1})
		return true
	}

	d.enqueue(item{key: keys[0], allowMappings: false, depth: it.depth + 1})
	for _, k := range keys[1:] {
		d.enqueue(item{key: k, allowMappings: true, depth: it.depth + 1})
	}
	return true
}
