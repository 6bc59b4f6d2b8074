package input

import (
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/vimkeys/internal/input/command"
	"github.com/dshills/vimkeys/internal/input/exentry"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/keytree"
	"github.com/dshills/vimkeys/internal/input/mapping"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/register"
)

var (
	// ErrRecursiveMapping is shown when mappings nest deeper than
	// Config.MaxMapDepth.
	ErrRecursiveMapping = errors.New("E223: recursive mapping")

	// ErrNotWritable is logged when a write command meets a read-only
	// target.
	ErrNotWritable = errors.New("input: target is not writable")

	// ErrNothingToRepeat is returned by RepeatLastChange before any change.
	ErrNothingToRepeat = errors.New("input: no previous change")

	// ErrHandlerPanic wraps a panic raised by a mapping handler.
	ErrHandlerPanic = errors.New("input: mapping handler panicked")
)

// Config configures a dispatcher.
type Config struct {
	// MaxMapDepth bounds how deeply mappings may expand into each other.
	// Default: 20
	MaxMapDepth int

	// TimeoutLen is how long an ambiguous mapping prefix waits for the
	// next key. Default: 1000ms
	TimeoutLen time.Duration

	// Timeout enables the mapping timeout. Without it an ambiguous prefix
	// waits until a key resolves it.
	Timeout bool

	// ShowCmd enables ShowCmd output.
	ShowCmd bool
}

// DefaultConfig returns Vim's defaults.
func DefaultConfig() Config {
	return Config{
		MaxMapDepth: 20,
		TimeoutLen:  1000 * time.Millisecond,
		Timeout:     true,
		ShowCmd:     true,
	}
}

// Option configures optional collaborators of a dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// WithScheduler sets the scheduler that runs mapping timeouts. Without
// it the dispatcher creates a LoopScheduler whose channel is returned by
// Timeouts.
func WithScheduler(s mapping.Scheduler) Option {
	return func(d *Dispatcher) { d.sched = s }
}

// WithForest sets the command trees. Default: keytree.Defaults().
func WithForest(f *keytree.Forest) Option {
	return func(d *Dispatcher) { d.forest = f }
}

// WithRegisters sets the register store.
func WithRegisters(s *register.Store) Option {
	return func(d *Dispatcher) { d.registers = s }
}

// WithExecutor sets the command executor.
func WithExecutor(e Executor) Option {
	return func(d *Dispatcher) { d.executor = e }
}

// WithInserter sets where unmatched insert-mode keys go.
func WithInserter(i Inserter) Option {
	return func(d *Dispatcher) { d.inserter = i }
}

// WithTransactor sets the transaction wrapper for commands.
func WithTransactor(t Transactor) Option {
	return func(d *Dispatcher) { d.transactor = t }
}

// WithMessages sets the status line.
func WithMessages(m Messages) Option {
	return func(d *Dispatcher) { d.messages = m }
}

// WithTarget sets the edited buffer.
func WithTarget(t Target) Option {
	return func(d *Dispatcher) { d.target = t }
}

// WithHooks sets the hook manager.
func WithHooks(h *HookManager) Option {
	return func(d *Dispatcher) { d.hooks = h }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

type itemKind uint8

const (
	itemKey itemKind = iota
	itemEndMapping
)

// item is one unit of pending work: a key to dispatch, or the marker that
// ends a mapping expansion.
type item struct {
	kind             itemKind
	key              key.Stroke
	allowMappings    bool
	mappingCompleted bool
	depth            int
	noRecord         bool
}

// Dispatcher turns keys into commands for one input context. Each editor
// window owns its own dispatcher; only the mapping table is shared.
//
// A Dispatcher is not safe for concurrent use. HandleKey, Feed and the
// callbacks delivered by its scheduler must run on one goroutine.
type Dispatcher struct {
	config Config
	table  *mapping.Table
	forest *keytree.Forest
	sched  mapping.Scheduler
	loop   *mapping.LoopScheduler
	log    logrus.FieldLogger

	state     *mode.StateMachine
	builder   *command.Builder
	mapState  mapping.State
	registers *register.Store
	entry     *exentry.Entry

	executor   Executor
	inserter   Inserter
	transactor Transactor
	messages   Messages
	target     Target

	hooks   *HookManager
	metrics *Metrics

	// stack holds work items, the next one on top. queue collects items
	// produced while one item is handled; they are moved onto the stack
	// in order once it is done.
	stack   []item
	queue   []item
	current item
	running bool
}

// New creates a dispatcher reading mappings from table.
func New(cfg Config, table *mapping.Table, opts ...Option) *Dispatcher {
	if cfg.MaxMapDepth <= 0 {
		cfg.MaxMapDepth = DefaultConfig().MaxMapDepth
	}
	if cfg.TimeoutLen <= 0 {
		cfg.TimeoutLen = DefaultConfig().TimeoutLen
	}
	if table == nil {
		table = mapping.NewTable()
	}

	d := &Dispatcher{
		config: cfg,
		table:  table,
		state:  mode.NewStateMachine(),
		entry:  exentry.New(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		l.SetLevel(logrus.WarnLevel)
		d.log = l
	}
	if d.sched == nil {
		d.loop = mapping.NewLoopScheduler(16)
		d.sched = d.loop
	}
	if d.forest == nil {
		d.forest = keytree.Defaults()
	}
	if d.registers == nil {
		d.registers = register.NewStore()
	}
	if d.executor == nil {
		d.executor = nopExecutor{}
	}
	if d.inserter == nil {
		d.inserter = nopInserter{}
	}
	if d.transactor == nil {
		d.transactor = DirectTransactor{}
	}
	if d.messages == nil {
		d.messages = nopMessages{}
	}
	if d.target == nil {
		d.target = WritableTarget{}
	}
	if d.hooks == nil {
		d.hooks = NewHookManager()
	}
	if d.metrics == nil {
		d.metrics = NewMetrics()
	}

	d.builder = command.NewBuilder(d.root())
	d.state.OnChange(d.modeChanged)
	return d
}

// modeChanged moves an idle builder to the tree of the new mode.
func (d *Dispatcher) modeChanged(_, _ mode.Frame) {
	if d.builder.IsAtDefaultState() && !d.builder.IsBuildingMultiKey() {
		d.builder.ResetInProgressPart(d.root())
	}
}

func (d *Dispatcher) root() command.Node {
	return d.forest.Root(d.state.MappingMode())
}

// HandleKey dispatches one typed key. Called while another key is being
// handled, for example from an executor, the key is queued to run right
// after that key, one mapping level deeper.
func (d *Dispatcher) HandleKey(k key.Stroke) {
	d.schedule(item{key: k, allowMappings: true})
}

// Feed dispatches keys as if typed. With remap false the keys bypass
// mappings.
func (d *Dispatcher) Feed(keys key.Sequence, remap bool) {
	for _, k := range keys {
		d.schedule(item{key: k, allowMappings: remap})
	}
}

func (d *Dispatcher) schedule(it item) {
	if d.running {
		it.depth = d.current.depth + 1
		d.queue = append(d.queue, it)
		return
	}
	d.queue = append(d.queue, it)
	d.run()
}

// enqueue adds an item produced by the item being handled.
func (d *Dispatcher) enqueue(it item) {
	d.queue = append(d.queue, it)
}

func (d *Dispatcher) run() {
	d.running = true
	defer func() {
		d.running = false
		d.stack = d.stack[:0]
		d.queue = d.queue[:0]
	}()

	d.flush()
	for len(d.stack) > 0 {
		it := d.stack[len(d.stack)-1]
		d.stack = d.stack[:len(d.stack)-1]
		d.current = it
		d.step(it)
		d.flush()
	}
}

// flush moves queued items onto the stack so that the first one queued
// is handled next.
func (d *Dispatcher) flush() {
	for i := len(d.queue) - 1; i >= 0; i-- {
		d.stack = append(d.stack, d.queue[i])
	}
	d.queue = d.queue[:0]
}

func (d *Dispatcher) step(it item) {
	if it.kind == itemEndMapping {
		d.mapState.StopExecution()
		return
	}

	log := d.log.WithFields(logrus.Fields{
		"key":   it.key.String(),
		"depth": it.depth,
		"mode":  d.state.Mode().String(),
	})

	if it.depth >= d.config.MaxMapDepth {
		d.messages.ShowMessage(ErrRecursiveMapping.Error())
		d.messages.SignalError()
		d.metrics.RecordRecursionLimit()
		log.WithField("maxmapdepth", d.config.MaxMapDepth).Warn("maximum mapping depth reached")
		d.abortNested()
		return
	}

	timer := d.metrics.StartKeyTimer()
	defer timer.Stop()

	if d.hooks.RunPreKey(it.key, d.newContext()) {
		d.metrics.RecordHookConsumption()
		return
	}

	log.Trace("dispatching key")

	shouldRecord := it.depth == 0 && !it.noRecord && d.isRecording()
	if !it.allowMappings || !d.tryResolve(it) {
		shouldRecord = d.process(it, shouldRecord)
	}
	d.finish(it.key, shouldRecord)
}

// abortNested drops the rest of every expansion once the depth limit is
// hit, so a mapping cycle reports one error.
func (d *Dispatcher) abortNested() {
	kept := d.stack[:0]
	for _, it := range d.stack {
		switch {
		case it.depth == 0:
			kept = append(kept, it)
		case it.kind == itemEndMapping:
			d.mapState.StopExecution()
		}
	}
	d.stack = kept
	d.queue = d.queue[:0]
	d.state.ResetOpPending()
	d.reset()
}

func (d *Dispatcher) isRecording() bool {
	_, rec := d.registers.Recording()
	return rec
}

// process runs one key through the count, reset, argument, register,
// digraph and command tree stages. It returns whether the key should
// still be recorded.
func (d *Dispatcher) process(it item, shouldRecord bool) bool {
	k := it.key
	b := d.builder
	switch {
	case d.isCountKey(k):
		b.AddCountDigit(k)
	case d.isDeleteCountKey(k):
		b.DeleteCountDigit()
	case (d.state.Mode() == mode.Normal || d.state.InSingleNormal()) && k.IsClose():
		d.handleReset()
	case b.Expected() == command.ArgCharacter:
		d.handleCharArgument(k)
	case d.state.RegisterPending:
		b.AddKey(k)
		d.selectRegister(k)
	case d.handleDigraph(it):
	default:
		return d.handleNode(k, shouldRecord)
	}
	return shouldRecord
}

func (d *Dispatcher) isCountKey(k key.Stroke) bool {
	b := d.builder
	return d.state.AcceptsCount() && b.IsExpectingCount() && k.IsDigit() &&
		(b.Count() > 0 || k.Rune != '0')
}

func (d *Dispatcher) isDeleteCountKey(k key.Stroke) bool {
	b := d.builder
	return d.state.AcceptsCount() && b.IsExpectingCount() && b.Count() > 0 && k == key.Delete
}

// handleReset handles a close key in normal mode. It rings the bell only
// when there was nothing to abandon. A normal mode entered from insert
// mode for one command is left.
func (d *Dispatcher) handleReset() {
	idle := d.builder.IsAtDefaultState() && d.registers.IsDefaultSelected() &&
		!d.state.RegisterPending && !d.state.InSingleNormal()
	if idle {
		d.messages.SignalError()
	}
	d.state.RegisterPending = false
	d.state.ReplaceCharacter = false
	d.state.Digraph.Reset()
	d.registers.ResetSelected()
	d.endSingleNormal()
	d.reset()
}

// endSingleNormal pops a normal mode entered for one command.
func (d *Dispatcher) endSingleNormal() {
	if d.state.InSingleNormal() {
		d.state.Pop()
	}
}

func (d *Dispatcher) selectRegister(k key.Stroke) {
	d.state.RegisterPending = false
	if r, ok := k.Char(); ok && register.IsValid(r) {
		d.builder.PushRegister(r)
		return
	}
	d.builder.SetStatus(command.StatusBad)
}

func (d *Dispatcher) isSelectRegister(k key.Stroke) bool {
	switch d.state.Mode() {
	case mode.Normal, mode.Visual:
	default:
		return false
	}
	return k == key.Char('"') && d.builder.Expected() == command.ArgNone
}

// handleNode looks k up in the command tree.
func (d *Dispatcher) handleNode(k key.Stroke, shouldRecord bool) bool {
	b := d.builder
	node := b.Child(k)
	if b.IsDuplicateOperator(k) {
		node = b.Child(key.Char('_'))
	}

	switch n := node.(type) {
	case *keytree.Leaf:
		b.AddKey(k)
		d.handleLeaf(k, n)
		return shouldRecord
	case *keytree.Branch:
		b.SetNode(n)
		b.AddKey(k)
		return shouldRecord
	}

	if d.isSelectRegister(k) {
		d.state.RegisterPending = true
		b.AddKey(k)
		return shouldRecord
	}

	switch {
	case d.state.IsInsertLike():
		shouldRecord = d.inserter.InsertKey(d.newContext(), k) && shouldRecord
	case d.state.MappingMode() == mode.MapCmdLine:
		shouldRecord = d.entry.ProcessKey(k) && shouldRecord
	default:
		b.SetStatus(command.StatusBad)
	}
	d.partialReset()
	return shouldRecord
}

// handleLeaf adds the command part for a leaf reached by k.
func (d *Dispatcher) handleLeaf(k key.Stroke, leaf *keytree.Leaf) {
	b := d.builder
	a := leaf.Action
	expected := b.Expected()

	if expected == command.ArgExString && a.Flags.Has(command.FlagCancelEx) {
		d.cancelExArgument()
		return
	}

	b.PushAction(a)
	if expected == command.ArgMotion && a.Type != command.TypeMotion {
		b.SetStatus(command.StatusBad)
		return
	}

	if a.Argument == command.ArgNone || (d.isRecording() && a.Flags.Has(command.FlagStopRecording)) {
		b.SetStatus(command.StatusReady)
	} else {
		d.awaitArgument(k, a)
		d.partialReset()
	}

	if expected == command.ArgExString && a.Flags.Has(command.FlagCompleteEx) {
		text := d.entry.End()
		b.PopPart()
		b.CompletePart(command.ExStringArgument(text))
		d.state.Pop()
	}
}

// cancelExArgument abandons a command waiting for a search string.
func (d *Dispatcher) cancelExArgument() {
	d.entry.Cancel()
	if d.state.Mode() == mode.CmdLine {
		d.state.Pop()
	}
	d.state.ResetOpPending()
	d.reset()
}

// finish executes a ready command or reports a bad one, then records k
// into the macro being recorded.
func (d *Dispatcher) finish(k key.Stroke, shouldRecord bool) {
	switch {
	case d.builder.IsReady():
		d.execute()
	case d.builder.IsBad():
		d.resetAfterBad()
	}

	// The key that stopped recording is not part of the macro.
	if shouldRecord && d.isRecording() {
		d.registers.Record(k)
	}
}

func (d *Dispatcher) resetAfterBad() {
	d.state.ResetOpPending()
	d.endSingleNormal()
	d.state.RegisterPending = false
	d.state.ReplaceCharacter = false
	d.state.Digraph.Reset()
	d.messages.SignalError()
	d.metrics.RecordBadCommand()
	d.reset()
}

// partialReset drops pending mapping keys and the command part being
// typed, keeping the parts already matched.
func (d *Dispatcher) partialReset() {
	d.mapState.Reset()
	d.builder.ResetInProgressPart(d.root())
}

// reset abandons the command being typed. The mode is left alone.
func (d *Dispatcher) reset() {
	d.partialReset()
	d.builder.ResetAll(d.root())
}

// Reset abandons the command being typed and any pending mapping.
func (d *Dispatcher) Reset() {
	d.reset()
}

// FullReset also returns to normal mode and clears the selected
// register and any command line being typed.
func (d *Dispatcher) FullReset() {
	d.entry.Cancel()
	d.state.Reset()
	d.state.RegisterPending = false
	d.state.ReplaceCharacter = false
	d.reset()
	d.registers.ResetSelected()
}

// Close stops the mapping timeout and the default scheduler.
func (d *Dispatcher) Close() {
	d.mapState.Reset()
	if d.loop != nil {
		d.loop.Close()
	}
}

// Timeouts returns the channel of the default scheduler. The event loop
// must call every function received on the goroutine that calls
// HandleKey. With a scheduler set through WithScheduler it returns nil.
func (d *Dispatcher) Timeouts() <-chan func() {
	if d.loop == nil {
		return nil
	}
	return d.loop.C()
}

// Config returns the configuration.
func (d *Dispatcher) Config() Config { return d.config }

// State returns the mode stack.
func (d *Dispatcher) State() *mode.StateMachine { return d.state }

// Mode returns the current mode.
func (d *Dispatcher) Mode() mode.Mode { return d.state.Mode() }

// Registers returns the register store.
func (d *Dispatcher) Registers() *register.Store { return d.registers }

// Entry returns the command-line entry.
func (d *Dispatcher) Entry() *exentry.Entry { return d.entry }

// Table returns the mapping table.
func (d *Dispatcher) Table() *mapping.Table { return d.table }

// Hooks returns the hook manager.
func (d *Dispatcher) Hooks() *HookManager { return d.hooks }

// Metrics returns the metrics collector.
func (d *Dispatcher) Metrics() *Metrics { return d.metrics }

// Pending reports whether a command or mapping is half typed.
func (d *Dispatcher) Pending() bool {
	return !d.builder.IsAtDefaultState() || d.builder.IsBuildingMultiKey() ||
		d.mapState.Pending() || d.state.RegisterPending
}

// Status returns the show-mode text, or the command line while one is
// being typed.
func (d *Dispatcher) Status() string {
	if d.entry.Active() {
		return d.entry.String()
	}
	return d.state.Status()
}
