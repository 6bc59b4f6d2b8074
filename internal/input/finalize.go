package input

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dshills/vimkeys/internal/input/command"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/register"
)

// execute builds the ready command and hands it to the executor.
func (d *Dispatcher) execute() {
	ctx := d.newContext()
	ctx.OpPending = d.state.MappingMode() == mode.MapOpPending

	cmd, err := d.builder.Build()
	d.state.ResetOpPending()
	if err != nil {
		d.log.WithError(err).WithField("keys", d.builder.Keys().String()).Warn("cannot build command")
		d.messages.SignalError()
		d.reset()
		return
	}

	log := d.log.WithFields(logrus.Fields{
		"action": cmd.Action.ID,
		"mode":   ctx.Frame.Mode.String(),
	})

	if cmd.Type.IsWrite() && !d.target.Writable() {
		log.WithError(ErrNotWritable).Warn("write command refused")
		d.messages.SignalError()
		d.reset()
		return
	}

	if cmd.Register != 0 {
		if err := d.registers.Select(cmd.Register); err != nil {
			log.WithError(err).Warn("cannot select register")
		}
	}

	if cmd.Type.IsWrite() && !d.state.DotRepeatInProgress {
		d.registers.SetLastChange(cmd)
		d.registers.SetCaptured(cmd.Argument)
	}

	if err := d.runCommand(ctx, cmd); err != nil {
		log.WithError(err).Warn("command failed")
		d.messages.SignalError()
		d.registers.ResetSelected()
		d.endSingleNormal()
		d.reset()
		return
	}

	log.WithField("command", cmd.String()).Debug("command executed")

	d.registers.ResetSelected()
	if !cmd.Flags.Has(command.FlagExpectMore) {
		d.endSingleNormal()
	}
	if d.builder.IsDone() {
		d.reset()
	}
}

// runCommand executes cmd inside the transaction its type asks for.
func (d *Dispatcher) runCommand(ctx *ExecContext, cmd *command.Command) error {
	if d.hooks.RunPreCommand(cmd, ctx) {
		d.metrics.RecordHookConsumption()
		return nil
	}

	timer := d.metrics.StartCommandTimer()
	fn := func() error { return d.runStrategy(ctx, cmd) }

	var err error
	name := cmd.Action.ID
	switch {
	case cmd.Type.IsWrite():
		err = d.transactor.RunWrite(name, fn)
	case cmd.Type.IsRead():
		err = d.transactor.RunRead(name, fn)
	default:
		err = d.transactor.Run(name, fn)
	}
	timer.StopCommand()

	d.hooks.RunPostCommand(cmd, ctx)
	return err
}

// runStrategy calls the executor once or once per caret.
func (d *Dispatcher) runStrategy(ctx *ExecContext, cmd *command.Command) error {
	carets := d.target.Carets()
	if carets < 1 {
		carets = 1
	}

	switch cmd.Action.Strategy {
	case command.StrategySingle:
		return d.executeOnce(ctx, cmd)
	case command.StrategyPerCaret:
		return d.executeEach(ctx, cmd, carets)
	case command.StrategyConditional:
		if ctx.Frame.SubMode == mode.SubVisualBlock {
			return d.executeOnce(ctx, cmd)
		}
		return d.executeEach(ctx, cmd, carets)
	}
	return fmt.Errorf("input: unknown strategy %v", cmd.Action.Strategy)
}

func (d *Dispatcher) executeOnce(ctx *ExecContext, cmd *command.Command) error {
	c := *ctx
	c.Caret, c.Carets = 0, 1
	return d.executor.Execute(&c, cmd)
}

func (d *Dispatcher) executeEach(ctx *ExecContext, cmd *command.Command, carets int) error {
	for i := 0; i < carets; i++ {
		c := *ctx
		c.Caret, c.Carets = i, carets
		if err := d.executor.Execute(&c, cmd); err != nil {
			return fmt.Errorf("caret %d: %w", i, err)
		}
	}
	return nil
}

// RepeatLastChange runs the last write command again. A count above zero
// replaces the count it was typed with.
func (d *Dispatcher) RepeatLastChange(count int) error {
	last := d.registers.LastChange()
	if last == nil {
		return ErrNothingToRepeat
	}
	if !d.target.Writable() {
		d.messages.SignalError()
		return ErrNotWritable
	}

	cmd := withCount(last, count)

	d.state.DotRepeatInProgress = true
	defer func() { d.state.DotRepeatInProgress = false }()
	d.registers.SetCaptured(cmd.Argument)

	if cmd.Register != 0 && register.IsValid(cmd.Register) {
		_ = d.registers.Select(cmd.Register)
		defer d.registers.ResetSelected()
	}

	ctx := d.newContext()
	if err := d.runCommand(ctx, cmd); err != nil {
		d.log.WithError(err).WithField("action", cmd.Action.ID).Warn("repeat failed")
		d.messages.SignalError()
		return err
	}
	if count > 0 {
		d.registers.SetLastChange(cmd)
	}
	return nil
}

// withCount returns cmd with its count replaced. Operators carry their
// count on the motion.
func withCount(cmd *command.Command, count int) *command.Command {
	if count <= 0 {
		return cmd
	}
	c := *cmd
	if m := cmd.Motion(); m != nil {
		mc := *m
		mc.RawCount = count
		c.Argument = command.MotionArgument(&mc)
		c.RawCount = 0
		return &c
	}
	c.RawCount = count
	return &c
}
