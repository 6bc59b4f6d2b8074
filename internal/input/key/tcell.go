package key

import "github.com/gdamore/tcell/v2"

var tcellSpecial = map[tcell.Key]Key{
	tcell.KeyDelete: KeyDelete,
	tcell.KeyInsert: KeyInsert,
	tcell.KeyHome:   KeyHome,
	tcell.KeyEnd:    KeyEnd,
	tcell.KeyPgUp:   KeyPageUp,
	tcell.KeyPgDn:   KeyPageDown,
	tcell.KeyUp:     KeyUp,
	tcell.KeyDown:   KeyDown,
	tcell.KeyLeft:   KeyLeft,
	tcell.KeyRight:  KeyRight,
	tcell.KeyF1:     KeyF1,
	tcell.KeyF2:     KeyF2,
	tcell.KeyF3:     KeyF3,
	tcell.KeyF4:     KeyF4,
	tcell.KeyF5:     KeyF5,
	tcell.KeyF6:     KeyF6,
	tcell.KeyF7:     KeyF7,
	tcell.KeyF8:     KeyF8,
	tcell.KeyF9:     KeyF9,
	tcell.KeyF10:    KeyF10,
	tcell.KeyF11:    KeyF11,
	tcell.KeyF12:    KeyF12,
}

// FromTcell converts a terminal key event into a stroke. It returns false
// for keys that have no stroke equivalent.
func FromTcell(ev *tcell.EventKey) (Stroke, bool) {
	mods := fromTcellMod(ev.Modifiers())
	k := ev.Key()

	// Tab, Enter, Escape and Backspace share codes with Ctrl-I, Ctrl-M,
	// Ctrl-[ and Ctrl-H, so they are matched before the control range.
	switch {
	case k == tcell.KeyRune:
		return NewRune(ev.Rune(), mods), true
	case k == tcell.KeyTab:
		return NewSpecial(KeyTab, mods.Without(ModCtrl)), true
	case k == tcell.KeyBacktab:
		return NewSpecial(KeyTab, ModShift), true
	case k == tcell.KeyEnter:
		return NewSpecial(KeyEnter, mods.Without(ModCtrl)), true
	case k == tcell.KeyEscape:
		return NewSpecial(KeyEscape, mods.Without(ModCtrl)), true
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return NewSpecial(KeyBackspace, mods.Without(ModCtrl)), true
	case k == tcell.KeyCtrlSpace:
		return NewRune(' ', ModCtrl), true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return NewRune('a'+rune(k-tcell.KeyCtrlA), mods.With(ModCtrl)), true
	case k == tcell.KeyCtrlBackslash:
		return NewRune('\\', ModCtrl), true
	case k == tcell.KeyCtrlRightSq:
		return NewRune(']', ModCtrl), true
	}

	if sk, ok := tcellSpecial[k]; ok {
		return NewSpecial(sk, mods), true
	}
	return Stroke{}, false
}

func fromTcellMod(m tcell.ModMask) Modifier {
	var mods Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}
	return mods
}
