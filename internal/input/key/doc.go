// Package key defines keystrokes and Vim key notation.
//
//   - Key: identifies a keyboard key (special keys, function keys, runes)
//   - Modifier: modifier mask (Ctrl, Alt, Shift, Meta)
//   - Stroke: one comparable key press, used as a trie and map key
//   - Sequence: an ordered series of strokes
//
// # Notation
//
// Strokes parse from and print to Vim notation: "a", "<Esc>", "<C-w>",
// "<S-Tab>", "<lt>", "<Plug>". Long forms such as "Ctrl+S" are accepted on
// input. ParseSequence reads whole mapping right-hand sides like ":w<CR>".
//
// Shift is folded into the character for rune strokes, so a terminal that
// reports Shift+a and one that reports A both yield the same Stroke.
package key
