package digraph

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// table holds digraphs that are not a letter plus an accent.
var table = map[[2]rune]rune{
	{'s', 's'}: 'ß',
	{'a', 'e'}: 'æ',
	{'A', 'E'}: 'Æ',
	{'o', '/'}: 'ø',
	{'O', '/'}: 'Ø',
	{'o', 'e'}: 'œ',
	{'O', 'E'}: 'Œ',
	{'E', 'u'}: '€',
	{'P', 'd'}: '£',
	{'Y', 'e'}: '¥',
	{'C', 't'}: '¢',
	{'C', 'o'}: '©',
	{'R', 'g'}: '®',
	{'T', 'M'}: '™',
	{'S', 'E'}: '§',
	{'P', 'I'}: '¶',
	{'D', 'G'}: '°',
	{'+', '-'}: '±',
	{'*', 'X'}: '×',
	{'-', ':'}: '÷',
	{'M', 'y'}: 'µ',
	{'1', '2'}: '½',
	{'1', '4'}: '¼',
	{'3', '4'}: '¾',
	{'1', 'S'}: '¹',
	{'2', 'S'}: '²',
	{'3', 'S'}: '³',
	{'N', 'S'}: '\u00a0',
	{'!', 'I'}: '¡',
	{'?', 'I'}: '¿',
	{'<', '<'}: '«',
	{'>', '>'}: '»',
	{'-', '>'}: '→',
	{'<', '-'}: '←',
	{'-', '!'}: '↑',
	{'-', 'v'}: '↓',
	{'=', '>'}: '⇒',
	{'O', 'K'}: '✓',
	{'X', 'X'}: '✗',
	{'.', 'M'}: '·',
	{'.', '.'}: '‥',
	{',', '.'}: '…',
	{'a', '*'}: 'α',
	{'b', '*'}: 'β',
	{'g', '*'}: 'γ',
	{'d', '*'}: 'δ',
	{'e', '*'}: 'ε',
	{'l', '*'}: 'λ',
	{'m', '*'}: 'μ',
	{'p', '*'}: 'π',
	{'s', '*'}: 'σ',
	{'w', '*'}: 'ω',
	{'D', '*'}: 'Δ',
	{'S', '*'}: 'Σ',
	{'W', '*'}: 'Ω',
}

// accents maps the second character of an accent digraph to the
// combining mark it adds, following RFC 1345.
var accents = map[rune]rune{
	'!':  '\u0300', // grave
	'\'': '\u0301', // acute
	'>':  '\u0302', // circumflex
	'?':  '\u0303', // tilde
	'-':  '\u0304', // macron
	'(':  '\u0306', // breve
	'.':  '\u0307', // dot above
	':':  '\u0308', // diaeresis
	'0':  '\u030a', // ring
	'"':  '\u030b', // double acute
	'<':  '\u030c', // caron
	',':  '\u0327', // cedilla
	';':  '\u0328', // ogonek
}

// Lookup returns the character for the digraph {a, b}. Both orders are
// tried. When nothing matches the second character is returned, as Vim
// does.
func Lookup(a, b rune) rune {
	if r, ok := lookup(a, b); ok {
		return r
	}
	if r, ok := lookup(b, a); ok {
		return r
	}
	return b
}

func lookup(a, b rune) (rune, bool) {
	if r, ok := table[[2]rune{a, b}]; ok {
		return r, true
	}
	mark, ok := accents[b]
	if !ok {
		return 0, false
	}
	composed := norm.NFC.String(string([]rune{a, mark}))
	if utf8.RuneCountInString(composed) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(composed)
	return r, true
}
