// Package register implements Vim registers together with the macro
// recorder and the dot-repeat memory that share their lifetime.
//
// The + and * registers are backed by a ClipboardProvider;
// SystemClipboard uses the operating system clipboard.
package register
