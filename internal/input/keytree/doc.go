// Package keytree holds the command trees that turn typed keys into
// actions, one tree per mapping mode.
//
// A tree maps key sequences to leaves. Inner nodes are *Branch values and
// complete commands are *Leaf values, so "g" is a branch below which "gg"
// and "g~" are leaves. The trees are built once, usually from
// LoadDefaults, and are read-only while keys are dispatched.
package keytree
