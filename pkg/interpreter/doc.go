// Package interpreter executes parsed klox programs by walking the AST.
// Evaluation is single-threaded; the active scope is passed explicitly to
// every evaluation step and blocks release their scope on the way out,
// including when a runtime error unwinds them.
package interpreter
