// Package qquote expands a quasiquote template into an ordinary call
// form built from mu:list, mu:%append, and the :quote special form, so
// the compiler never needs to know anything about backquote syntax.
//
// The reader turns `TEMPLATE, ,FORM, and ,@FORM into the plain forms
// (quasiquote TEMPLATE), (unquote FORM), and (unquote-splicing FORM);
// Expand walks that tree once, depth-tracking nested quasiquotes, and
// produces an intermediate QqExpr tree (Form/Quote/List/Quasi/Comma)
// before lowering it to code with a fold-right over %append/list/quote
// calls. The walk is a recursive descent: walk dispatches on the shape
// of the current form and tracks nested backquote/unquote depth with a
// counter, and walkList iterates a list's elements, marking
// unquote-splicing ones. The State values (Start, Quasi, QuasiComma,
// QuasiList, QuasiListComma) label the walker's positions and are
// returned alongside each QqExpr; no step of the walk branches on them.
package qquote
