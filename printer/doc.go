// Package printer renders tagword values back to their textual form:
// fixnums in decimal, floats with four decimals, chars as #\c literals
// (#\xNN for control bytes), symbols as ns:name (the null namespace's
// own symbols print unqualified, matching how the reader defaults an
// unqualified token — every other namespace, mu included, always prints
// its qualifier), keywords as :name, conses in list notation (a quoted
// form prints as (:quote x)), char vectors as double-quoted strings,
// general vectors and byte vectors as #(type elt...), and structs as
// #s(:type elt...).
//
// Reading the printed form of a fixnum, symbol, keyword, string,
// printable char, or a list of these yields an equal value; a printed
// float reads back rounded to four decimals. The other forms do not
// read back as the value printed: the reader takes the type name of
// #(type elt...) as the vector's first element, reads #\xNN as the char
// x followed by more input, and has no #s( syntax. Functions and
// streams print as a #<...> description that the reader does not
// accept.
package printer
