// Package reader turns source text into value trees: Cons-linked lists,
// heap symbols, direct fixnums/floats/chars/keywords, and char vectors
// for string literals.
//
// Reading proceeds token by token. Each byte is classified into one of
// five syntax classes (constituent, whitespace, macro character,
// terminating macro character, escape); a run of constituent bytes
// forms a token, which is then parsed as a fixnum, a float, or a
// namespace-qualified symbol. Macro characters short-circuit token
// accumulation and dispatch to a dedicated sub-reader: '(' to the list
// reader, '"' to the string reader, '#' to the sharp-macro reader, and
// '`'/','/',@' to the quasiquote package.
//
// The empty list and boolean false are both represented by the
// interned symbol mu:nil; boolean true by mu:t. This mirrors the
// classic Lisp convention of a single self-evaluating "nothing" symbol
// rather than a dedicated tag bit, keeping tagword free of a sixth
// direct subclass.
package reader
