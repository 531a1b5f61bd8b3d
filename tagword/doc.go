// Package tagword implements the runtime's 64-bit tagged value: a Word
// that is either a direct (immediate) value carrying its payload inline,
// or an indirect value carrying a class and a heap offset.
//
// Layout, low bit first:
//
//	bits[0:3)   class            0=Direct 1=Cons 2=Function 3=Stream
//	                              4=Struct 5=Symbol 6=Vector 7=Map
//
// When class is Direct, bits[3:5) select a subclass:
//
//	0 Char        bits[5:13)  byte value
//	1 ByteVector  bits[5:8)   length 0-7, bits[8:64) packed bytes
//	2 Keyword     bits[5:8)   length 0-7, bits[8:64) packed bytes
//	3 Extended    bits[5:8)   ext kind, see below
//
// Extended (subclass 3) further selects an ext kind in bits[5:8):
//
//	0 Float       bits[8:40)  IEEE-754 binary32 bits
//	1 Fixnum      bits[8:64)  56-bit two's-complement signed integer
//	2 AsyncID     bits[8:64)  56-bit unsigned generation-tagged handle
//	3 ConsDirect  bits[8:36)  car, 28-bit two's-complement signed
//	              bits[36:64) cdr, 28-bit two's-complement signed
//
// When class is anything other than Direct, bits[3:64) hold a 61-bit
// unsigned offset into the heap region for that class.
//
// tagword carries no pointers and does no allocation; heap and object
// build object identity on top of Word, tagword only packs and unpacks
// bits.
package tagword
