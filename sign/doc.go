// Package sign re-signs existing RPM package files.
//
// A fixed chain of stateful processors digests the payload header and
// payload of the input file, a fresh signature header is rendered fully
// in memory, and the result is spliced into the output stream: the
// 96-byte lead and everything from the payload header onward are copied
// byte-for-byte, only the signature header block is replaced. Digests
// computed over the untouched bytes therefore stay valid in the output.
//
// The output stream receives no bytes until the whole signature header
// has been computed, so a digesting or signing failure produces no
// partial output. A failure during the final copy phase can leave a
// truncated stream; callers needing atomicity should stage the output
// and perform an atomic replace themselves.
package sign
