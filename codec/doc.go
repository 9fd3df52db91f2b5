// Package codec provides bidirectional, composable encoders and decoders
// between Go values and the backend values of a [dyn.Ops].
//
// A [Codec] bundles an encoder and a decoder for one Go type. Encoding
// appends to a prefix value so codecs compose; decoding returns the
// unconsumed remainder for the same reason. Top-level callers use
// [Codec.EncodeStart] and [Codec.Parse], which begin from the empty element
// and discard the remainder.
//
// Primitive codecs ([Bool], [Int], [Long], [Float], [Double], [Byte],
// [Short], [String], [Number]) wrap the matching ops create/read pair.
// Combinators build everything else: [Xmap] and [FlatXmap] for mapped
// types, [Codec.List] and [Codec.Optional] for containers, [PairOf] and
// [EitherOf] for products and sums, [Codec.OrElse] for fallbacks, and
// [Codec.WithErrorContext] for error annotation.
//
// # Records
//
// A [MapCodec] reads and writes fields of a pre-existing map, which is how
// records compose. [Codec.FieldOf] lifts a codec into a required field,
// [Codec.OptionalFieldOf] into an optional one, and the package-level
// [OptionalFieldOf] adds default substitution: a missing field decodes to
// the default (as a partial success), and a value equal to the default is
// omitted on encode. [Record2] through [Record6] assemble field codecs and
// a constructor into a whole-record codec.
//
//	type player struct {
//	    Name string
//	    XP   int64
//	}
//
//	playerCodec := codec.Record2(
//	    codec.WithGetter(codec.String.FieldOf("name"), func(p player) string { return p.Name }),
//	    codec.WithGetter(codec.OptionalFieldOf(codec.Long, "xp", 0), func(p player) int64 { return p.XP }),
//	    func(name string, xp int64) player { return player{Name: name, XP: xp} },
//	)
//
// # Laws
//
// Lawful codecs satisfy, for every accepted value and conforming ops:
// parse after encode is the identity; re-encoding a parsed encoding is
// byte-for-byte stable within one ops; Xmap respects identity and
// composition; and the optional-field default law above. The package's
// property tests assert these with gopter.
//
// Expected failures (bad payload, missing field) flow through
// [result.Result] values, never panics, and accumulate context via
// MapError as they cross combinator layers.
package codec
