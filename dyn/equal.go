package dyn

// Equal reports structural equality of two values of the same ops.
//
// Maps compare as entry sets; ordering is not significant. Numbers compare
// by numeric value within their category, so an integral 3 and a fractional
// 3.0 stored as distinct backend categories are not equal.
func Equal(ops Ops, a, b any) bool {
	if ab, err := ops.BoolValue(a).Unwrap(); err == nil {
		bb, berr := ops.BoolValue(b).Unwrap()

		return berr == nil && ab == bb
	}

	if ops.IsNumber(a) {
		if !ops.IsNumber(b) {
			return false
		}

		al, aerr := ops.LongValue(a).Unwrap()
		bl, berr := ops.LongValue(b).Unwrap()

		if (aerr == nil) != (berr == nil) {
			return false
		}

		if aerr == nil {
			return al == bl
		}

		af := ops.NumberValue(a).MustUnwrap()
		bf := ops.NumberValue(b).MustUnwrap()

		return af == bf
	}

	if as, err := ops.StringValue(a).Unwrap(); err == nil {
		bs, berr := ops.StringValue(b).Unwrap()

		return berr == nil && as == bs
	}

	if ops.IsList(a) {
		if !ops.IsList(b) {
			return false
		}

		av := collect(ops, a)
		bv := collect(ops, b)

		if len(av) != len(bv) {
			return false
		}

		for i := range av {
			if !Equal(ops, av[i], bv[i]) {
				return false
			}
		}

		return true
	}

	if ops.IsMap(a) {
		if !ops.IsMap(b) {
			return false
		}

		return mapEqual(ops, a, b) && mapEqual(ops, b, a)
	}

	// Neither primitive, list, nor map: equal iff b is also none of those.
	return !ops.IsBoolean(b) && !ops.IsNumber(b) && !ops.IsString(b) &&
		!ops.IsList(b) && !ops.IsMap(b)
}

// mapEqual reports whether every entry of a appears in b.
func mapEqual(ops Ops, a, b any) bool {
	entries, err := ops.MapEntries(a).Unwrap()
	if err != nil {
		return false
	}

	for k, v := range entries {
		key, kerr := ops.StringValue(k).Unwrap()
		if kerr != nil {
			return false
		}

		other, ok := ops.Get(b, key)
		if !ok || !Equal(ops, v, other) {
			return false
		}
	}

	return true
}

// collect materializes a list value's elements.
func collect(ops Ops, list any) []any {
	items, err := ops.ListStream(list).Unwrap()
	if err != nil {
		return nil
	}

	var out []any

	for item := range items {
		out = append(out, item)
	}

	return out
}
