package dyn

// Convert recursively rebuilds v, a value of src, using dst's constructors.
//
// Variants are probed in a fixed order: boolean, number, string, list, map.
// Boolean comes before number so that backends encoding booleans as 0/1
// integers are not misread as numbers. A value matching none of the probes
// converts to dst.Empty(); Convert never fails on shape mismatch.
func Convert(src, dst Ops, v any) any {
	if src == dst {
		return v
	}

	if b, err := src.BoolValue(v).Unwrap(); err == nil {
		return dst.CreateBool(b)
	}

	if src.IsNumber(v) {
		// Integral-category numbers rebuild as longs, fractional ones as
		// doubles, so the category survives the move between backends.
		if l, err := src.LongValue(v).Unwrap(); err == nil {
			return dst.CreateLong(l)
		}

		if f, err := src.NumberValue(v).Unwrap(); err == nil {
			return dst.CreateDouble(f)
		}
	}

	if s, err := src.StringValue(v).Unwrap(); err == nil {
		return dst.CreateString(s)
	}

	if src.IsList(v) {
		items, err := src.ListStream(v).Unwrap()
		if err == nil {
			return dst.CreateList(func(yield func(any) bool) {
				for item := range items {
					if !yield(Convert(src, dst, item)) {
						return
					}
				}
			})
		}
	}

	if src.IsMap(v) {
		entries, err := src.MapEntries(v).Unwrap()
		if err == nil {
			return dst.CreateMap(func(yield func(any, any) bool) {
				for k, val := range entries {
					if !yield(Convert(src, dst, k), Convert(src, dst, val)) {
						return
					}
				}
			})
		}
	}

	return dst.Empty()
}
