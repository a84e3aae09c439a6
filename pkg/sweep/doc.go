// Package sweep enumerates a two-dimensional parameter sweep and maps each
// global iteration index onto a page layout.
//
// # Overview
//
// A sweep is the cartesian product of two value lists, dim1 and dim2. The
// product is split into pages whose extent along each dimension is capped by
// [Dims.MaxDim1PerPage] and [Dims.MaxDim2PerPage]. Within a page dim2 varies
// fastest; pages are visited row by row.
//
// [Index] is the pure mapping from a global index to a [Record]. [Cursor]
// wraps it for callers that walk the sweep themselves.
//
// # Values
//
// Dimension elements are [Value]s, a closed union over string, integer,
// float and boolean. [Convert], [ParseList], [ParseLines] and [ParseRange]
// build value lists from text.
//
//	dims := sweep.Dims{
//	    Dim1:           []sweep.Value{sweep.Int(20), sweep.Int(30), sweep.Int(40)},
//	    Dim2:           []sweep.Value{sweep.Str("euler"), sweep.Str("ddim")},
//	    MaxDim1PerPage: 2,
//	}
//	rec, err := sweep.Index(dims, 5)
//	// rec.PageNumber == 1, rec.Dim1.IndexInPage == 0, rec.Dim2.IndexInPage == 1
package sweep
