package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/xyplot/pkg/errors"
)

// maxRangeValues bounds ParseRange output.
const maxRangeValues = 10000

// ParseList splits s on sep, trims every element and converts it.
func ParseList(s, sep string, conv Conversion) ([]Value, error) {
	if sep == "" {
		sep = ","
	}
	parts := strings.Split(s, sep)
	out := make([]Value, 0, len(parts))
	for i, p := range parts {
		v, err := Convert(strings.TrimSpace(p), conv)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseLines converts one value per line. Blank lines are skipped, and so
// are lines starting with '#' when stripComments is set.
func ParseLines(text string, stripComments bool, conv Conversion) ([]Value, error) {
	var out []Value
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if stripComments && strings.HasPrefix(line, "#") {
			continue
		}
		v, err := Convert(line, conv)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseRange expands a "min:max:step" spec into values, max inclusive.
// Integer specs produce integers unless conv asks for floats; any fractional
// part produces floats rounded to 1e-6 to avoid accumulation drift.
func ParseRange(spec string, conv Conversion) ([]Value, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid range format %q: expected min:max:step", spec)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if conv != ConvertFloat && !strings.ContainsAny(spec, ".eE") {
		if vals, err := intRange(parts); err == nil {
			return vals, nil
		}
	}
	return floatRange(parts)
}

func intRange(parts []string) ([]Value, error) {
	var nums [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	lo, hi, step := nums[0], nums[1], nums[2]
	if step <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "step must be positive, got %d", step)
	}
	if lo > hi {
		return nil, errors.New(errors.ErrCodeInvalidInput, "min %d is greater than max %d", lo, hi)
	}
	if (hi-lo)/step+1 > maxRangeValues {
		return nil, errors.New(errors.ErrCodeInvalidInput, "range would produce more than %d values", maxRangeValues)
	}
	var out []Value
	for v := lo; v <= hi; v += step {
		out = append(out, Int(v))
	}
	return out, nil
}

func floatRange(parts []string) ([]Value, error) {
	var nums [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid range bound %q", p)
		}
		nums[i] = f
	}
	lo, hi, step := nums[0], nums[1], nums[2]
	if step <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "step must be positive, got %g", step)
	}
	if lo > hi {
		return nil, errors.New(errors.ErrCodeInvalidInput, "min %g is greater than max %g", lo, hi)
	}
	if (hi-lo)/step+1 > maxRangeValues {
		return nil, errors.New(errors.ErrCodeInvalidInput, "range would produce more than %d values", maxRangeValues)
	}
	var out []Value
	for i := 0; ; i++ {
		v := math.Round((lo+float64(i)*step)*1e6) / 1e6
		if v > hi+step/1000 {
			break
		}
		out = append(out, Float(math.Min(v, hi)))
	}
	return out, nil
}
