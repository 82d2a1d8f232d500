package convert

// Options configures flattening behavior.
type Options struct {
	// SortRows stably sorts cells by row before flattening. Without it a
	// feed that is not row-major is grouped exactly as it arrives.
	SortRows bool
	// Strict fails with a *MissingLegendError when a data cell's column has
	// no legend entry. Otherwise the column label is used as the key.
	Strict bool
	// SkipEmptyItems drops items without any field, including the trailing
	// item that is always flushed.
	SkipEmptyItems bool
}

// DefaultOptions returns options that reproduce the widget's converter.
func DefaultOptions() Options {
	return Options{}
}
