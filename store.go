package febus

// Store abstracts the hierarchical container the instrument writes to.
// The extraction core needs only four capabilities from it: opening a
// file, listing a node's children, reading a node's attributes, and
// slicing an n-dimensional dataset. HDF5Store is the production
// implementation; tests substitute an in-memory fake.
type Store interface {
	Open(path string) (File, error)
}

// File is an open container. Close must be safe to call on every exit
// path of an extraction, including early empty-result returns.
type File interface {
	Root() Group
	Close() error
}

// Group is a named interior node holding child groups, child datasets
// and attributes.
type Group interface {
	Name() string

	// Groups lists the child groups in file order.
	Groups() []Group

	// Dataset looks up a child dataset by name.
	Dataset(name string) (Dataset, bool)

	// Attrs reads all attributes of the node. Scalar attributes are
	// reported as single values, short fixed-length arrays as slices.
	Attrs() (map[string]interface{}, error)
}

// Dataset is an n-dimensional numeric array.
type Dataset interface {
	Name() string

	// Read returns the full dataset flattened in row-major order.
	Read() ([]float64, error)

	// ReadSlice reads the contiguous rectangular region of the given
	// start coordinates and extent, flattened in row-major order.
	ReadSlice(start, count []uint64) ([]float64, error)

	// ReadHyperslab reads count[i] single elements every stride[i]
	// positions from start[i] along each dimension, flattened in
	// row-major order.
	ReadHyperslab(start, count, stride []uint64) ([]float64, error)
}
