package febus

import (
	"fmt"

	"github.com/scigolib/hdf5"
)

// HDF5Store implements Store over the pure-Go HDF5 reader. It is the
// production store; the zero value is ready to use.
type HDF5Store struct{}

// Open opens the HDF5 file at path.
func (HDF5Store) Open(path string) (File, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, err
	}
	return &hdf5File{f: f}, nil
}

type hdf5File struct {
	f *hdf5.File
}

func (h *hdf5File) Root() Group {
	return &hdf5Group{g: h.f.Root()}
}

func (h *hdf5File) Close() error {
	return h.f.Close()
}

type hdf5Group struct {
	g *hdf5.Group
}

func (h *hdf5Group) Name() string {
	return h.g.Name()
}

func (h *hdf5Group) Groups() []Group {
	var out []Group
	for _, child := range h.g.Children() {
		if g, ok := child.(*hdf5.Group); ok {
			out = append(out, &hdf5Group{g: g})
		}
	}
	return out
}

func (h *hdf5Group) Dataset(name string) (Dataset, bool) {
	for _, child := range h.g.Children() {
		if d, ok := child.(*hdf5.Dataset); ok && d.Name() == name {
			return &hdf5Dataset{d: d}, true
		}
	}
	return nil, false
}

func (h *hdf5Group) Attrs() (map[string]interface{}, error) {
	attrs, err := h.g.Attributes()
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(attrs))
	for _, attr := range attrs {
		value, err := attr.ReadValue()
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", attr.Name, err)
		}
		out[attr.Name] = value
	}
	return out, nil
}

type hdf5Dataset struct {
	d *hdf5.Dataset
}

func (h *hdf5Dataset) Name() string {
	return h.d.Name()
}

func (h *hdf5Dataset) Read() ([]float64, error) {
	return h.d.Read()
}

func (h *hdf5Dataset) ReadSlice(start, count []uint64) ([]float64, error) {
	raw, err := h.d.ReadSlice(start, count)
	if err != nil {
		return nil, err
	}
	return asFloatSlice(raw)
}

func (h *hdf5Dataset) ReadHyperslab(start, count, stride []uint64) ([]float64, error) {
	raw, err := h.d.ReadHyperslab(&hdf5.HyperslabSelection{
		Start:  start,
		Count:  count,
		Stride: stride,
	})
	if err != nil {
		return nil, err
	}
	return asFloatSlice(raw)
}
