// Package febus extracts continuous strain and strain-rate time series
// from the HDF5 block files written by Febus A1 distributed fibre-optic
// sensing interrogators. The instrument stores fixed-duration, mutually
// overlapping blocks of channel-by-sample data; this package resolves the
// block geometry, removes the overlap, applies optional time and distance
// windows, and returns a single contiguous time×distance matrix.
package febus

import (
	"go.uber.org/zap"
)

// Read extracts data from the Febus HDF5 file at path. The file handle is
// released on every return path.
func Read(path string, opts ...Option) (*Data, error) {
	return ReadFrom(HDF5Store{}, path, opts...)
}

// ReadFrom is Read against an arbitrary store implementation.
func ReadFrom(store Store, path string, opts ...Option) (*Data, error) {
	cfg := newConfig(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	f, err := store.Open(path)
	if err != nil {
		return nil, wrapError("file open failed", err)
	}
	defer func() { _ = f.Close() }()

	return extract(f, cfg)
}

func extract(f File, cfg *config) (*Data, error) {
	source, err := locateSource(f.Root(), cfg.logger)
	if err != nil {
		return nil, err
	}
	sourceAttrs, err := source.Attrs()
	if err != nil {
		return nil, wrapError("source attribute read failed", err)
	}

	sch := resolveSchema(resolveVersion(cfg.version, sourceAttrs, cfg.logger), cfg.logger)

	zone, err := locateZone(source, cfg.logger)
	if err != nil {
		return nil, err
	}
	zoneAttrs, err := zone.Attrs()
	if err != nil {
		return nil, wrapError("zone attribute read failed", err)
	}

	meta, err := normalizeAttributes(zoneAttrs, sourceAttrs, sch, cfg.logger)
	if err != nil {
		return nil, err
	}

	signal, err := locateSignal(zone, sch, meta)
	if err != nil {
		return nil, err
	}

	window, err := resolveBlockGeometry(meta)
	if err != nil {
		return nil, err
	}

	distances := meta.Distances()

	if cfg.header {
		return &Data{Distances: distances, Meta: meta}, nil
	}

	timeDS, ok := source.Dataset("time")
	if !ok {
		return nil, schemaErrorf("source node %q has no \"time\" dataset", source.Name())
	}
	blockStarts, err := timeDS.Read()
	if err != nil {
		return nil, wrapError("time dataset read failed", err)
	}

	blocks, ok := resolveTimeWindow(blockStarts, cfg)
	if !ok {
		return &Data{Distances: distances, Meta: meta}, nil
	}
	// The signal dataset may hold more blocks than the time axis in a
	// malformed file; the first selected block must have a start time.
	if blocks.first > len(blockStarts) {
		return nil, schemaErrorf("time dataset holds %d block starts, selection begins at block %d",
			len(blockStarts), blocks.first)
	}
	channels, ok := resolveDistanceWindow(distances, cfg)
	if !ok {
		return &Data{Distances: distances, Meta: meta}, nil
	}

	values, rows, cols, err := assemble(signal, channels, window, blocks)
	if err != nil {
		return nil, err
	}

	dates, rel := buildTimeAxes(blockStarts[blocks.first-1], meta.SamplingInterval(), rows)

	return &Data{
		Values:    values,
		Rows:      rows,
		Cols:      cols,
		Dates:     dates,
		Times:     rel,
		Distances: stridedSubset(distances, channels),
		Meta:      meta,
	}, nil
}

// locateSource walks root → sensor → source. The layout holds exactly one
// node at each level; extra candidates are warned about and the first is
// used.
func locateSource(root Group, logger *zap.Logger) (Group, error) {
	sensors := root.Groups()
	if len(sensors) == 0 {
		return nil, schemaErrorf("no sensor node under the file root")
	}
	if len(sensors) > 1 {
		logger.Warn("multiple sensor nodes, using the first",
			zap.Int("count", len(sensors)),
			zap.String("selected", sensors[0].Name()))
	}
	sources := sensors[0].Groups()
	if len(sources) == 0 {
		return nil, schemaErrorf("no source node under sensor %q", sensors[0].Name())
	}
	if len(sources) > 1 {
		logger.Warn("multiple source nodes, using the first",
			zap.Int("count", len(sources)),
			zap.String("selected", sources[0].Name()))
	}
	return sources[0], nil
}

// locateZone finds the single zone group under the source node.
func locateZone(source Group, logger *zap.Logger) (Group, error) {
	zones := source.Groups()
	if len(zones) == 0 {
		return nil, schemaErrorf("no zone node under source %q", source.Name())
	}
	if len(zones) > 1 {
		logger.Warn("multiple zone nodes, using the first",
			zap.Int("count", len(zones)),
			zap.String("selected", zones[0].Name()))
	}
	return zones[0], nil
}

// locateSignal finds the strain or strain-rate dataset under the zone,
// using the dataset names of the resolved schema, and records the physical
// quantity on the metadata.
func locateSignal(zone Group, sch schema, meta *Metadata) (Dataset, error) {
	if ds, ok := zone.Dataset(sch.strainRateName); ok {
		meta.DataType = DataTypeStrainRate
		return ds, nil
	}
	if ds, ok := zone.Dataset(sch.strainName); ok {
		meta.DataType = DataTypeStrain
		return ds, nil
	}
	return nil, schemaErrorf("zone %q has neither %q nor %q dataset for version %s",
		zone.Name(), sch.strainRateName, sch.strainName, sch.version)
}
