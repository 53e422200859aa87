package costmap

// GetSubmap extracts the part of the map inside the requested window as an
// independent, un-rotated grid owned by the caller. Windows that straddle the
// map edge are clipped to the overlap. When there is no overlap it reports
// false and returns a grid with the same layers and no geometry.
func (g *Grid) GetSubmap(pos Position, length Length) (*Grid, bool) {
	geom, ok := g.SubmapGeometry(pos, length)
	if !ok {
		opsf("getSubmap: window at %v with length %v does not overlap map at %v (length %v)",
			pos, length, g.position, g.length)
		return g.emptyLike(), false
	}

	regions, err := ResolveRegions(geom.StartIndex, geom.Size, g.size, g.startIndex)
	if err != nil {
		opsf("getSubmap: %v", err)
		return g.emptyLike(), false
	}

	submap := g.emptyLike()
	submap.SetGeometryFrom(geom)
	// The region set only depends on geometry, so it is shared by all layers.
	for name, src := range g.layers {
		dst := submap.layers[name].data
		for _, r := range regions {
			d := r.DestinationIndex(submap.size)
			dst.copyBlock(d[0], d[1], src.data, r.StartIndex[0], r.StartIndex[1], r.Size[0], r.Size[1])
		}
	}
	return submap, true
}
