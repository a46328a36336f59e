package mapview

// StyleDocument is a MapLibre style with a single raster basemap.
type StyleDocument struct {
	Version int                     `json:"version"`
	Name    string                  `json:"name"`
	Center  [2]float64              `json:"center"`
	Zoom    float64                 `json:"zoom"`
	Pitch   float64                 `json:"pitch"`
	Sources map[string]RasterSource `json:"sources"`
	Layers  []RasterLayer           `json:"layers"`
}

type RasterSource struct {
	Type        string   `json:"type"`
	Tiles       []string `json:"tiles"`
	TileSize    int      `json:"tileSize"`
	MinZoom     int      `json:"minzoom"`
	MaxZoom     int      `json:"maxzoom"`
	Attribution string   `json:"attribution"`
}

type RasterLayer struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Source  string `json:"source"`
	MinZoom int    `json:"minzoom"`
	MaxZoom int    `json:"maxzoom"`
}

const basemapSource = "basemap"

func NewStyleDocument(opts MapOptions) StyleDocument {
	return StyleDocument{
		Version: 8,
		Name:    "citymap-raster",
		Center:  [2]float64{opts.Center.Lon(), opts.Center.Lat()},
		Zoom:    opts.Zoom,
		Pitch:   opts.Pitch,
		Sources: map[string]RasterSource{
			basemapSource: {
				Type:        "raster",
				Tiles:       []string{opts.TileURL},
				TileSize:    opts.TileSize,
				MinZoom:     opts.MinZoom,
				MaxZoom:     opts.MaxZoom,
				Attribution: opts.Attribution,
			},
		},
		Layers: []RasterLayer{{
			ID:      "basemap-tiles",
			Type:    "raster",
			Source:  basemapSource,
			MinZoom: opts.MinZoom,
			MaxZoom: opts.MaxZoom,
		}},
	}
}
