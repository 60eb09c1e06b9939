package models

// Series is one x/y curve ready for plotting
type Series struct {
	Name      string    `json:"name" doc:"Legend label"`
	X         []float64 `json:"x" doc:"X values"`
	Y         []float64 `json:"y" doc:"Y values"`
	XLabel    string    `json:"x_label" doc:"X axis title"`
	YLabel    string    `json:"y_label" doc:"Y axis title"`
	XReversed bool      `json:"x_reversed" doc:"Whether the x axis runs high to low"`
}

// Marker is a labelled vertical line, used for peak annotation
type Marker struct {
	X     float64 `json:"x" doc:"Marker position on the x axis"`
	Label string  `json:"label" doc:"Marker text"`
	Color int     `json:"color" doc:"Palette index shared with the owning series"`
}

// Chart is a renderer-independent description of a figure
type Chart struct {
	Title     string   `json:"title,omitempty" doc:"Chart title"`
	XLabel    string   `json:"x_label" doc:"X axis title"`
	YLabel    string   `json:"y_label" doc:"Y axis title"`
	XReversed bool     `json:"x_reversed" doc:"Whether the x axis runs high to low"`
	LogY      bool     `json:"log_y" doc:"Whether the y axis is logarithmic"`
	Series    []Series `json:"series" doc:"Curves in draw order"`
	Markers   []Marker `json:"markers,omitempty" doc:"Vertical markers"`
	Warnings  []string `json:"warnings,omitempty" doc:"Caller-visible caveats"`
}

// Peak is the advisory maximum of a smoothed curve
type Peak struct {
	Name       string  `json:"name" doc:"Source file name"`
	Index      int     `json:"index" doc:"Sample index of the maximum"`
	Wavelength float64 `json:"wavelength" doc:"Peak wavelength in nm"`
	Energy     float64 `json:"energy" doc:"Peak energy in eV"`
	Value      float64 `json:"value" doc:"Smoothed normalized intensity at the peak"`
}
