package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"shopnav/server/internal/layout"
	"shopnav/server/internal/nav"
)

// gridviz rasterizes one floor of a layout document and renders the occupancy
// grid as an HTML chart. Debugging tool; the colour channel carries the cell
// traversal cost, blocked cells are plotted in a separate series.
func main() {
	var (
		layoutPath string
		outPath    string
		floor      int
		margin     float64
	)
	flag.StringVar(&layoutPath, "layout", "", "layout JSON document to rasterize")
	flag.StringVar(&outPath, "out", "grid.html", "output HTML file")
	flag.IntVar(&floor, "floor", 0, "floor number to render")
	flag.Float64Var(&margin, "margin", nav.DefaultAisleMargin, "aisle margin in world units")
	flag.Parse()

	if layoutPath == "" {
		fmt.Fprintln(os.Stderr, "--layout is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(layoutPath)
	if err != nil {
		log.Fatalf("gridviz: %v", err)
	}
	var doc layout.Store
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Fatalf("gridviz: decode layout: %v", err)
	}
	doc = doc.Normalized()

	grid := nav.Rasterize(doc.FloorPlan(floor), nav.RasterOptions{AisleMargin: margin})

	open := make([]opts.ScatterData, 0, grid.Cols()*grid.Rows())
	blocked := make([]opts.ScatterData, 0, 256)
	maxCost := 1.0
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			if !grid.Walkable(col, row) {
				blocked = append(blocked, opts.ScatterData{Value: []interface{}{col, row}})
				continue
			}
			cost := grid.Cost(col, row)
			if cost > maxCost {
				maxCost = cost
			}
			open = append(open, opts.ScatterData{Value: []interface{}{col, row, cost}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Occupancy Grid", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s floor %d", doc.Name, floor),
			Subtitle: fmt.Sprintf("%dx%d cells, %d blocked, margin=%g", grid.Cols(), grid.Rows(), len(blocked), margin),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: grid.Cols(), Name: "col"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: grid.Rows(), Name: "row"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxCost),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#31688e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("cost", open, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	scatter.AddSeries("blocked", blocked,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))

	file, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("gridviz: %v", err)
	}
	defer file.Close()
	if err := scatter.Render(file); err != nil {
		log.Fatalf("gridviz: render: %v", err)
	}
	log.Printf("wrote %s", outPath)
}
