// Command ecoclim runs a small preprocessing pipeline over one variable of
// a NetCDF file and renders the result as a global map.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/cxiao13/ecoclim-tools/config"
	"github.com/cxiao13/ecoclim-tools/grid"
	"github.com/cxiao13/ecoclim-tools/landmask"
	"github.com/cxiao13/ecoclim-tools/plot"
	"github.com/cxiao13/ecoclim-tools/preprocess"
)

var (
	file       = flag.String("file", "", "path to a NetCDF file")
	varName    = flag.String("var", "", "name of the variable to load")
	detrendDim = flag.String("detrendDim", "", "dimension to remove a linear trend along (empty: skip)")
	deseason   = flag.Bool("deseasonalize", false, "remove the monthly seasonal cycle along time")
	landFile   = flag.String("landShp", "", "land polygon shapefile for ocean masking and borders (empty: skip)")
	label      = flag.String("label", "", "text shown under the color scale")
	out        = flag.String("out", "map", "name of the saved figure")
)

func main() {
	godotenv.Load()
	flag.Parse()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.FromEnv()

	a, err := grid.Load(*file, *varName)
	if err != nil {
		logger.Error("Could not load variable", "file", *file, "var", *varName, "err", err)
		os.Exit(1)
	}
	logger.Info("variable summary", summary(a)...)

	a, err = preprocess.FormatCoords(a)
	if err != nil {
		logger.Error("Could not standardize coordinates", "err", err)
		os.Exit(1)
	}

	var mask *landmask.Mask
	if *landFile != "" {
		mask, err = landmask.FromShapefile(*landFile)
		if err != nil {
			logger.Error("Could not load land mask", "file", *landFile, "err", err)
			os.Exit(1)
		}
		if a, err = preprocess.MaskOcean(a, mask); err != nil {
			logger.Error("Could not mask ocean", "err", err)
			os.Exit(1)
		}
	}
	if *detrendDim != "" {
		if a, err = preprocess.Detrend(a, *detrendDim, 1); err != nil {
			logger.Error("Could not detrend", "dim", *detrendDim, "err", err)
			os.Exit(1)
		}
	}
	if *deseason {
		if a, err = preprocess.Deseasonalize(a, "time", preprocess.PeriodMonthly); err != nil {
			logger.Error("Could not deseasonalize", "err", err)
			os.Exit(1)
		}
	}

	opts := plot.MapOptions{Label: *label, SaveName: *out}
	if mask != nil {
		opts.Borders = mask.Polygons()
	}
	if _, err := plot.GlobalMap(cfg, a, opts); err != nil {
		logger.Error("Could not render map", "err", err)
		os.Exit(1)
	}
	logger.Info("saved figure", "dir", cfg.ScratchDir, "name", *out)
}

func summary(a *grid.Array) []any {
	args := []any{"dims", a.Dims}
	for _, d := range a.Dims {
		n, _ := a.Len(d)
		args = append(args, d+"Cnt", n)
	}
	return args
}
