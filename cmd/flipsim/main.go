// Command flipsim drives a BoxScene + Simulator for a fixed number of
// frames, printing per-step diagnostics. Grounded in the teacher's
// app.RenderFluidGL/DSLFluidRenderer.Run driver-loop shape (construct
// config, construct fluid, loop, print) minus the GL context and render
// calls.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/andewx/flipsim/scene"
	"github.com/andewx/flipsim/sim"
	"github.com/andewx/flipsim/utils"
	"github.com/andewx/flipsim/vector"
)

func main() {
	res := flag.Int("res", 20, "cubic grid resolution (cells per axis)")
	steps := flag.Int("steps", 100, "number of frames to simulate")
	exportDir := flag.String("export", "", "directory for per-frame particle CSV export (empty disables export)")
	verbose := flag.Bool("verbose", false, "narrate each step")
	flag.Parse()

	log := utils.NewLogger(*verbose)

	dims := [3]int{*res, *res, *res}
	bscene := scene.NewBoxScene(dims, 2.0, scene.FluidSource{
		Min: vector.Vec3{0.0, 0.0, 0.0},
		Max: vector.Vec3{0.4, 0.6, 1.0},
	})
	bscene.ExportDir = *exportDir

	params := sim.DefaultParams()
	params.Verbose = *verbose

	simulator, err := sim.New(dims, bscene, params, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	simulator.Init()
	log.Printf("initialized %d particles over a %dx%dx%d domain", len(simulator.Particles()), dims[0], dims[1], dims[2])

	exporting := *exportDir != ""
	for i := 0; i < *steps; i++ {
		simulator.Step(false, false, exporting)
		if *verbose {
			log.Printf("frame %d: %d particles", i+1, len(simulator.Particles()))
		}
	}

	log.Printf("done: %d frames, %d particles", *steps, len(simulator.Particles()))
}
