package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/stars"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/timeline"
)

func main() {
	size := flag.Int("size", 64, "Cube face side in texels")
	flag.Parse()

	fmt.Println("=== Cube Map Check ===")

	// Test 1: face centers
	fmt.Println("Test 1: Face center directions")
	center := (*size - 1) / 2
	for _, f := range cubemap.Faces {
		dir := core.Normalize(cubemap.TexelDirection(f, center, center, *size))
		back := cubemap.Locate(dir, *size)
		fmt.Printf("%s (%d,%d): dir=(%.3f, %.3f, %.3f) -> %s (%d,%d)\n",
			f, center, center, dir[0], dir[1], dir[2], back.Face, back.X, back.Y)
	}

	// Test 2: texel round trip over every face
	fmt.Println("\nTest 2: Texel round trip")
	for _, f := range cubemap.Faces {
		mismatches := 0
		for y := 0; y < *size; y++ {
			for x := 0; x < *size; x++ {
				back := cubemap.Locate(cubemap.TexelDirection(f, x, y, *size), *size)
				if back != (cubemap.Texel{Face: f, X: x, Y: y}) {
					mismatches++
				}
			}
		}
		fmt.Printf("%s: %d of %d texels moved\n", f, mismatches, *size**size)
	}

	// Test 3: random directions land on the star side of the same face
	fmt.Println("\nTest 3: Star side selection")
	rng := core.NewRandom(1)
	idx := stars.NewIndex()
	counts := map[cubemap.Face]int{}
	for range 10000 {
		dir := rng.Direction()
		counts[cubemap.Locate(dir, *size).Face]++
		idx.Add(stars.NewLocation(dir, 0.001, 1))
	}
	for _, f := range cubemap.Faces {
		fmt.Printf("%s: %d directions, %d stars\n", f, counts[f], idx.Side(f).Len())
	}
	fmt.Printf("Luminosity straight up: %.4f\n", idx.LuminosityAt(mgl32.Vec3{0, 1, 0}))

	// Test 4: camera track
	fmt.Println("\nTest 4: Camera track scenes")
	tl, err := timeline.Demo()
	if err != nil {
		log.Fatalf("Failed to parse camera track: %v", err)
	}
	start := 0
	for ii, s := range tl.Scenes() {
		fmt.Printf("%2d %-18s %-6s start=%6d duration=%5d\n", ii, s.Kind, s.Mode, start, s.Duration)
		start += s.Duration
	}
	fmt.Printf("Total: %d ms, split %d..%d ms\n", tl.Length(), timeline.SplitStart, timeline.SplitEnd)
}
