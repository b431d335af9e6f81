// tilemaptool is a CLI utility for inspecting arena levels and the meshes
// built from them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Faultbox/arena/internal/engine/navigation"
	"github.com/Faultbox/arena/internal/engine/surface"
	"github.com/Faultbox/arena/internal/engine/tilemesh"
	"github.com/Faultbox/arena/internal/level"
	"github.com/Faultbox/arena/internal/logger"
	"github.com/Faultbox/arena/pkg/tilemap"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	if err := logger.Init(os.Getenv("ARENA_LOG_LEVEL"), ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args, os.Stdout)
	case "mesh":
		err = cmdMesh(args, os.Stdout)
	case "convert":
		err = cmdConvert(args, os.Stdout)
	case "path":
		err = cmdPath(args, os.Stdout)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stdout)
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `tilemaptool - arena level utility

Usage:
  tilemaptool <command> [options]

Commands:
  info [-layer name] <level>                 Show size, tile count and rotations
  mesh [-tile-size n] [-columns n] [-n N] [-layer name] <level>
                                             Build the mesh and print buffer stats
  convert [-layer name] [-name s] <in.tmx> <out.yaml>
                                             Convert a Tiled map to the YAML format
  path [-4] [-layer name] <level> <x0,y0> <x1,y1>
                                             Route through empty cells and draw it

Levels may be .yaml, .yml or .tmx files. Set ARENA_LOG_LEVEL=debug for
build logs.

Examples:
  tilemaptool info levels/pit.yaml
  tilemaptool mesh -n 8 levels/pit.tmx
  tilemaptool convert -layer ground levels/pit.tmx levels/pit.yaml
  tilemaptool path levels/pit.yaml 0,0 15,15`)
}

func cmdInfo(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	layer := fs.String("layer", "", "TMX tile layer (default: first)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: tilemaptool info [-layer name] <level>", errUsage)
	}

	path := fs.Arg(0)
	grid, err := level.LoadFile(path, *layer)
	if err != nil {
		return err
	}

	rotations := make(map[tilemap.Rotation]int)
	graphics := make(map[[2]int]int)
	grid.Each(func(_, _ int, t tilemap.Tile) {
		rotations[t.Rotation()]++
		graphics[[2]int{t.GraphicX(), t.GraphicY()}]++
	})

	cells := grid.Width() * grid.Height()
	fmt.Fprintf(w, "Level:    %s\n", path)
	fmt.Fprintf(w, "Size:     %dx%d\n", grid.Width(), grid.Height())
	fmt.Fprintf(w, "Tiles:    %d of %d cells (%.1f%%)\n", grid.Count(), cells, 100*float64(grid.Count())/float64(cells))
	fmt.Fprintf(w, "Graphics: %d distinct\n", len(graphics))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rotations:")
	for _, r := range []tilemap.Rotation{tilemap.Rotation0, tilemap.Rotation90, tilemap.Rotation180, tilemap.Rotation270} {
		fmt.Fprintf(w, "  %-7s %d\n", r, rotations[r])
	}

	type graphicStat struct {
		cell  [2]int
		count int
	}
	var stats []graphicStat
	for cell, count := range graphics {
		stats = append(stats, graphicStat{cell, count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		if stats[i].cell[1] != stats[j].cell[1] {
			return stats[i].cell[1] < stats[j].cell[1]
		}
		return stats[i].cell[0] < stats[j].cell[0]
	})
	if len(stats) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Most used graphics:")
		for i, s := range stats {
			if i == 5 {
				break
			}
			fmt.Fprintf(w, "  (%d,%d) %d\n", s.cell[0], s.cell[1], s.count)
		}
	}
	return nil
}

func cmdMesh(args []string, w io.Writer) error {
	defaults := tilemesh.DefaultOptions()

	fs := flag.NewFlagSet("mesh", flag.ContinueOnError)
	layer := fs.String("layer", "", "TMX tile layer (default: first)")
	tileSize := fs.Float64("tile-size", float64(defaults.TileSize), "World units per tile")
	columns := fs.Int("columns", 4, "Atlas columns")
	limit := fs.Int("n", 0, "Print the first N vertices with UVs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: tilemaptool mesh [-tile-size n] [-columns n] [-n N] [-layer name] <level>", errUsage)
	}
	if *tileSize <= 0 || *columns <= 0 {
		return fmt.Errorf("%w: -tile-size and -columns must be positive", errUsage)
	}

	grid, err := level.LoadFile(fs.Arg(0), *layer)
	if err != nil {
		return err
	}

	s := surface.New(tilemesh.Options{
		TileSize:   float32(*tileSize),
		UVTileSize: tilemesh.UVTileSizeFor(*columns),
	}, logger.Named("tilemaptool"))
	s.SetGrid(grid)
	if _, err := s.Render(); err != nil {
		return err
	}
	mesh := s.Mesh()

	fmt.Fprintf(w, "Level:    %s (%dx%d)\n", fs.Arg(0), grid.Width(), grid.Height())
	fmt.Fprintf(w, "Cells:    %d\n", mesh.Cells)
	fmt.Fprintf(w, "Vertices: %d\n", len(mesh.Vertices))
	fmt.Fprintf(w, "Indices:  %d (%d triangles)\n", len(mesh.Indices), len(mesh.Indices)/3)
	fmt.Fprintf(w, "UVs:      %d\n", len(mesh.UVs))
	fmt.Fprintf(w, "Paths:    %d\n", len(mesh.Paths))
	if !mesh.Empty() {
		b := mesh.Bounds
		fmt.Fprintf(w, "Bounds:   (%g, %g, %g) - (%g, %g, %g)\n",
			b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	}

	n := min(*limit, len(mesh.Vertices))
	if n > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "   #  position            uv")
		for i := 0; i < n; i++ {
			v, uv := mesh.Vertices[i], mesh.UVs[i]
			fmt.Fprintf(w, "%4d  (%7.2f, %7.2f)  (%.4f, %.4f)\n", i, v.X, v.Y, uv.X, uv.Y)
		}
	}
	return nil
}

func cmdConvert(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	layer := fs.String("layer", "", "TMX tile layer (default: first)")
	name := fs.String("name", "", "Level name (default: output file name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("%w: tilemaptool convert [-layer name] [-name s] <in.tmx> <out.yaml>", errUsage)
	}

	in, out := fs.Arg(0), fs.Arg(1)
	grid, err := level.LoadFile(in, *layer)
	if err != nil {
		return err
	}

	levelName := *name
	if levelName == "" {
		base := filepath.Base(out)
		levelName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if err := level.Save(out, grid, levelName); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s: %dx%d, %d tiles\n", out, grid.Width(), grid.Height(), grid.Count())
	return nil
}

func cmdPath(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("path", flag.ContinueOnError)
	layer := fs.String("layer", "", "TMX tile layer (default: first)")
	fourWay := fs.Bool("4", false, "Disallow diagonal steps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return fmt.Errorf("%w: tilemaptool path [-4] [-layer name] <level> <x0,y0> <x1,y1>", errUsage)
	}

	start, err := parseCell(fs.Arg(1))
	if err != nil {
		return err
	}
	goal, err := parseCell(fs.Arg(2))
	if err != nil {
		return err
	}

	grid, err := level.LoadFile(fs.Arg(0), *layer)
	if err != nil {
		return err
	}

	pf := navigation.NewPathFinder(navigation.FromGrid(grid), !*fourWay)
	path := pf.FindPath(start, goal)
	if path == nil {
		return fmt.Errorf("no path from %d,%d to %d,%d", start.X, start.Y, goal.X, goal.Y)
	}

	onPath := make(map[navigation.Cell]bool, len(path))
	for _, c := range path {
		onPath[c] = true
	}

	fmt.Fprintf(w, "Steps: %d, cost %.2f\n", len(path)-1, navigation.Cost(path))
	for y := 0; y < grid.Height(); y++ {
		var row strings.Builder
		for x := 0; x < grid.Width(); x++ {
			c := navigation.Cell{X: x, Y: y}
			switch {
			case c == start:
				row.WriteByte('S')
			case c == goal:
				row.WriteByte('G')
			case onPath[c]:
				row.WriteByte('*')
			case !pf.IsWalkable(c):
				row.WriteByte('#')
			default:
				row.WriteByte('.')
			}
		}
		fmt.Fprintln(w, row.String())
	}
	return nil
}

func parseCell(s string) (navigation.Cell, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return navigation.Cell{}, fmt.Errorf("%w: cell %q, want x,y", errUsage, s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return navigation.Cell{}, fmt.Errorf("%w: cell %q, want x,y", errUsage, s)
	}
	return navigation.Cell{X: x, Y: y}, nil
}
