package stack

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	planePattern = regexp.MustCompile(`(?i)z(\d+)[^0-9]*t(\d+)`)
	digitRun     = regexp.MustCompile(`\d+`)
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".gif":  true,
}

type planeFile struct {
	name string
	z, t int
}

// planeOf works out which plane a file holds. Names like "cell_z003_t001.png"
// give both indices; otherwise every digit in the name is read as the
// z-section and t is 0.
func planeOf(filename string) (z, t int) {
	base := filepath.Base(filename)
	if m := planePattern.FindStringSubmatch(base); m != nil {
		z, _ = strconv.Atoi(m[1])
		t, _ = strconv.Atoi(m[2])
		return z, t
	}
	digits := strings.Join(digitRun.FindAllString(base, -1), "")
	if digits != "" {
		z, _ = strconv.Atoi(digits)
	}
	return z, 0
}

// Load reads every image in dir as one plane of a stack. Plane indices come
// from the file names and are compacted, so files z010 and z020 become z=0
// and z=1. Every (z, t) of the resulting block needs exactly one file, and
// all images must share the dimensions of the first.
func Load(dir string) (*Stack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []planeFile
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		z, t := planeOf(e.Name())
		files = append(files, planeFile{name: e.Name(), z: z, t: t})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}

	zs := compact(files, func(f planeFile) int { return f.z })
	ts := compact(files, func(f planeFile) int { return f.t })
	if err := checkPlanes(files, zs, ts); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}

	var data []float64
	var width, height int
	for _, f := range files {
		img, err := imaging.Open(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", f.name, err)
		}
		b := img.Bounds()
		if data == nil {
			width, height = b.Dx(), b.Dy()
			data = make([]float64, width*height*len(zs)*len(ts))
		} else if b.Dx() != width || b.Dy() != height {
			return nil, fmt.Errorf("image %s is %dx%d, expected %dx%d", f.name, b.Dx(), b.Dy(), width, height)
		}

		start := (ts[f.t]*len(zs) + zs[f.z]) * width * height
		copy(data[start:start+width*height], imageToFloat(img))
	}

	fmt.Printf("Loaded %d planes (%d z-sections, %d time-points) of %dx%d\n",
		len(files), len(zs), len(ts), width, height)

	return New(data, width, height, len(zs), len(ts))
}

// checkPlanes requires exactly one file for every (z, t) of the block
func checkPlanes(files []planeFile, zs, ts map[int]int) error {
	owner := make(map[[2]int]string, len(files))
	for _, f := range files {
		key := [2]int{f.z, f.t}
		if prev, ok := owner[key]; ok {
			return fmt.Errorf("files %s and %s both hold plane z=%d,t=%d", prev, f.name, f.z, f.t)
		}
		owner[key] = f.name
	}
	if len(owner) == len(zs)*len(ts) {
		return nil
	}

	zVals, tVals := sortedKeys(zs), sortedKeys(ts)
	for _, t := range tVals {
		for _, z := range zVals {
			if _, ok := owner[[2]int{z, t}]; !ok {
				return fmt.Errorf("no image for plane z=%d,t=%d", z, t)
			}
		}
	}
	return nil
}

func sortedKeys(m map[int]int) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// compact maps the distinct values of key onto 0..n-1 in ascending order
func compact(files []planeFile, key func(planeFile) int) map[int]int {
	seen := make(map[int]bool)
	var vals []int
	for _, f := range files {
		k := key(f)
		if !seen[k] {
			seen[k] = true
			vals = append(vals, k)
		}
	}
	sort.Ints(vals)
	out := make(map[int]int, len(vals))
	for i, v := range vals {
		out[v] = i
	}
	return out
}

// imageToFloat converts an image to grayscale intensities in [0, 1]
func imageToFloat(img image.Image) []float64 {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	result := make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// NRGBA pixels are 4 bytes; after Grayscale R == G == B
			result[y*width+x] = float64(gray.Pix[y*gray.Stride+x*4]) / 255.0
		}
	}
	return result
}

// SavePlane writes plane (z, t) to path; the format follows the extension
func (s *Stack) SavePlane(z, t int, path string) error {
	img, err := s.PlaneImage(z, t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return imaging.Save(img, path)
}
