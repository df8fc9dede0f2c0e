package volume

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Image is a 2D detector image.
// Pixel (u, v) is stored at Elems[v*Width+u].
type Image struct {
	Elems         []float64
	Width, Height int
}

// NewImage allocates a zero image.
func NewImage(width, height int) *Image {
	return &Image{make([]float64, width*height), width, height}
}

// At returns pixel (u, v).
func (im *Image) At(u, v int) float64 {
	return im.Elems[v*im.Width+u]
}

// Set modifies pixel (u, v).
func (im *Image) Set(u, v int, x float64) {
	im.Elems[v*im.Width+u] = x
}

// Clone creates a copy of the image.
func (im *Image) Clone() *Image {
	elems := make([]float64, len(im.Elems))
	copy(elems, im.Elems)
	return &Image{elems, im.Width, im.Height}
}

// Scale multiplies every pixel by k.
func (im *Image) Scale(k float64) {
	floats.Scale(k, im.Elems)
}

// AddScaled increments im by alpha*f.
func (im *Image) AddScaled(alpha float64, f *Image) {
	if im.Width != f.Width || im.Height != f.Height {
		panic(fmt.Sprintf("image sizes differ: %dx%d, %dx%d", im.Width, im.Height, f.Width, f.Height))
	}
	floats.AddScaled(im.Elems, alpha, f.Elems)
}

// Stack is an ordered set of projection images of identical size.
type Stack struct {
	Images        []*Image
	Width, Height int
}

// NewStack allocates n zero images.
func NewStack(n, width, height int) *Stack {
	ims := make([]*Image, n)
	for i := range ims {
		ims[i] = NewImage(width, height)
	}
	return &Stack{ims, width, height}
}

// Len gives the number of images in the stack.
func (s *Stack) Len() int {
	return len(s.Images)
}

// Subset returns a stack which shares the images at the given indices.
// The images are not copied.
func (s *Stack) Subset(indices []int) *Stack {
	ims := make([]*Image, len(indices))
	for i, m := range indices {
		ims[i] = s.Images[m]
	}
	return &Stack{ims, s.Width, s.Height}
}

// Validate checks that every image has the dimensions of the stack.
func (s *Stack) Validate() error {
	for i := range s.Images {
		if err := s.ValidateImage(i); err != nil {
			return err
		}
	}
	return nil
}

// ValidateImage checks that image i has the dimensions of the stack.
func (s *Stack) ValidateImage(i int) error {
	im := s.Images[i]
	if im == nil {
		return fmt.Errorf("image %d is nil: %w", i, ErrDimensionMismatch)
	}
	if im.Width != s.Width || im.Height != s.Height || len(im.Elems) != s.Width*s.Height {
		return fmt.Errorf(
			"image %d is %dx%d with %d pixels, stack is %dx%d: %w",
			i, im.Width, im.Height, len(im.Elems), s.Width, s.Height, ErrDimensionMismatch,
		)
	}
	return nil
}
