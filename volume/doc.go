/*
Package volume provides the voxel and pixel containers of a 4D reconstruction.

A Series holds one Volume per phase of the motion cycle.
A Stack holds the measured or simulated projection images.

Arithmetic on mismatched shapes is a programming error and panics.
Inputs from outside the program should be checked first:
	if err := x.Validate(); err != nil {
		return err
	}
	r := b.Clone()
	r.AddScaled(-1, ax)
*/
package volume
