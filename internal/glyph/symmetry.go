package glyph

import "fmt"

// Permutation relabels the six electrodes: position i of the result takes
// the input at index p[i].
type Permutation [ElectrodeCount]int

// SymmetryGroup returns the twelve dihedral relabelings of the electrode
// ring: six rotations followed by six reflections.
func SymmetryGroup() []Permutation {
	group := make([]Permutation, 0, 2*ElectrodeCount)
	for k := 0; k < ElectrodeCount; k++ {
		var p Permutation
		for i := range p {
			p[i] = (i + k) % ElectrodeCount
		}
		group = append(group, p)
	}
	for k := 0; k < ElectrodeCount; k++ {
		var p Permutation
		for i := range p {
			p[i] = ((k-i)%ElectrodeCount + ElectrodeCount) % ElectrodeCount
		}
		group = append(group, p)
	}
	return group
}

// Permute applies p to a six-element slice.
func Permute[T any](p Permutation, in []T) ([]T, error) {
	if len(in) != ElectrodeCount {
		return nil, fmt.Errorf("permute: expected %d elements, got %d", ElectrodeCount, len(in))
	}
	out := make([]T, ElectrodeCount)
	for i, src := range p {
		out[i] = in[src]
	}
	return out, nil
}
