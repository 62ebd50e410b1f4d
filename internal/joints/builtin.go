package joints

import (
	"fmt"
	"strings"
)

// MANO21 is the 21-joint order produced by the MANO layer (same as OpenPose).
var MANO21 = MustConvention("MANO21/OpenPose", []Part{
	{Name: "wrist", Joints: []int{0}},
	{Name: "thumb", Joints: []int{1, 2, 3, 4}},
	{Name: "index", Joints: []int{5, 6, 7, 8}},
	{Name: "middle", Joints: []int{9, 10, 11, 12}},
	{Name: "ring", Joints: []int{13, 14, 15, 16}},
	{Name: "pinky", Joints: []int{17, 18, 19, 20}},
})

// HO3D is the 21-joint order used by the HO-3D benchmark: fingertips are
// appended after the other 16 joints.
var HO3D = MustConvention("HO3D", []Part{
	{Name: "wrist", Joints: []int{0}},
	{Name: "index", Joints: []int{1, 2, 3, 17}},
	{Name: "middle", Joints: []int{4, 5, 6, 18}},
	{Name: "ring", Joints: []int{10, 11, 12, 19}},
	{Name: "pinky", Joints: []int{7, 8, 9, 20}},
	{Name: "thumb", Joints: []int{13, 14, 15, 16}},
})

var (
	MANOToHO3D = MustReindexer(MANO21, HO3D)
	HO3DToMANO = MANOToHO3D.Inverse()
)

// Lookup resolves a built-in convention by short name ("mano", "ho3d") or
// full name, case-insensitively.
func Lookup(name string) (*Convention, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mano", "mano21", strings.ToLower(MANO21.Name()):
		return MANO21, nil
	case "ho3d":
		return HO3D, nil
	default:
		return nil, fmt.Errorf("%w: %q (want mano or ho3d)", ErrUnknownConvention, name)
	}
}
