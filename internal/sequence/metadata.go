package sequence

import (
	"errors"
	"fmt"
	"os"

	"github.com/kamusis/dexkit/internal/hand"
	"github.com/kamusis/dexkit/internal/ycb"
	"gopkg.in/yaml.v3"
)

// BetaDim is the number of MANO shape coefficients.
const BetaDim = 10

// idString decodes any YAML scalar as its literal text, so calibration ids
// such as 20200709 stay strings.
type idString string

func (s *idString) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", value.Line)
	}
	*s = idString(value.Value)
	return nil
}

// metaFile is the subset of meta.yml dexkit reads. Pointers mark fields
// whose absence must be told apart from a zero value.
type metaFile struct {
	Serials     []string   `yaml:"serials"`
	NumFrames   *int       `yaml:"num_frames"`
	YCBIDs      []int      `yaml:"ycb_ids"`
	GraspIndex  *int       `yaml:"ycb_grasp_ind"`
	ManoSides   []string   `yaml:"mano_sides"`
	ManoCalib   []idString `yaml:"mano_calib"`
	Extrinsics  idString   `yaml:"extrinsics"`
	ImageWidth  int        `yaml:"image_width"`
	ImageHeight int        `yaml:"image_height"`
}

type calibFileSchema struct {
	Betas []float64 `yaml:"betas"`
}

// Metadata is the validated content of meta.yml plus the calibration it
// references.
type Metadata struct {
	Location       Location
	CalibrationIDs []string
	Betas          [BetaDim]float64
	CandidateIDs   []int
	CandidateNames []string
	GraspIndex     int
	GraspedID      int
	GraspedName    string
	Sides          []hand.Side
	Side           hand.Side
	// NumFrames is -1 when meta.yml does not declare it.
	NumFrames int
	Serials   []string
}

// ReadMetadata parses and validates meta.yml, then loads the first
// referenced calibration. Schema problems are reported together.
func ReadMetadata(loc Location, registry *ycb.Registry) (Metadata, error) {
	if registry == nil {
		registry = ycb.Default()
	}
	p := loc.MetaPath()
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Metadata{}, fail(loc.Key, StageMetadata, fmt.Errorf("%w: %s", ErrMetadataNotFound, p))
		}
		return Metadata{}, fail(loc.Key, StageMetadata, fmt.Errorf("cannot read %s: %w", p, err))
	}

	var raw metaFile
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Metadata{}, fail(loc.Key, StageMetadata, fmt.Errorf("%w: %s: %v", ErrMetadataInvalid, p, err))
	}

	m, err := validateMeta(loc, raw, registry)
	if err != nil {
		return Metadata{}, fail(loc.Key, StageMetadata, fmt.Errorf("%s: %w", p, err))
	}

	betas, err := readBetas(loc.CalibrationPath(m.CalibrationIDs[0]))
	if err != nil {
		return Metadata{}, fail(loc.Key, StageMetadata, err)
	}
	m.Betas = betas
	return m, nil
}

func validateMeta(loc Location, raw metaFile, registry *ycb.Registry) (Metadata, error) {
	m := Metadata{Location: loc, NumFrames: -1, Serials: raw.Serials}
	var errs []error

	for _, cid := range raw.ManoCalib {
		m.CalibrationIDs = append(m.CalibrationIDs, string(cid))
	}
	if len(m.CalibrationIDs) == 0 {
		errs = append(errs, fmt.Errorf("%w: mano_calib is missing or empty", ErrCalibrationMissing))
	}

	switch {
	case len(raw.YCBIDs) == 0:
		errs = append(errs, fmt.Errorf("%w: ycb_ids is missing or empty", ErrInvalidGraspIndex))
	case raw.GraspIndex == nil:
		errs = append(errs, fmt.Errorf("%w: ycb_grasp_ind is missing", ErrInvalidGraspIndex))
	case *raw.GraspIndex < 0 || *raw.GraspIndex >= len(raw.YCBIDs):
		errs = append(errs, fmt.Errorf("%w: ycb_grasp_ind %d out of range for %d ycb_ids", ErrInvalidGraspIndex, *raw.GraspIndex, len(raw.YCBIDs)))
	default:
		m.GraspIndex = *raw.GraspIndex
		m.GraspedID = raw.YCBIDs[m.GraspIndex]
	}
	m.CandidateIDs = append([]int(nil), raw.YCBIDs...)
	for _, id := range raw.YCBIDs {
		name, err := registry.IDToName(id)
		if err != nil {
			errs = append(errs, fmt.Errorf("ycb_ids: %w", err))
			continue
		}
		m.CandidateNames = append(m.CandidateNames, name)
	}
	if len(errs) == 0 {
		m.GraspedName = m.CandidateNames[m.GraspIndex]
	}

	for _, s := range raw.ManoSides {
		side, err := hand.ParseSide(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: mano_sides: %w", ErrMetadataInvalid, err))
			continue
		}
		m.Sides = append(m.Sides, side)
	}
	if len(raw.ManoSides) == 0 {
		errs = append(errs, fmt.Errorf("%w: mano_sides is missing or empty", ErrMetadataInvalid))
	} else if len(m.Sides) > 0 {
		m.Side = m.Sides[0]
	}

	if raw.NumFrames != nil {
		if *raw.NumFrames < 0 {
			errs = append(errs, fmt.Errorf("%w: num_frames %d is negative", ErrMetadataInvalid, *raw.NumFrames))
		} else {
			m.NumFrames = *raw.NumFrames
		}
	}

	if len(errs) > 0 {
		return Metadata{}, errors.Join(errs...)
	}
	return m, nil
}

func readBetas(p string) ([BetaDim]float64, error) {
	var out [BetaDim]float64
	b, err := os.ReadFile(p)
	if err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrCalibrationMissing, p, err)
	}
	var c calibFileSchema
	if err := yaml.Unmarshal(b, &c); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrCalibrationMissing, p, err)
	}
	if c.Betas == nil {
		return out, fmt.Errorf("%w: %s has no betas", ErrCalibrationMissing, p)
	}
	if len(c.Betas) != BetaDim {
		return out, fmt.Errorf("%w: %s has %d betas, want %d", ErrCalibrationMalformed, p, len(c.Betas), BetaDim)
	}
	copy(out[:], c.Betas)
	return out, nil
}
