package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/kamusis/dexkit/internal/dexerr"
	"github.com/kamusis/dexkit/internal/fsutil"
	"github.com/kamusis/dexkit/internal/sequence"
)

const (
	FormatJSON  = "json"
	FormatArrow = "arrow"
)

// FrameWriter serializes one frame record to a file.
type FrameWriter interface {
	Format() string
	Ext() string
	Write(path string, fr sequence.FrameRecord) error
}

// NewFrameWriter returns the writer for format ("json" when empty).
func NewFrameWriter(format string) (FrameWriter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return jsonWriter{}, nil
	case FormatArrow:
		return arrowWriter{mem: memory.NewGoAllocator()}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", dexerr.ErrConfiguration, format)
	}
}

type jsonWriter struct{}

func (jsonWriter) Format() string { return FormatJSON }
func (jsonWriter) Ext() string    { return "json" }

func (jsonWriter) Write(path string, fr sequence.FrameRecord) error {
	b, err := json.Marshal(fr)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, append(b, '\n'), 0o644)
}

// Column order of the Arrow frame schema.
const (
	colSeqName = iota
	colHandPose
	colHandTrans
	colHandBeta
	colObjRot
	colObjTrans
	colObjName
	colHandJoints3D
	colSide
	colFrame
	colOrder
)

func vec(n int32) arrow.DataType {
	return arrow.FixedSizeListOf(n, arrow.PrimitiveTypes.Float64)
}

var frameSchema = arrow.NewSchema([]arrow.Field{
	{Name: "seqName", Type: arrow.BinaryTypes.String},
	{Name: "handPose", Type: vec(48)},
	{Name: "handTrans", Type: vec(3)},
	{Name: "handBeta", Type: vec(10)},
	{Name: "objRot", Type: vec(3)},
	{Name: "objTrans", Type: vec(3)},
	{Name: "objName", Type: arrow.BinaryTypes.String},
	{Name: "handJoints3D", Type: arrow.ListOf(vec(3)), Nullable: true},
	{Name: "side", Type: arrow.BinaryTypes.String},
	{Name: "frame", Type: arrow.PrimitiveTypes.Int64},
	{Name: "order", Type: arrow.BinaryTypes.String},
}, nil)

// arrowWriter writes each frame as a single-row Arrow IPC file.
type arrowWriter struct {
	mem memory.Allocator
}

func (arrowWriter) Format() string { return FormatArrow }
func (arrowWriter) Ext() string    { return "arrow" }

func (w arrowWriter) Write(path string, fr sequence.FrameRecord) error {
	b := array.NewRecordBuilder(w.mem, frameSchema)
	defer b.Release()

	b.Field(colSeqName).(*array.StringBuilder).Append(fr.SeqName)
	for col, vals := range map[int][]float64{
		colHandPose:  fr.HandPose,
		colHandTrans: fr.HandTrans,
		colHandBeta:  fr.HandBeta,
		colObjRot:    fr.ObjRot,
		colObjTrans:  fr.ObjTrans,
	} {
		field := frameSchema.Field(col)
		if n := int(field.Type.(*arrow.FixedSizeListType).Len()); len(vals) != n {
			return fmt.Errorf("%s has %d values, want %d", field.Name, len(vals), n)
		}
		lb := b.Field(col).(*array.FixedSizeListBuilder)
		lb.Append(true)
		lb.ValueBuilder().(*array.Float64Builder).AppendValues(vals, nil)
	}
	b.Field(colObjName).(*array.StringBuilder).Append(fr.ObjName)

	jb := b.Field(colHandJoints3D).(*array.ListBuilder)
	if fr.HandJoints3D == nil {
		jb.AppendNull()
	} else {
		jb.Append(true)
		pb := jb.ValueBuilder().(*array.FixedSizeListBuilder)
		vb := pb.ValueBuilder().(*array.Float64Builder)
		for _, p := range fr.HandJoints3D {
			if len(p) != 3 {
				return fmt.Errorf("joint has %d coordinates, want 3", len(p))
			}
			pb.Append(true)
			vb.AppendValues(p, nil)
		}
	}
	b.Field(colSide).(*array.StringBuilder).Append(fr.Side)
	b.Field(colFrame).(*array.Int64Builder).Append(int64(fr.Frame))
	b.Field(colOrder).(*array.StringBuilder).Append(fr.Order)

	rec := b.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	fw, err := ipc.NewFileWriter(&buf, ipc.WithSchema(frameSchema), ipc.WithAllocator(w.mem))
	if err != nil {
		return err
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return err
	}
	if err := fw.Close(); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// ReadFrame reads back a frame written by either writer, picking the
// decoder from the file extension.
func ReadFrame(path string) (sequence.FrameRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return sequence.FrameRecord{}, err
	}
	switch filepath.Ext(path) {
	case ".json":
		var fr sequence.FrameRecord
		if err := json.Unmarshal(b, &fr); err != nil {
			return sequence.FrameRecord{}, fmt.Errorf("invalid frame %s: %w", path, err)
		}
		return fr, nil
	case ".arrow":
		fr, err := decodeArrowFrame(b)
		if err != nil {
			return sequence.FrameRecord{}, fmt.Errorf("invalid frame %s: %w", path, err)
		}
		return fr, nil
	default:
		return sequence.FrameRecord{}, fmt.Errorf("unknown frame format: %s", path)
	}
}

func decodeArrowFrame(b []byte) (sequence.FrameRecord, error) {
	r, err := ipc.NewFileReader(bytes.NewReader(b), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return sequence.FrameRecord{}, err
	}
	defer r.Close()
	if r.NumRecords() != 1 {
		return sequence.FrameRecord{}, fmt.Errorf("expected 1 record batch, got %d", r.NumRecords())
	}
	rec, err := r.Record(0)
	if err != nil {
		return sequence.FrameRecord{}, err
	}
	if int(rec.NumCols()) != frameSchema.NumFields() {
		return sequence.FrameRecord{}, fmt.Errorf("expected %d columns, got %d", frameSchema.NumFields(), rec.NumCols())
	}
	if rec.NumRows() != 1 {
		return sequence.FrameRecord{}, fmt.Errorf("expected 1 row, got %d", rec.NumRows())
	}

	str := func(col int) string { return rec.Column(col).(*array.String).Value(0) }
	floats := func(col int) []float64 {
		l := rec.Column(col).(*array.FixedSizeList)
		start, end := l.ValueOffsets(0)
		vals := l.ListValues().(*array.Float64).Float64Values()
		return append([]float64(nil), vals[start:end]...)
	}

	fr := sequence.FrameRecord{
		SeqName:   str(colSeqName),
		HandPose:  floats(colHandPose),
		HandTrans: floats(colHandTrans),
		HandBeta:  floats(colHandBeta),
		ObjRot:    floats(colObjRot),
		ObjTrans:  floats(colObjTrans),
		ObjName:   str(colObjName),
		Side:      str(colSide),
		Frame:     int(rec.Column(colFrame).(*array.Int64).Value(0)),
		Order:     str(colOrder),
	}

	jl := rec.Column(colHandJoints3D).(*array.List)
	if jl.IsValid(0) {
		start, end := jl.ValueOffsets(0)
		points := jl.ListValues().(*array.FixedSizeList)
		coords := points.ListValues().(*array.Float64).Float64Values()
		fr.HandJoints3D = make([][]float64, 0, end-start)
		for i := start; i < end; i++ {
			ps, pe := points.ValueOffsets(int(i))
			fr.HandJoints3D = append(fr.HandJoints3D, append([]float64(nil), coords[ps:pe]...))
		}
	}
	return fr, nil
}
