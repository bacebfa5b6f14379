package memory

import (
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/queryspec"
	"github.com/hugr-lab/queryspec/internal/recovery"
)

// MatchRecordBatch evaluates the filter row by row and returns the mask of
// matching rows. Cells become candidate attributes under their column name;
// a NULL cell is a nil value. A nil filter matches every row.
func MatchRecordBatch(rec arrow.RecordBatch, filter queryspec.FilterSpecification) ([]bool, error) {
	mask := make([]bool, rec.NumRows())
	if filter == nil {
		for i := range mask {
			mask[i] = true
		}
		return mask, nil
	}
	pred, err := CompilePredicate(filter)
	if err != nil {
		return nil, err
	}
	src := newRowSource(rec)
	return recovery.RecoverToValue(slog.Default(), "record batch filter", func() ([]bool, error) {
		for i := range mask {
			src.row = i
			ok, err := pred(src)
			if err != nil {
				return nil, err
			}
			mask[i] = ok
		}
		return mask, nil
	})
}

// FilterRecordBatch returns a new batch holding the rows matching the filter.
// The caller releases the returned batch. Every column must be of a supported
// type: bool, signed and unsigned integers, floats, string and timestamp.
func FilterRecordBatch(mem memory.Allocator, rec arrow.RecordBatch, filter queryspec.FilterSpecification) (arrow.RecordBatch, error) {
	mask, err := MatchRecordBatch(rec, filter)
	if err != nil {
		return nil, err
	}
	builder := array.NewRecordBuilder(mem, rec.Schema())
	defer builder.Release()
	for i := 0; i < int(rec.NumCols()); i++ {
		if err := appendMasked(builder.Field(i), rec.Column(i), mask); err != nil {
			return nil, err
		}
	}
	return builder.NewRecordBatch(), nil
}

// rowSource presents one row of a record batch as an attribute source keyed
// by column name. The first column wins a duplicated name.
type rowSource struct {
	rec  arrow.RecordBatch
	cols map[string]int
	row  int
}

func newRowSource(rec arrow.RecordBatch) *rowSource {
	schema := rec.Schema()
	cols := make(map[string]int, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		name := schema.Field(i).Name
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}
	return &rowSource{rec: rec, cols: cols}
}

func (r *rowSource) Attribute(name string) (any, bool) {
	i, ok := r.cols[name]
	if !ok {
		return nil, false
	}
	return cellValue(r.rec.Column(i), r.row)
}

// cellValue reads one cell as a comparison value. NULL cells read as nil,
// timestamps as time.Time in their unit's precision.
func cellValue(col arrow.Array, row int) (any, bool) {
	if col.IsNull(row) {
		return nil, true
	}
	switch arr := col.(type) {
	case *array.Boolean:
		return arr.Value(row), true
	case *array.Int8:
		return arr.Value(row), true
	case *array.Int16:
		return arr.Value(row), true
	case *array.Int32:
		return arr.Value(row), true
	case *array.Int64:
		return arr.Value(row), true
	case *array.Uint8:
		return arr.Value(row), true
	case *array.Uint16:
		return arr.Value(row), true
	case *array.Uint32:
		return arr.Value(row), true
	case *array.Uint64:
		return arr.Value(row), true
	case *array.Float32:
		return arr.Value(row), true
	case *array.Float64:
		return arr.Value(row), true
	case *array.String:
		return arr.Value(row), true
	case *array.Timestamp:
		return arr.Value(row).ToTime(arr.DataType().(*arrow.TimestampType).Unit), true
	}
	return nil, false
}

func appendMasked(b array.Builder, col arrow.Array, mask []bool) error {
	switch arr := col.(type) {
	case *array.Boolean:
		appendCells(b.(*array.BooleanBuilder), arr, mask)
	case *array.Int8:
		appendCells(b.(*array.Int8Builder), arr, mask)
	case *array.Int16:
		appendCells(b.(*array.Int16Builder), arr, mask)
	case *array.Int32:
		appendCells(b.(*array.Int32Builder), arr, mask)
	case *array.Int64:
		appendCells(b.(*array.Int64Builder), arr, mask)
	case *array.Uint8:
		appendCells(b.(*array.Uint8Builder), arr, mask)
	case *array.Uint16:
		appendCells(b.(*array.Uint16Builder), arr, mask)
	case *array.Uint32:
		appendCells(b.(*array.Uint32Builder), arr, mask)
	case *array.Uint64:
		appendCells(b.(*array.Uint64Builder), arr, mask)
	case *array.Float32:
		appendCells(b.(*array.Float32Builder), arr, mask)
	case *array.Float64:
		appendCells(b.(*array.Float64Builder), arr, mask)
	case *array.String:
		appendCells(b.(*array.StringBuilder), arr, mask)
	case *array.Timestamp:
		appendCells(b.(*array.TimestampBuilder), arr, mask)
	default:
		return fmt.Errorf("memory: unsupported column type %s", col.DataType())
	}
	return nil
}

type valueArray[T any] interface {
	arrow.Array
	Value(int) T
}

type valueBuilder[T any] interface {
	Append(T)
	AppendNull()
}

func appendCells[T any](b valueBuilder[T], arr valueArray[T], mask []bool) {
	for row, keep := range mask {
		if !keep {
			continue
		}
		if arr.IsNull(row) {
			b.AppendNull()
			continue
		}
		b.Append(arr.Value(row))
	}
}
