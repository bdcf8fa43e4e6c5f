// Package dataset implements in-memory supervised learning datasets of
// input and label rows
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// ErrEmpty is returned when a dataset would contain no samples
var ErrEmpty = errors.New("dataset: no samples")

// Dataset stores samples as rows of an input matrix and a label matrix
type Dataset struct {
	inputs *mat.Dense
	labels *mat.Dense
}

// New returns a new Dataset of the rows of inputs and labels. The
// matrices are not copied.
func New(inputs, labels *mat.Dense) (*Dataset, error) {
	rows, _ := inputs.Dims()
	labelRows, _ := labels.Dims()
	if rows != labelRows {
		return nil, errors.Errorf("new: %v input rows but %v label rows",
			rows, labelRows)
	}
	return &Dataset{inputs, labels}, nil
}

// LoadCSV loads a Dataset from the CSV file at path. The last
// labelCols columns of each record are labels and the rest are
// inputs. If header is true, the first record is skipped.
func LoadCSV(path string, labelCols int, header bool) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "loadCSV: could not open dataset")
	}
	defer file.Close()

	d, err := ReadCSV(file, labelCols, header)
	if err != nil {
		return nil, errors.Wrapf(err, "loadCSV: %v", path)
	}
	return d, nil
}

// ReadCSV reads a Dataset from CSV records in r, as in LoadCSV
func ReadCSV(r io.Reader, labelCols int, header bool) (*Dataset, error) {
	if labelCols <= 0 {
		return nil, errors.Errorf("readCSV: label columns must be "+
			"positive, got %v", labelCols)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "readCSV")
	}
	if header && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	cols := len(records[0])
	features := cols - labelCols
	if features <= 0 {
		return nil, errors.Errorf("readCSV: %v columns cannot hold %v "+
			"label columns and at least one input", cols, labelCols)
	}

	inputs := mat.NewDense(len(records), features, nil)
	labels := mat.NewDense(len(records), labelCols, nil)
	for i, record := range records {
		for j, field := range record {
			value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "readCSV: record %v column %v",
					i, j)
			}
			if j < features {
				inputs.Set(i, j, value)
			} else {
				labels.Set(i, j-features, value)
			}
		}
	}

	return &Dataset{inputs, labels}, nil
}

// Len returns the number of samples in the dataset
func (d *Dataset) Len() int {
	rows, _ := d.inputs.Dims()
	return rows
}

// Features returns the number of input features of each sample
func (d *Dataset) Features() int {
	_, cols := d.inputs.Dims()
	return cols
}

// Outputs returns the number of labels of each sample
func (d *Dataset) Outputs() int {
	_, cols := d.labels.Dims()
	return cols
}

// Inputs returns the input matrix
func (d *Dataset) Inputs() mat.Matrix {
	return d.inputs
}

// Labels returns the label matrix
func (d *Dataset) Labels() mat.Matrix {
	return d.labels
}

// Row returns copies of the inputs and labels of sample i
func (d *Dataset) Row(i int) (x, y []float64) {
	if i < 0 || i >= d.Len() {
		panic(fmt.Sprintf("row: index %v ∉ [0, %v)", i, d.Len()))
	}
	x = mat.Row(nil, i, d.inputs)
	y = mat.Row(nil, i, d.labels)
	return x, y
}

// Batch returns the inputs and labels of size consecutive samples
// starting at sample start, flattened in row major order
func (d *Dataset) Batch(start, size int) (x, y []float64) {
	if start < 0 || size <= 0 || start+size > d.Len() {
		panic(fmt.Sprintf("batch: samples [%v, %v) ∉ [0, %v)", start,
			start+size, d.Len()))
	}

	x = make([]float64, 0, size*d.Features())
	y = make([]float64, 0, size*d.Outputs())
	for i := start; i < start+size; i++ {
		x = append(x, d.inputs.RawRowView(i)...)
		y = append(y, d.labels.RawRowView(i)...)
	}
	return x, y
}

// Shuffle permutes the samples of the dataset in place using src
func (d *Dataset) Shuffle(src rand.Source) {
	rng := rand.New(src)
	rng.Shuffle(d.Len(), func(i, j int) {
		swapRows(d.inputs, i, j)
		swapRows(d.labels, i, j)
	})
}

// Split splits the dataset into two datasets, the first holding the
// leading frac of samples and the second the rest. Both share no
// memory with d.
func (d *Dataset) Split(frac float64) (*Dataset, *Dataset, error) {
	if frac <= 0 || frac >= 1 {
		return nil, nil, errors.Errorf("split: fraction %v ∉ (0, 1)", frac)
	}
	n := int(frac * float64(d.Len()))
	if n == 0 || n == d.Len() {
		return nil, nil, ErrEmpty
	}

	first := &Dataset{
		inputs: mat.DenseCopyOf(d.inputs.Slice(0, n, 0, d.Features())),
		labels: mat.DenseCopyOf(d.labels.Slice(0, n, 0, d.Outputs())),
	}
	second := &Dataset{
		inputs: mat.DenseCopyOf(d.inputs.Slice(n, d.Len(), 0, d.Features())),
		labels: mat.DenseCopyOf(d.labels.Slice(n, d.Len(), 0, d.Outputs())),
	}
	return first, second, nil
}

// swapRows swaps rows i and j of m
func swapRows(m *mat.Dense, i, j int) {
	if i == j {
		return
	}
	rowI := m.RawRowView(i)
	rowJ := m.RawRowView(j)
	for k := range rowI {
		rowI[k], rowJ[k] = rowJ[k], rowI[k]
	}
}
