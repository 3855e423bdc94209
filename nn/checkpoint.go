package nn

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/jssp-rl/jssp-ppo/types"
	"github.com/jssp-rl/jssp-ppo/util"
)

type matrixBlob struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

type paramsBlob struct {
	In      int          `json:"in"`
	Hidden  int          `json:"hidden"`
	Out     int          `json:"out"`
	Weights []matrixBlob `json:"weights"`
}

// MarshalParams serializes the network parameters as an opaque JSON blob.
func (m *MLP) MarshalParams() ([]byte, error) {
	blob := paramsBlob{In: m.in, Hidden: m.hidden, Out: m.out}
	for _, p := range m.params() {
		rows, cols := p.Dims()
		data := make([]float64, rows*cols)
		copy(data, p.RawMatrix().Data)
		blob.Weights = append(blob.Weights, matrixBlob{Rows: rows, Cols: cols, Data: data})
	}
	return json.Marshal(blob)
}

// UnmarshalParams restores parameters previously produced by MarshalParams.
// The blob's shape must match the network's.
func (m *MLP) UnmarshalParams(data []byte) error {
	var blob paramsBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("%w: %v", types.ErrCheckpointIO, err)
	}
	if blob.In != m.in || blob.Hidden != m.hidden || blob.Out != m.out {
		return fmt.Errorf("%w: parameter shape (%d,%d,%d) does not match network (%d,%d,%d)",
			types.ErrCheckpointIO, blob.In, blob.Hidden, blob.Out, m.in, m.hidden, m.out)
	}
	params := m.params()
	if len(blob.Weights) != len(params) {
		return fmt.Errorf("%w: expected %d weight matrices, got %d", types.ErrCheckpointIO, len(params), len(blob.Weights))
	}
	for i, w := range blob.Weights {
		rows, cols := params[i].Dims()
		if w.Rows != rows || w.Cols != cols || len(w.Data) != rows*cols {
			return fmt.Errorf("%w: weight %d has shape (%d,%d)", types.ErrCheckpointIO, i, w.Rows, w.Cols)
		}
		params[i].Copy(mat.NewDense(rows, cols, w.Data))
	}
	return nil
}

// SaveParams writes the parameter blob to path through a temp-file rename,
// so an interrupted save never corrupts an existing checkpoint.
func (m *MLP) SaveParams(path string) error {
	data, err := m.MarshalParams()
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrCheckpointIO, err)
	}
	if err := util.AtomicWriteFile(path, data); err != nil {
		return fmt.Errorf("%w: %v", types.ErrCheckpointIO, err)
	}
	return nil
}

// LoadParams reads a parameter blob from path.
func (m *MLP) LoadParams(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrCheckpointIO, err)
	}
	return m.UnmarshalParams(data)
}
