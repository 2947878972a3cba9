package logreg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/davecgh/go-xdr/xdr2"
	"github.com/google/uuid"
)

// ArtifactVersion is bumped whenever the encoded layout changes.
const ArtifactVersion uint32 = 1

var artifactMagic = []byte("MLSLOGR\x00")

var ErrInvalidArtifact = errors.New("invalid model artifact")

type artifact struct {
	Version   uint32
	ID        string
	TrainedAt int64
	Classes   []float64
	Coef      []float64
	Intercept float64
	NIter     int32
	Converged bool
	Accuracy  float64
}

// Encode writes the fitted model as a magic header followed by an XDR body.
func (m *Model) Encode(w io.Writer) error {
	if m.coef == nil {
		return ErrNotFitted
	}
	if _, err := w.Write(artifactMagic); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	a := artifact{
		Version:   ArtifactVersion,
		ID:        m.id.String(),
		TrainedAt: m.trainedAt.UnixNano(),
		Classes:   m.classes,
		Coef:      m.coef,
		Intercept: m.intercept,
		NIter:     int32(m.nIter),
		Converged: m.converged,
		Accuracy:  m.accuracy,
	}
	if _, err := xdr.Marshal(w, a); err != nil {
		return fmt.Errorf("xdr marshal: %w", err)
	}
	return nil
}

// Decode reads a model written by Encode.
func Decode(r io.Reader) (*Model, error) {
	header := make([]byte, len(artifactMagic))
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidArtifact, err)
	}
	if !bytes.Equal(header, artifactMagic) {
		return nil, fmt.Errorf("%w: unknown header %q", ErrInvalidArtifact, header)
	}

	var a artifact
	if _, err := xdr.Unmarshal(r, &a); err != nil {
		return nil, fmt.Errorf("%w: xdr unmarshal: %v", ErrInvalidArtifact, err)
	}
	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidArtifact, a.Version)
	}
	if len(a.Classes) != 2 {
		return nil, fmt.Errorf("%w: %d classes", ErrInvalidArtifact, len(a.Classes))
	}
	if len(a.Coef) == 0 {
		return nil, fmt.Errorf("%w: empty coefficients", ErrInvalidArtifact)
	}
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: artifact id: %v", ErrInvalidArtifact, err)
	}

	m := New()
	m.id = id
	m.trainedAt = time.Unix(0, a.TrainedAt).UTC()
	m.classes = a.Classes
	m.coef = a.Coef
	m.intercept = a.Intercept
	m.nIter = int(a.NIter)
	m.converged = a.Converged
	m.accuracy = a.Accuracy
	return m, nil
}

// Save writes the artifact next to path and renames it into place, so a
// reader never observes a partially written file.
func (m *Model) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := m.Encode(bw); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	m, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}
