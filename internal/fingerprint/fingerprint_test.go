// internal/fingerprint/fingerprint_test.go
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"

	"github.com/creativeyann17/go-pack/internal/errs"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", XXH3, false},
		{"xxh3", XXH3, false},
		{"BLAKE3", BLAKE3, false},
		{"sha256", SHA256, false},
		{"md5", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownAlgorithm, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFingerprintMatchesReferenceDigest(t *testing.T) {
	data := bytes.Repeat([]byte("time machine logs "), 4096)

	b3 := blake3.Sum256(data)
	s2 := sha256.Sum256(data)
	want := map[Algorithm]string{
		XXH3:   fmt.Sprintf("%016x", xxh3.Hash(data)),
		BLAKE3: hex.EncodeToString(b3[:]),
		SHA256: hex.EncodeToString(s2[:]),
	}

	path := writeFile(t, "data.bin", data)
	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			// Buffer far smaller than the input exercises chunk boundaries
			h, err := New(alg, 1000)
			require.NoError(t, err)

			got, err := h.Fingerprint(path)
			require.NoError(t, err)
			assert.Equal(t, want[alg], got)
		})
	}
}

func TestFingerprintDeterministicOnContent(t *testing.T) {
	h, err := New(Default, 0)
	require.NoError(t, err)

	a := writeFile(t, "a.txt", []byte("same bytes"))
	b := writeFile(t, "b.txt", []byte("same bytes"))
	c := writeFile(t, "c.txt", []byte("other bytes"))

	fa, err := h.Fingerprint(a)
	require.NoError(t, err)
	fb, err := h.Fingerprint(b)
	require.NoError(t, err)
	fc, err := h.Fingerprint(c)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)
}

func TestFingerprintMissingFileIsHashError(t *testing.T) {
	h, err := New(BLAKE3, 0)
	require.NoError(t, err)

	_, err = h.Fingerprint(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrHash)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFuncAdapter(t *testing.T) {
	var fp Fingerprinter = Func(func(path string) (string, error) {
		return "fixed:" + filepath.Base(path), nil
	})
	got, err := fp.Fingerprint("/x/y.txt")
	require.NoError(t, err)
	assert.Equal(t, "fixed:y.txt", got)
}

func TestDigestMatchesSum(t *testing.T) {
	data := bytes.Repeat([]byte("streamed "), 10000)

	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			h, err := New(alg, 4096)
			require.NoError(t, err)

			want, err := h.Sum(bytes.NewReader(data))
			require.NoError(t, err)

			d, err := h.Digest()
			require.NoError(t, err)
			for chunk := range slices.Chunk(data, 777) {
				_, err := d.Write(chunk)
				require.NoError(t, err)
			}
			assert.Equal(t, want, d.Fingerprint())

			var _ Streamer = h
		})
	}
}

func TestDigestUnknownAlgorithm(t *testing.T) {
	_, err := (&Hasher{alg: "md5"}).Digest()
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
